package api

import (
	"errors"
	"net/http"

	trafficsvc "github.com/diwise/traffic-dashboard/internal/pkg/application/services/traffic"
	"github.com/gin-gonic/gin"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	State   string `json:"state,omitempty"`
	Data    any    `json:"data,omitempty"`
}

const (
	stateUnavailable    string = "data_unavailable"
	stateEmptySelection string = "empty_selection"
	stateError          string = "error"
)

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// failure maps the service errors to a status code and a render state the
// dashboard page can show instead of a partial view.
func failure(c *gin.Context, err error) {
	_ = c.Error(err)

	code, state := http.StatusInternalServerError, stateError

	switch {
	case errors.Is(err, trafficsvc.ErrDataUnavailable):
		code, state = http.StatusServiceUnavailable, stateUnavailable
	case errors.Is(err, trafficsvc.ErrEmptySelection):
		code, state = http.StatusNotFound, stateEmptySelection
	}

	c.JSON(code, Response{
		Code:    code,
		Message: err.Error(),
		State:   state,
	})
}
