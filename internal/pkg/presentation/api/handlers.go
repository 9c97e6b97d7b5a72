package api

import (
	"net/http"
	"time"

	trafficsvc "github.com/diwise/traffic-dashboard/internal/pkg/application/services/traffic"
	"github.com/diwise/traffic-dashboard/internal/pkg/trafficdata"
	"github.com/gin-gonic/gin"
)

type handler struct {
	svc   trafficsvc.TrafficService
	title string
}

type viewQuery struct {
	Road string `form:"road"`
}

type viewResponse struct {
	Selection string               `json:"selection"`
	Summary   trafficsvc.Summary   `json:"summary"`
	Map       trafficsvc.MapView   `json:"map"`
	Rows      []trafficdata.Sample `json:"rows"`
	Issues    []string             `json:"issues"`
	Bounds    *trafficsvc.Bounds   `json:"data_bounds,omitempty"`
	Source    string               `json:"source"`
	LoadedAt  time.Time            `json:"loaded_at"`
}

type rowsResponse struct {
	Selection string               `json:"selection"`
	Count     int                  `json:"count"`
	Rows      []trafficdata.Sample `json:"rows"`
}

func selection(c *gin.Context) (trafficdata.RoadSelection, bool) {
	var q viewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: "invalid query parameters"})
		return "", false
	}
	return trafficdata.SelectRoad(q.Road), true
}

func (h *handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":    h.title,
		"AllRoads": trafficdata.AllRoads,
	})
}

// roads handles GET /api/v1/roads
func (h *handler) roads(c *gin.Context) {
	options, err := h.svc.RoadOptions(c.Request.Context())
	if err != nil {
		failure(c, err)
		return
	}

	success(c, gin.H{"roads": options})
}

// view handles GET /api/v1/view
func (h *handler) view(c *gin.Context) {
	sel, ok := selection(c)
	if !ok {
		return
	}

	vm, err := h.svc.BuildView(c.Request.Context(), sel)
	if err != nil {
		failure(c, err)
		return
	}

	success(c, newViewResponse(vm))
}

// rows handles GET /api/v1/rows
func (h *handler) rows(c *gin.Context) {
	sel, ok := selection(c)
	if !ok {
		return
	}

	vm, err := h.svc.BuildView(c.Request.Context(), sel)
	if err != nil {
		failure(c, err)
		return
	}

	success(c, rowsResponse{
		Selection: vm.Selection.String(),
		Count:     len(vm.Rows),
		Rows:      vm.Rows,
	})
}

// markers handles GET /api/v1/markers.geojson
func (h *handler) markers(c *gin.Context) {
	sel, ok := selection(c)
	if !ok {
		return
	}

	vm, err := h.svc.BuildView(c.Request.Context(), sel)
	if err != nil {
		failure(c, err)
		return
	}

	body, err := markersAsGeoJSON(vm.Map.Markers)
	if err != nil {
		failure(c, err)
		return
	}

	c.Data(http.StatusOK, "application/geo+json", body)
}

// refresh handles POST /api/v1/refresh
func (h *handler) refresh(c *gin.Context) {
	sel, ok := selection(c)
	if !ok {
		return
	}

	vm, err := h.svc.Refresh(c.Request.Context(), sel)
	if err != nil {
		failure(c, err)
		return
	}

	success(c, newViewResponse(vm))
}

func newViewResponse(vm *trafficsvc.ViewModel) viewResponse {
	issues := make([]string, 0, len(vm.Issues))
	for _, err := range vm.Issues {
		issues = append(issues, err.Error())
	}

	return viewResponse{
		Selection: vm.Selection.String(),
		Summary:   vm.Summary,
		Map:       vm.Map,
		Rows:      vm.Rows,
		Issues:    issues,
		Bounds:    vm.Bounds,
		Source:    vm.Source,
		LoadedAt:  vm.LoadedAt,
	}
}
