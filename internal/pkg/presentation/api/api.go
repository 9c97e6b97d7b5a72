package api

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/traffic-dashboard/internal/pkg/application/services"
	trafficsvc "github.com/diwise/traffic-dashboard/internal/pkg/application/services/traffic"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:embed templates/*.html
var templates embed.FS

type API interface {
	services.Starter
	Handler() http.Handler
}

type Settings struct {
	ListenAddress   string
	ShutdownTimeout time.Duration
	Title           string
}

func New(ctx context.Context, svc trafficsvc.TrafficService, settings Settings) API {
	if settings.Title == "" {
		settings.Title = "Hyderabad Traffic Monitor"
	}
	if settings.ShutdownTimeout <= 0 {
		settings.ShutdownTimeout = 10 * time.Second
	}

	router := newRouter(ctx, svc, settings)

	return &dashboardAPI{
		settings: settings,
		handler:  otelhttp.NewHandler(router, "traffic-dashboard"),
	}
}

type dashboardAPI struct {
	settings Settings
	handler  http.Handler
}

func (a *dashboardAPI) Handler() http.Handler {
	return a.handler
}

// Start listens on the configured address and serves until ctx is cancelled.
// done is closed once the server has shut down.
func (a *dashboardAPI) Start(ctx context.Context) (chan struct{}, error) {
	log := logging.GetFromContext(ctx)

	listener, err := net.Listen("tcp", a.settings.ListenAddress)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	serveErr := make(chan error, 1)

	go func() {
		serveErr <- server.Serve(listener)
	}()

	go func() {
		defer close(done)

		select {
		case err := <-serveErr:
			if !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server stopped unexpectedly", "err", err.Error())
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.settings.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("failed to shut down http server", "err", err.Error())
			}
		}
	}()

	log.Info("dashboard listening", "address", listener.Addr().String())

	return done, nil
}

func newRouter(ctx context.Context, svc trafficsvc.TrafficService, settings Settings) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logging.GetFromContext(ctx)))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))

	h := &handler{svc: svc, title: settings.Title}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", h.index)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/roads", h.roads)
		v1.GET("/view", h.view)
		v1.GET("/rows", h.rows)
		v1.GET("/markers.geojson", h.markers)
		v1.POST("/refresh", h.refresh)
	}

	return r
}
