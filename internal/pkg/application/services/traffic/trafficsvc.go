package trafficsvc

import (
	"context"
	"fmt"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/diwise/traffic-dashboard/internal/pkg/trafficdata"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("traffic-dashboard/traffic")

type TrafficService interface {
	RoadOptions(ctx context.Context) ([]string, error)
	BuildView(ctx context.Context, selection trafficdata.RoadSelection) (*ViewModel, error)
	Refresh(ctx context.Context, selection trafficdata.RoadSelection) (*ViewModel, error)
}

func NewTrafficService(cache *Cache, metro LatLon) TrafficService {
	return &trafficSvc{
		cache: cache,
		metro: metro,
	}
}

type trafficSvc struct {
	cache *Cache
	metro LatLon
}

// RoadOptions returns the AllRoads sentinel followed by every distinct road
// name in the table, sorted.
func (ts *trafficSvc) RoadOptions(ctx context.Context) ([]string, error) {
	table, err := ts.cache.Load(ctx)
	if err != nil {
		return nil, err
	}

	return append([]string{trafficdata.AllRoads}, table.RoadNames()...), nil
}

func (ts *trafficSvc) BuildView(ctx context.Context, selection trafficdata.RoadSelection) (*ViewModel, error) {
	var err error

	ctx, span := tracer.Start(ctx, "build-view")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.String("selection", selection.String()))

	_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(
		span, logging.GetFromContext(ctx), ctx,
	)

	table, err := ts.cache.Load(ctx)
	if err != nil {
		return nil, err
	}

	rows := Filter(table, selection)
	if len(rows) == 0 {
		err = fmt.Errorf("%w: %q", ErrEmptySelection, selection.String())
		log.Info("selection matched no rows", "selection", selection.String())
		return nil, err
	}

	summary, err := Summarize(rows)
	if err != nil {
		return nil, err
	}

	mapView, err := ComposeMapView(rows, selection, ts.metro)
	if err != nil {
		return nil, err
	}

	mapView.HeatPoints = HeatPoints(rows)

	markers, issues := Markers(ctx, rows)
	mapView.Markers = markers

	log.Debug("built view", "selection", selection.String(), "rows", len(rows), "markers", len(markers), "issues", len(issues))

	return &ViewModel{
		Selection: selection,
		Rows:      rows,
		Summary:   summary,
		Map:       mapView,
		Issues:    issues,
		Bounds:    DataBounds(table.Extent()),
		Source:    table.Source(),
		LoadedAt:  table.LoadedAt(),
	}, nil
}

// Refresh drops the cached table and runs the whole pipeline again.
func (ts *trafficSvc) Refresh(ctx context.Context, selection trafficdata.RoadSelection) (*ViewModel, error) {
	var err error

	ctx, span := tracer.Start(ctx, "refresh")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	logging.GetFromContext(ctx).Info("refreshing traffic data", "selection", selection.String())

	ts.cache.Invalidate()

	vm, err := ts.BuildView(ctx, selection)
	return vm, err
}
