package trafficsvc

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/diwise/traffic-dashboard/internal/pkg/trafficdata"
	"go.opentelemetry.io/otel/attribute"
)

// Cache owns the single in-memory slot holding the traffic table. Load reads
// the source at most once until Invalidate is called.
type Cache struct {
	mu     sync.Mutex
	source Source
	table  *trafficdata.Table
	now    func() time.Time
}

func NewCache(source Source) *Cache {
	return &Cache{
		source: source,
		now:    time.Now,
	}
}

func (c *Cache) Load(ctx context.Context) (*trafficdata.Table, error) {
	var err error

	ctx, span := tracer.Start(ctx, "load-traffic-table")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.table != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return c.table, nil
	}

	span.SetAttributes(attribute.Bool("cache.hit", false), attribute.String("source", c.source.String()))

	log := logging.GetFromContext(ctx)
	start := time.Now()

	body, err := c.source.Fetch(ctx)
	if err != nil {
		log.Error("failed to fetch traffic data", "source", c.source.String(), "err", err.Error())
		return nil, err
	}

	table, err := parseTable(bytes.NewReader(body), c.source.String(), c.now())
	if err != nil {
		log.Error("failed to parse traffic data", "source", c.source.String(), "err", err.Error())
		return nil, err
	}

	c.table = table

	log.Info("loaded traffic table", "source", c.source.String(), "rows", table.Len(), "duration", time.Since(start))

	return table, nil
}

// Invalidate empties the slot so that the next Load re-reads the source.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.table = nil
}
