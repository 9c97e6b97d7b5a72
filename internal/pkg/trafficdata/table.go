package trafficdata

import (
	"sort"
	"time"

	"github.com/golang/geo/s2"
)

// Table is an immutable, ordered set of samples as read from one source.
type Table struct {
	rows     []Sample
	source   string
	loadedAt time.Time
	extent   s2.Rect
}

func NewTable(rows []Sample, source string, loadedAt time.Time) *Table {
	t := &Table{
		rows:     make([]Sample, len(rows)),
		source:   source,
		loadedAt: loadedAt,
		extent:   s2.EmptyRect(),
	}

	copy(t.rows, rows)

	for _, r := range t.rows {
		t.extent = t.extent.AddPoint(r.LatLng())
	}

	return t
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the samples in their original order.
func (t *Table) Rows() []Sample {
	rows := make([]Sample, len(t.rows))
	copy(rows, t.rows)
	return rows
}

func (t *Table) At(i int) Sample {
	return t.rows[i]
}

// RoadNames returns the distinct road names, sorted.
func (t *Table) RoadNames() []string {
	seen := map[string]struct{}{}
	names := make([]string, 0)

	for _, r := range t.rows {
		if _, ok := seen[r.RoadName]; ok {
			continue
		}
		seen[r.RoadName] = struct{}{}
		names = append(names, r.RoadName)
	}

	sort.Strings(names)

	return names
}

func (t *Table) Source() string {
	return t.source
}

func (t *Table) LoadedAt() time.Time {
	return t.loadedAt
}

// Extent is the bounding rectangle of all sample coordinates. It is empty for
// an empty table.
func (t *Table) Extent() s2.Rect {
	return t.extent
}
