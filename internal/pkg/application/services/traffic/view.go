package trafficsvc

import (
	"context"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/traffic-dashboard/internal/pkg/trafficdata"
	"github.com/golang/geo/s2"
)

// Filter returns the rows matching selection in table order. AllRoads returns
// every row.
func Filter(table *trafficdata.Table, selection trafficdata.RoadSelection) []trafficdata.Sample {
	if selection.IsAllRoads() {
		return table.Rows()
	}

	rows := make([]trafficdata.Sample, 0)
	for i := 0; i < table.Len(); i++ {
		if s := table.At(i); selection.Matches(s) {
			rows = append(rows, s)
		}
	}

	return rows
}

// RepresentativeRow returns the first row. Congestion, incident and the road
// map center are all taken from it rather than aggregated over every match.
// This is a known simplification and is kept as is.
func RepresentativeRow(rows []trafficdata.Sample) (trafficdata.Sample, error) {
	if len(rows) == 0 {
		return trafficdata.Sample{}, ErrEmptySelection
	}
	return rows[0], nil
}

func Summarize(rows []trafficdata.Sample) (Summary, error) {
	first, err := RepresentativeRow(rows)
	if err != nil {
		return Summary{}, err
	}

	total := 0.0
	for _, r := range rows {
		total += r.AvgSpeed
	}

	return Summary{
		AvgSpeed:   roundToOneDecimal(total / float64(len(rows))),
		Congestion: first.CongestionLabel,
		Incident:   first.Incident,
	}, nil
}

// roundToOneDecimal rounds half to even, so 20.25 becomes 20.2.
func roundToOneDecimal(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// ComposeMapView centers on metro at zoom 12 for AllRoads and on the first
// matching row at zoom 15 otherwise. There is no fit to bounds.
func ComposeMapView(rows []trafficdata.Sample, selection trafficdata.RoadSelection, metro LatLon) (MapView, error) {
	first, err := RepresentativeRow(rows)
	if err != nil {
		return MapView{}, err
	}

	mv := MapView{
		Center:      metro,
		Zoom:        AllRoadsZoom,
		Tiles:       DefaultTiles,
		TileURL:     DefaultTileURL,
		Heat:        DefaultHeatStyle,
		MarkerStyle: DefaultMarkerStyle,
	}

	if !selection.IsAllRoads() {
		mv.Center = LatLon{Lat: first.Latitude, Lon: first.Longitude}
		mv.Zoom = RoadZoom
	}

	return mv, nil
}

func HeatPoints(rows []trafficdata.Sample) []HeatPoint {
	points := make([]HeatPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, HeatPoint{Lat: r.Latitude, Lon: r.Longitude, Weight: 1})
	}
	return points
}

func MarkerColor(level trafficdata.CongestionLevel) (string, error) {
	switch level {
	case trafficdata.CongestionFree:
		return "green", nil
	case trafficdata.CongestionModerate:
		return "orange", nil
	case trafficdata.CongestionHeavy:
		return "red", nil
	case trafficdata.CongestionVeryHeavy:
		return "darkred", nil
	default:
		return "", ErrUnknownCongestionLevel
	}
}

// Markers builds one marker per row. Rows whose congestion level has no color
// are skipped and returned as issues, the remaining markers are unaffected.
func Markers(ctx context.Context, rows []trafficdata.Sample) ([]Marker, []error) {
	log := logging.GetFromContext(ctx)

	markers := make([]Marker, 0, len(rows))
	issues := make([]error, 0)

	for _, r := range rows {
		color, err := MarkerColor(r.Congestion)
		if err != nil {
			err = fmt.Errorf("%w %q for %s at (%v, %v)", err, r.CongestionLabel, r.RoadName, r.Latitude, r.Longitude)
			log.Warn("skipping marker", "road", r.RoadName, "err", err.Error())
			issues = append(issues, err)
			continue
		}

		markers = append(markers, Marker{
			Lat:    r.Latitude,
			Lon:    r.Longitude,
			Color:  color,
			Label:  Label(r),
			Sample: r,
		})
	}

	return markers, issues
}

// Label is the HTML popup shown when a marker is clicked.
func Label(s trafficdata.Sample) string {
	return fmt.Sprintf(
		"<b>%s</b><br>Speed: %s km/h<br>Congestion: %s<br>Incident: %s",
		html.EscapeString(s.RoadName),
		formatSpeed(s.AvgSpeed),
		html.EscapeString(s.CongestionLabel),
		html.EscapeString(s.Incident),
	)
}

// formatSpeed always keeps at least one decimal, 20 is shown as 20.0.
func formatSpeed(v float64) string {
	f := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(f, ".") {
		f += ".0"
	}
	return f
}

// DataBounds converts the extent of a loaded table into map bounds. It returns
// nil for an empty extent.
func DataBounds(extent s2.Rect) *Bounds {
	if extent.IsEmpty() {
		return nil
	}

	return &Bounds{
		South: extent.Lo().Lat.Degrees(),
		West:  extent.Lo().Lng.Degrees(),
		North: extent.Hi().Lat.Degrees(),
		East:  extent.Hi().Lng.Degrees(),
	}
}
