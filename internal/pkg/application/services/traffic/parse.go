package trafficsvc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/traffic-dashboard/internal/pkg/trafficdata"
)

const (
	colRoadName   string = "road_name"
	colLatitude   string = "latitude"
	colLongitude  string = "longitude"
	colAvgSpeed   string = "avg_speed_kmh"
	colCongestion string = "congestion_level"
	colIncident   string = "incident_type"
)

var requiredColumns = []string{colRoadName, colLatitude, colLongitude, colAvgSpeed, colCongestion, colIncident}

// parseTable reads a delimited file with a header row. Column order is free,
// but every required column must be present and every row must be well formed.
func parseTable(r io.Reader, source string, loadedAt time.Time) (*trafficdata.Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", ErrDataUnavailable, source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %s", ErrDataUnavailable, err.Error())
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	rows := make([]trafficdata.Sample, 0)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, err.Error())
		}

		line, _ := reader.FieldPos(0)

		sample, err := parseSample(record, columns)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrDataUnavailable, line, err.Error())
		}

		rows = append(rows, sample)
	}

	return trafficdata.NewTable(rows, source, loadedAt), nil
}

func indexColumns(header []string) (map[string]int, error) {
	columns := map[string]int{}

	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		h = strings.ToLower(strings.TrimSpace(h))
		if _, ok := columns[h]; !ok {
			columns[h] = i
		}
	}

	missing := make([]string, 0)
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns %s", ErrDataUnavailable, strings.Join(missing, ", "))
	}

	return columns, nil
}

func parseSample(record []string, columns map[string]int) (trafficdata.Sample, error) {
	road := record[columns[colRoadName]]
	if strings.TrimSpace(road) == "" {
		return trafficdata.Sample{}, fmt.Errorf("column %s: road name must not be blank", colRoadName)
	}

	lat, err := parseFloat(record, columns, colLatitude)
	if err != nil {
		return trafficdata.Sample{}, err
	}

	lon, err := parseFloat(record, columns, colLongitude)
	if err != nil {
		return trafficdata.Sample{}, err
	}

	speed, err := parseFloat(record, columns, colAvgSpeed)
	if err != nil {
		return trafficdata.Sample{}, err
	}
	if speed < 0 || math.IsInf(speed, 0) {
		return trafficdata.Sample{}, fmt.Errorf("column %s: speed must be a non-negative number, got %v", colAvgSpeed, speed)
	}

	sample := trafficdata.NewSample(
		road,
		lat, lon, speed,
		record[columns[colCongestion]],
		record[columns[colIncident]],
	)

	if !sample.LatLng().IsValid() {
		return trafficdata.Sample{}, fmt.Errorf("invalid coordinate (%v, %v)", lat, lon)
	}

	return sample, nil
}

func parseFloat(record []string, columns map[string]int, column string) (float64, error) {
	value := strings.TrimSpace(record[columns[column]])

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) {
		return 0, fmt.Errorf("column %s: %q is not a number", column, value)
	}

	return f, nil
}
