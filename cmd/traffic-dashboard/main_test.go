package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	trafficsvc "github.com/diwise/traffic-dashboard/internal/pkg/application/services/traffic"
	"github.com/matryer/is"
)

const trafficCSV string = `road_name,latitude,longitude,avg_speed_kmh,congestion_level,incident_type
MG Road,17.40,78.48,20,Heavy,None
MG Road,17.41,78.49,40,Free,None
Tank Bund Road,17.4239,78.4738,32.5,Moderate,Accident
`

func TestSummaryForARoad(t *testing.T) {
	is, path := setupTrafficFile(t, trafficCSV)

	out, err := execute(t, "summary", "--data-source", path, "--road", "MG Road")
	is.NoErr(err)

	is.True(strings.Contains(out, "Selection:   MG Road"))
	is.True(strings.Contains(out, "Samples:     2"))
	is.True(strings.Contains(out, "Avg Speed:   30 km/h"))
	is.True(strings.Contains(out, "Congestion:  Heavy"))
	is.True(strings.Contains(out, "Map center:  17.4, 78.48 (zoom 15)"))
}

func TestSummaryDefaultsToAllRoads(t *testing.T) {
	is, path := setupTrafficFile(t, trafficCSV)

	out, err := execute(t, "summary", "--data-source", path)
	is.NoErr(err)

	is.True(strings.Contains(out, "Selection:   All Roads"))
	is.True(strings.Contains(out, "Samples:     3"))
	is.True(strings.Contains(out, "(zoom 12)"))
}

func TestSummaryReadsTheDataSourceFromTheEnvironment(t *testing.T) {
	is, path := setupTrafficFile(t, trafficCSV)
	t.Setenv("TRAFFIC_DATA_SOURCE", path)

	out, err := execute(t, "summary", "--road", "Tank Bund Road")
	is.NoErr(err)
	is.True(strings.Contains(out, "Incident:    Accident"))
}

func TestSummaryForAnUnknownRoad(t *testing.T) {
	is, path := setupTrafficFile(t, trafficCSV)

	_, err := execute(t, "summary", "--data-source", path, "--road", "Ring Road")
	is.True(errors.Is(err, trafficsvc.ErrEmptySelection))
}

func TestSummaryWithMissingData(t *testing.T) {
	is := is.New(t)

	_, err := execute(t, "summary", "--data-source", filepath.Join(t.TempDir(), "missing.csv"))
	is.True(errors.Is(err, trafficsvc.ErrDataUnavailable))
}

func TestSummaryReportsSkippedMarkers(t *testing.T) {
	is, path := setupTrafficFile(t, trafficCSV+"MG Road,17.42,78.50,3,Blocked,None\n")

	out, err := execute(t, "summary", "--data-source", path, "--road", "MG Road")
	is.NoErr(err)
	is.True(strings.Contains(out, "Skipped:"))
	is.True(strings.Contains(out, "Blocked"))
}

func TestThatAnInvalidMetroCenterIsRejected(t *testing.T) {
	is, path := setupTrafficFile(t, trafficCSV)

	_, err := execute(t, "summary", "--data-source", path, "--metro-latitude", "95")
	is.True(err != nil)
}

func setupTrafficFile(t *testing.T, contents string) (*is.I, string) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "traffic.csv")
	is.NoErr(os.WriteFile(path, []byte(contents), 0o644))

	return is, path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}

	cmd := newRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}
