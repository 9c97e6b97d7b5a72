package trafficsvc

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/diwise/traffic-dashboard/internal/pkg/trafficdata"
	"github.com/matryer/is"
)

func TestSelectedRoadView(t *testing.T) {
	is, svc, _ := setupTrafficService(t, scenarioCSV)

	vm, err := svc.BuildView(context.Background(), trafficdata.SelectRoad("MG Road"))
	is.NoErr(err)

	is.Equal(len(vm.Rows), 2)
	is.Equal(vm.Summary.AvgSpeed, 30.0)
	is.Equal(vm.Summary.Congestion, "Heavy") // representative row is the first match
	is.Equal(vm.Summary.Incident, "None")
	is.Equal(vm.Map.Center, LatLon{Lat: 17.40, Lon: 78.48})
	is.Equal(vm.Map.Zoom, 15)
	is.Equal(len(vm.Map.HeatPoints), 2)
	is.Equal(len(vm.Map.Markers), 2)
	is.Equal(len(vm.Issues), 0)
}

func TestAllRoadsView(t *testing.T) {
	is, svc, _ := setupTrafficService(t, hyderabadCSV)

	vm, err := svc.BuildView(context.Background(), trafficdata.SelectRoad(trafficdata.AllRoads))
	is.NoErr(err)

	is.Equal(len(vm.Rows), 5)
	is.Equal(vm.Map.Center, HyderabadCenter)
	is.Equal(vm.Map.Zoom, 12)
	is.Equal(vm.Summary.AvgSpeed, 26.7) // (32.5 + 18 + 12 + 26 + 45) / 5 = 26.7
	is.Equal(vm.Summary.Congestion, "Moderate")
	is.True(vm.Bounds != nil) // bounds cover the whole table
}

func TestThatAStaleSelectionAfterRefreshIsAnEmptySelection(t *testing.T) {
	is, svc, path := setupTrafficService(t, hyderabadCSV)

	_, err := svc.BuildView(context.Background(), trafficdata.SelectRoad("Tank Bund Road"))
	is.NoErr(err)

	is.NoErr(os.WriteFile(path, []byte(scenarioCSV), 0o644))

	_, err = svc.Refresh(context.Background(), trafficdata.SelectRoad("Tank Bund Road"))
	is.True(errors.Is(err, ErrEmptySelection))

	vm, err := svc.BuildView(context.Background(), trafficdata.SelectRoad("MG Road"))
	is.NoErr(err) // a failed render must not prevent the next one
	is.Equal(len(vm.Rows), 2)
}

func TestThatUnknownCongestionDoesNotBlockTheView(t *testing.T) {
	is, svc, _ := setupTrafficService(t, scenarioCSV+"MG Road,17.42,78.50,3,Blocked,Accident\n")

	vm, err := svc.BuildView(context.Background(), trafficdata.SelectRoad("MG Road"))
	is.NoErr(err)

	is.Equal(len(vm.Rows), 3)
	is.Equal(len(vm.Map.HeatPoints), 3)
	is.Equal(len(vm.Map.Markers), 2)
	is.Equal(len(vm.Issues), 1)
	is.True(errors.Is(vm.Issues[0], ErrUnknownCongestionLevel))
}

func TestThatMissingDataIsReported(t *testing.T) {
	is := is.New(t)
	svc := NewTrafficService(NewCache(NewFileSource("does-not-exist.csv")), HyderabadCenter)

	_, err := svc.BuildView(context.Background(), trafficdata.SelectRoad(trafficdata.AllRoads))
	is.True(errors.Is(err, ErrDataUnavailable))

	_, err = svc.RoadOptions(context.Background())
	is.True(errors.Is(err, ErrDataUnavailable))
}

func TestRoadOptions(t *testing.T) {
	is, svc, _ := setupTrafficService(t, hyderabadCSV)

	options, err := svc.RoadOptions(context.Background())
	is.NoErr(err)
	is.Equal(options, []string{"All Roads", "Banjara Hills Road 1", "Hitech City Road", "MG Road", "Tank Bund Road"})
}

func TestThatRefreshRereadsTheSource(t *testing.T) {
	is := is.New(t)
	src := &countingSource{body: []byte(scenarioCSV)}
	svc := NewTrafficService(NewCache(src), HyderabadCenter)

	_, err := svc.BuildView(context.Background(), trafficdata.SelectRoad("MG Road"))
	is.NoErr(err)
	_, err = svc.BuildView(context.Background(), trafficdata.SelectRoad(trafficdata.AllRoads))
	is.NoErr(err)
	is.Equal(src.fetches, 1)

	_, err = svc.Refresh(context.Background(), trafficdata.SelectRoad("MG Road"))
	is.NoErr(err)
	is.Equal(src.fetches, 2)
}

func setupTrafficService(t *testing.T, contents string) (*is.I, TrafficService, string) {
	is := is.New(t)
	path := writeCSV(t, contents)
	svc := NewTrafficService(NewCache(NewFileSource(path)), HyderabadCenter)

	return is, svc, path
}
