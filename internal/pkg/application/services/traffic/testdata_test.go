package trafficsvc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const scenarioCSV string = `road_name,latitude,longitude,avg_speed_kmh,congestion_level,incident_type
MG Road,17.40,78.48,20,Heavy,None
MG Road,17.41,78.49,40,Free,None
`

const hyderabadCSV string = `road_name,latitude,longitude,avg_speed_kmh,congestion_level,incident_type
Tank Bund Road,17.4239,78.4738,32.5,Moderate,None
MG Road,17.3850,78.4867,18,Heavy,Accident
Banjara Hills Road 1,17.4126,78.4482,12,Very Heavy,Road Work
MG Road,17.3870,78.4890,26,Moderate,None
Hitech City Road,17.4435,78.3772,45,Free,
`

type countingSource struct {
	body    []byte
	err     error
	fetches int
}

func (cs *countingSource) Fetch(ctx context.Context) ([]byte, error) {
	cs.fetches++
	if cs.err != nil {
		return nil, cs.err
	}
	return cs.body, nil
}

func (cs *countingSource) String() string {
	return "counting"
}

func writeCSV(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "traffic.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %s", err.Error())
	}

	return path
}
