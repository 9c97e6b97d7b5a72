package api

import (
	trafficsvc "github.com/diwise/traffic-dashboard/internal/pkg/application/services/traffic"
	geojson "github.com/paulmach/go.geojson"
)

func markersAsGeoJSON(markers []trafficsvc.Marker) ([]byte, error) {
	fc := geojson.NewFeatureCollection()

	for _, m := range markers {
		f := geojson.NewPointFeature([]float64{m.Lon, m.Lat})
		f.SetProperty("road_name", m.Sample.RoadName)
		f.SetProperty("avg_speed_kmh", m.Sample.AvgSpeed)
		f.SetProperty("congestion_level", m.Sample.CongestionLabel)
		f.SetProperty("incident_type", m.Sample.Incident)
		f.SetProperty("color", m.Color)
		f.SetProperty("label", m.Label)
		fc.AddFeature(f)
	}

	return fc.MarshalJSON()
}
