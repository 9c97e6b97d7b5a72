package trafficdata

import (
	"strings"

	"github.com/golang/geo/s2"
)

// NoIncident is the sentinel incident type for samples without an incident.
const NoIncident string = "None"

// Sample is one row of the traffic dataset.
type Sample struct {
	RoadName        string          `json:"road_name"`
	Latitude        float64         `json:"latitude"`
	Longitude       float64         `json:"longitude"`
	AvgSpeed        float64         `json:"avg_speed_kmh"`
	Congestion      CongestionLevel `json:"-"`
	CongestionLabel string          `json:"congestion_level"`
	Incident        string          `json:"incident_type"`
}

func NewSample(road string, lat, lon, speed float64, congestion, incident string) Sample {
	if strings.TrimSpace(incident) == "" {
		incident = NoIncident
	}

	return Sample{
		RoadName:        road,
		Latitude:        lat,
		Longitude:       lon,
		AvgSpeed:        speed,
		Congestion:      ParseCongestionLevel(congestion),
		CongestionLabel: strings.TrimSpace(congestion),
		Incident:        incident,
	}
}

func (s Sample) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(s.Latitude, s.Longitude)
}
