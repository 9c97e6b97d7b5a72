package trafficsvc

import (
	"time"

	"github.com/diwise/traffic-dashboard/internal/pkg/trafficdata"
)

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HyderabadCenter is the default metro reference coordinate.
var HyderabadCenter = LatLon{Lat: 17.3850, Lon: 78.4867}

const (
	AllRoadsZoom int = 12
	RoadZoom     int = 15
)

type Summary struct {
	AvgSpeed   float64 `json:"avg_speed_kmh"`
	Congestion string  `json:"congestion_level"`
	Incident   string  `json:"incident_type"`
}

// Bounds is the bounding box of every sample in the loaded table, in degrees.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

type HeatPoint struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Weight float64 `json:"weight"`
}

type HeatStyle struct {
	Radius     int     `json:"radius"`
	Blur       int     `json:"blur"`
	MinOpacity float64 `json:"min_opacity"`
}

type MarkerStyle struct {
	Radius      int     `json:"radius"`
	Fill        bool    `json:"fill"`
	FillOpacity float64 `json:"fill_opacity"`
}

type Marker struct {
	Lat    float64            `json:"lat"`
	Lon    float64            `json:"lon"`
	Color  string             `json:"color"`
	Label  string             `json:"label"`
	Sample trafficdata.Sample `json:"-"`
}

type MapView struct {
	Center      LatLon      `json:"center"`
	Zoom        int         `json:"zoom"`
	Tiles       string      `json:"tiles"`
	TileURL     string      `json:"tile_url"`
	Heat        HeatStyle   `json:"heat_style"`
	MarkerStyle MarkerStyle `json:"marker_style"`
	HeatPoints  []HeatPoint `json:"heat_points"`
	Markers     []Marker    `json:"markers"`
}

var (
	DefaultTiles       = "cartodbpositron"
	DefaultTileURL     = "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png"
	DefaultHeatStyle   = HeatStyle{Radius: 25, Blur: 15, MinOpacity: 0.4}
	DefaultMarkerStyle = MarkerStyle{Radius: 8, Fill: true, FillOpacity: 0.9}
)

// ViewModel is everything a single render pass needs. It is built per request
// and never cached.
type ViewModel struct {
	Selection trafficdata.RoadSelection
	Rows      []trafficdata.Sample
	Summary   Summary
	Map       MapView
	Issues    []error
	Bounds    *Bounds
	Source    string
	LoadedAt  time.Time
}
