package trafficdata

import "strings"

// AllRoads is the selection sentinel that disables road filtering.
const AllRoads string = "All Roads"

// RoadSelection is either AllRoads or the name of a single road. The zero value
// selects all roads.
type RoadSelection string

func SelectRoad(name string) RoadSelection {
	return RoadSelection(name)
}

func (s RoadSelection) IsAllRoads() bool {
	return strings.TrimSpace(string(s)) == "" || string(s) == AllRoads
}

func (s RoadSelection) String() string {
	if s.IsAllRoads() {
		return AllRoads
	}
	return string(s)
}

// Matches reports whether sample belongs to the selection.
func (s RoadSelection) Matches(sample Sample) bool {
	return s.IsAllRoads() || sample.RoadName == string(s)
}
