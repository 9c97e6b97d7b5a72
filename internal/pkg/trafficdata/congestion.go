package trafficdata

import "strings"

// CongestionLevel is the closed set of severity labels a road sample can carry.
// CongestionUnknown is the fallback for labels outside the set; the raw label is
// kept on the Sample so it can still be displayed and reported.
type CongestionLevel int

const (
	CongestionUnknown CongestionLevel = iota
	CongestionFree
	CongestionModerate
	CongestionHeavy
	CongestionVeryHeavy
)

var congestionNames = map[CongestionLevel]string{
	CongestionFree:      "Free",
	CongestionModerate:  "Moderate",
	CongestionHeavy:     "Heavy",
	CongestionVeryHeavy: "Very Heavy",
}

func (c CongestionLevel) String() string {
	if n, ok := congestionNames[c]; ok {
		return n
	}
	return "Unknown"
}

// ParseCongestionLevel maps a label to its level. Matching is exact apart from
// surrounding whitespace, labels that do not match yield CongestionUnknown.
func ParseCongestionLevel(label string) CongestionLevel {
	label = strings.TrimSpace(label)
	for level, name := range congestionNames {
		if name == label {
			return level
		}
	}
	return CongestionUnknown
}
