package trafficsvc

import "errors"

var (
	ErrDataUnavailable        = errors.New("traffic data unavailable")
	ErrEmptySelection         = errors.New("no data for this selection")
	ErrUnknownCongestionLevel = errors.New("unknown congestion level")
)
