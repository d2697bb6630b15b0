package game

import "fmt"

type Marker int
type Status int

const (
	MarkerNone Marker = iota
	MarkerFlag
	MarkerQuestion
)

var markerNames = map[Marker]string{
	MarkerNone:     "none",
	MarkerFlag:     "flag",
	MarkerQuestion: "question",
}

func (marker Marker) String() string {
	if name, ok := markerNames[marker]; ok {
		return name
	}
	return "unknown"
}

// next returns the marker that follows in the none -> flag -> question cycle
func (marker Marker) next() Marker {
	switch marker {
	case MarkerNone:
		return MarkerFlag
	case MarkerFlag:
		return MarkerQuestion
	default:
		return MarkerNone
	}
}

const (
	Ongoing Status = iota
	Won
	Lost
)

func (status Status) String() string {
	switch status {
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// MarshalText lets statuses appear by name in YAML and JSON documents
func (status Status) MarshalText() ([]byte, error) {
	return []byte(status.String()), nil
}

func (status *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{Ongoing, Won, Lost} {
		if candidate.String() == string(text) {
			*status = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}
