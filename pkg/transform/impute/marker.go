package impute

import (
	"fmt"

	"github.com/wdm0006/imputer/pkg/frame"
)

type markerKind int

const (
	markerNaN markerKind = iota
	markerNull
	markerValue
)

// Marker is the configured placeholder for missing data: the NaN sentinel
// (the zero Marker), Null, or any other scalar.
type Marker struct {
	kind markerKind
	v    frame.Value
}

func MissingNaN() Marker  { return Marker{kind: markerNaN} }
func MissingNull() Marker { return Marker{kind: markerNull} }

// MissingValue builds a marker from a scalar. nil gives the Null marker and a
// NaN float gives the NaN marker.
func MissingValue(x any) (Marker, error) {
	v, err := frame.Of(x)
	if err != nil {
		return Marker{}, err
	}
	switch {
	case v.IsNull():
		return MissingNull(), nil
	case v.IsNaN():
		return MissingNaN(), nil
	}
	return Marker{kind: markerValue, v: v}, nil
}

// IsMissing reports whether v is the missing marker. NaN is matched by
// identity, never by ==, since NaN != NaN.
func (m Marker) IsMissing(v frame.Value) bool {
	switch m.kind {
	case markerNaN:
		return v.IsNaN()
	case markerNull:
		return v.IsNull()
	default:
		return v.Equal(m.v)
	}
}

// Value returns the marker as a cell value.
func (m Marker) Value() frame.Value {
	switch m.kind {
	case markerNaN:
		return frame.NaN()
	case markerNull:
		return frame.Null()
	default:
		return m.v
	}
}

func (m Marker) String() string {
	switch m.kind {
	case markerNaN:
		return "NaN"
	case markerNull:
		return "null"
	default:
		return fmt.Sprintf("%v(%s)", m.v.Kind(), m.v)
	}
}
