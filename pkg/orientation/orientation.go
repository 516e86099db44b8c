// Package orientation reports whether a window is in portrait or landscape
// orientation, derived from comparing its width to its height.
//
// An Observer seeds its value from Options.DefaultOrientation, measures the
// window once when started, and re-measures on every (debounced) resize until
// it is stopped. Use wraps validation, construction and Start in one call.
package orientation

import "encoding/json"

// Orientation classifies a window shape.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Valid reports whether o is one of the two orientations.
func (o Orientation) Valid() bool {
	return o == Portrait || o == Landscape
}

func (o Orientation) String() string {
	return string(o)
}

// FromSize returns Portrait when width <= height, Landscape otherwise.
func FromSize(width, height int) Orientation {
	if width <= height {
		return Portrait
	}
	return Landscape
}

// Result is the derived view of an orientation. The flags are always
// computed from Orientation, so exactly one of them is true.
type Result struct {
	Orientation Orientation `json:"orientation"`
	Portrait    bool        `json:"portrait"`
	Landscape   bool        `json:"landscape"`
}

// NewResult builds the view for o. Anything other than Landscape is
// reported as Portrait.
func NewResult(o Orientation) Result {
	if o != Landscape {
		o = Portrait
	}
	return Result{
		Orientation: o,
		Portrait:    o == Portrait,
		Landscape:   o == Landscape,
	}
}

// String returns the result as a compact JSON object.
func (r Result) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return string(r.Orientation)
	}
	return string(b)
}
