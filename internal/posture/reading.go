// Package posture defines the four slouch labels reported by the posture
// sensor and parses the sensor's line-oriented serial output.
package posture

// Label is one of the four fixed slouch categories.
type Label string

const (
	Front Label = "Front Slouch"
	Back  Label = "Back Slouch"
	Right Label = "Right Slouch"
	Left  Label = "Left Slouch"
)

// Labels returns every label in priority order. When two labels share the
// maximum value the one listed first wins.
func Labels() []Label {
	return []Label{Front, Back, Right, Left}
}

// Priority returns the position of l in Labels, or -1 if l is unknown.
func Priority(l Label) int {
	for i, p := range Labels() {
		if p == l {
			return i
		}
	}
	return -1
}

// Reading is a single slouch intensity sent by the sensor.
type Reading struct {
	Label Label   `json:"label"`
	Value float64 `json:"value"`
}

// Ordered returns the readings in m sorted by label priority.
func Ordered(m map[Label]float64) []Reading {
	out := make([]Reading, 0, len(m))
	for _, l := range Labels() {
		if v, ok := m[l]; ok {
			out = append(out, Reading{Label: l, Value: v})
		}
	}
	return out
}
