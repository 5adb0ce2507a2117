package posture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line  string
		label Label
		value float64
	}{
		{"B:   12.5", Back, 12.5},
		{"F xx 0.73", Front, 0.73},
		{"Right=1000", Right, 1000},
		{"L 3.14", Left, 3.14},
		{"B  7.0", Back, 7.0},
		{"F  42", Front, 42},
	}
	for _, tt := range tests {
		r, ok, err := ParseLine(tt.line)
		require.NoError(t, err, tt.line)
		require.True(t, ok, tt.line)
		assert.Equal(t, tt.label, r.Label, tt.line)
		assert.InDelta(t, tt.value, r.Value, 1e-9, tt.line)
	}
}

func TestParseLineUnknownCode(t *testing.T) {
	r, ok, err := ParseLine("X 12.5")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Reading{}, r)
}

func TestParseLineErrors(t *testing.T) {
	_, _, err := ParseLine("")
	assert.ErrorIs(t, err, ErrEmptyLine)

	_, _, err = ParseLine("B 1x.y")
	assert.ErrorIs(t, err, ErrBadValue)

	_, _, err = ParseLine("B1")
	assert.ErrorIs(t, err, ErrBadValue)

	for _, line := range []string{"F inf", "B nan", "R-Inf", "L NaN"} {
		r, ok, err := ParseLine(line)
		assert.ErrorIs(t, err, ErrBadValue, line)
		assert.False(t, ok, line)
		assert.Zero(t, r, line)
	}
}

func TestLabelForCode(t *testing.T) {
	tests := []struct {
		code byte
		want Label
		ok   bool
	}{
		{'B', Back, true},
		{'F', Front, true},
		{'R', Right, true},
		{'L', Left, true},
		{'b', "", false},
		{'?', "", false},
	}
	for _, tt := range tests {
		got, ok := LabelForCode(tt.code)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LabelForCode(%q) = %q, %v, want %q, %v", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 0, Priority(Front))
	assert.Equal(t, 3, Priority(Left))
	assert.Equal(t, -1, Priority("Sideways"))
}

func TestOrdered(t *testing.T) {
	got := Ordered(map[Label]float64{Left: 1, Back: 2, Front: 3})
	assert.Equal(t, []Reading{{Front, 3}, {Back, 2}, {Left, 1}}, got)
	assert.Empty(t, Ordered(nil))
}
