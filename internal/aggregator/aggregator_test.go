package aggregator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luki/posture/internal/posture"
)

var t0 = time.Date(2026, 2, 21, 14, 0, 0, 0, time.UTC)

func feedAll(t *testing.T, a *Aggregator, lines ...string) []Result {
	t.Helper()
	var out []Result
	for i, l := range lines {
		res, err := a.Feed(l, t0.Add(time.Duration(i)*time.Second))
		require.NoError(t, err, l)
		out = append(out, res)
	}
	return out
}

func TestInitialCounts(t *testing.T) {
	a := New()
	assert.Equal(t, map[posture.Label]int{
		posture.Front: 0,
		posture.Back:  0,
		posture.Right: 0,
		posture.Left:  0,
	}, a.Counts())
	assert.Empty(t, a.Buffer())
	assert.Equal(t, DefaultWindowSize, a.WindowSize())
}

func TestWindowClosesOnFifthLine(t *testing.T) {
	a := New()
	results := feedAll(t, a,
		"F  2.0",
		"B  7.5",
		"R  1.0",
		"L  3.0",
		"END",
	)

	for _, r := range results[:4] {
		assert.False(t, r.Closed)
		assert.True(t, r.Parsed)
	}

	last := results[4]
	require.True(t, last.Closed)
	assert.False(t, last.Parsed)
	assert.Equal(t, posture.Back, last.Window.Dominant)
	assert.Equal(t, 1, last.Window.Index)
	assert.Len(t, last.Window.Readings, 4)

	counts := a.Counts()
	assert.Equal(t, 1, counts[posture.Back])
	assert.Equal(t, 0, counts[posture.Front])
	assert.Equal(t, 0, counts[posture.Right])
	assert.Equal(t, 0, counts[posture.Left])
	assert.Empty(t, a.Buffer(), "buffer must be cleared after close")
}

func TestLatestValueWins(t *testing.T) {
	a := New()
	feedAll(t, a, "F  9.0", "F  1.0", "B  2.0", "R  0.5")
	assert.Equal(t, map[posture.Label]float64{
		posture.Front: 1.0,
		posture.Back:  2.0,
		posture.Right: 0.5,
	}, a.Buffer())

	res, err := a.Feed("x", t0)
	require.NoError(t, err)
	assert.Equal(t, posture.Back, res.Window.Dominant)
}

func TestDominant(t *testing.T) {
	tests := []struct {
		name     string
		readings map[posture.Label]float64
		want     posture.Label
		ok       bool
	}{
		{"back wins", map[posture.Label]float64{posture.Front: 3.0, posture.Back: 7.0}, posture.Back, true},
		{"single", map[posture.Label]float64{posture.Left: 0}, posture.Left, true},
		{"negative", map[posture.Label]float64{posture.Right: -1, posture.Left: -2}, posture.Right, true},
		{"tie front first", map[posture.Label]float64{posture.Left: 5, posture.Front: 5, posture.Back: 5}, posture.Front, true},
		{"tie right before left", map[posture.Label]float64{posture.Left: 5, posture.Right: 5}, posture.Right, true},
		{"empty", map[posture.Label]float64{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Dominant(tt.readings)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmptyWindow(t *testing.T) {
	a := New()
	for i := 0; i < 4; i++ {
		_, err := a.Feed("?ignored", t0)
		require.NoError(t, err)
	}
	res, err := a.Feed("?ignored", t0)
	assert.ErrorIs(t, err, ErrEmptyWindow)
	assert.False(t, res.Closed)
	assert.Equal(t, 0, a.Windows())
	for _, v := range a.Counts() {
		assert.Zero(t, v)
	}
}

func TestParseErrorStillCounts(t *testing.T) {
	a := New()
	_, err := a.Feed("B abcd", t0)
	assert.ErrorIs(t, err, posture.ErrBadValue)
	assert.Equal(t, 1, a.Lines())

	feedAll(t, a, "F  1.0", "R  2.0", "L  0.5")
	res, err := a.Feed("", t0)
	require.NoError(t, err, "closing line is never parsed")
	require.True(t, res.Closed)
	assert.Equal(t, posture.Right, res.Window.Dominant)
}

func TestCountsSumToWindows(t *testing.T) {
	a := New()
	codes := []string{"F", "B", "R", "L"}
	total := 53
	for i := 0; i < total; i++ {
		line := fmt.Sprintf("%s %4.1f", codes[i%4], float64((i*7)%10))
		_, err := a.Feed(line, t0.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	sum := 0
	for _, v := range a.Counts() {
		sum += v
	}
	assert.Equal(t, total/DefaultWindowSize, sum)
	assert.Equal(t, a.Windows(), sum)
	assert.Len(t, a.Counts(), 4)
}

func TestWindowSizeOption(t *testing.T) {
	a := New(WithWindowSize(3))
	results := feedAll(t, a, "L  4.0", "R  1.0", "close")
	assert.True(t, results[2].Closed)
	assert.Equal(t, posture.Left, results[2].Window.Dominant)

	ignored := New(WithWindowSize(0))
	assert.Equal(t, DefaultWindowSize, ignored.WindowSize())
}

func TestRawLogIsBounded(t *testing.T) {
	a := New(WithRawLogSize(3))
	feedAll(t, a, "F  1.0  \r\n", "B  2.0", "R  3.0", "L  4.0")

	raw := a.RawLog(10)
	require.Len(t, raw, 3)
	assert.Equal(t, "B  2.0", raw[0].Text)
	assert.Equal(t, "L  4.0", raw[2].Text)
	assert.Equal(t, uint64(1), a.Dropped())
}
