package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/luki/posture/internal/chart"
	"github.com/luki/posture/internal/monitor"
	"github.com/luki/posture/internal/posture"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestViewBeforeSize(t *testing.T) {
	assert.Contains(t, New().View(), "Initializing")
}

func TestViewWaiting(t *testing.T) {
	m := update(t, New(), tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Contains(t, m.View(), "Waiting for the sensor")
}

func TestViewSnapshot(t *testing.T) {
	counts := map[posture.Label]int{posture.Front: 3, posture.Back: 1, posture.Right: 0, posture.Left: 0}
	start := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)
	snap := monitor.Snapshot{
		Port:      "/dev/ttyACM0",
		Readings:  []posture.Reading{{Label: posture.Front, Value: 4.5}},
		Counts:    counts,
		Bars:      chart.Bars(counts),
		Dominant:  posture.Front,
		Lines:     20,
		Windows:   4,
		StartedAt: start,
		UpdatedAt: start.Add(90 * time.Second),
	}

	m := update(t, New(), tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, snapshotMsg(snap))
	m = update(t, m, tickMsg(start.Add(90*time.Second)))

	view := m.View()
	assert.Contains(t, view, "CorrectMyPosture")
	assert.Contains(t, view, "Serial Receive")
	assert.Contains(t, view, "Front Slouch : 4.5")
	assert.Contains(t, view, "Statistics")
	assert.Contains(t, view, "up 1m30s")
	assert.Less(t, strings.Index(view, "Back Slouch"), strings.Index(view, "Right Slouch"))
}

func TestErrorShown(t *testing.T) {
	m := update(t, New(), tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, ErrMsg{Err: errors.New("device unplugged")})
	assert.Contains(t, m.View(), "device unplugged")
}

func TestQuitKey(t *testing.T) {
	_, cmd := New().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if assert.NotNil(t, cmd) {
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m00s"},
		{-time.Second, "0m00s"},
		{75 * time.Second, "1m15s"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2h03m04s"},
	}
	for _, tt := range tests {
		if got := fmtDuration(tt.d); got != tt.want {
			t.Errorf("fmtDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
