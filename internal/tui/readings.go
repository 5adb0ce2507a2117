package tui

import (
	"github.com/luki/posture/internal/monitor"
	"github.com/luki/posture/internal/posture"
)

func readingMap(s monitor.Snapshot) map[posture.Label]float64 {
	out := make(map[posture.Label]float64, len(s.Readings))
	for _, r := range s.Readings {
		out[r.Label] = r.Value
	}
	return out
}
