package monitor

import (
	"time"

	"github.com/luki/posture/internal/chart"
	"github.com/luki/posture/internal/posture"
)

// Snapshot is everything a dashboard needs to draw one frame.
type Snapshot struct {
	Session     string                `json:"session"`
	Port        string                `json:"port"`
	Readings    []posture.Reading     `json:"readings"`
	Counts      map[posture.Label]int `json:"counts"`
	Bars        []chart.Bar           `json:"bars"`
	Dominant    posture.Label         `json:"dominant,omitempty"`
	Lines       int                   `json:"lines"`
	Windows     int                   `json:"windows"`
	RecentLines []string              `json:"recent_lines"`
	StartedAt   time.Time             `json:"started_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// Renderer draws snapshots. Render must not block for long; it is called
// from the read loop.
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) { f(s) }
