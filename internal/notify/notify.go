// Package notify sends the posture nudge as a desktop notification on the
// platforms that have one and degrades to a no-op elsewhere.
package notify

import (
	"context"
	"log/slog"
	"runtime"
)

const (
	Title   = "CorrectMyPosture"
	Message = "Your posture is important! \nPlease sit upright :)"
)

// Notifier delivers a single notification.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// New picks the desktop notifier for the running platform. Platforms
// without a supported mechanism get Noop.
func New(logger *slog.Logger) Notifier {
	return forPlatform(runtime.GOOS, logger)
}

func forPlatform(goos string, logger *slog.Logger) Notifier {
	switch goos {
	case "darwin":
		return NewAppleScript()
	case "linux", "freebsd", "openbsd", "netbsd":
		return NewDBus(Title)
	default:
		if logger != nil {
			logger.Warn("desktop notifications not supported, nudges disabled", "os", goos)
		}
		return Noop{}
	}
}

// Noop drops every notification.
type Noop struct{}

func (Noop) Notify(context.Context, string, string) error { return nil }

// Log writes notifications to a logger instead of the desktop.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(ctx context.Context, title, message string) error {
	l.Logger.InfoContext(ctx, "posture nudge", "title", title, "message", message)
	return nil
}
