package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForPlatform(t *testing.T) {
	tests := []struct {
		goos string
		want Notifier
	}{
		{"darwin", &AppleScript{}},
		{"linux", &DBus{}},
		{"freebsd", &DBus{}},
		{"windows", Noop{}},
		{"plan9", Noop{}},
	}
	for _, tt := range tests {
		got := forPlatform(tt.goos, nil)
		assert.IsType(t, tt.want, got, tt.goos)
	}
}

func TestAppleScriptCommand(t *testing.T) {
	var gotName string
	var gotArgs []string
	a := &AppleScript{run: func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}}

	require.NoError(t, a.Notify(context.Background(), Title, `say "hi"`))
	assert.Equal(t, "osascript", gotName)
	require.Len(t, gotArgs, 2)
	assert.Equal(t, "-e", gotArgs[0])
	assert.Equal(t, `display notification "say \"hi\"" with title "CorrectMyPosture"`, gotArgs[1])
}

func TestAppleScriptError(t *testing.T) {
	boom := errors.New("exit status 1")
	a := &AppleScript{run: func(context.Context, string, ...string) error { return boom }}

	err := a.Notify(context.Background(), Title, Message)
	assert.ErrorIs(t, err, boom)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := Log{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	require.NoError(t, n.Notify(context.Background(), Title, "sit up"))
	assert.Contains(t, buf.String(), "posture nudge")
	assert.Contains(t, buf.String(), "sit up")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Notify(context.Background(), Title, Message))
}
