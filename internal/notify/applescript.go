package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// AppleScript posts notifications through osascript on macOS.
type AppleScript struct {
	run func(ctx context.Context, name string, args ...string) error
}

func NewAppleScript() *AppleScript {
	return &AppleScript{run: runCommand}
}

func (a *AppleScript) Notify(ctx context.Context, title, message string) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(message), escapeAppleScript(title))
	if err := a.run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("osascript: %w", err)
	}
	return nil
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeAppleScript(s string) string {
	return appleScriptEscaper.Replace(s)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
