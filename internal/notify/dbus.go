package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	dbusDest   = "org.freedesktop.Notifications"
	dbusPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	dbusMethod = "org.freedesktop.Notifications.Notify"

	expireTimeoutMs = int32(5000)
)

// DBus posts notifications to the freedesktop notification daemon over the
// session bus. The connection is opened lazily on the first notification.
type DBus struct {
	appName string

	mu     sync.Mutex
	conn   *dbus.Conn
	lastID uint32
}

func NewDBus(appName string) *DBus {
	return &DBus{appName: appName}
}

func (d *DBus) Notify(ctx context.Context, title, message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("connect session bus: %w", err)
		}
		d.conn = conn
	}

	// Replace the previous nudge instead of stacking a new one each window.
	obj := d.conn.Object(dbusDest, dbusPath)
	call := obj.CallWithContext(ctx, dbusMethod, 0,
		d.appName,
		d.lastID,
		"",
		title,
		message,
		[]string{},
		map[string]dbus.Variant{},
		expireTimeoutMs,
	)
	if call.Err != nil {
		d.conn.Close()
		d.conn = nil
		return fmt.Errorf("notify over dbus: %w", call.Err)
	}
	if err := call.Store(&d.lastID); err != nil {
		return fmt.Errorf("notify over dbus: %w", err)
	}
	return nil
}

// Close releases the session bus connection.
func (d *DBus) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}
