// Package notify delivers notifications to the freedesktop notification
// daemon over the session bus.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quantmind-br/sysupd/internal/policy"
	"github.com/rs/zerolog"
)

const (
	notificationsDest  = "org.freedesktop.Notifications"
	notificationsPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	notifyMethod       = notificationsDest + ".Notify"
	appName            = "sysupd"
	defaultCallTimeout = 5 * time.Second
)

// Urgency levels defined by org.freedesktop.Notifications
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// Notification is a single desktop notification
type Notification struct {
	Title    string
	Body     string
	Icon     string
	Severity policy.Severity
}

// Notifier sends notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// caller is the part of dbus.BusObject used to send notifications
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Desktop sends notifications through org.freedesktop.Notifications
type Desktop struct {
	connect func() (caller, func(), error)
	timeout time.Duration
	log     *zerolog.Logger
}

// NewDesktop returns a notifier that opens a private session bus
// connection per notification.
func NewDesktop(log *zerolog.Logger) *Desktop {
	return &Desktop{
		connect: sessionObject,
		timeout: defaultCallTimeout,
		log:     log,
	}
}

func sessionObject() (caller, func(), error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, nil, fmt.Errorf("connect session bus: %w", err)
	}
	closeFunc := func() {
		_ = conn.Close()
	}
	return conn.Object(notificationsDest, notificationsPath), closeFunc, nil
}

// Notify implements Notifier. It returns the daemon's error unchanged so
// callers can fall back to another sink.
func (d *Desktop) Notify(ctx context.Context, n Notification) error {
	obj, closeConn, err := d.connect()
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(Urgency(n.Severity)),
	}

	var id uint32
	call := obj.CallWithContext(ctx, notifyMethod, 0,
		appName,
		uint32(0),
		iconName(n),
		n.Title,
		n.Body,
		[]string{},
		hints,
		int32(-1),
	)
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	d.log.Debug().
		Uint32("id", id).
		Str("title", n.Title).
		Str("severity", n.Severity.String()).
		Msg("desktop notification sent")
	return nil
}

// Urgency maps a severity to the freedesktop urgency byte
func Urgency(s policy.Severity) byte {
	switch s {
	case policy.SeverityCritical:
		return UrgencyCritical
	case policy.SeverityWarning:
		return UrgencyNormal
	default:
		return UrgencyLow
	}
}

func iconName(n Notification) string {
	if n.Icon != "" {
		return n.Icon
	}
	switch n.Severity {
	case policy.SeverityCritical:
		return "dialog-error"
	case policy.SeverityWarning:
		return "dialog-warning"
	default:
		return "system-software-update"
	}
}

// Nop discards notifications
type Nop struct{}

// Notify implements Notifier
func (Nop) Notify(context.Context, Notification) error { return nil }
