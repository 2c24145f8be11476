// Package notify carries fire-and-forget status messages from the
// persistence layer to whatever surface the host shows them on.
package notify

// Level is the severity of a notification.
type Level int

const (
	Info Level = iota
	Warn
	Error
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier receives human-readable status strings. Delivery is best effort.
// Notifiers only display; the component that hit a failure logs it.
type Notifier interface {
	Notify(level Level, msg string)
}

// Func adapts a plain function to Notifier.
type Func func(level Level, msg string)

// Notify calls f.
func (f Func) Notify(level Level, msg string) {
	f(level, msg)
}

// Discard drops every notification.
var Discard Notifier = Func(func(Level, string) {})
