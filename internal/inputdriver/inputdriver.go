// Package inputdriver abstracts mouse/keyboard injection behind a small
// capability interface. The scan controller never imports a platform
// package directly.
package inputdriver

import (
	"errors"
	"time"
)

// ErrUnsupported is returned by a platform backend that cannot perform the
// requested operation on the current OS (e.g. the Linux/Darwin stubs,
// which this repo ships without a CGO event-injection backend).
var ErrUnsupported = errors.New("inputdriver: unsupported on this platform")

// Driver moves the cursor, clicks, and scrolls. All operations are
// fallible and have no built-in retry; the caller decides how to react
// to a failure.
type Driver interface {
	MoveTo(x, y int) error
	Click() error
	Scroll(ticks int, fastHint bool) error

	// SettleDelay is the platform-dependent pause a caller should honor
	// after a successful Move/Click/Scroll before capturing. Modeling it
	// as a policy on the driver itself keeps platform conditionals out of
	// the scan controller.
	SettleDelay() time.Duration
}

// InterruptSource is a cheap peek at OS input state used to cooperatively
// cancel a scan. Abstracting it as a capability lets tests inject
// deterministic interrupts.
type InterruptSource interface {
	Pressed() bool
}
