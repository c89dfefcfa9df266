//go:build !windows

package inputdriver

import "time"

// otherDriver is a safe-by-default stand-in for Linux/Darwin. Real event
// injection ships only for Windows (via golang.org/x/sys/windows); without
// a CGO-linked X11/Quartz surface in this module, the non-Windows backends
// report ErrUnsupported rather than silently no-op, so a caller driving a
// real scan notices immediately instead of clicking nowhere.
type otherDriver struct{}

// NewDriver returns the platform-appropriate Driver.
func NewDriver() Driver { return otherDriver{} }

func (otherDriver) MoveTo(x, y int) error              { return ErrUnsupported }
func (otherDriver) Click() error                       { return ErrUnsupported }
func (otherDriver) Scroll(ticks int, fastHint bool) error { return ErrUnsupported }
func (otherDriver) SettleDelay() time.Duration         { return 0 }

// NewInterruptSource returns a source that never reports an interrupt.
// A real Linux/macOS backend would poll global input state the way the
// Windows GetAsyncKeyState backend does.
func NewInterruptSource() InterruptSource { return otherInterrupt{} }

type otherInterrupt struct{}

func (otherInterrupt) Pressed() bool { return false }
