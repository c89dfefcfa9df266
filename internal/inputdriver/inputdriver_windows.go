//go:build windows

package inputdriver

import (
	"time"

	"golang.org/x/sys/windows"
)

const (
	mouseeventfLeftDown = 0x0002
	mouseeventfLeftUp   = 0x0004
	mouseeventfWheel    = 0x0800
	wheelDelta          = 120
	vkRButton           = 0x02 // VK_RBUTTON, queried via GetAsyncKeyState in Pressed()
)

var (
	user32Dll          = windows.NewLazySystemDLL("user32.dll")
	procMouseEvent     = user32Dll.NewProc("mouse_event")
	procSetCursorPos   = user32Dll.NewProc("SetCursorPos")
	procGetAsyncKeyState = user32Dll.NewProc("GetAsyncKeyState")
)

// windowsDriver talks to the Win32 API directly via the legacy
// mouse_event/SetCursorPos surface. For production use SendInput is
// preferred for synthesis reliability; this repo keeps the simpler calls.
type windowsDriver struct{}

// NewDriver returns the platform-appropriate Driver.
func NewDriver() Driver { return windowsDriver{} }

func (windowsDriver) MoveTo(x, y int) error {
	r, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if r == 0 {
		return err
	}
	return nil
}

func (windowsDriver) Click() error {
	procMouseEvent.Call(mouseeventfLeftDown, 0, 0, 0, 0)
	time.Sleep(20 * time.Millisecond)
	procMouseEvent.Call(mouseeventfLeftUp, 0, 0, 0, 0)
	return nil
}

func (windowsDriver) Scroll(ticks int, fastHint bool) error {
	// fastHint is advisory only on Windows: the wheel message carries no
	// distinct fast/slow path here, unlike the mac touch-emulation scroll.
	for i := 0; i < ticks; i++ {
		procMouseEvent.Call(mouseeventfWheel, 0, 0, uintptr(wheelDelta), 0)
	}
	return nil
}

func (windowsDriver) SettleDelay() time.Duration { return 20 * time.Millisecond }

// NewInterruptSource polls the right mouse button via GetAsyncKeyState,
// used as the operator's cooperative cancel signal mid-scan.
func NewInterruptSource() InterruptSource { return windowsInterrupt{} }

type windowsInterrupt struct{}

func (windowsInterrupt) Pressed() bool {
	v, _, _ := procGetAsyncKeyState.Call(uintptr(vkRButton))
	return v&0x8000 != 0
}
