// Package window describes the external game window the scanner drives.
// Window discovery itself (finding the rect/PID of the running client) is
// out of scope here; a caller supplies a populated Descriptor.
package window

// Platform identifies the host OS, used to pick the scroll-calibration
// strategy (mac always uses Phase A). The input and capture backends are
// selected by build tags, not by this value.
type Platform int

const (
	PlatformWindows Platform = iota
	PlatformLinux
	PlatformMacOS
)

func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "windows"
	case PlatformLinux:
		return "linux"
	case PlatformMacOS:
		return "macos"
	default:
		return "unknown"
	}
}

// UI distinguishes the desktop client chrome from a mobile-emulation layout,
// which on macOS selects a different scroll path (fast/slow touch emulation).
type UI int

const (
	UIDesktop UI = iota
	UIMobile
)

// Descriptor is the window/session context the scan controller is
// constructed against. It carries no behavior; all fields are set once by
// the caller before a scan begins.
type Descriptor struct {
	OriginX, OriginY float64
	Width, Height    float64
	Title            string
	UI               UI
	Platform         Platform
	IsCloud          bool
}

// Origin returns the window's top-left corner in desktop coordinates.
func (d Descriptor) Origin() (float64, float64) { return d.OriginX, d.OriginY }
