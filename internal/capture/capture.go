// Package capture abstracts screen-region grabbing behind a small
// capability interface so the scan controller never talks to the OS
// directly.
package capture

import (
	"errors"
	"fmt"

	"github.com/soocke/reposcan-go/internal/geometry"
)

// RGBImage is a tightly packed 8-bit RGB raster, width*height*3 bytes,
// row-major, no stride padding. This is the wire type the rest of the
// scanner (change detector, downstream OCR) consumes.
type RGBImage struct {
	Width, Height int
	Pix           []byte // len == Width*Height*3
}

// At returns the RGB triple at (x, y). Callers must keep x, y in bounds;
// this is a hot path sampled per scanline in the flag-strip detector.
func (im *RGBImage) At(x, y int) (r, g, b byte) {
	i := (y*im.Width + x) * 3
	return im.Pix[i], im.Pix[i+1], im.Pix[i+2]
}

// ErrCapture wraps a capture failure (permission denial, monitor change, or
// a degenerate rect).
type ErrCapture struct {
	Rect geometry.Rect
	Err  error
}

func (e *ErrCapture) Error() string {
	return fmt.Sprintf("capture: rect %+v: %v", e.Rect, e.Err)
}

func (e *ErrCapture) Unwrap() error { return e.Err }

var errZeroArea = errors.New("zero-area rect")

// Capturer captures an absolute-desktop-coordinate rectangle into an
// RGBImage.
type Capturer interface {
	Capture(rect geometry.Rect) (*RGBImage, error)
}

// CaptureRelative translates rect by origin before capturing, a
// convenience for callers working in window-relative coordinates.
func CaptureRelative(c Capturer, rect geometry.Rect, origin geometry.Pos) (*RGBImage, error) {
	return c.Capture(rect.Translate(origin))
}

func validateRect(rect geometry.Rect) error {
	if rect.Width <= 0 || rect.Height <= 0 {
		return &ErrCapture{Rect: rect, Err: errZeroArea}
	}
	return nil
}
