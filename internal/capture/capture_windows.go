//go:build windows

package capture

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/soocke/reposcan-go/internal/geometry"
)

// Windows screen capture using a single persistent DIB section backing
// buffer, so repeated captures during a scan don't churn the Go heap.
// GDI resources are recreated only when the requested rect's dimensions
// change. Adapted from the legacy single-file capturer this module grew
// out of; reworked here to emit the scanner's packed RGBImage instead of
// an image.RGBA.

const (
	smCxScreen   = 0
	smCyScreen   = 1
	srccopy      = 0x00CC0020
	dibRGBColors = 0
	biRgb        = 0
)

var (
	user32                 = syscall.NewLazyDLL("user32.dll")
	gdi32                  = syscall.NewLazyDLL("gdi32.dll")
	kernel32               = syscall.NewLazyDLL("kernel32.dll")
	procGetDC              = user32.NewProc("GetDC")
	procReleaseDC          = user32.NewProc("ReleaseDC")
	procGetSystemMetrics   = user32.NewProc("GetSystemMetrics")
	procCreateCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	procDeleteDC           = gdi32.NewProc("DeleteDC")
	procSelectObject       = gdi32.NewProc("SelectObject")
	procBitBlt             = gdi32.NewProc("BitBlt")
	procCreateDIBSection   = gdi32.NewProc("CreateDIBSection")
	procDeleteObject       = gdi32.NewProc("DeleteObject")
	procGetLastError       = kernel32.NewProc("GetLastError")
)

type (
	handle  uintptr
	hdc     handle
	hbitmap handle
)

type bitmapInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	_      [4]byte
}

var captureState struct {
	mu      sync.Mutex
	w, h    int
	memDC   hdc
	bmp     hbitmap
	bitsPtr unsafe.Pointer
	img     *RGBImage
}

// WindowsCapturer implements Capturer via BitBlt into a reused DIB section.
type WindowsCapturer struct{}

// NewCapturer returns the platform-appropriate Capturer.
func NewCapturer() Capturer { return WindowsCapturer{} }

func (WindowsCapturer) Capture(rect geometry.Rect) (*RGBImage, error) {
	if err := validateRect(rect); err != nil {
		return nil, err
	}
	sw := int(getSystemMetric(smCxScreen))
	sh := int(getSystemMetric(smCyScreen))
	left, top := int(rect.Left), int(rect.Top)
	w, h := int(rect.Width), int(rect.Height)
	if left < 0 {
		w += left
		left = 0
	}
	if top < 0 {
		h += top
		top = 0
	}
	if left+w > sw {
		w = sw - left
	}
	if top+h > sh {
		h = sh - top
	}
	if w <= 0 || h <= 0 {
		return nil, &ErrCapture{Rect: rect, Err: errZeroArea}
	}
	return captureRect(left, top, w, h)
}

func captureRect(left, top, w, h int) (*RGBImage, error) {
	captureState.mu.Lock()
	defer captureState.mu.Unlock()

	if captureState.bmp == 0 || w != captureState.w || h != captureState.h {
		releaseResourcesLocked()
		if err := allocateResourcesLocked(w, h); err != nil {
			releaseResourcesLocked()
			return nil, err
		}
	}

	srcDC, _, _ := procGetDC.Call(0)
	if srcDC == 0 {
		return nil, fmt.Errorf("capture: GetDC failed winerr=%d", getLastError())
	}
	defer procReleaseDC.Call(0, srcDC)

	ok, _, _ := procBitBlt.Call(uintptr(captureState.memDC), 0, 0, uintptr(w), uintptr(h), srcDC, uintptr(left), uintptr(top), srccopy)
	if ok == 0 {
		return nil, fmt.Errorf("capture: BitBlt failed x=%d y=%d w=%d h=%d winerr=%d", left, top, w, h, getLastError())
	}

	pixLen := w * h * 4
	header := (*[1 << 30]byte)(captureState.bitsPtr)[:pixLen:pixLen]

	rgbLen := w * h * 3
	if captureState.img == nil || cap(captureState.img.Pix) < rgbLen {
		captureState.img = &RGBImage{Pix: make([]byte, rgbLen), Width: w, Height: h}
	} else {
		captureState.img.Pix = captureState.img.Pix[:rgbLen]
		captureState.img.Width = w
		captureState.img.Height = h
	}

	dst := captureState.img.Pix
	for i, j := 0, 0; i < pixLen; i, j = i+4, j+3 {
		b := header[i]
		g := header[i+1]
		r := header[i+2]
		dst[j] = r
		dst[j+1] = g
		dst[j+2] = b
	}
	return captureState.img, nil
}

func allocateResourcesLocked(w, h int) error {
	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return fmt.Errorf("capture: GetDC failed winerr=%d", getLastError())
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, _ := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return fmt.Errorf("capture: CreateCompatibleDC failed winerr=%d", getLastError())
	}

	var bi bitmapInfo
	bi.Header.BiSize = uint32(unsafe.Sizeof(bi.Header))
	bi.Header.BiWidth = int32(w)
	bi.Header.BiHeight = -int32(h)
	bi.Header.BiPlanes = 1
	bi.Header.BiBitCount = 32
	bi.Header.BiCompression = biRgb
	bi.Header.BiSizeImage = uint32(w * h * 4)

	var bitsPtr unsafe.Pointer
	bmp, _, _ := procCreateDIBSection.Call(memDC, uintptr(unsafe.Pointer(&bi)), dibRGBColors, uintptr(unsafe.Pointer(&bitsPtr)), 0, 0)
	if bmp == 0 {
		procDeleteDC.Call(memDC)
		return fmt.Errorf("capture: CreateDIBSection failed winerr=%d", getLastError())
	}

	prev, _, _ := procSelectObject.Call(memDC, bmp)
	if prev == 0 || prev == ^uintptr(0) {
		procDeleteObject.Call(bmp)
		procDeleteDC.Call(memDC)
		return fmt.Errorf("capture: SelectObject failed winerr=%d", getLastError())
	}

	captureState.memDC = hdc(memDC)
	captureState.bmp = hbitmap(bmp)
	captureState.bitsPtr = bitsPtr
	captureState.w = w
	captureState.h = h
	return nil
}

func releaseResourcesLocked() {
	if captureState.bmp != 0 {
		procDeleteObject.Call(uintptr(captureState.bmp))
	}
	if captureState.memDC != 0 {
		procDeleteDC.Call(uintptr(captureState.memDC))
	}
	captureState.bmp = 0
	captureState.memDC = 0
	captureState.bitsPtr = nil
}

func getSystemMetric(idx int) int32 {
	v, _, _ := procGetSystemMetrics.Call(uintptr(idx))
	return int32(v)
}

func getLastError() uint32 {
	v, _, _ := procGetLastError.Call()
	return uint32(v)
}
