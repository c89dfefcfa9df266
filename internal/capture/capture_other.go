//go:build !windows

package capture

import (
	"image"

	"github.com/soocke/reposcan-go/internal/geometry"
	"github.com/vova616/screenshot"
)

// genericCapturer wraps github.com/vova616/screenshot, which covers Linux
// (via xgb/X11) and macOS, as the cross-platform fallback to the
// Windows-specific DIB path.
type genericCapturer struct{}

// NewCapturer returns the platform-appropriate Capturer.
func NewCapturer() Capturer { return genericCapturer{} }

func (genericCapturer) Capture(rect geometry.Rect) (*RGBImage, error) {
	if err := validateRect(rect); err != nil {
		return nil, err
	}
	ir := image.Rect(int(rect.Left), int(rect.Top), int(rect.Left+rect.Width), int(rect.Top+rect.Height))
	img, err := screenshot.CaptureRect(ir)
	if err != nil {
		return nil, &ErrCapture{Rect: rect, Err: err}
	}
	return rgbaToRGBImage(img), nil
}

func rgbaToRGBImage(img *image.RGBA) *RGBImage {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := &RGBImage{Width: w, Height: h, Pix: make([]byte, w*h*3)}
	for y := 0; y < h; y++ {
		srcRow := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dstRow := out.Pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			dstRow[x*3] = srcRow[x*4]
			dstRow[x*3+1] = srcRow[x*4+1]
			dstRow[x*3+2] = srcRow[x*4+2]
		}
	}
	return out
}
