// Package changedetect implements the two pixel-sampling protocols the
// scan controller uses to tell whether the UI has advanced: the flag-strip
// scroll sentinel and the pool-scalar item-switch sentinel.
package changedetect

import (
	"errors"
	"time"

	"github.com/soocke/reposcan-go/internal/capture"
	"github.com/soocke/reposcan-go/internal/geometry"
)

// ErrWaitSwitchTimeout is returned when the detail panel does not settle
// within the configured budget. The scan controller recovers from this
// locally; it is not treated as fatal.
var ErrWaitSwitchTimeout = errors.New("changedetect: wait until switched timed out")

// FlagSample is a column of RGB samples taken down the flag strip.
type FlagSample []RGB

// RGB is a single sampled pixel, kept as a small value type independent of
// capture.RGBImage so the detector's reference snapshot has no ties to the
// buffer the capturer may reuse across frames.
type RGB struct{ R, G, B uint8 }

// colorDistance is the sum of absolute per-channel differences.
func colorDistance(a, b RGB) int {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) + d(a.G, b.G) + d(a.B, b.B)
}

// flagMatchThreshold is the permissive distance below which a scanline is
// considered unchanged. Kept intentionally loose: a scroll displaces the
// header/first-row gap by only a few pixels and the surrounding pixels
// differ sharply, so any one matching row is enough.
const flagMatchThreshold = 10

// Detector samples the flag strip and the detail-panel pool rect of a
// Capturer against a Grid and owns the running poolScalar/avgSwitchMs
// state the protocols need across calls.
type Detector struct {
	capturer capture.Capturer
	grid     geometry.Grid

	poolScalar   float64
	avgSwitchMs  float64
	switchSamples int
}

// New constructs a Detector bound to a capturer and grid geometry.
func New(c capture.Capturer, grid geometry.Grid) *Detector {
	return &Detector{capturer: c, grid: grid}
}

// SampleFlag captures the flag strip and reads the column-0 pixel of each
// scanline.
func (d *Detector) SampleFlag() (FlagSample, error) {
	rect := d.grid.FlagRectAbsolute()
	img, err := d.capturer.Capture(rect)
	if err != nil {
		return nil, err
	}
	h := img.Height
	out := make(FlagSample, h)
	for y := 0; y < h; y++ {
		r, g, b := img.At(0, y)
		out[y] = RGB{r, g, b}
	}
	return out, nil
}

// FlagMatches reports whether current is still aligned with reference:
// true iff any scanline's color distance is below flagMatchThreshold. This
// permissive "any row matches" rule tolerates partial occlusion of the
// strip by whatever overlay the game draws on top of it.
func FlagMatches(current, reference FlagSample) bool {
	n := len(reference)
	if len(current) < n {
		n = len(current)
	}
	for y := 0; y < n; y++ {
		if colorDistance(current[y], reference[y]) < flagMatchThreshold {
			return true
		}
	}
	return false
}

// FlagChanged is the complement of FlagMatches, used to detect "a scroll
// has taken effect".
func FlagChanged(current, reference FlagSample) bool {
	return !FlagMatches(current, reference)
}

func calcPoolScalar(img *capture.RGBImage) float64 {
	var sum float64
	n := img.Width * img.Height
	for i := 0; i < n; i++ {
		sum += float64(img.Pix[i*3])
	}
	return sum
}

// WaitUntilSwitched polls the pool rect until it observes a value change
// followed by exactly one consecutive equal sample (a two-phase
// diff-then-stable condition), bounded by maxWait. In cloud mode it
// bypasses polling entirely and sleeps cloudWait, since cloud streaming
// latency makes pixel polling unreliable.
//
// On success it updates poolScalar and the running avgSwitchMs average.
// scannedCount is the caller's authoritative yield counter, used only to
// weight the average; this detector does NOT maintain its own copy of
// scannedCount, so the same cell is never counted twice.
func (d *Detector) WaitUntilSwitched(isCloud bool, maxWait, cloudWait time.Duration, scannedCount int) error {
	if isCloud {
		time.Sleep(cloudWait)
		return nil
	}

	start := time.Now()
	diffSeen := false
	for time.Since(start) < maxWait {
		img, err := d.capturer.Capture(d.grid.PoolRectAbsolute())
		if err != nil {
			return err
		}
		pool := calcPoolScalar(img)
		if abs64(pool-d.poolScalar) > 1e-6 {
			d.poolScalar = pool
			diffSeen = true
		} else if diffSeen {
			elapsed := time.Since(start)
			d.avgSwitchMs = (d.avgSwitchMs*float64(scannedCount) + float64(elapsed.Milliseconds())) / float64(scannedCount+1)
			return nil
		}
	}
	return ErrWaitSwitchTimeout
}

// AvgSwitchMs returns the running average settle time observed so far.
func (d *Detector) AvgSwitchMs() float64 { return d.avgSwitchMs }

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
