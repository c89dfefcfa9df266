package scroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/reposcan-go/internal/capture"
	"github.com/soocke/reposcan-go/internal/changedetect"
	"github.com/soocke/reposcan-go/internal/geometry"
)

// periodicFlagCapturer reports the flag strip as "matching" exactly every
// rowPeriod ticks, so a single Calibrator.ScrollOneRow call always costs
// exactly rowPeriod ticks, deterministically.
type periodicFlagCapturer struct {
	ticks     *int
	rowPeriod int
}

func (c *periodicFlagCapturer) Capture(rect geometry.Rect) (*capture.RGBImage, error) {
	var r byte
	if *c.ticks%c.rowPeriod != 0 {
		r = 200
	}
	return &capture.RGBImage{Width: 1, Height: 1, Pix: []byte{r, 0, 0}}, nil
}

type tickDriver struct {
	ticks     int
	scrollErr error
}

func (d *tickDriver) MoveTo(x, y int) error { return nil }
func (d *tickDriver) Click() error          { return nil }
func (d *tickDriver) Scroll(ticks int, fastHint bool) error {
	if d.scrollErr != nil {
		return d.scrollErr
	}
	d.ticks += ticks
	return nil
}
func (d *tickDriver) SettleDelay() time.Duration { return 0 }

type neverInterrupt struct{}

func (neverInterrupt) Pressed() bool { return false }

// Scenario 5: calibration convergence. A reference scroll of exactly 7
// ticks per row, sampled over 5 rows, should converge AvgTicksPerRow to
// 7.0 and then issue max(0, round(7k-3)) ticks for a batch scroll of k
// rows.
func TestCalibrationConvergence(t *testing.T) {
	driver := &tickDriver{}
	grid := geometry.Grid{FlagRect: geometry.Rect{Width: 1, Height: 1}}
	detector := changedetect.New(&periodicFlagCapturer{ticks: &driver.ticks, rowPeriod: 7}, grid)
	calibrator := New(driver, neverInterrupt{}, detector, 0, false)

	reference, err := detector.SampleFlag()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		result := calibrator.ScrollOneRow(reference)
		require.Equal(t, ResultSuccess, result)
	}

	assert.Equal(t, uint32(5), calibrator.ScrolledRows)
	assert.InDelta(t, 7.0, calibrator.AvgTicksPerRow, 1e-9)
	assert.Equal(t, 35, driver.ticks)

	for _, k := range []int{1, 3, 10} {
		before := driver.ticks
		got := calibrator.estimateScrollLength(k)
		want := int(roundAway(7.0*float64(k) - 3.0))
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, got)
		assert.Equal(t, before, driver.ticks) // estimate alone issues no ticks
	}
}

func roundAway(v float64) float64 {
	if v < 0 {
		return -roundAway(-v)
	}
	return float64(int64(v + 0.5))
}

// Phase A never succeeds when the flag strip never reports a match again;
// ScrollOneRow must give up after the fixed tick budget.
func TestScrollOneRowTimesOut(t *testing.T) {
	driver := &tickDriver{}
	grid := geometry.Grid{FlagRect: geometry.Rect{Width: 1, Height: 1}}
	// rowPeriod larger than maxBootstrapTicks: never matches again within budget.
	detector := changedetect.New(&periodicFlagCapturer{ticks: &driver.ticks, rowPeriod: 1000}, grid)
	calibrator := New(driver, neverInterrupt{}, detector, 0, false)

	reference, err := detector.SampleFlag()
	require.NoError(t, err)

	result := calibrator.ScrollOneRow(reference)
	assert.Equal(t, ResultTimeLimitExceeded, result)
	assert.Equal(t, maxBootstrapTicks, driver.ticks)
}

// An interrupt firing mid scroll-calibration returns immediately with no
// further ticks issued.
func TestScrollOneRowInterrupted(t *testing.T) {
	driver := &tickDriver{}
	grid := geometry.Grid{FlagRect: geometry.Rect{Width: 1, Height: 1}}
	detector := changedetect.New(&periodicFlagCapturer{ticks: &driver.ticks, rowPeriod: 7}, grid)

	fired := false
	interrupt := interruptFunc(func() bool {
		if driver.ticks >= 2 {
			fired = true
			return true
		}
		return false
	})
	calibrator := New(driver, interrupt, detector, 0, false)

	reference, err := detector.SampleFlag()
	require.NoError(t, err)

	result := calibrator.ScrollOneRow(reference)
	assert.Equal(t, ResultInterrupt, result)
	assert.True(t, fired)
}

type interruptFunc func() bool

func (f interruptFunc) Pressed() bool { return f() }
