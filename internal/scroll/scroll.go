// Package scroll implements the two-phase scroll calibration loop: a
// bootstrap phase that learns wheel-ticks-per-row by closed-loop polling,
// and a batch phase that estimates and re-aligns.
package scroll

import (
	"errors"
	"math"
	"time"

	"github.com/soocke/reposcan-go/internal/changedetect"
	"github.com/soocke/reposcan-go/internal/inputdriver"
)

// Result is the outcome of one calibration step.
type Result int

const (
	ResultSuccess Result = iota
	ResultSkip
	ResultInterrupt
	ResultTimeLimitExceeded
)

// ErrTimeLimitExceeded names the failure that ResultTimeLimitExceeded
// reports: 25 consecutive ticks failed to advance exactly one row. The
// Calibrator methods report it as that Result and do not return this error.
var ErrTimeLimitExceeded = errors.New("scroll: time limit exceeded")

const (
	maxBootstrapTicks = 25
	maxAlignAttempts  = 10
	bootstrapRowGoal  = 5
	batchUndershoot   = 3.0
)

// Calibrator owns the running tick/row estimate and drives both phases
// against a Driver and a Detector.
type Calibrator struct {
	driver   inputdriver.Driver
	interrupt inputdriver.InterruptSource
	detector *changedetect.Detector
	delay    time.Duration
	isMac    bool

	ScrolledRows   uint32
	AvgTicksPerRow float64
}

// New constructs a Calibrator. isMac forces Phase A on every call: batch
// estimation is unreliable on macOS's momentum-scroll input model, so mac
// always falls back to one-tick-at-a-time calibration.
func New(driver inputdriver.Driver, interrupt inputdriver.InterruptSource, detector *changedetect.Detector, delay time.Duration, isMac bool) *Calibrator {
	return &Calibrator{driver: driver, interrupt: interrupt, detector: detector, delay: delay, isMac: isMac}
}

// ScrollOneRow is Phase A: scroll a single tick at a time until the flag
// strip reports changed-then-matched, updating AvgTicksPerRow on success.
func (c *Calibrator) ScrollOneRow(reference changedetect.FlagSample) Result {
	state := 0
	count := 0

	for count < maxBootstrapTicks {
		if c.interrupt != nil && c.interrupt.Pressed() {
			return ResultInterrupt
		}

		if err := c.driver.Scroll(1, false); err != nil {
			return ResultTimeLimitExceeded
		}
		time.Sleep(c.delay)
		count++

		sample, err := c.detector.SampleFlag()
		if err != nil {
			return ResultTimeLimitExceeded
		}

		switch {
		case state == 0 && changedetect.FlagChanged(sample, reference):
			state = 1
		case state == 1 && changedetect.FlagMatches(sample, reference):
			c.updateAvgRow(count)
			return ResultSuccess
		}
	}

	return ResultTimeLimitExceeded
}

// ScrollRows is the combined Phase A/Phase B entry point: once calibrated
// (ScrolledRows >= 5) and not on mac, it estimates and batch-scrolls count
// rows then re-aligns; otherwise it falls back to Phase A per row.
func (c *Calibrator) ScrollRows(count int, reference changedetect.FlagSample) Result {
	if !c.isMac && c.ScrolledRows >= bootstrapRowGoal {
		length := c.estimateScrollLength(count)
		for i := 0; i < length; i++ {
			if c.interrupt != nil && c.interrupt.Pressed() {
				return ResultInterrupt
			}
			if err := c.driver.Scroll(1, false); err != nil {
				return ResultTimeLimitExceeded
			}
		}
		time.Sleep(c.delay)
		c.AlignRow(reference)
		return ResultSkip
	}

	for i := 0; i < count; i++ {
		switch c.ScrollOneRow(reference) {
		case ResultSuccess, ResultSkip:
			continue
		case ResultInterrupt:
			return ResultInterrupt
		default:
			return ResultTimeLimitExceeded
		}
	}
	return ResultSuccess
}

// AlignRow re-establishes flag-strip alignment after a batch scroll by
// scrolling one tick at a time, up to maxAlignAttempts times.
func (c *Calibrator) AlignRow(reference changedetect.FlagSample) {
	for i := 0; i < maxAlignAttempts; i++ {
		sample, err := c.detector.SampleFlag()
		if err == nil && changedetect.FlagMatches(sample, reference) {
			return
		}
		c.driver.Scroll(1, false)
		time.Sleep(c.delay)
	}
}

func (c *Calibrator) updateAvgRow(count int) {
	current := c.AvgTicksPerRow*float64(c.ScrolledRows) + float64(count)
	c.ScrolledRows++
	c.AvgTicksPerRow = current / float64(c.ScrolledRows)
}

// estimateScrollLength computes the batch-scroll tick estimate:
// round(avg*k - 3), floored at zero. The -3 bias is an intentional
// undershoot, corrected by the subsequent AlignRow.
func (c *Calibrator) estimateScrollLength(count int) int {
	v := math.Round(c.AvgTicksPerRow*float64(count) - batchUndershoot)
	if v < 0 {
		return 0
	}
	return int(v)
}
