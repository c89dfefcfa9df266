// Package scan implements the repository-grid scan controller: the
// stateful driver that walks a rectangular item grid, clicking each cell
// and yielding control to the caller between clicks so it can read the
// detail panel. It is expressed as a resumable state machine rather than
// a goroutine or generator: Advance drives exactly one step, and the
// controller owns all of its state across suspension points.
package scan

import (
	"time"

	"github.com/soocke/reposcan-go/config"
	"github.com/soocke/reposcan-go/internal/capture"
	"github.com/soocke/reposcan-go/internal/changedetect"
	"github.com/soocke/reposcan-go/internal/geometry"
	"github.com/soocke/reposcan-go/internal/inputdriver"
	"github.com/soocke/reposcan-go/internal/scroll"
	"github.com/soocke/reposcan-go/internal/window"
)

// Controller is a single-use iterator over one grid scan. Construct with
// New, then call Advance repeatedly until it returns a terminal Status.
type Controller struct {
	win       window.Descriptor
	cfg       *config.Config
	capturer  capture.Capturer
	driver    inputdriver.Driver
	interrupt inputdriver.InterruptSource

	grid       geometry.Grid
	detector   *changedetect.Detector
	calibrator *scroll.Calibrator

	itemCount  int
	cols       int
	totalRow   int
	lastRowCol int
	rowBound   int // min(configured visible rows, totalRow), fixed for the run

	phase phase

	startRow     int
	row, col     int
	rowItemCount int
	scannedRow   int
	scannedCount int

	initialFlag changedetect.FlagSample

	finalStatus Status
	finalErr    error
}

// New constructs a Controller bound to a window, its capture/input
// backends, and a fixed item count to scan. Nothing runs until the first
// call to Advance.
func New(win window.Descriptor, cfg *config.Config, capturer capture.Capturer, driver inputdriver.Driver, interrupt inputdriver.InterruptSource, itemCount int) *Controller {
	grid := cfg.Grid(geometry.Pos{X: win.OriginX, Y: win.OriginY})
	detector := changedetect.New(capturer, grid)
	delay := time.Duration(cfg.ScrollDelayMs) * time.Millisecond
	calibrator := scroll.New(driver, interrupt, detector, delay, win.Platform == window.PlatformMacOS)

	cols := cfg.ItemCol
	totalRow := (itemCount + cols - 1) / cols
	lastRowCol := itemCount % cols
	if lastRowCol == 0 {
		lastRowCol = cols
	}
	rowBound := cfg.ItemRow
	if totalRow < rowBound {
		rowBound = totalRow
	}

	return &Controller{
		win: win, cfg: cfg, capturer: capturer, driver: driver, interrupt: interrupt,
		grid: grid, detector: detector, calibrator: calibrator,
		itemCount: itemCount, cols: cols, totalRow: totalRow, lastRowCol: lastRowCol, rowBound: rowBound,
		phase: phaseInit,
	}
}

// ScannedCount returns the number of cells the caller has resumed past.
// The count for a yielded cell is added on the next call to Advance, so
// right after Advance returns StatusYielded it is one less than the number
// of yields emitted so far.
func (c *Controller) ScannedCount() int { return c.scannedCount }

// AvgTicksPerRow exposes the scroll calibrator's running estimate.
func (c *Controller) AvgTicksPerRow() float64 { return c.calibrator.AvgTicksPerRow }

// Grid exposes the layout the controller is walking, so a caller may
// capture any sub-rect of the detail panel between yields.
func (c *Controller) Grid() geometry.Grid { return c.grid }

// LastCell returns the (row, col) of the cell most recently clicked,
// valid immediately after Advance returns StatusYielded.
func (c *Controller) LastCell() (row, col int) { return c.row, c.col }

// Advance runs the controller until its next yield or a terminal status.
// On StatusYielded, the caller may read the detail panel before calling
// Advance again. On any other status the controller is done; further
// calls return the same terminal value.
func (c *Controller) Advance() (Status, error) {
	switch c.phase {
	case phaseDone:
		return c.finalStatus, c.finalErr
	case phaseInit:
		if err := c.setup(); err != nil {
			return c.finish(StatusFinished, err)
		}
		c.phase = phaseScanning
		c.row = c.startRow
		c.col = 0
		c.rowItemCount = c.rowItemCountFor(c.scannedRow)
	default:
		// Resuming after a yield: the caller has finished with the
		// previously clicked cell.
		c.scannedCount++
		c.col++
	}

	for {
		if c.scannedCount >= c.itemCount {
			return c.finish(StatusFinished, nil)
		}

		if c.col >= c.rowItemCount {
			c.scannedRow++
			c.row++
			if c.scannedRow >= c.cfg.MaxRow {
				return c.finish(StatusFinished, nil)
			}
			if c.row >= c.rowBound {
				stop, status, err := c.scrollBatch()
				if stop {
					return c.finish(status, err)
				}
				continue
			}
			c.rowItemCount = c.rowItemCountFor(c.scannedRow)
			c.col = 0
			continue
		}

		if c.interrupt != nil && c.interrupt.Pressed() {
			return c.finish(StatusInterrupted, nil)
		}
		if c.scannedCount > c.itemCount {
			return c.finish(StatusFinished, nil)
		}

		if err := c.clickCell(c.row, c.col); err != nil {
			return c.finish(StatusFinished, err)
		}
		return StatusYielded, nil
	}
}

func (c *Controller) rowItemCountFor(scannedRow int) int {
	if c.totalRow > 0 && scannedRow == c.totalRow-1 {
		return c.lastRowCol
	}
	return c.cols
}

func (c *Controller) setup() error {
	x, y := c.grid.CellCenter(0, 0)
	if err := c.driver.MoveTo(int(x), int(y)); err != nil {
		return err
	}
	time.Sleep(c.driver.SettleDelay())
	if err := c.driver.Click(); err != nil {
		return err
	}
	time.Sleep(1000 * time.Millisecond)

	flag, err := c.detector.SampleFlag()
	if err != nil {
		return err
	}
	c.initialFlag = flag
	return nil
}

func (c *Controller) clickCell(row, col int) error {
	x, y := c.grid.CellCenter(row, col)
	if err := c.driver.MoveTo(int(x), int(y)); err != nil {
		return err
	}
	time.Sleep(c.driver.SettleDelay())
	if err := c.driver.Click(); err != nil {
		return err
	}
	time.Sleep(c.driver.SettleDelay())

	maxWait := time.Duration(c.cfg.MaxWaitSwitchItemMs) * time.Millisecond
	cloudWait := time.Duration(c.cfg.CloudWaitSwitchMs) * time.Millisecond
	// Switch-wait timeout is non-fatal: the cell is yielded regardless and
	// downstream OCR decides whether the frame is usable.
	_ = c.detector.WaitUntilSwitched(c.win.IsCloud, maxWait, cloudWait, c.scannedCount)
	return nil
}

// scrollBatch runs one outer-loop scroll step. stop reports whether the
// scan must end immediately with (status, err); otherwise the caller
// should continue its loop with row/col freshly reset to startRow/0.
func (c *Controller) scrollBatch() (stop bool, status Status, err error) {
	remain := c.itemCount - c.scannedCount
	remRow := (remain + c.cols - 1) / c.cols
	scrollRow := remRow
	if scrollRow > c.cfg.ItemRow {
		scrollRow = c.cfg.ItemRow
	}
	c.startRow = c.cfg.ItemRow - scrollRow

	switch c.calibrator.ScrollRows(scrollRow, c.initialFlag) {
	case scroll.ResultInterrupt:
		return true, StatusInterrupted, nil
	case scroll.ResultTimeLimitExceeded:
		return true, StatusFinished, ErrScrollTimeout
	}

	time.Sleep(100 * time.Millisecond)
	c.row = c.startRow
	c.col = 0
	c.rowItemCount = c.rowItemCountFor(c.scannedRow)
	return false, 0, nil
}

func (c *Controller) finish(status Status, err error) (Status, error) {
	c.phase = phaseDone
	c.finalStatus = status
	c.finalErr = err
	return status, err
}
