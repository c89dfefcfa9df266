package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/soocke/reposcan-go/config"
	"github.com/soocke/reposcan-go/internal/capture"
	"github.com/soocke/reposcan-go/internal/diag"
	"github.com/soocke/reposcan-go/internal/export"
	"github.com/soocke/reposcan-go/internal/geometry"
	"github.com/soocke/reposcan-go/internal/inputdriver"
	"github.com/soocke/reposcan-go/internal/itemframe"
	"github.com/soocke/reposcan-go/internal/scan"
	"github.com/soocke/reposcan-go/internal/window"
)

func hostPlatform() window.Platform {
	switch runtime.GOOS {
	case "windows":
		return window.PlatformWindows
	case "darwin":
		return window.PlatformMacOS
	default:
		return window.PlatformLinux
	}
}

func main() {
	configPath := flag.String("config", "reposcan_config.json", "path to the JSON config file")
	originX := flag.Float64("origin-x", 0, "window origin X, desktop coordinates")
	originY := flag.Float64("origin-y", 0, "window origin Y, desktop coordinates")
	width := flag.Float64("width", 1920, "window width")
	height := flag.Float64("height", 1080, "window height")
	title := flag.String("title", "", "window title, for logging only")
	isCloud := flag.Bool("cloud", false, "use the fixed cloud-mode switch delay instead of polling")
	itemCount := flag.Int("items", 0, "number of grid cells to scan")
	outPath := flag.String("out", "reposcan_export.json", "output path for the export writer")
	format := flag.String("format", "json", "export format: json|mona")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	loadErr := err
	if err != nil {
		cfg = config.DefaultConfig()
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if loadErr != nil {
		logger.Warn("failed to load config; using defaults", "path", *configPath, "error", loadErr)
	}

	if cfg.Debug {
		diag.StartGoroutineLogger(5*time.Second, logger)
		diag.StartMemLogger(5*time.Second, logger)
	}

	win := window.Descriptor{
		OriginX:  *originX,
		OriginY:  *originY,
		Width:    *width,
		Height:   *height,
		Title:    *title,
		Platform: hostPlatform(),
		IsCloud:  *isCloud,
	}

	capturer := capture.NewCapturer()
	driver := inputdriver.NewDriver()
	interrupt := inputdriver.NewInterruptSource()

	if err := runScan(logger, cfg, win, capturer, driver, interrupt, *itemCount, *outPath, *format); err != nil {
		logger.Error("scan terminated with error", "error", err)
		os.Exit(1)
	}
}

// runScan drives the scan controller to completion, handing each yielded
// cell's detail-panel capture to a Sink, and finally exports whatever was
// collected. Item identification (OCR/parsing) is out of scope: every
// exported record is built with only its grid position set, and the JSON
// writers do not serialize Row/Col, so the written records carry empty
// identification fields.
func runScan(logger *slog.Logger, cfg *config.Config, win window.Descriptor, capturer capture.Capturer, driver inputdriver.Driver, interrupt inputdriver.InterruptSource, itemCount int, outPath, format string) error {
	controller := scan.New(win, cfg, capturer, driver, interrupt, itemCount)
	collector := &itemframe.Collector{}

	sequence := 0
	for {
		status, err := controller.Advance()
		switch status {
		case scan.StatusYielded:
			row, col := controller.LastCell()
			ox, oy := win.Origin()
			detail, capErr := capture.CaptureRelative(capturer, controller.Grid().PoolRect, geometry.Pos{X: ox, Y: oy})
			if capErr != nil {
				logger.Warn("detail capture failed", "row", row, "col", col, "error", capErr)
			}
			if sinkErr := collector.Accept(itemframe.Frame{Sequence: sequence, Row: row, Col: col, Detail: detail}); sinkErr != nil {
				logger.Warn("sink rejected frame", "row", row, "col", col, "error", sinkErr)
			}
			sequence++
			logger.Debug("yielded cell", "row", row, "col", col, "scanned", controller.ScannedCount())
		case scan.StatusFinished:
			if err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			logger.Info("scan finished", "frames", len(collector.Frames))
			return writeExport(collector, outPath, format)
		case scan.StatusInterrupted:
			logger.Info("scan interrupted", "frames", len(collector.Frames))
			return writeExport(collector, outPath, format)
		}
	}
}

func writeExport(collector *itemframe.Collector, outPath, format string) error {
	items := make([]export.ExportedItem, len(collector.Frames))
	for i, f := range collector.Frames {
		items[i] = export.ExportedItem{Row: f.Row, Col: f.Col}
	}

	var writer export.Writer
	switch format {
	case "mona":
		writer = export.Mona{Version: 1}
	default:
		writer = export.GenericJSON{}
	}
	return writer.WriteAll(outPath, items)
}

// Panic fallback for init: a panic raised inside this function is printed
// with its stack to stderr and the process exits with status 1. Panics
// raised in main or in other packages are not recovered here.
func init() {
	defer func() {
		if r := recover(); r != nil {
			os.Stderr.WriteString("panic during init: ")
			os.Stderr.WriteString(fmt.Sprintf("%v\n%s", r, debug.Stack()))
			os.Exit(1)
		}
	}()
}
