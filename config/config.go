// Package config holds runtime configuration for the repository-grid
// scanner. Fields may be loaded from a JSON file and overridden by the
// thin CLI wiring in main.go.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/soocke/reposcan-go/internal/geometry"
)

// Config holds every tunable knob for a single scan run: grid geometry,
// timing budgets, and the switches the CLI exposes.
type Config struct {
	Debug bool `json:"debug"`

	MaxRow               int `json:"max_row"`
	MaxWaitSwitchItemMs  int `json:"max_wait_switch_item"`
	CloudWaitSwitchMs    int `json:"cloud_wait_switch_item"`
	ScrollDelayMs        int `json:"scroll_delay"`

	ItemRow       int     `json:"item_row"`
	ItemCol       int     `json:"item_col"`
	ItemSizeW     float64 `json:"item_size_w"`
	ItemSizeH     float64 `json:"item_size_h"`
	ItemGapW      float64 `json:"item_gap_size_w"`
	ItemGapH      float64 `json:"item_gap_size_h"`
	ScanMarginX   float64 `json:"scan_margin_pos_x"`
	ScanMarginY   float64 `json:"scan_margin_pos_y"`
	FlagRectTop   float64 `json:"flag_rect_top"`
	FlagRectLeft  float64 `json:"flag_rect_left"`
	FlagRectH     float64 `json:"flag_rect_height"`
	PoolRectLeft  float64 `json:"pool_rect_left"`
	PoolRectTop   float64 `json:"pool_rect_top"`
	PoolRectW     float64 `json:"pool_rect_width"`
	PoolRectH     float64 `json:"pool_rect_height"`
}

// DefaultConfig returns a Config populated with standard defaults, tuned
// for a 1920x1080 desktop client (flag gap of 20px, as noted in the
// original implementation's capture_flag comment).
func DefaultConfig() *Config {
	return &Config{
		Debug:               false,
		MaxRow:              1000,
		MaxWaitSwitchItemMs: 800,
		CloudWaitSwitchMs:   300,
		ScrollDelayMs:       80,
		ItemRow:             4,
		ItemCol:             8,
		ItemSizeW:           94,
		ItemSizeH:           94,
		ItemGapW:            10,
		ItemGapH:            10,
		ScanMarginX:         20,
		ScanMarginY:         20,
		FlagRectLeft:        0,
		FlagRectTop:         -20,
		FlagRectH:           20,
		PoolRectLeft:        300,
		PoolRectTop:         120,
		PoolRectW:           160,
		PoolRectH:           160,
	}
}

// Validate clamps/normalizes values to safe ranges rather than erroring,
// so a slightly malformed config file still produces a runnable scan.
func (c *Config) Validate() error {
	if c.MaxRow <= 0 {
		c.MaxRow = 1000
	}
	if c.MaxWaitSwitchItemMs <= 0 {
		c.MaxWaitSwitchItemMs = 800
	}
	if c.CloudWaitSwitchMs <= 0 {
		c.CloudWaitSwitchMs = 300
	}
	if c.ScrollDelayMs <= 0 {
		c.ScrollDelayMs = 80
	}
	if c.ItemRow <= 0 {
		c.ItemRow = 4
	}
	if c.ItemCol <= 0 {
		c.ItemCol = 8
	}
	if c.ItemSizeW <= 0 || c.ItemSizeH <= 0 {
		c.ItemSizeW, c.ItemSizeH = 94, 94
	}
	if c.FlagRectH <= 0 || c.FlagRectH > 50 {
		c.FlagRectH = 20
	}
	if c.PoolRectW <= 0 || c.PoolRectH <= 0 {
		c.PoolRectW, c.PoolRectH = 160, 160
	}
	return nil
}

// Grid builds the pure geometry.Grid this config describes, anchored at the
// given window origin.
func (c *Config) Grid(origin geometry.Pos) geometry.Grid {
	return geometry.Grid{
		Rows:     c.ItemRow,
		Cols:     c.ItemCol,
		Origin:   origin,
		Margin:   geometry.Pos{X: c.ScanMarginX, Y: c.ScanMarginY},
		ItemSize: geometry.Size{Width: c.ItemSizeW, Height: c.ItemSizeH},
		Gap:      geometry.Size{Width: c.ItemGapW, Height: c.ItemGapH},
		FlagRect: geometry.Rect{Left: c.FlagRectLeft, Top: c.FlagRectTop, Width: 1, Height: c.FlagRectH},
		PoolRect: geometry.Rect{Left: c.PoolRectLeft, Top: c.PoolRectTop, Width: c.PoolRectW, Height: c.PoolRectH},
	}
}

// Load reads a JSON config file, falling back to DefaultConfig on any read
// or decode error so callers always get a usable Config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save persists the config as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
