// Package itemframe defines the seam between the scan controller and its
// downstream OCR/parsing collaborator. The scanner never inspects a
// Frame's pixels itself; identifying the item is left to that collaborator.
package itemframe

import "github.com/soocke/reposcan-go/internal/capture"

// Frame is the value available to the caller between two advances of the
// scan controller's iterator: the detail-panel capture of the
// just-clicked cell, plus enough bookkeeping to correlate it with a grid
// position.
type Frame struct {
	Sequence int // 0-based order of emission
	Row, Col int // grid-visible coordinates at time of click
	Detail   *capture.RGBImage
}

// Sink is the consumer-side interface a driver loop feeds one Frame at a
// time. A real implementation would hand the frame to OCR; this repo
// ships no such implementation.
type Sink interface {
	Accept(Frame) error
}

// Collector is a trivial Sink that simply appends received frames,
// useful for tests and for a caller that wants to batch frames before
// handing them to an external OCR process.
type Collector struct {
	Frames []Frame
}

func (c *Collector) Accept(f Frame) error {
	c.Frames = append(c.Frames, f)
	return nil
}
