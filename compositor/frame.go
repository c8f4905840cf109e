package compositor

import (
	"errors"
	"fmt"

	"github.com/glint-player/glint/constant"
)

var ErrInvalidFrame = errors.New("invalid frame")

// Frame is a dirty rectangle of the UI surface. Pixels holds the whole surface in BGRA with a
// stride of FullWidth*4 bytes; only the rectangle is read.
type Frame struct {
	X, Y          int
	Width, Height int
	FullWidth     int
	FullHeight    int
	Pixels        []byte
}

// Stride is the byte length of one source row.
func (f Frame) Stride() int {
	return f.FullWidth * constant.BytesPerPixel
}

// RowBytes is the byte length of one rectangle row.
func (f Frame) RowBytes() int {
	return f.Width * constant.BytesPerPixel
}

// FullRows reports whether the rectangle spans the whole surface width.
func (f Frame) FullRows() bool {
	return f.Width == f.FullWidth
}

// Validate checks that the rectangle lies inside the surface and that Pixels covers it.
func (f Frame) Validate() error {
	switch {
	case f.Width <= 0 || f.Height <= 0:
		return fmt.Errorf("%w: empty rectangle %dx%d", ErrInvalidFrame, f.Width, f.Height)
	case f.X < 0 || f.Y < 0:
		return fmt.Errorf("%w: negative origin (%d, %d)", ErrInvalidFrame, f.X, f.Y)
	case f.X+f.Width > f.FullWidth || f.Y+f.Height > f.FullHeight:
		return fmt.Errorf("%w: rectangle exceeds %dx%d surface", ErrInvalidFrame, f.FullWidth, f.FullHeight)
	}

	last := ((f.Y+f.Height-1)*f.FullWidth + f.X + f.Width) * constant.BytesPerPixel
	if len(f.Pixels) < last {
		return fmt.Errorf("%w: %d pixel bytes, need %d", ErrInvalidFrame, len(f.Pixels), last)
	}
	return nil
}

// FrameSource hands out queued frames, oldest first.
type FrameSource interface {
	PopBatch(max int) []Frame
	Len() int
}
