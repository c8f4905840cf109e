package compositor

import (
	"runtime"

	"github.com/glint-player/glint/constant"
	"golang.org/x/sync/errgroup"
)

// copyRows copies rows [from, to) of the rectangle into dst, packed with no padding.
// Full-width rows are one contiguous copy each; partial rows read RowBytes at (Y+row)*stride + X*4.
func copyRows(dst []byte, f Frame, from, to int) {
	stride := f.Stride()

	if f.FullRows() {
		base := f.Y*stride + f.X*constant.BytesPerPixel
		for row := from; row < to; row++ {
			src := base + row*stride
			copy(dst[row*stride:(row+1)*stride], f.Pixels[src:src+stride])
		}
		return
	}

	rowBytes := f.RowBytes()
	for row := from; row < to; row++ {
		src := (f.Y+row)*stride + f.X*constant.BytesPerPixel
		copy(dst[row*rowBytes:(row+1)*rowBytes], f.Pixels[src:src+rowBytes])
	}
}

// stageSequential copies the whole rectangle on the calling goroutine.
func stageSequential(dst []byte, f Frame) {
	copyRows(dst, f, 0, f.Height)
}

// stageParallel splits the rectangle into row chunks of about taskBytes and copies them concurrently.
// Chunks never overlap in dst, so the result matches stageSequential byte for byte.
func stageParallel(dst []byte, f Frame, taskBytes int) {
	rowsPerTask := max(1, taskBytes/f.RowBytes())

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for from := 0; from < f.Height; from += rowsPerTask {
		from, to := from, min(from+rowsPerTask, f.Height)
		g.Go(func() error {
			copyRows(dst, f, from, to)
			return nil
		})
	}

	_ = g.Wait()
}
