// Package compositor streams UI overlay rectangles into GPU textures and blends them over the video
// surface.
//
// Overlay pixels travel through two staging buffers used in strict alternation, so the copy into one
// can overlap the GPU's transfer out of the other. The video texture backs a framebuffer the playback
// engine renders into; Draw blends the overlay over it into the default framebuffer.
package compositor

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/glint-player/glint/constant"
	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/metrics"
	"github.com/spf13/viper"
)

var (
	ErrFramebufferIncomplete = errors.New("video framebuffer incomplete")
	ErrMapFailed             = errors.New("staging buffer could not be mapped")
	ErrOutOfBounds           = errors.New("frame exceeds the compositor surface")
	ErrClosed                = errors.New("compositor closed")
)

const (
	vertexShader = `#version 330 core
layout (location = 0) in vec2 position;
layout (location = 1) in vec2 uv;
out vec2 frag_uv;
void main() {
	frag_uv = uv;
	gl_Position = vec4(position, 0.0, 1.0);
}
`

	fragmentShader = `#version 330 core
in vec2 frag_uv;
out vec4 color;
uniform sampler2D video_texture;
uniform sampler2D overlay_texture;
void main() {
	vec4 video = texture(video_texture, frag_uv);
	vec4 overlay = texture(overlay_texture, vec2(frag_uv.x, 1.0 - frag_uv.y));
	color = overlay + video * (1.0 - overlay.a);
}
`
)

// Options tune the staging copy.
type Options struct {
	// ParallelThreshold is the rectangle size in bytes above which rows are copied concurrently.
	ParallelThreshold int
	// TaskBytes is the approximate number of bytes each concurrent task copies.
	TaskBytes int
	// Batch is the maximum number of frames Flush paints.
	Batch int
}

// DefaultOptions reads the options from the configuration.
func DefaultOptions() Options {
	opts := Options{
		ParallelThreshold: viper.GetInt(key.CompositorParallelThreshold),
		TaskBytes:         viper.GetInt(key.CompositorTaskBytes),
		Batch:             viper.GetInt(key.CompositorBatch),
	}
	if opts.ParallelThreshold <= 0 {
		opts.ParallelThreshold = 4 * 1024 * 1024
	}
	if opts.TaskBytes <= 0 {
		opts.TaskBytes = 32 * 1024
	}
	if opts.Batch <= 0 {
		opts.Batch = 8
	}
	return opts
}

// Compositor owns every GPU object of the two-layer surface. It is not safe for concurrent use;
// all calls belong to the graphics thread.
type Compositor struct {
	driver Driver
	opts   Options

	program        uint32
	videoUniform   int32
	overlayUniform int32
	video          uint32
	overlay        uint32
	vao, vbo       uint32
	fbo            uint32
	staging        [2]uint32
	paints         atomic.Uint64

	width, height int
	refreshRate   int
	adapter       string
	closed        bool
}

// New creates the program, both textures, the quad, the video framebuffer and both staging buffers.
// Any partially created objects are released on failure.
func New(driver Driver, width, height, refreshRate int, opts Options) (*Compositor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	c := &Compositor{
		driver:      driver,
		opts:        opts,
		width:       width,
		height:      height,
		refreshRate: refreshRate,
	}

	program, err := driver.CompileProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compile program: %w", err)
	}
	c.program = program
	driver.UseProgram(program)
	c.videoUniform = driver.UniformLocation(program, "video_texture")
	c.overlayUniform = driver.UniformLocation(program, "overlay_texture")

	c.overlay = driver.CreateTexture(width, height)
	c.video = driver.CreateTexture(width, height)
	c.vao, c.vbo = driver.CreateQuad(program)

	c.fbo = driver.CreateFramebuffer(c.video)
	if !driver.FramebufferComplete(c.fbo) {
		c.Close()
		return nil, ErrFramebufferIncomplete
	}

	size := width * height * constant.BytesPerPixel
	c.staging[0] = driver.CreatePixelBuffer(size)
	c.staging[1] = driver.CreatePixelBuffer(size)

	driver.Viewport(width, height)
	c.adapter = driver.Renderer()

	log.For("compositor").
		WithField("size", fmt.Sprintf("%dx%d", width, height)).
		WithField("adapter", c.adapter).
		Info("compositor ready")

	return c, nil
}

// FBO is the framebuffer the playback engine renders video into.
func (c *Compositor) FBO() uint32 { return c.fbo }

// Size returns the surface size in pixels.
func (c *Compositor) Size() (width, height int) { return c.width, c.height }

// RefreshRate is the display refresh rate in Hz the compositor was created for.
func (c *Compositor) RefreshRate() int { return c.refreshRate }

// Adapter is the GPU renderer name reported by the driver.
func (c *Compositor) Adapter() string { return c.adapter }

// Resize reallocates both staging buffers and both textures for a new surface size.
func (c *Compositor) Resize(width, height int) {
	if c.closed || width <= 0 || height <= 0 {
		return
	}

	c.width, c.height = width, height
	c.driver.Viewport(width, height)

	size := width * height * constant.BytesPerPixel
	c.driver.ResizePixelBuffer(c.staging[0], size)
	c.driver.ResizePixelBuffer(c.staging[1], size)
	c.driver.ResizeTexture(c.video, width, height)
	c.driver.ResizeTexture(c.overlay, width, height)
}

// Paint copies the frame's rectangle into the next staging buffer and uploads it into the overlay
// texture. The frame's pixels are not retained.
func (c *Compositor) Paint(frame Frame) error {
	if c.closed {
		return ErrClosed
	}
	if err := frame.Validate(); err != nil {
		return err
	}
	if frame.X+frame.Width > c.width || frame.Y+frame.Height > c.height {
		return fmt.Errorf("%w: %dx%d at (%d, %d) on %dx%d", ErrOutOfBounds,
			frame.Width, frame.Height, frame.X, frame.Y, c.width, c.height)
	}

	start := time.Now()
	buffer := c.staging[(c.paints.Add(1)-1)%2]

	size := frame.RowBytes() * frame.Height
	dst := c.driver.MapPixelBuffer(buffer, size)
	if dst == nil {
		return ErrMapFailed
	}

	path := "sequential"
	if size > c.opts.ParallelThreshold {
		path = "parallel"
		stageParallel(dst, frame, c.opts.TaskBytes)
	} else {
		stageSequential(dst, frame)
	}

	c.driver.UnmapPixelBuffer(buffer)
	c.driver.UploadRegion(c.overlay, buffer, frame.X, frame.Y, frame.Width, frame.Height)

	metrics.PaintsTotal.WithLabelValues(path).Inc()
	metrics.PaintBytes.Add(float64(size))
	metrics.Since(metrics.PaintDuration, start)
	return nil
}

// Flush paints up to Options.Batch queued frames in order and leaves the rest queued.
// It returns how many frames were painted.
func (c *Compositor) Flush(source FrameSource) int {
	frames := source.PopBatch(c.opts.Batch)
	metrics.QueueDepth.Set(float64(source.Len()))

	painted := 0
	for _, frame := range frames {
		if err := c.Paint(frame); err != nil {
			log.For("compositor").Warnf("dropping overlay frame: %s", err)
			continue
		}
		painted++
	}
	return painted
}

// ClearVideo clears the video framebuffer before the engine renders into it.
func (c *Compositor) ClearVideo() {
	if c.closed {
		return
	}
	c.driver.ClearFramebuffer(c.fbo)
}

// Draw blends the overlay over the video into the default framebuffer.
func (c *Compositor) Draw() {
	if c.closed {
		return
	}

	c.driver.EnableBlend()
	c.driver.UseProgram(c.program)
	c.driver.BindTexture(0, c.video, c.videoUniform)
	c.driver.BindTexture(1, c.overlay, c.overlayUniform)
	c.driver.ClearFramebuffer(0)
	c.driver.DrawQuad(c.vao)
}

// Close deletes every GPU object. It is safe after a failed New and on repeated calls.
func (c *Compositor) Close() {
	if c.closed {
		return
	}
	c.closed = true

	d := c.driver
	if c.program != 0 {
		d.DeleteProgram(c.program)
	}
	for _, texture := range []uint32{c.overlay, c.video} {
		if texture != 0 {
			d.DeleteTexture(texture)
		}
	}
	for _, buffer := range []uint32{c.vbo, c.staging[0], c.staging[1]} {
		if buffer != 0 {
			d.DeleteBuffer(buffer)
		}
	}
	if c.vao != 0 {
		d.DeleteVertexArray(c.vao)
	}
	if c.fbo != 0 {
		d.DeleteFramebuffer(c.fbo)
	}

	c.program, c.overlay, c.video, c.vao, c.vbo, c.fbo = 0, 0, 0, 0, 0, 0
	c.staging = [2]uint32{}
}
