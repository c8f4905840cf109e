// Package opengl implements compositor.Driver on an OpenGL 3.3 core context.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/glint-player/glint/compositor"
	"github.com/go-gl/gl/v3.3-core/gl"
)

// quad is a full-surface triangle strip of (x, y, u, v) vertices.
var quad = []float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	-1, 1, 0, 1,
	1, 1, 1, 1,
}

// Driver issues GL calls on the current context.
type Driver struct{}

// New loads the GL entry points. A context must be current on the calling thread.
func New() (*Driver, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init gl: %w", err)
	}
	return &Driver{}, nil
}

// Version returns the GL version string of the current context.
func (d *Driver) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)

	sources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, sources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
		info := strings.Repeat("\x00", int(length+1))
		gl.GetShaderInfoLog(shader, length, nil, gl.Str(info))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(info, "\x00"))
	}

	return shader, nil
}

func (d *Driver) CompileProgram(vertex, fragment string) (uint32, error) {
	vs, err := compileShader(vertex, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
		info := strings.Repeat("\x00", int(length+1))
		gl.GetProgramInfoLog(program, length, nil, gl.Str(info))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(info, "\x00"))
	}

	return program, nil
}

func (d *Driver) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Driver) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Driver) CreateTexture(width, height int) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	d.ResizeTexture(texture, width, height)
	return texture
}

func (d *Driver) ResizeTexture(texture uint32, width, height int) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.BGRA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (d *Driver) BindTexture(unit int, texture uint32, uniform int32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.Uniform1i(uniform, int32(unit))
}

func (d *Driver) CreateQuad(program uint32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)

	const stride = 4 * 4
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(2*4))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

func (d *Driver) DrawQuad(vao uint32) {
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

func (d *Driver) CreateFramebuffer(texture uint32) uint32 {
	var framebuffer uint32
	gl.GenFramebuffers(1, &framebuffer)
	gl.BindFramebuffer(gl.FRAMEBUFFER, framebuffer)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return framebuffer
}

func (d *Driver) FramebufferComplete(framebuffer uint32) bool {
	gl.BindFramebuffer(gl.FRAMEBUFFER, framebuffer)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}

func (d *Driver) ClearFramebuffer(framebuffer uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, framebuffer)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if framebuffer != 0 {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
}

func (d *Driver) CreatePixelBuffer(size int) uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	d.ResizePixelBuffer(buffer, size)
	return buffer
}

func (d *Driver) ResizePixelBuffer(buffer uint32, size int) {
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, buffer)
	gl.BufferData(gl.PIXEL_UNPACK_BUFFER, size, nil, gl.STREAM_DRAW)
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)
}

// MapPixelBuffer leaves buffer bound to the unpack target until UnmapPixelBuffer.
func (d *Driver) MapPixelBuffer(buffer uint32, size int) []byte {
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, buffer)
	ptr := gl.MapBufferRange(gl.PIXEL_UNPACK_BUFFER, 0, size, gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_RANGE_BIT)
	if ptr == nil {
		gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)
		return nil
	}
	return unsafe.Slice((*byte)(ptr), size)
}

func (d *Driver) UnmapPixelBuffer(buffer uint32) {
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, buffer)
	gl.UnmapBuffer(gl.PIXEL_UNPACK_BUFFER)
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)
}

func (d *Driver) UploadRegion(texture, buffer uint32, x, y, width, height int) {
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, buffer)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(width), int32(height), gl.BGRA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindBuffer(gl.PIXEL_UNPACK_BUFFER, 0)
}

func (d *Driver) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Driver) EnableBlend() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.BlendEquation(gl.FUNC_ADD)
}

func (d *Driver) Renderer() string {
	return gl.GoStr(gl.GetString(gl.RENDERER))
}

func (d *Driver) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Driver) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (d *Driver) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (d *Driver) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Driver) DeleteFramebuffer(framebuffer uint32) {
	gl.DeleteFramebuffers(1, &framebuffer)
}

var _ compositor.Driver = (*Driver)(nil)
