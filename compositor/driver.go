package compositor

// Driver is the GPU command surface the compositor drives. Handles are opaque and zero means "none".
// Every method must be called on the thread that owns the graphics context.
type Driver interface {
	CompileProgram(vertex, fragment string) (uint32, error)
	UniformLocation(program uint32, name string) int32
	UseProgram(program uint32)

	CreateTexture(width, height int) uint32
	ResizeTexture(texture uint32, width, height int)
	// BindTexture binds texture to a texture unit and points uniform at that unit.
	BindTexture(unit int, texture uint32, uniform int32)

	// CreateQuad builds a full-surface triangle strip bound to program's attributes.
	CreateQuad(program uint32) (vao, vbo uint32)
	DrawQuad(vao uint32)

	CreateFramebuffer(texture uint32) uint32
	FramebufferComplete(framebuffer uint32) bool
	// ClearFramebuffer clears framebuffer to opaque black. Zero is the default framebuffer.
	ClearFramebuffer(framebuffer uint32)

	CreatePixelBuffer(size int) uint32
	ResizePixelBuffer(buffer uint32, size int)
	// MapPixelBuffer maps the first size bytes of buffer for writing without reallocating it.
	// It returns nil when the mapping fails.
	MapPixelBuffer(buffer uint32, size int) []byte
	UnmapPixelBuffer(buffer uint32)
	// UploadRegion copies a packed width×height BGRA block from buffer into texture at (x, y).
	UploadRegion(texture, buffer uint32, x, y, width, height int)

	Viewport(width, height int)
	// EnableBlend sets source-over blending for premultiplied alpha.
	EnableBlend()
	Renderer() string

	DeleteProgram(program uint32)
	DeleteTexture(texture uint32)
	DeleteBuffer(buffer uint32)
	DeleteVertexArray(vao uint32)
	DeleteFramebuffer(framebuffer uint32)
}
