// Package constant defines immutable application-level identifiers and build metadata.
package constant

const (
	// App is the canonical application identifier used for filesystem paths, env prefixes and CLI branding.
	App = "glint"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// BytesPerPixel is the size of one BGRA pixel as produced by the UI overlay and staged for upload.
const BytesPerPixel = 4
