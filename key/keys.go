// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Window - these keys size and title the composited output window.
const (
	WindowWidth  = "window.width"
	WindowHeight = "window.height"
	WindowTitle  = "window.title"
	WindowVsync  = "window.vsync"
)

// Playback Engine - these keys control how the mpv process is spawned and drained.
const (
	PlayerEngine               = "player.engine"
	PlayerBinary               = "player.binary"
	PlayerHwdec                = "player.hwdec"
	PlayerMsgLevel             = "player.msg_level"
	PlayerCache                = "player.cache"
	PlayerDemuxerMaxBytes      = "player.demuxer_max_bytes"
	PlayerDemuxerReadaheadSecs = "player.demuxer_readahead_secs"
	PlayerDrainLimit           = "player.drain_limit"
	PlayerSocketTimeout        = "player.socket_timeout"
)

// Idle - these keys control screensaver suspension during playback.
const (
	IdleInhibit = "idle.inhibit"
)

// Compositor - these keys tune the pixel staging path.
const (
	CompositorParallelThreshold = "compositor.parallel_threshold"
	CompositorTaskBytes         = "compositor.task_bytes"
	CompositorBatch             = "compositor.batch"
)

// UI Transport - these keys configure the websocket endpoint the UI layer talks to.
const (
	IPCEnable = "ipc.enable"
	IPCListen = "ipc.listen"
)

// Terminal control surface.
const (
	TUIEnable = "tui.enable"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored   = "cli.colored"
	IconsVariant = "icons.variant"
)
