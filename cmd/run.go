package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glint-player/glint/app"
	"github.com/glint-player/glint/compositor"
	"github.com/glint-player/glint/compositor/opengl"
	"github.com/glint-player/glint/idle"
	"github.com/glint-player/glint/ipc"
	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/player"
	"github.com/glint-player/glint/tui"
	"github.com/glint-player/glint/util"
	"github.com/glint-player/glint/window"
	"github.com/spf13/viper"
)

type runOptions struct {
	media string
	ipc   bool
}

// run owns the calling goroutine for the window's lifetime. Cobra runs commands on the main goroutine,
// which GLFW requires.
func run(ctx context.Context, options runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	player.CollectStaleSockets()

	win, err := window.Open(window.Options{
		Width:  viper.GetInt(key.WindowWidth),
		Height: viper.GetInt(key.WindowHeight),
	})
	if err != nil {
		return err
	}
	defer win.Close()

	driver, err := opengl.New()
	if err != nil {
		return err
	}
	log.For("run").Infof("OpenGL %s", driver.Version())

	width, height := win.FramebufferSize()
	comp, err := compositor.New(driver, width, height, win.RefreshRate(), compositor.DefaultOptions())
	if err != nil {
		return err
	}
	defer comp.Close()

	engine, err := player.StartEngine(options.media)
	if err != nil {
		return err
	}
	engine.SetWakeup(win.Wake)

	proxy := player.NewProxy(engine, win.Wake)
	defer func() {
		if err := proxy.Close(); err != nil {
			log.For("run").Warnf("close engine: %s", err)
		}
	}()

	frames := &util.Queue[compositor.Frame]{}
	shellOptions := app.Options{
		Window:     win,
		Compositor: comp,
		Proxy:      proxy,
		Frames:     frames,
	}

	if viper.GetBool(key.IdleInhibit) {
		if inhibitor, err := idle.Connect(); err != nil {
			log.For("run").Warnf("screensaver stays enabled: %s", err)
		} else {
			shellOptions.Idle = inhibitor
		}
	}

	if options.ipc {
		server := ipc.NewServer(frames, proxy.Status, win.Wake)
		if err := server.Start(viper.GetString(key.IPCListen)); err != nil {
			return err
		}
		defer func() {
			shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdown)
		}()
		shellOptions.Transport = server
	}

	shell := app.New(shellOptions)

	if viper.GetBool(key.TUIEnable) && util.IsTerminal() {
		panelCtx, closePanel := context.WithCancel(ctx)
		defer closePanel()

		go func() {
			if err := tui.Run(panelCtx, shell, &tui.Options{}); err != nil {
				log.For("run").Errorf("panel: %s", err)
			}
			stop()
			win.Wake()
		}()
	}

	go func() {
		select {
		case <-engine.Exited():
			log.For("run").Warn("engine exited")
			stop()
		case <-ctx.Done():
		}
	}()

	if err := shell.Run(ctx); err != nil {
		return fmt.Errorf("host loop: %w", err)
	}
	return nil
}
