package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glint-player/glint/key"
	"github.com/glint-player/glint/property"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

type fakeSocket struct {
	server   net.Conn
	requests chan ipcRequest
}

func (f *fakeSocket) send(line string) {
	_, _ = f.server.Write([]byte(line + "\n"))
}

func (f *fakeSocket) reply(req ipcRequest, errText string, data string) {
	f.send(fmt.Sprintf(`{"request_id":%d,"error":%q,"data":%s}`, req.RequestID, errText, data))
}

func dialFake() (*MPV, *fakeSocket) {
	client, server := net.Pipe()
	fake := &fakeSocket{server: server, requests: make(chan ipcRequest, 16)}

	go func() {
		scanner := bufio.NewScanner(server)
		for scanner.Scan() {
			var req ipcRequest
			if json.Unmarshal(scanner.Bytes(), &req) == nil {
				fake.requests <- req
			}
		}
	}()

	return &MPV{conn: newConn(client, time.Second)}, fake
}

func TestMPVConn(t *testing.T) {
	Convey("Given an mpv connection over a pipe", t, func() {
		mpv, fake := dialFake()
		defer mpv.Close()

		Convey("Replies are matched by request id", func() {
			type result struct {
				data any
				err  error
			}
			volume := make(chan result, 1)
			title := make(chan result, 1)

			go func() {
				v, err := mpv.GetProperty("volume", property.KindFloat)
				volume <- result{v, err}
			}()
			first := <-fake.requests

			go func() {
				v, err := mpv.GetProperty("media-title", property.KindString)
				title <- result{v, err}
			}()
			second := <-fake.requests

			So(first.Command, ShouldResemble, []any{"get_property", "volume"})
			So(second.Command, ShouldResemble, []any{"get_property_string", "media-title"})
			So(first.RequestID, ShouldNotEqual, second.RequestID)

			fake.reply(second, "success", `"Sintel"`)
			fake.reply(first, "success", `42`)

			So((<-volume).data, ShouldEqual, 42.0)
			So((<-title).data, ShouldEqual, "Sintel")
		})

		Convey("Error replies wrap ErrCommand", func() {
			done := make(chan error, 1)
			go func() { done <- mpv.SetProperty("volume", 500.0) }()

			fake.reply(<-fake.requests, "invalid parameter", `null`)
			So(errors.Is(<-done, ErrCommand), ShouldBeTrue)
		})

		Convey("String properties are observed as strings", func() {
			done := make(chan error, 1)
			go func() { done <- mpv.ObserveProperty("track-list", property.KindString) }()

			req := <-fake.requests
			So(req.Command[0], ShouldEqual, "observe_property_string")
			So(req.Command[2], ShouldEqual, "track-list")
			fake.reply(req, "success", `null`)
			So(<-done, ShouldBeNil)
		})

		Convey("Events are queued in order and wake the host", func() {
			var wakes atomic.Int32
			mpv.SetWakeup(func() { wakes.Add(1) })

			fake.send(`{"event":"start-file","playlist_entry_id":1}`)
			fake.send(`{"event":"property-change","id":1,"name":"pause","data":false}`)
			fake.send(`{"event":"end-file","reason":"quit","playlist_entry_id":1}`)

			ev, err := mpv.PollEvent(time.Second)
			So(err, ShouldBeNil)
			So(ev.Kind, ShouldEqual, NativeStartFile)

			ev, _ = mpv.PollEvent(time.Second)
			So(ev.Kind, ShouldEqual, NativePropertyChange)
			So(ev.Name, ShouldEqual, "pause")
			So(ev.Data, ShouldEqual, false)

			ev, _ = mpv.PollEvent(time.Second)
			So(ev.Kind, ShouldEqual, NativeEndFile)
			So(ev.Reason, ShouldEqual, EndQuit)

			ev, err = mpv.PollEvent(0)
			So(ev, ShouldBeNil)
			So(err, ShouldBeNil)
			So(wakes.Load(), ShouldBeGreaterThanOrEqualTo, 3)
		})

		Convey("A lost connection is reported once", func() {
			_ = fake.server.Close()

			_, err := mpv.PollEvent(time.Second)
			So(errors.Is(err, ErrEngineClosed), ShouldBeTrue)

			ev, err := mpv.PollEvent(0)
			So(ev, ShouldBeNil)
			So(err, ShouldBeNil)

			So(mpv.Command("stop"), ShouldNotBeNil)
		})

		Convey("The IPC engine has no render API", func() {
			_, err := mpv.NewRenderContext(nil, func() {})
			So(errors.Is(err, ErrRenderUnsupported), ShouldBeTrue)
		})
	})
}

func TestEndReason(t *testing.T) {
	Convey("mpv end-file reasons map to codes", t, func() {
		So(endReason("eof"), ShouldEqual, EndEOF)
		So(endReason("stop"), ShouldEqual, EndStop)
		So(endReason("quit"), ShouldEqual, EndQuit)
		So(endReason("error"), ShouldEqual, EndError)
		So(endReason("redirect"), ShouldEqual, EndRedirect)
		So(endReason("???"), ShouldEqual, EndUnknown)
	})
}

func TestArgs(t *testing.T) {
	Convey("Given the mpv command line", t, func() {
		viper.Set(key.PlayerHwdec, "auto-safe")
		viper.Set(key.PlayerCache, false)

		Convey("Configured options are passed through", func() {
			args, err := Args("/run/glint/mpv.sock", "")
			So(err, ShouldBeNil)
			So(args, ShouldContain, "--idle=yes")
			So(args, ShouldContain, "--input-ipc-server=/run/glint/mpv.sock")
			So(args, ShouldContain, "--hwdec=auto-safe")
			So(args, ShouldContain, "--cache=no")
		})

		Convey("Media is appended after an option terminator", func() {
			args, err := Args("/s", "https://example.com/a.mkv")
			So(err, ShouldBeNil)
			So(strings.Join(args[len(args)-2:], " "), ShouldEqual, "-- https://example.com/a.mkv")
		})

		Convey("Targets that look like options or odd schemes are rejected", func() {
			_, err := Args("/s", "--script=evil.lua")
			So(err, ShouldNotBeNil)
			_, err = Args("/s", "javascript://alert")
			So(err, ShouldNotBeNil)
			_, err = Args("/s", "a\nb")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCleanTitle(t *testing.T) {
	Convey("Location-like titles are replaced by the app name", t, func() {
		So(CleanTitle("magnet:?xt=urn:btih:abc"), ShouldEqual, "glint")
		So(CleanTitle("file:///tmp/a.mkv"), ShouldEqual, "glint")
		So(CleanTitle("Sintel"), ShouldEqual, "Sintel")
	})
}
