package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glint-player/glint/compositor"
	"github.com/glint-player/glint/player"
	"github.com/glint-player/glint/property"
	"github.com/glint-player/glint/util"
	"github.com/gorilla/websocket"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRequest(t *testing.T) {
	Convey("Given UI requests", t, func() {
		parse := func(s string) Message {
			msg, err := ParseRequest([]byte(s))
			So(err, ShouldBeNil)
			return msg
		}

		Convey("Init carries the request id", func() {
			msg := parse(`{"id":7,"type":3}`)
			So(msg.Kind, ShouldEqual, Init)
			So(msg.ID, ShouldEqual, 7)
		})

		Convey("Methods without data", func() {
			So(parse(`{"id":1,"type":6,"args":["quit"]}`).Kind, ShouldEqual, Quit)
			So(parse(`{"id":1,"type":6,"args":[" app-ready "]}`).Kind, ShouldEqual, AppReady)
		})

		Convey("mpv methods", func() {
			msg := parse(`{"id":1,"type":6,"args":["mpv-command",["loadfile","a.mkv","replace"]]}`)
			So(msg.Kind, ShouldEqual, MpvCommand)
			So(msg.Command, ShouldEqual, "loadfile")
			So(msg.Args, ShouldResemble, []string{"a.mkv", "replace"})

			msg = parse(`{"id":1,"type":6,"args":["mpv-observe-prop","time-pos"]}`)
			So(msg.Kind, ShouldEqual, MpvObserve)
			So(msg.Property.Name, ShouldEqual, "time-pos")

			msg = parse(`{"id":1,"type":6,"args":["mpv-set-prop",["volume",75]]}`)
			So(msg.Kind, ShouldEqual, MpvSet)
			So(msg.Property, ShouldResemble, property.Property{Name: "volume", Data: 75.0})

			msg = parse(`{"id":1,"type":6,"args":["mpv-set-prop",["pause"]]}`)
			So(msg.Property.Data, ShouldBeNil)
		})

		Convey("Window and external methods", func() {
			So(parse(`{"id":1,"type":6,"args":["win-set-visibility",{"fullscreen":true}]}`).Fullscreen, ShouldBeTrue)
			So(parse(`{"id":1,"type":6,"args":["open-external","https://example.com"]}`).URL, ShouldEqual, "https://example.com")
		})

		Convey("Malformed requests are errors", func() {
			_, err := ParseRequest([]byte(`{"id":1,"type":9}`))
			So(errors.Is(err, ErrUnknownType), ShouldBeTrue)

			_, err = ParseRequest([]byte(`{"id":1,"type":6,"args":["dance"]}`))
			So(errors.Is(err, ErrUnknownMethod), ShouldBeTrue)

			_, err = ParseRequest([]byte(`{"id":1,"type":6}`))
			So(errors.Is(err, ErrInvalidArgs), ShouldBeTrue)

			_, err = ParseRequest([]byte(`{"id":1,"type":6,"args":["mpv-command",[]]}`))
			So(errors.Is(err, ErrInvalidArgs), ShouldBeTrue)

			_, err = ParseRequest([]byte(`{"id":1,"type":6,"args":[42]}`))
			So(errors.Is(err, ErrInvalidArgs), ShouldBeTrue)
		})
	})
}

func TestResponses(t *testing.T) {
	Convey("Responses encode as transport signals", t, func() {
		encode := func(r Response) string {
			b, err := json.Marshal(r)
			So(err, ShouldBeNil)
			return string(b)
		}

		So(encode(Ended(mo.Some("quit"))), ShouldEqual,
			`{"id":1,"type":1,"object":"transport","args":["mpv-event-ended",{"error":"quit"}]}`)
		So(encode(Ended(mo.None[string]())), ShouldEqual,
			`{"id":1,"type":1,"object":"transport","args":["mpv-event-ended",{"error":null}]}`)
		So(encode(PropChange(property.New("pause", property.Bool(true)))), ShouldEqual,
			`{"id":1,"type":1,"object":"transport","args":["mpv-prop-change",{"name":"pause","data":true}]}`)
		So(encode(NextVideo()), ShouldEqual, `{"id":1,"type":1,"object":"transport","args":["next-video"]}`)
		So(encode(StateChanged(true)), ShouldContainSubstring, `{"state":9}`)

		hello := encode(InitResponse(5))
		So(hello, ShouldStartWith, `{"id":5,"type":3,"object":"transport","data":{"transport":`)
		So(hello, ShouldContainSubstring, `"shellVersion"`)
	})
}

func TestFrames(t *testing.T) {
	Convey("Binary overlay frames round-trip", t, func() {
		f := compositor.Frame{X: 1, Y: 2, Width: 2, Height: 1, FullWidth: 4, FullHeight: 3, Pixels: make([]byte, 4*3*4)}
		f.Pixels[(2*4+1)*4] = 0xAB

		got, err := DecodeFrame(EncodeFrame(f))
		So(err, ShouldBeNil)
		So(got, ShouldResemble, f)

		_, err = DecodeFrame(make([]byte, 10))
		So(errors.Is(err, ErrShortFrame), ShouldBeTrue)

		short := EncodeFrame(compositor.Frame{Width: 4, Height: 3, FullWidth: 4, FullHeight: 3, Pixels: make([]byte, 8)})
		_, err = DecodeFrame(short)
		So(errors.Is(err, compositor.ErrInvalidFrame), ShouldBeTrue)
	})
}

func TestServer(t *testing.T) {
	Convey("Given a running transport server", t, func() {
		var frames util.Queue[compositor.Frame]
		wakes := make(chan struct{}, 16)
		server := NewServer(&frames, func() player.Status {
			return player.Status{State: player.StatePlaying, Title: "Sintel", Speed: 1}
		}, func() { wakes <- struct{}{} })

		ts := httptest.NewServer(server.Handler())
		defer ts.Close()

		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ipc", nil)
		So(err, ShouldBeNil)
		defer conn.Close()

		deadline := time.Now().Add(2 * time.Second)
		for server.Clients() == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		So(server.Clients(), ShouldEqual, 1)

		Convey("Text requests are queued and wake the host", func() {
			So(conn.WriteMessage(websocket.TextMessage, []byte(`{"id":3,"type":3}`)), ShouldBeNil)
			<-wakes

			msgs := server.Messages()
			So(msgs, ShouldHaveLength, 1)
			So(msgs[0].Kind, ShouldEqual, Init)
			So(server.Messages(), ShouldBeEmpty)
		})

		Convey("Binary frames reach the frame queue", func() {
			f := compositor.Frame{Width: 2, Height: 2, FullWidth: 2, FullHeight: 2, Pixels: make([]byte, 16)}
			So(conn.WriteMessage(websocket.BinaryMessage, EncodeFrame(f)), ShouldBeNil)
			<-wakes
			So(frames.Len(), ShouldEqual, 1)
		})

		Convey("Posted responses are broadcast", func() {
			server.Post(GPUWarning("integrated adapter"))
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, data, err := conn.ReadMessage()
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"gpu-warning","integrated adapter"`)
		})

		Convey("/status serves the playback mirror", func() {
			resp, err := http.Get(ts.URL + "/status")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var status map[string]any
			So(json.NewDecoder(resp.Body).Decode(&status), ShouldBeNil)
			So(status["state"], ShouldEqual, "Playing")
			So(status["title"], ShouldEqual, "Sintel")
		})

		Convey("/metrics is exposed", func() {
			resp, err := http.Get(ts.URL + "/metrics")
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}

func TestSlowClients(t *testing.T) {
	Convey("Given a slow and a healthy client", t, func() {
		server := NewServer(&util.Queue[compositor.Frame]{}, nil, nil)

		slow := &client{send: make(chan []byte, 1)}
		healthy := &client{send: make(chan []byte, 8)}
		server.clients[slow] = struct{}{}
		server.clients[healthy] = struct{}{}

		Convey("The slow client is disconnected and later posts still reach the other", func() {
			So(func() {
				for i := 0; i < 3; i++ {
					server.Post(NextVideo())
				}
			}, ShouldNotPanic)

			So(server.Clients(), ShouldEqual, 1)
			So(healthy.send, ShouldHaveLength, 3)

			_, open := <-slow.send
			So(open, ShouldBeTrue)
			_, open = <-slow.send
			So(open, ShouldBeFalse)
		})

		Convey("Shutdown leaves no closed client behind", func() {
			So(server.Shutdown(context.Background()), ShouldBeNil)
			So(server.Clients(), ShouldEqual, 0)
			So(func() { server.Post(NextVideo()) }, ShouldNotPanic)
		})
	})
}
