package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/util"
)

// ErrCommand wraps a non-success reply from mpv.
var ErrCommand = errors.New("mpv command failed")

const maxLineSize = 8 * 1024 * 1024

// ipcRequest is one newline-delimited command sent to mpv's IPC socket.
type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcMessage is any line mpv writes back: a reply carries request_id, an event carries event.
type ipcMessage struct {
	RequestID *int64 `json:"request_id,omitempty"`
	Error     string `json:"error,omitempty"`
	Data      any    `json:"data,omitempty"`
	Event     string `json:"event,omitempty"`
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// endReason maps mpv's end-file reason to its numeric code.
func endReason(reason string) int {
	switch reason {
	case "eof":
		return EndEOF
	case "stop":
		return EndStop
	case "quit":
		return EndQuit
	case "error":
		return EndError
	case "redirect":
		return EndRedirect
	default:
		return EndUnknown
	}
}

func (msg ipcMessage) native() *NativeEvent {
	switch msg.Event {
	case "start-file":
		return &NativeEvent{Kind: NativeStartFile, Name: msg.Event}
	case "end-file":
		return &NativeEvent{Kind: NativeEndFile, Name: msg.Event, Reason: endReason(msg.Reason)}
	case "property-change":
		return &NativeEvent{Kind: NativePropertyChange, Name: msg.Name, Data: msg.Data}
	default:
		return &NativeEvent{Kind: NativeOther, Name: msg.Event, Data: msg.Data}
	}
}

// conn multiplexes replies and events over one persistent IPC connection.
type conn struct {
	raw     net.Conn
	timeout time.Duration

	writeMu sync.Mutex
	nextID  atomic.Int64

	mu    sync.Mutex
	calls map[int64]chan ipcMessage

	events  util.Queue[*NativeEvent]
	arrived chan struct{}
	wakeup  atomic.Pointer[func()]

	done     chan struct{}
	err      error
	reported atomic.Bool
}

func newConn(raw net.Conn, timeout time.Duration) *conn {
	c := &conn{
		raw:     raw,
		timeout: timeout,
		calls:   make(map[int64]chan ipcMessage),
		arrived: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *conn) readLoop() {
	scanner := bufio.NewScanner(c.raw)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg ipcMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			log.Debugf("mpv: skipping malformed line: %s", err)
			continue
		}

		if msg.Event == "" && msg.RequestID != nil {
			c.reply(*msg.RequestID, msg)
			continue
		}
		if msg.Event != "" {
			c.events.Push(msg.native())
			c.signal()
		}
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	c.shutdown(fmt.Errorf("%w: %v", ErrEngineClosed, err))
}

func (c *conn) reply(id int64, msg ipcMessage) {
	c.mu.Lock()
	ch, ok := c.calls[id]
	delete(c.calls, id)
	c.mu.Unlock()

	if ok {
		ch <- msg
	}
}

func (c *conn) signal() {
	select {
	case c.arrived <- struct{}{}:
	default:
	}
	if wake := c.wakeup.Load(); wake != nil {
		(*wake)()
	}
}

func (c *conn) shutdown(err error) {
	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		return
	default:
	}
	c.err = err
	close(c.done)
	c.mu.Unlock()

	c.signal()
}

// call sends one command and waits for its reply.
func (c *conn) call(command ...any) (any, error) {
	id := c.nextID.Add(1)
	ch := make(chan ipcMessage, 1)

	c.mu.Lock()
	select {
	case <-c.done:
		err := c.err
		c.mu.Unlock()
		return nil, err
	default:
	}
	c.calls[id] = ch
	c.mu.Unlock()

	forget := func() {
		c.mu.Lock()
		delete(c.calls, id)
		c.mu.Unlock()
	}

	payload, err := json.Marshal(ipcRequest{Command: command, RequestID: id})
	if err != nil {
		forget()
		return nil, fmt.Errorf("marshal: %w", err)
	}

	c.writeMu.Lock()
	_ = c.raw.SetWriteDeadline(time.Now().Add(c.timeout))
	_, err = c.raw.Write(append(payload, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		forget()
		return nil, fmt.Errorf("write: %w", err)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case msg := <-ch:
		if msg.Error != "" && msg.Error != "success" {
			return nil, fmt.Errorf("%w: %s", ErrCommand, msg.Error)
		}
		return msg.Data, nil
	case <-timer.C:
		forget()
		return nil, fmt.Errorf("%v: no reply after %s", command[0], c.timeout)
	case <-c.done:
		return nil, c.err
	}
}

// poll pops the next queued event, waiting up to timeout. A lost connection is reported once.
func (c *conn) poll(timeout time.Duration) (*NativeEvent, error) {
	if ev := c.pop(); ev != nil {
		return ev, nil
	}

	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-c.arrived:
			if ev := c.pop(); ev != nil {
				return ev, nil
			}
		case <-timer.C:
			return nil, nil
		case <-c.done:
		}
	}

	select {
	case <-c.done:
		if c.reported.CompareAndSwap(false, true) {
			return nil, c.err
		}
	default:
	}
	return nil, nil
}

func (c *conn) pop() *NativeEvent {
	if batch := c.events.PopBatch(1); len(batch) == 1 {
		return batch[0]
	}
	return nil
}

func (c *conn) close() error {
	c.shutdown(ErrEngineClosed)
	return c.raw.Close()
}
