package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"critter-clash/server/internal/net/proto"
	"critter-clash/server/internal/telemetry"
)

const (
	writeWait          = 10 * time.Second
	defaultSendBuffer  = 64
	closeFrameDeadline = time.Second
)

type frameWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// connOutbox queues encoded frames for one connection. A single writer
// goroutine owns the socket, so Send never blocks the hub.
type connOutbox struct {
	conn   frameWriter
	codec  proto.Codec
	logger telemetry.Logger

	mu     sync.Mutex
	frames chan []byte
	closed bool
	done   chan struct{}
}

func newConnOutbox(conn frameWriter, codec proto.Codec, logger telemetry.Logger, buffer int) *connOutbox {
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}
	o := &connOutbox{
		conn:   conn,
		codec:  codec,
		logger: logger,
		frames: make(chan []byte, buffer),
		done:   make(chan struct{}),
	}
	go o.writeLoop()
	return o
}

// Send encodes env and queues it. It reports false when the outbox is
// closed, the writer failed, or the buffer is full.
func (o *connOutbox) Send(env proto.Envelope) bool {
	data, err := o.codec.Encode(env)
	if err != nil {
		o.logger.Printf("failed to encode %s: %v", env.Type, err)
		return true
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	select {
	case o.frames <- data:
		return true
	default:
		return false
	}
}

// Close stops accepting frames. Already queued frames are still flushed.
func (o *connOutbox) Close() {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.frames)
	}
	o.mu.Unlock()
}

// Done is closed once the writer has exited.
func (o *connOutbox) Done() <-chan struct{} {
	return o.done
}

func (o *connOutbox) writeLoop() {
	defer close(o.done)
	messageType := websocket.TextMessage
	if o.codec.Binary() {
		messageType = websocket.BinaryMessage
	}
	for data := range o.frames {
		o.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := o.conn.WriteMessage(messageType, data); err != nil {
			o.logger.Printf("write failed: %v", err)
			o.fail()
			o.conn.Close()
			return
		}
	}
	o.conn.SetWriteDeadline(time.Now().Add(closeFrameDeadline))
	o.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	o.conn.Close()
}

// fail marks the outbox closed after a write error and drains what is left.
func (o *connOutbox) fail() {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.frames)
	}
	o.mu.Unlock()
	for range o.frames {
	}
}
