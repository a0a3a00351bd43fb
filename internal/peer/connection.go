// Package peer owns one live peer connection: a buffered duplex byte stream
// driven through the wire frame container.
package peer

import (
	"bufio"
	"io"
	"net"

	"github.com/WendelHime/bitwire/internal/shared/models"
	"github.com/WendelHime/bitwire/internal/wire"
)

// Connection wraps a duplex stream exclusively. All calls block on the
// underlying transport; cancellation and timeouts belong to the transport
// (net.Conn deadlines), not to this layer.
type Connection struct {
	stream io.ReadWriter
	r      *bufio.Reader
	w      *bufio.Writer
}

// New takes exclusive ownership of stream.
func New(stream io.ReadWriter) *Connection {
	return &Connection{
		stream: stream,
		r:      bufio.NewReader(stream),
		w:      bufio.NewWriter(stream),
	}
}

// Dial opens a TCP connection to addr.
func Dial(addr models.Addr) (*Connection, error) {
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Close closes the underlying stream when it is closable.
func (c *Connection) Close() error {
	if closer, ok := c.stream.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Handshake sends out and reads the peer's handshake back. ok is false when
// the peer spoke an unknown protocol; the stream cannot be resynchronized
// then and the connection must be dropped.
func (c *Connection) Handshake(out wire.Handshake) (wire.Handshake, bool, error) {
	if err := wire.WriteHandshake(c.w, out); err != nil {
		return wire.Handshake{}, false, err
	}
	if err := c.w.Flush(); err != nil {
		return wire.Handshake{}, false, err
	}
	return wire.ReadHandshake(c.r)
}

// Send frames msg and flushes it to the peer.
func (c *Connection) Send(msg wire.Message) error {
	if err := wire.WriteFrame(c.w, msg); err != nil {
		return err
	}
	return c.w.Flush()
}

func (c *Connection) SendKeepAlive() error {
	if err := wire.WriteKeepAlive(c.w); err != nil {
		return err
	}
	return c.w.Flush()
}

// Recv reads one frame. A nil message with nil error means the frame
// carried nothing usable (keep-alive, unknown id or malformed payload); the
// residual bytes have already been discarded, so the next Recv starts at a
// frame boundary. Errors are transport failures and end the connection.
func (c *Connection) Recv() (wire.Message, error) {
	msg, residual, err := wire.ReadFrame(c.r)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		if err := wire.Discard(c.r, residual); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return msg, nil
}

// Expect receives one frame and reports whether it carried a message of
// type M. The stream is aligned afterwards either way: a frame of a
// different known kind is fully consumed, an undecodable one fully
// discarded.
func Expect[M wire.Message](c *Connection) (M, bool, error) {
	var zero M

	msg, err := c.Recv()
	if err != nil {
		return zero, false, err
	}

	expected, ok := msg.(M)
	if !ok {
		return zero, false, nil
	}
	return expected, true, nil
}
