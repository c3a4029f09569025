// Package wire implements the framed control protocol: every control frame is
// a 4-byte big-endian length followed by that many bytes of UTF-8 JSON. A
// binary body, when one is announced by the preceding control frame, follows
// as raw bytes with no further framing.
package wire

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Conn wraps a byte stream with control-frame send and receive. Reads are
// buffered; writes are serialized by a mutex so a control frame is never
// interleaved with a concurrent body write.
type Conn struct {
	r  *bufio.Reader
	w  io.Writer
	mu sync.Mutex
}

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

const (
	// MaxFrameSize caps a control frame on receive to bound memory. Binary
	// bodies are not subject to the cap.
	MaxFrameSize = 16 << 20

	// ChunkSize is the buffer size used when relaying binary bodies.
	ChunkSize = 32 << 10

	headerSize = 4
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// ErrFrameTooLarge is returned when a peer announces a control frame larger
// than MaxFrameSize.
var ErrFrameTooLarge = errors.New("control frame exceeds maximum size")

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New wraps a byte stream, typically a net.Conn.
func New(rw io.ReadWriter) *Conn {
	return &Conn{
		r: bufio.NewReaderSize(rw, ChunkSize),
		w: rw,
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// SendControl writes one framed control message. The frame is assembled
// before writing so concurrent senders never interleave.
func (c *Conn) SendControl(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("send control: %w", err)
	}
	frame := make([]byte, headerSize+len(body))
	binary.BigEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[headerSize:], body)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.w.Write(frame); err != nil {
		return fmt.Errorf("send control: %w", err)
	}
	return nil
}

// RecvControl reads one control frame and unmarshals it into v. A clean
// close at a frame boundary returns io.EOF; a partial frame returns
// io.ErrUnexpectedEOF and the connection should be torn down.
func (c *Conn) RecvControl(v any) error {
	body, err := c.RecvFrame()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("recv control: %w", err)
	}
	return nil
}

// RecvFrame reads one control frame and returns the raw JSON bytes. The
// returned slice is owned by the caller.
func (c *Conn) RecvFrame() ([]byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(c.r, header[:]); err != nil {
		// EOF only when zero bytes were read at the frame boundary
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, io.ErrUnexpectedEOF
	}
	length := binary.BigEndian.Uint32(header[:])
	if length > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	return body, nil
}

// SendFrame writes pre-encoded JSON bytes as one control frame. The bytes
// are forwarded verbatim, so a relayed frame is byte-identical to the frame
// that was received.
func (c *Conn) SendFrame(body []byte) error {
	frame := make([]byte, headerSize+len(body))
	binary.BigEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[headerSize:], body)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.w.Write(frame); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	return nil
}

// Body returns a reader over the next n body bytes on the connection.
func (c *Conn) Body(n int64) io.Reader {
	return io.LimitReader(c.r, n)
}

// ReadBody copies exactly n body bytes from the connection to dst.
func (c *Conn) ReadBody(dst io.Writer, n int64) (int64, error) {
	buf := make([]byte, ChunkSize)
	written, err := io.CopyBuffer(dst, io.LimitReader(c.r, n), buf)
	if err == nil && written < n {
		err = io.ErrUnexpectedEOF
	}
	return written, err
}

// WriteBody copies exactly n body bytes from src to the connection. The
// write lock is held for the duration so no control frame can interleave.
func (c *Conn) WriteBody(src io.Reader, n int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, ChunkSize)
	written, err := io.CopyBuffer(c.w, io.LimitReader(src, n), buf)
	if err == nil && written < n {
		err = io.ErrUnexpectedEOF
	}
	return written, err
}
