package wire

import (
	"encoding/binary"
	"io"
)

// WriteFrame frames m as a 4-byte big-endian length (payload size plus the
// id byte), the id byte and the payload. It never flushes: batching is the
// caller's concern.
func WriteFrame(w io.Writer, m Message) error {
	header := make([]byte, 5)
	binary.BigEndian.PutUint32(header, uint32(m.size()+1))
	header[4] = byte(m.ID())
	if _, err := w.Write(header); err != nil {
		return err
	}
	return m.encodeBody(w)
}

// WriteKeepAlive writes the zero-length frame that holds a connection open.
func WriteKeepAlive(w io.Writer) error {
	_, err := w.Write(make([]byte, 4))
	return err
}

// ReadFrame reads one length-prefixed frame from r and decodes it by id.
//
// A nil message is not an error: it covers the keep-alive frame (residual
// 0), an unknown or future id, and a malformed payload of a known id. In
// every nil case the residual is the exact number of frame bytes left
// unconsumed; the caller must discard them before reading again. I/O errors
// are fatal for the stream and carry no residual guarantee.
func ReadFrame(r io.Reader) (Message, int, error) {
	header, err := readExact(r, 4)
	if err != nil {
		return nil, 0, err
	}

	length := int(binary.BigEndian.Uint32(header))
	if length == 0 {
		// keep-alive
		return nil, 0, nil
	}

	idByte, err := readExact(r, 1)
	if err != nil {
		return nil, 0, err
	}

	hint := length - 1
	ctor, known := newMessage[ID(idByte[0])]
	if !known {
		return nil, hint, nil
	}

	m := ctor()
	ok, err := m.decodeBody(&hint, r)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, hint, nil
	}
	return m, 0, nil
}
