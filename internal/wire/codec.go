package wire

import (
	"encoding/binary"
	"io"
)

// Flag messages carry no payload: a frame of any other length is malformed.

func (m *Choke) size() int         { return 0 }
func (m *Unchoke) size() int       { return 0 }
func (m *Interested) size() int    { return 0 }
func (m *NotInterested) size() int { return 0 }

func (m *Choke) encodeBody(io.Writer) error         { return nil }
func (m *Unchoke) encodeBody(io.Writer) error       { return nil }
func (m *Interested) encodeBody(io.Writer) error    { return nil }
func (m *NotInterested) encodeBody(io.Writer) error { return nil }

func (m *Choke) decodeBody(hint *int, _ io.Reader) (bool, error)         { return *hint == 0, nil }
func (m *Unchoke) decodeBody(hint *int, _ io.Reader) (bool, error)       { return *hint == 0, nil }
func (m *Interested) decodeBody(hint *int, _ io.Reader) (bool, error)    { return *hint == 0, nil }
func (m *NotInterested) decodeBody(hint *int, _ io.Reader) (bool, error) { return *hint == 0, nil }

func (m *Have) size() int { return 4 }

func (m *Have) encodeBody(w io.Writer) error {
	return writeUint32s(w, m.PieceIndex)
}

func (m *Have) decodeBody(hint *int, r io.Reader) (bool, error) {
	if *hint != m.size() {
		return false, nil
	}
	return readUint32s(hint, r, &m.PieceIndex)
}

func (m *Request) size() int { return 12 }

func (m *Request) encodeBody(w io.Writer) error {
	return writeUint32s(w, m.PieceIndex, m.Offset, m.Length)
}

func (m *Request) decodeBody(hint *int, r io.Reader) (bool, error) {
	if *hint != m.size() {
		return false, nil
	}
	return readUint32s(hint, r, &m.PieceIndex, &m.Offset, &m.Length)
}

func (m *Cancel) size() int { return 12 }

func (m *Cancel) encodeBody(w io.Writer) error {
	return writeUint32s(w, m.PieceIndex, m.Offset, m.Length)
}

func (m *Cancel) decodeBody(hint *int, r io.Reader) (bool, error) {
	if *hint != m.size() {
		return false, nil
	}
	return readUint32s(hint, r, &m.PieceIndex, &m.Offset, &m.Length)
}

// Bitfield and Piece are not self-describing: the bit data and the block
// take up whatever remains of the frame, so the hint is the only way to
// know where they end.

func (m *Bitfield) size() int { return len(m.Bits) }

func (m *Bitfield) encodeBody(w io.Writer) error {
	_, err := w.Write(m.Bits)
	return err
}

func (m *Bitfield) decodeBody(hint *int, r io.Reader) (bool, error) {
	bits, err := readExact(r, *hint)
	if err != nil {
		return false, err
	}
	*hint = 0
	m.Bits = bits
	return true, nil
}

func (m *Piece) size() int { return 8 + len(m.Data) }

func (m *Piece) encodeBody(w io.Writer) error {
	if err := writeUint32s(w, m.PieceIndex, m.Offset); err != nil {
		return err
	}
	_, err := w.Write(m.Data)
	return err
}

func (m *Piece) decodeBody(hint *int, r io.Reader) (bool, error) {
	if *hint < 8 {
		return false, nil
	}
	if ok, err := readUint32s(hint, r, &m.PieceIndex, &m.Offset); !ok || err != nil {
		return ok, err
	}

	data, err := readExact(r, *hint)
	if err != nil {
		return false, err
	}
	*hint = 0
	m.Data = data
	return true, nil
}

func writeUint32s(w io.Writer, fields ...uint32) error {
	buf := make([]byte, 4*len(fields))
	for i, f := range fields {
		binary.BigEndian.PutUint32(buf[4*i:], f)
	}
	_, err := w.Write(buf)
	return err
}

// readUint32s reads the fixed integer fields in wire order, reporting absent
// without consuming anything when too few bytes remain in the frame.
func readUint32s(hint *int, r io.Reader, fields ...*uint32) (bool, error) {
	if *hint < 4*len(fields) {
		return false, nil
	}

	buf, err := readExact(r, 4*len(fields))
	if err != nil {
		return false, err
	}
	*hint -= len(buf)

	for i, f := range fields {
		*f = binary.BigEndian.Uint32(buf[4*i:])
	}
	return true, nil
}
