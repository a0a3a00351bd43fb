// Package wire implements the peer-wire message model and its binary codec:
// nine framed message kinds plus the connection handshake, all big-endian.
//
// Body decoders follow one contract: they receive the exact number of bytes
// remaining in the current frame and either decode a value or report
// "absent", updating the hint to the residual byte count that still belongs
// to the frame. The frame boundary is defined only by the original length
// header, so discarding exactly that residual is what keeps the stream
// aligned after a failed decode.
package wire

import "io"

// ID is the 1-byte message type identifier following the length header.
type ID uint8

const (
	IDChoke ID = iota
	IDUnchoke
	IDInterested
	IDNotInterested
	IDHave
	IDBitfield
	IDRequest
	IDPiece
	IDCancel
)

func (id ID) String() string {
	switch id {
	case IDChoke:
		return "choke"
	case IDUnchoke:
		return "unchoke"
	case IDInterested:
		return "interested"
	case IDNotInterested:
		return "not interested"
	case IDHave:
		return "have"
	case IDBitfield:
		return "bitfield"
	case IDRequest:
		return "request"
	case IDPiece:
		return "piece"
	case IDCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Message is the closed set of standard peer-wire messages. Ids outside the
// table are never constructed; they surface from ReadFrame as an absent
// result instead.
type Message interface {
	ID() ID

	// size is the encoded payload length in bytes, excluding the id byte.
	size() int
	encodeBody(w io.Writer) error

	// decodeBody parses the payload from r given the remaining frame byte
	// count. It returns false when the payload is malformed for this kind,
	// leaving *hint at the residual count still to be discarded.
	decodeBody(hint *int, r io.Reader) (bool, error)
}

// newMessage is the id dispatch table and the sole extension point of the
// frame container: an id with no entry is silently skippable, never fatal.
var newMessage = map[ID]func() Message{
	IDChoke:         func() Message { return &Choke{} },
	IDUnchoke:       func() Message { return &Unchoke{} },
	IDInterested:    func() Message { return &Interested{} },
	IDNotInterested: func() Message { return &NotInterested{} },
	IDHave:          func() Message { return &Have{} },
	IDBitfield:      func() Message { return &Bitfield{} },
	IDRequest:       func() Message { return &Request{} },
	IDPiece:         func() Message { return &Piece{} },
	IDCancel:        func() Message { return &Cancel{} },
}

type Choke struct{}

type Unchoke struct{}

type Interested struct{}

type NotInterested struct{}

type Have struct {
	PieceIndex uint32
}

type Bitfield struct {
	Bits []byte
}

// HasPiece reports whether the piece at index is set, high bit first.
func (m *Bitfield) HasPiece(index int) bool {
	if index < 0 {
		return false
	}
	byteIndex := index / 8
	if byteIndex >= len(m.Bits) {
		return false
	}
	return m.Bits[byteIndex]>>(7-uint(index%8))&1 == 1
}

type Request struct {
	PieceIndex uint32
	Offset     uint32
	Length     uint32
}

type Piece struct {
	PieceIndex uint32
	Offset     uint32
	Data       []byte
}

type Cancel struct {
	PieceIndex uint32
	Offset     uint32
	Length     uint32
}

func (m *Choke) ID() ID         { return IDChoke }
func (m *Unchoke) ID() ID       { return IDUnchoke }
func (m *Interested) ID() ID    { return IDInterested }
func (m *NotInterested) ID() ID { return IDNotInterested }
func (m *Have) ID() ID          { return IDHave }
func (m *Bitfield) ID() ID      { return IDBitfield }
func (m *Request) ID() ID       { return IDRequest }
func (m *Piece) ID() ID         { return IDPiece }
func (m *Cancel) ID() ID        { return IDCancel }
