package wire

import (
	"io"

	"github.com/WendelHime/bitwire/internal/shared/models"
)

const protocolName = "BitTorrent protocol"

// Reserved is the 8-byte extension-flag field of the handshake. One bit is
// queryable; every other bit is opaque and passed through unchanged.
type Reserved [8]byte

const (
	extensionByte = 5
	extensionMask = 0x10
)

// SupportsExtensions reports the extension-protocol bit, byte 5 mask 0x10.
// See http://www.bittorrent.org/beps/bep_0010.html.
func (r Reserved) SupportsExtensions() bool {
	return r[extensionByte]&extensionMask == extensionMask
}

// Handshake is the fixed 68-byte exchange opening every peer connection.
type Handshake struct {
	Reserved Reserved
	InfoHash models.Hash
	PeerID   models.Hash
}

// WriteHandshake writes h without flushing.
func WriteHandshake(w io.Writer, h Handshake) error {
	buf := make([]byte, 0, 68)
	buf = append(buf, byte(len(protocolName)))
	buf = append(buf, protocolName...)
	buf = append(buf, h.Reserved[:]...)
	buf = append(buf, h.InfoHash[:]...)
	buf = append(buf, h.PeerID[:]...)

	_, err := w.Write(buf)
	return err
}

// ReadHandshake reads one handshake from r. Unlike framed messages the
// handshake has no length header, so a protocol name other than the
// BitTorrent literal leaves the shape of the rest of the stream unknowable:
// ok is false with no residual guarantee and the connection must be dropped.
func ReadHandshake(r io.Reader) (Handshake, bool, error) {
	nameLen, err := readExact(r, 1)
	if err != nil {
		return Handshake{}, false, err
	}

	name, err := readExact(r, int(nameLen[0]))
	if err != nil {
		return Handshake{}, false, err
	}
	if string(name) != protocolName {
		return Handshake{}, false, nil
	}

	rest, err := readExact(r, 48)
	if err != nil {
		return Handshake{}, false, err
	}

	var h Handshake
	copy(h.Reserved[:], rest[:8])
	copy(h.InfoHash[:], rest[8:28])
	copy(h.PeerID[:], rest[28:48])
	return h, true, nil
}
