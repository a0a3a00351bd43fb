package wire

import (
	"bytes"
	"testing"

	"github.com/WendelHime/bitwire/internal/shared/models"
	"github.com/stretchr/testify/assert"
)

func TestHandshakeRoundTrip(t *testing.T) {
	given := Handshake{
		InfoHash: models.Hash([]byte("01234567891012345678")),
		PeerID:   models.Hash([]byte("-BW0001-abcdefghijkl")),
	}
	given.Reserved[extensionByte] = extensionMask

	var buf bytes.Buffer
	err := WriteHandshake(&buf, given)
	assert.Nil(t, err)
	assert.Equal(t, 68, buf.Len())

	actual, ok, err := ReadHandshake(&buf)
	assert.Nil(t, err)
	assert.True(t, ok)
	assert.Equal(t, given, actual)
	assert.True(t, actual.Reserved.SupportsExtensions())
}

func TestHandshakeLayout(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHandshake(&buf, Handshake{})
	assert.Nil(t, err)

	raw := buf.Bytes()
	assert.Equal(t, byte(19), raw[0])
	assert.Equal(t, "BitTorrent protocol", string(raw[1:20]))
	assert.Equal(t, make([]byte, 48), raw[20:])
}

func TestHandshakeUnknownProtocol(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(16)
	buf.WriteString("Gnutella Connect")
	buf.Write(make([]byte, 48))

	_, ok, err := ReadHandshake(&buf)
	assert.Nil(t, err)
	assert.False(t, ok)
}

func TestReservedBits(t *testing.T) {
	var tests = []struct {
		name     string
		reserved Reserved
		expected bool
	}{
		{
			name:     "no bits set",
			reserved: Reserved{},
			expected: false,
		},
		{
			name:     "extension bit set",
			reserved: Reserved{0, 0, 0, 0, 0, 0x10, 0, 0},
			expected: true,
		},
		{
			name:     "other bits in the extension byte",
			reserved: Reserved{0, 0, 0, 0, 0, 0x01, 0, 0},
			expected: false,
		},
		{
			name:     "extension bit among opaque bits",
			reserved: Reserved{0xff, 0, 0, 0, 0, 0x18, 0, 0x04},
			expected: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.reserved.SupportsExtensions())
		})
	}
}
