package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageRoundTrip(t *testing.T) {
	var tests = []struct {
		name  string
		given Message
	}{
		{name: "choke", given: &Choke{}},
		{name: "unchoke", given: &Unchoke{}},
		{name: "interested", given: &Interested{}},
		{name: "not interested", given: &NotInterested{}},
		{name: "have", given: &Have{PieceIndex: 42}},
		{name: "bitfield", given: &Bitfield{Bits: []byte{0b10100000, 0b00000001}}},
		{name: "request", given: &Request{PieceIndex: 1, Offset: 16384, Length: 16384}},
		{name: "piece", given: &Piece{PieceIndex: 7, Offset: 32768, Data: []byte("block data")}},
		{name: "cancel", given: &Cancel{PieceIndex: 1, Offset: 16384, Length: 16384}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WriteFrame(&buf, tt.given)
			assert.Nil(t, err)

			actual, residual, err := ReadFrame(&buf)
			assert.Nil(t, err)
			assert.Equal(t, 0, residual)
			assert.Equal(t, tt.given, actual)
			assert.Equal(t, 0, buf.Len())
		})
	}
}

func TestMalformedPayloads(t *testing.T) {
	// frame bytes laid out by hand: 4-byte length, id, payload
	var tests = []struct {
		name             string
		given            []byte
		expectedResidual int
	}{
		{
			name:             "have with oversized payload",
			given:            []byte{0, 0, 0, 8, 4, 1, 2, 3, 4, 5, 6, 7},
			expectedResidual: 7,
		},
		{
			name:             "have with undersized payload",
			given:            []byte{0, 0, 0, 3, 4, 1, 2},
			expectedResidual: 2,
		},
		{
			name:             "request with wrong length",
			given:            []byte{0, 0, 0, 5, 6, 1, 2, 3, 4},
			expectedResidual: 4,
		},
		{
			name:             "cancel with wrong length",
			given:            []byte{0, 0, 0, 2, 8, 1},
			expectedResidual: 1,
		},
		{
			name:             "piece shorter than its fixed fields",
			given:            []byte{0, 0, 0, 6, 7, 1, 2, 3, 4, 5},
			expectedResidual: 5,
		},
		{
			name:             "choke with unexpected payload",
			given:            []byte{0, 0, 0, 2, 0, 9},
			expectedResidual: 1,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.NewBuffer(tt.given)
			msg, residual, err := ReadFrame(buf)
			assert.Nil(t, err)
			assert.Nil(t, msg)
			assert.Equal(t, tt.expectedResidual, residual)
			assert.Equal(t, tt.expectedResidual, buf.Len())
		})
	}
}

func TestBitfieldHasPiece(t *testing.T) {
	bf := &Bitfield{Bits: []byte{0b10010000, 0b00000001}}

	assert.True(t, bf.HasPiece(0))
	assert.False(t, bf.HasPiece(1))
	assert.True(t, bf.HasPiece(3))
	assert.True(t, bf.HasPiece(15))
	assert.False(t, bf.HasPiece(16))
	assert.False(t, bf.HasPiece(-1))
}

func TestEmptyPieceBlock(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFrame(&buf, &Piece{PieceIndex: 1, Offset: 2})
	assert.Nil(t, err)

	msg, residual, err := ReadFrame(&buf)
	assert.Nil(t, err)
	assert.Equal(t, 0, residual)
	assert.Equal(t, &Piece{PieceIndex: 1, Offset: 2, Data: []byte{}}, msg)
}
