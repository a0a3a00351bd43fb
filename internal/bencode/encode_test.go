package bencode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	zeebo "github.com/zeebo/bencode"
)

func TestEncode(t *testing.T) {
	var tests = []struct {
		name     string
		given    Value
		expected string
	}{
		{
			name:     "integer",
			given:    Integer(42),
			expected: "i42e",
		},
		{
			name:     "string",
			given:    String("spam"),
			expected: "4:spam",
		},
		{
			name:     "list",
			given:    List{Integer(1), Integer(2)},
			expected: "li1ei2ee",
		},
		{
			name:     "dictionary with sorted keys",
			given:    Dictionary{"spam": String("eggs"), "cow": String("moo")},
			expected: "d3:cow3:moo4:spam4:eggse",
		},
		{
			name:     "empty list",
			given:    List{},
			expected: "le",
		},
		{
			name:     "empty dictionary",
			given:    Dictionary{},
			expected: "de",
		},
		{
			name: "nested structure",
			given: Dictionary{
				"files": List{Dictionary{"length": Integer(1000)}},
				"name":  String("sample"),
			},
			expected: "d5:filesld6:lengthi1000eee4:name6:samplee",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(Encode(tt.given)))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// encode(decode(bytes)) == bytes for canonical samples and
	// decode(encode(value)) == value for constructed trees
	var tests = []struct {
		name  string
		bytes string
	}{
		{name: "integer", bytes: "i42e"},
		{name: "string", bytes: "4:spam"},
		{name: "empty list", bytes: "le"},
		{name: "empty dictionary", bytes: "de"},
		{name: "nested", bytes: "d3:food3:barli1ei2eeee"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			value, err := Parse([]byte(tt.bytes))
			assert.Nil(t, err)
			assert.Equal(t, tt.bytes, string(Encode(value)))

			again, err := Parse(Encode(value))
			assert.Nil(t, err)
			assert.Equal(t, value, again)
		})
	}
}

func TestDictionaryEncodingIsInsertionOrderIndependent(t *testing.T) {
	first := Dictionary{}
	first["b"] = Integer(1)
	first["a"] = Integer(2)

	second := Dictionary{}
	second["a"] = Integer(2)
	second["b"] = Integer(1)

	assert.Equal(t, "d1:ai2e1:bi1ee", string(Encode(first)))
	assert.Equal(t, string(Encode(first)), string(Encode(second)))
}

// The canonical output must agree with an independent bencode implementation.
func TestEncodeMatchesZeebo(t *testing.T) {
	var tests = []struct {
		name   string
		ours   Value
		theirs interface{}
	}{
		{
			name:   "integer",
			ours:   Integer(1327049827),
			theirs: int64(1327049827),
		},
		{
			name:   "string",
			ours:   String("BitTorrent protocol"),
			theirs: "BitTorrent protocol",
		},
		{
			name:   "list",
			ours:   List{String("udp://tracker.example.com"), Integer(80)},
			theirs: []interface{}{"udp://tracker.example.com", int64(80)},
		},
		{
			name: "dictionary",
			ours: Dictionary{
				"piece length": Integer(65536),
				"name":         String("sample.txt"),
				"private":      Integer(1),
			},
			theirs: map[string]interface{}{
				"piece length": int64(65536),
				"name":         "sample.txt",
				"private":      int64(1),
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			expected, err := zeebo.EncodeBytes(tt.theirs)
			assert.Nil(t, err)
			assert.Equal(t, string(expected), string(Encode(tt.ours)))
		})
	}
}
