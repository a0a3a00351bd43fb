package bencode

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Decode reads a single bencoded value from r. Any grammar mismatch aborts
// the whole parse; there is no partial-document recovery.
func Decode(r io.Reader) (Value, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return decodeValue(br)
}

// Parse decodes a single bencoded value held entirely in data.
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

func decodeValue(r *bufio.Reader) (Value, error) {
	b, err := r.ReadByte()
	if err != nil {
		return nil, ErrUnexpectedEOF
	}

	switch {
	case b == 'i':
		return decodeInteger(r)
	case b == 'l':
		return decodeList(r)
	case b == 'd':
		return decodeDictionary(r)
	case b >= '0' && b <= '9':
		r.UnreadByte()
		return decodeString(r)
	default:
		return nil, fmt.Errorf("%w: unexpected byte %q", ErrInvalidFormat, b)
	}
}

// decodeInteger parses the digits between the already consumed 'i' and the
// terminating 'e'. The value model is unsigned, so a minus sign is rejected;
// leading zeros are tolerated.
func decodeInteger(r *bufio.Reader) (Value, error) {
	digits, err := readUntil(r, 'e')
	if err != nil {
		return nil, err
	}

	n, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: integer %q", ErrInvalidValue, digits)
	}
	return Integer(n), nil
}

// decodeString parses <length>:<bytes>, the reader positioned at the first
// length digit.
func decodeString(r *bufio.Reader) (Value, error) {
	digits, err := readUntil(r, ':')
	if err != nil {
		return nil, err
	}

	length, err := strconv.ParseUint(string(digits), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: string length %q", ErrInvalidValue, digits)
	}

	raw := make([]byte, length)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, ErrUnexpectedEOF
	}
	return String(raw), nil
}

func decodeList(r *bufio.Reader) (Value, error) {
	list := make(List, 0)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, ErrUnexpectedEOF
		}
		if b == 'e' {
			return list, nil
		}
		r.UnreadByte()

		item, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
}

func decodeDictionary(r *bufio.Reader) (Value, error) {
	dict := make(Dictionary)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, ErrUnexpectedEOF
		}
		if b == 'e' {
			return dict, nil
		}
		if b < '0' || b > '9' {
			return nil, fmt.Errorf("%w: dictionary key must be a string, got %q", ErrInvalidFormat, b)
		}
		r.UnreadByte()

		key, err := decodeString(r)
		if err != nil {
			return nil, err
		}

		value, err := decodeValue(r)
		if err != nil {
			return nil, err
		}

		// a repeated key keeps the last occurrence
		dict[string(key.(String))] = value
	}
}

func readUntil(r *bufio.Reader, delim byte) ([]byte, error) {
	out, err := r.ReadBytes(delim)
	if err != nil {
		return nil, ErrUnexpectedEOF
	}
	return out[:len(out)-1], nil
}
