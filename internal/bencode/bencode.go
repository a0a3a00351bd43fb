// Package bencode implements the binary encoding used by .torrent files and
// tracker responses: integers, byte strings, lists and dictionaries.
package bencode

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrUnexpectedEOF = errors.New("bencode: unexpected end of input")
	ErrInvalidFormat = errors.New("bencode: invalid format")
	ErrInvalidValue  = errors.New("bencode: invalid value")
	ErrMissingField  = errors.New("bencode: missing field")
)

// Value is one node of a bencoded document. The concrete types are Integer,
// String, List and Dictionary.
type Value interface {
	encodeTo(e *encoder)
}

type Integer uint64

// String holds raw bytes; it is not guaranteed to be valid UTF-8.
type String []byte

type List []Value

// Dictionary keys are the raw key bytes. Encoding always emits keys sorted
// ascending byte-wise regardless of how the map was populated.
type Dictionary map[string]Value

// AsInt returns the value as an integer, failing on any other shape.
func AsInt(v Value) (uint64, error) {
	i, ok := v.(Integer)
	if !ok {
		return 0, fmt.Errorf("%w: expected integer", ErrInvalidFormat)
	}
	return uint64(i), nil
}

// AsBytes returns the value as a raw byte string.
func AsBytes(v Value) ([]byte, error) {
	s, ok := v.(String)
	if !ok {
		return nil, fmt.Errorf("%w: expected string", ErrInvalidFormat)
	}
	return []byte(s), nil
}

// AsText returns the value as a UTF-8 string. Byte strings that are not
// valid UTF-8 fail with ErrInvalidValue.
func AsText(v Value) (string, error) {
	b, err := AsBytes(v)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: string is not valid utf-8", ErrInvalidValue)
	}
	return string(b), nil
}

// AsList returns the value as a list, failing on any other shape.
func AsList(v Value) (List, error) {
	l, ok := v.(List)
	if !ok {
		return nil, fmt.Errorf("%w: expected list", ErrInvalidFormat)
	}
	return l, nil
}

// AsDict returns the value as a dictionary, failing on any other shape.
func AsDict(v Value) (Dictionary, error) {
	d, ok := v.(Dictionary)
	if !ok {
		return nil, fmt.Errorf("%w: expected dictionary", ErrInvalidFormat)
	}
	return d, nil
}
