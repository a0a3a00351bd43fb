package bencode

import (
	"bytes"
	"io"
	"sort"
	"strconv"
)

// Encode serializes v into its canonical byte form. Encoding never fails:
// every constructible Value has exactly one canonical representation.
func Encode(v Value) []byte {
	e := &encoder{}
	v.encodeTo(e)
	return e.buf.Bytes()
}

// EncodeTo writes the canonical byte form of v into w.
func EncodeTo(w io.Writer, v Value) error {
	_, err := w.Write(Encode(v))
	return err
}

type encoder struct {
	buf bytes.Buffer
}

func (i Integer) encodeTo(e *encoder) {
	e.buf.WriteByte('i')
	e.buf.WriteString(strconv.FormatUint(uint64(i), 10))
	e.buf.WriteByte('e')
}

func (s String) encodeTo(e *encoder) {
	e.buf.WriteString(strconv.Itoa(len(s)))
	e.buf.WriteByte(':')
	e.buf.Write(s)
}

func (l List) encodeTo(e *encoder) {
	e.buf.WriteByte('l')
	for _, item := range l {
		item.encodeTo(e)
	}
	e.buf.WriteByte('e')
}

// Dictionaries always emit keys in ascending byte order, so the output is
// independent of map iteration and insertion order. Canonical ordering is
// what makes info-hash computation reproducible across implementations.
func (d Dictionary) encodeTo(e *encoder) {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	e.buf.WriteByte('d')
	for _, key := range keys {
		String(key).encodeTo(e)
		d[key].encodeTo(e)
	}
	e.buf.WriteByte('e')
}
