package bencode

import "fmt"

// Required and Optional lookups back the metainfo mapping layer. A required
// lookup removes the key from the dictionary so that schema parsing consumes
// fields exactly once; it fails with ErrMissingField when the key is absent
// and ErrInvalidFormat when the value has the wrong shape. Optional lookups
// are lenient: absent or malformed optional data is silently dropped.

func required[T any](d Dictionary, name string, as func(Value) (T, error)) (T, error) {
	var zero T
	v, ok := d[name]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrMissingField, name)
	}
	delete(d, name)

	out, err := as(v)
	if err != nil {
		return zero, fmt.Errorf("%w: field %q", ErrInvalidFormat, name)
	}
	return out, nil
}

func optional[T any](d Dictionary, name string, as func(Value) (T, error)) (T, bool) {
	var zero T
	v, ok := d[name]
	if !ok {
		return zero, false
	}
	delete(d, name)

	out, err := as(v)
	if err != nil {
		return zero, false
	}
	return out, true
}

func (d Dictionary) RequiredInt(name string) (uint64, error) {
	return required(d, name, AsInt)
}

func (d Dictionary) RequiredBytes(name string) ([]byte, error) {
	return required(d, name, AsBytes)
}

func (d Dictionary) RequiredText(name string) (string, error) {
	return required(d, name, AsText)
}

func (d Dictionary) RequiredList(name string) (List, error) {
	return required(d, name, AsList)
}

func (d Dictionary) RequiredDict(name string) (Dictionary, error) {
	return required(d, name, AsDict)
}

func (d Dictionary) OptionalInt(name string) (uint64, bool) {
	return optional(d, name, AsInt)
}

func (d Dictionary) OptionalBytes(name string) ([]byte, bool) {
	return optional(d, name, AsBytes)
}

func (d Dictionary) OptionalText(name string) (string, bool) {
	return optional(d, name, AsText)
}

func (d Dictionary) OptionalList(name string) (List, bool) {
	return optional(d, name, AsList)
}

// Has reports whether name is still present without consuming it.
func (d Dictionary) Has(name string) bool {
	_, ok := d[name]
	return ok
}
