package wire

import "io"

// readExact reads exactly n bytes from r, reporting io.EOF when the stream
// ends short.
func readExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return nil, err
	}
	return buf, nil
}

// Discard drains exactly n residual bytes from r. Under- or over-discarding
// would desynchronize every following frame on the stream.
func Discard(r io.Reader, n int) error {
	if n == 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, int64(n))
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return err
}
