package cli

import (
	"io"
	"os"
)

// nopCloser wraps an io.Writer with a no-op Close method so os.Stdout can
// be used as an io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path, or stdout when path
// is empty. An existing file at path is overwritten.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// openInput returns a ReadCloser for the given path, or stdin when path is
// "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
