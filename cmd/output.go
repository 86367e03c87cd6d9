package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// openOutput returns the file at path, or stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output %s", path)
	}
	return f, f.Close, nil
}
