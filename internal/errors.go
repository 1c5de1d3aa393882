package internal

import (
	"errors"
	"fmt"
)

// ErrBinaryContent marks files rejected by the text reading layer.
var ErrBinaryContent = errors.New("binary content")

// RootError is the only fatal scan error: the root path could not be
// resolved. Per-file errors are reported through the Observer instead.
type RootError struct {
	Path string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("resolve root %s: %v", e.Path, e.Err)
}

func (e *RootError) Unwrap() error { return e.Err }
