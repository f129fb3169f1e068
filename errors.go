package blueberry

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match these with errors.Is.
var (
	// ErrPacking is returned when an image cannot be placed on any page.
	ErrPacking = errors.New("blueberry: image does not fit page")

	// ErrNotFound is returned when no region has the requested name.
	ErrNotFound = errors.New("blueberry: region not found")

	// ErrNotANinePatch is returned when a region exists but carries no splits.
	ErrNotANinePatch = errors.New("blueberry: region is not a nine-patch")

	// ErrMalformed is returned for truncated or corrupt atlas data.
	ErrMalformed = errors.New("blueberry: malformed atlas file")

	// ErrDisposed is returned when an atlas is queried after Dispose.
	ErrDisposed = errors.New("blueberry: atlas is disposed")

	// ErrUnknownFormat is returned when no decoder is registered for a file
	// extension.
	ErrUnknownFormat = errors.New("blueberry: unknown atlas format")
)

// PackingError reports an image that cannot fit an empty page under the
// current settings, rotation considered.
type PackingError struct {
	Image               string
	Width, Height       int
	MaxWidth, MaxHeight int
	Padding             int
}

func (e *PackingError) Error() string {
	msg := fmt.Sprintf("blueberry: image %q [%d,%d] does not fit max page size %dx%d",
		e.Image, e.Width, e.Height, e.MaxWidth, e.MaxHeight)
	if e.Padding > 0 {
		msg += fmt.Sprintf(" with padding %d*2", e.Padding)
	}
	return msg
}

func (e *PackingError) Is(target error) bool { return target == ErrPacking }

// MalformedError describes where atlas decoding failed. Line is set for text
// formats, Offset for binary ones.
type MalformedError struct {
	Path   string
	Line   int
	Offset int64
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	msg := "blueberry: malformed atlas"
	if e.Path != "" {
		msg += " " + e.Path
	}
	switch {
	case e.Line > 0:
		msg += fmt.Sprintf(" (line %d)", e.Line)
	case e.Offset > 0:
		msg += fmt.Sprintf(" (offset %d)", e.Offset)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedError) Unwrap() error { return e.Err }

func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// IOError wraps a filesystem failure with the operation that hit it.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("blueberry: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// withPath fills in the path of a MalformedError produced by a stream decoder.
func withPath(err error, path string) error {
	var me *MalformedError
	if errors.As(err, &me) && me.Path == "" {
		me.Path = path
	}
	return err
}
