package blueberry

import (
	"bufio"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// writeFileAtomic streams fn's output into a temporary file beside path and
// renames it over path once fn and the close succeed. On any failure the
// temporary file is removed and path is left untouched.
func writeFileAtomic(path string, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	tmp := f.Name()
	ok := false
	defer func() {
		if !ok {
			f.Close()
			os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	ok = true
	return nil
}

// writePNG encodes a page image to path.
func writePNG(path string, img *image.NRGBA) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

// readImageFile decodes any registered image format at path.
func readImageFile(path string) (image.Image, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, &IOError{Op: "decode", Path: path, Err: err}
	}
	return img, nil
}

// atlasName returns the file base name without its extension.
func atlasName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sanitizeName replaces characters that are unsafe in file names with
// underscores and falls back to "atlas" for empty strings.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "atlas"
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	return f, nil
}
