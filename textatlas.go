package blueberry

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// Header values written for every page of a text atlas.
const (
	textFormat = "RGBA8888"
	textFilter = "Nearest,Nearest"
	textRepeat = "none"
)

// PageImageName returns the image file name for page i of an atlas called
// name: "name.png" for the first page, then "name2.png", "name3.png" and so
// on.
func PageImageName(name string, i int) string {
	name = sanitizeName(name)
	if i == 0 {
		return name + ".png"
	}
	return name + strconv.Itoa(i+1) + ".png"
}

// WriteText encodes pages in the libGDX text atlas format. imageNames[i] is
// the page image file name recorded for pages[i].
func WriteText(w io.Writer, pages []*Page, imageNames []string) error {
	if len(imageNames) != len(pages) {
		return fmt.Errorf("blueberry: %d image names for %d pages", len(imageNames), len(pages))
	}
	bw := bufio.NewWriter(w)
	for i, p := range pages {
		fmt.Fprintf(bw, "\n%s\n", imageNames[i])
		fmt.Fprintf(bw, "size: %d,%d\n", p.Width, p.Height)
		fmt.Fprintf(bw, "format: %s\n", textFormat)
		fmt.Fprintf(bw, "filter: %s\n", textFilter)
		fmt.Fprintf(bw, "repeat: %s\n", textRepeat)
		for _, r := range p.Regions {
			writeTextRegion(bw, r)
		}
	}
	return bw.Flush()
}

func writeTextRegion(w io.Writer, r *Region) {
	fmt.Fprintf(w, "%s\n", r.Name)
	fmt.Fprintf(w, "  rotate: %t\n", r.Rotated)
	fmt.Fprintf(w, "  xy: %d, %d\n", r.Bounds.X, r.Bounds.Y)
	fmt.Fprintf(w, "  size: %d, %d\n", r.Width(), r.Height())
	if s := r.Splits; s != nil {
		fmt.Fprintf(w, "  split: %d, %d, %d, %d\n", s.Left, s.Right, s.Top, s.Bottom)
	}
	if p := r.Pads; p != nil {
		if r.Splits == nil {
			fmt.Fprint(w, "  split: 0, 0, 0, 0\n")
		}
		fmt.Fprintf(w, "  pad: %d, %d, %d, %d\n",
			wirePad(p.Left), wirePad(p.Right), wirePad(p.Top), wirePad(p.Bottom))
	}
	fmt.Fprintf(w, "  orig: %d, %d\n", r.OriginalWidth, r.OriginalHeight)
	fmt.Fprintf(w, "  offset: %d, %d\n", r.OffsetX, r.OffsetY)
	fmt.Fprintf(w, "  index: %d\n", r.Index)
}

// ImageResolver returns the pixels of a page image named in a text atlas.
type ImageResolver func(name string) (*image.NRGBA, error)

type textReader struct {
	sc   *bufio.Scanner
	line int
	// peeked holds a line read but not yet consumed.
	peeked *string
}

func (t *textReader) next() (string, bool) {
	if t.peeked != nil {
		s := *t.peeked
		t.peeked = nil
		return s, true
	}
	if !t.sc.Scan() {
		return "", false
	}
	t.line++
	return strings.TrimRight(t.sc.Text(), "\r"), true
}

func (t *textReader) unread(s string) { t.peeked = &s }

func (t *textReader) malformed(format string, args ...any) error {
	return &MalformedError{Line: t.line, Reason: fmt.Sprintf(format, args...)}
}

// ReadText decodes a libGDX text atlas. resolve supplies each page's pixels;
// when resolve is nil the pages carry layout only and every page must state
// its size.
func ReadText(r io.Reader, resolve ImageResolver) (*Atlas, error) {
	t := &textReader{sc: bufio.NewScanner(r)}
	t.sc.Buffer(make([]byte, 0, 4096), maxNameLength+64)
	var pages []*Page
	for {
		line, ok := t.next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if isIndented(line) {
			return nil, t.malformed("region field %q outside a region", strings.TrimSpace(line))
		}
		p, err := t.readPage(len(pages), strings.TrimSpace(line), resolve)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	if err := t.sc.Err(); err != nil {
		return nil, &MalformedError{Line: t.line, Reason: "read", Err: err}
	}
	return NewAtlas(pages), nil
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

// splitField splits "key: value" and reports whether the line is a field.
// pageHeaderKeys are the fields a page header may carry.
var pageHeaderKeys = map[string]bool{
	"size":   true,
	"format": true,
	"filter": true,
	"repeat": true,
	"pma":    true,
}

func splitField(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(strings.TrimSpace(line), ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}

func (t *textReader) ints(value string, n int) ([]int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, t.malformed("want %d values, got %q", n, value)
	}
	out := make([]int, n)
	for i, s := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, &MalformedError{Line: t.line, Reason: fmt.Sprintf("bad integer %q", s), Err: err}
		}
		out[i] = v
	}
	return out, nil
}

func (t *textReader) readPage(index int, imageName string, resolve ImageResolver) (*Page, error) {
	p := &Page{Index: index}
	sized, ended := false, false
	headerLine := t.line

	// Header fields up to the first region name.
	for {
		line, ok := t.next()
		if !ok || strings.TrimSpace(line) == "" {
			ended = true
			break
		}
		key, value, isField := splitField(line)
		if isIndented(line) {
			return nil, t.malformed("region field %q before any region", strings.TrimSpace(line))
		}
		// Region names may contain ':', so only known keys end the header.
		if !isField || !pageHeaderKeys[key] {
			t.unread(line)
			break
		}
		if key == "size" {
			v, err := t.ints(value, 2)
			if err != nil {
				return nil, err
			}
			if v[0] <= 0 || v[1] <= 0 || v[0] > maxPageSide || v[1] > maxPageSide {
				return nil, t.malformed("page size %dx%d out of range", v[0], v[1])
			}
			p.Width, p.Height, sized = v[0], v[1], true
		}
	}

	if resolve != nil {
		img, err := resolve(imageName)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		if sized && (b.Dx() != p.Width || b.Dy() != p.Height) {
			return nil, &MalformedError{Line: headerLine, Reason: fmt.Sprintf(
				"page %q is %dx%d, image is %dx%d", imageName, p.Width, p.Height, b.Dx(), b.Dy())}
		}
		p.Width, p.Height = b.Dx(), b.Dy()
		p.Pixels = NewPixelSource(img).Image()
	} else if !sized {
		return nil, &MalformedError{Line: headerLine, Reason: fmt.Sprintf("page %q has no size", imageName)}
	}
	if ended {
		return p, nil
	}

	for {
		line, ok := t.next()
		if !ok || strings.TrimSpace(line) == "" {
			return p, nil
		}
		if isIndented(line) {
			return nil, t.malformed("region field %q before any region", strings.TrimSpace(line))
		}
		r, err := t.readRegion(index, strings.TrimSpace(line))
		if err != nil {
			return nil, err
		}
		p.Regions = append(p.Regions, r)
	}
}

func (t *textReader) readRegion(page int, name string) (*Region, error) {
	r := &Region{Name: name, Page: page, Index: -1}
	nameLine := t.line
	var (
		xy, size, orig []int
		splits         []int
		pads           []int
	)
	for {
		line, ok := t.next()
		if !ok {
			break
		}
		if !isIndented(line) || strings.TrimSpace(line) == "" {
			t.unread(line)
			break
		}
		key, value, isField := splitField(line)
		if !isField {
			return nil, t.malformed("region %q: expected key: value, got %q", name, strings.TrimSpace(line))
		}
		var err error
		switch key {
		case "rotate":
			switch value {
			case "true", "90":
				r.Rotated = true
			case "false", "0":
				r.Rotated = false
			default:
				return nil, t.malformed("region %q: bad rotate %q", name, value)
			}
		case "xy":
			xy, err = t.ints(value, 2)
		case "size":
			size, err = t.ints(value, 2)
		case "split":
			splits, err = t.ints(value, 4)
		case "pad":
			pads, err = t.ints(value, 4)
		case "orig":
			orig, err = t.ints(value, 2)
		case "offset":
			var v []int
			if v, err = t.ints(value, 2); err == nil {
				r.OffsetX, r.OffsetY = v[0], v[1]
			}
		case "index":
			var v []int
			if v, err = t.ints(value, 1); err == nil {
				r.Index = v[0]
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if xy == nil || size == nil {
		return nil, &MalformedError{Line: nameLine, Reason: fmt.Sprintf("region %q lacks xy or size", name)}
	}
	w, h := size[0], size[1]
	if r.Rotated {
		w, h = h, w
	}
	r.Bounds = Rect{X: xy[0], Y: xy[1], Width: w, Height: h}
	if orig != nil {
		r.OriginalWidth, r.OriginalHeight = orig[0], orig[1]
	} else {
		r.OriginalWidth, r.OriginalHeight = size[0], size[1]
	}

	// A zero split only stands in for a missing one when pads follow.
	if splits != nil && !(pads != nil && splits[0] == 0 && splits[1] == 0 && splits[2] == 0 && splits[3] == 0) {
		r.Splits = &Insets{Left: splits[0], Right: splits[1], Top: splits[2], Bottom: splits[3]}
	}
	if pads != nil {
		var pd [4]Pad
		for i, v := range pads {
			p, ok := readPad(v)
			if !ok {
				return nil, &MalformedError{Line: nameLine, Reason: fmt.Sprintf("region %q: invalid pad %d", name, v)}
			}
			pd[i] = p
		}
		r.Pads = &PadInsets{Left: pd[0], Right: pd[1], Top: pd[2], Bottom: pd[3]}
	}
	return r, nil
}

// WriteTextFile writes a .atlas file at path plus one PNG per page in the
// same directory, named by PageImageName from the atlas file's base name.
func WriteTextFile(path string, pages []*Page) error {
	dir, name := filepath.Dir(path), atlasName(path)
	names := make([]string, len(pages))
	for i, p := range pages {
		if p.Pixels == nil {
			return fmt.Errorf("blueberry: page %d has no pixels", p.Index)
		}
		names[i] = PageImageName(name, i)
		if err := writePNG(filepath.Join(dir, names[i]), p.Pixels); err != nil {
			return err
		}
	}
	return writeFileAtomic(path, func(w io.Writer) error {
		return WriteText(w, pages, names)
	})
}

// ReadTextFile loads a .atlas file, resolving page images relative to its
// directory.
func ReadTextFile(path string) (*Atlas, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dir := filepath.Dir(path)
	a, err := ReadText(f, func(name string) (*image.NRGBA, error) {
		img, err := readImageFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			return nil, err
		}
		return NewPixelSource(img).Image(), nil
	})
	if err != nil {
		return nil, withPath(err, path)
	}
	a.Name = atlasName(path)
	return a, nil
}
