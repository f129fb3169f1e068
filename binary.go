package blueberry

import (
	"bufio"
	"bytes"
	"compress/flate"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
)

// Binary atlas (.bba) layout, little-endian, no header:
//
//	int32 pageCount
//	per page:
//	  int32 regionCount
//	  per region:
//	    string name (uvarint byte length + UTF-8)
//	    bool   rotate
//	    int32  left, top, width, height
//	    bool   hasSplits, [int32 x4 splits]
//	    bool   hasPads,   [int32 x4 pads]   (-1 = unset)
//	    int32  originalWidth, originalHeight
//	    int32  offsetX, offsetY
//	    int32  index
//	  int32 pixelWidth, pixelHeight
//	  int32 compressedByteCount
//	  byte[compressedByteCount] raw DEFLATE of straight RGBA pixels

// Decoder sanity limits.
const (
	maxBinaryPages   = 1 << 12
	maxBinaryRegions = 1 << 20
	maxNameLength    = 1 << 16
	maxPageSide      = 1 << 15
)

// compressionLevel is fixed so identical pages compress to identical bytes.
const compressionLevel = flate.BestCompression

type binWriter struct {
	w   *bufio.Writer
	err error
	buf [binary.MaxVarintLen64]byte
}

func (b *binWriter) int32(v int) {
	if b.err != nil {
		return
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		b.err = fmt.Errorf("blueberry: value %d overflows int32", v)
		return
	}
	binary.LittleEndian.PutUint32(b.buf[:4], uint32(int32(v)))
	_, b.err = b.w.Write(b.buf[:4])
}

func (b *binWriter) bool(v bool) {
	if b.err != nil {
		return
	}
	var c byte
	if v {
		c = 1
	}
	b.err = b.w.WriteByte(c)
}

func (b *binWriter) string(s string) {
	if b.err != nil {
		return
	}
	n := binary.PutUvarint(b.buf[:], uint64(len(s)))
	if _, b.err = b.w.Write(b.buf[:n]); b.err != nil {
		return
	}
	_, b.err = b.w.WriteString(s)
}

func (b *binWriter) bytes(p []byte) {
	if b.err != nil {
		return
	}
	_, b.err = b.w.Write(p)
}

func wirePad(p Pad) int {
	if p.Set {
		return p.Value
	}
	return -1
}

// WriteBinary encodes pages in the binary atlas layout.
func WriteBinary(w io.Writer, pages []*Page) error {
	bw := &binWriter{w: bufio.NewWriter(w)}
	bw.int32(len(pages))
	for _, p := range pages {
		if p.Pixels == nil {
			return fmt.Errorf("blueberry: page %d has no pixels", p.Index)
		}
		bw.int32(len(p.Regions))
		for _, r := range p.Regions {
			writeRegion(bw, r)
		}
		data, err := compressPage(p)
		if err != nil {
			return err
		}
		bw.int32(p.Width)
		bw.int32(p.Height)
		bw.int32(len(data))
		bw.bytes(data)
		if bw.err != nil {
			return bw.err
		}
	}
	if bw.err != nil {
		return bw.err
	}
	return bw.w.Flush()
}

func writeRegion(bw *binWriter, r *Region) {
	bw.string(r.Name)
	bw.bool(r.Rotated)
	bw.int32(r.Bounds.X)
	bw.int32(r.Bounds.Y)
	bw.int32(r.Bounds.Width)
	bw.int32(r.Bounds.Height)
	bw.bool(r.Splits != nil)
	if s := r.Splits; s != nil {
		bw.int32(s.Left)
		bw.int32(s.Right)
		bw.int32(s.Top)
		bw.int32(s.Bottom)
	}
	bw.bool(r.Pads != nil)
	if p := r.Pads; p != nil {
		bw.int32(wirePad(p.Left))
		bw.int32(wirePad(p.Right))
		bw.int32(wirePad(p.Top))
		bw.int32(wirePad(p.Bottom))
	}
	bw.int32(r.OriginalWidth)
	bw.int32(r.OriginalHeight)
	bw.int32(r.OffsetX)
	bw.int32(r.OffsetY)
	bw.int32(r.Index)
}

// compressPage deflates the page pixels row by row so non-tight strides are
// written without padding.
func compressPage(p *Page) ([]byte, error) {
	b := p.Pixels.Bounds()
	if b.Dx() != p.Width || b.Dy() != p.Height {
		return nil, fmt.Errorf("blueberry: page %d pixels are %dx%d, want %dx%d",
			p.Index, b.Dx(), b.Dy(), p.Width, p.Height)
	}
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, compressionLevel)
	if err != nil {
		return nil, err
	}
	row := 4 * p.Width
	for y := 0; y < p.Height; y++ {
		off := p.Pixels.PixOffset(b.Min.X, b.Min.Y+y)
		if _, err := zw.Write(p.Pixels.Pix[off : off+row]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type binReader struct {
	r   *bufio.Reader
	off int64
	buf [4]byte
}

func (b *binReader) malformed(reason string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &MalformedError{Offset: b.off, Reason: reason, Err: err}
}

func (b *binReader) int32(what string) (int, error) {
	n, err := io.ReadFull(b.r, b.buf[:4])
	b.off += int64(n)
	if err != nil {
		return 0, b.malformed("read "+what, err)
	}
	return int(int32(binary.LittleEndian.Uint32(b.buf[:4]))), nil
}

func (b *binReader) count(what string, limit int) (int, error) {
	n, err := b.int32(what)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > limit {
		return 0, b.malformed(fmt.Sprintf("%s %d out of range", what, n), nil)
	}
	return n, nil
}

func (b *binReader) bool(what string) (bool, error) {
	c, err := b.r.ReadByte()
	if err != nil {
		return false, b.malformed("read "+what, err)
	}
	b.off++
	switch c {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, b.malformed(fmt.Sprintf("%s: invalid bool byte %#x", what, c), nil)
}

func (b *binReader) ReadByte() (byte, error) {
	c, err := b.r.ReadByte()
	if err == nil {
		b.off++
	}
	return c, err
}

func (b *binReader) string(what string) (string, error) {
	n, err := binary.ReadUvarint(b)
	if err != nil {
		return "", b.malformed("read "+what+" length", err)
	}
	if n > maxNameLength {
		return "", b.malformed(fmt.Sprintf("%s length %d out of range", what, n), nil)
	}
	p := make([]byte, n)
	m, err := io.ReadFull(b.r, p)
	b.off += int64(m)
	if err != nil {
		return "", b.malformed("read "+what, err)
	}
	return string(p), nil
}

func (b *binReader) insets(what string) ([4]int, error) {
	var v [4]int
	for i := range v {
		n, err := b.int32(what)
		if err != nil {
			return v, err
		}
		v[i] = n
	}
	return v, nil
}

func readPad(v int) (Pad, bool) {
	switch {
	case v == -1:
		return Pad{}, true
	case v >= 0:
		return PadOf(v), true
	}
	return Pad{}, false
}

// ReadBinary decodes a binary atlas. Any truncation, out-of-range value or
// decompression failure returns a *MalformedError and no atlas.
func ReadBinary(r io.Reader) (*Atlas, error) {
	br := &binReader{r: bufio.NewReader(r)}
	pageCount, err := br.count("page count", maxBinaryPages)
	if err != nil {
		return nil, err
	}
	pages := make([]*Page, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		p, err := readPage(br, i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return NewAtlas(pages), nil
}

func readPage(br *binReader, index int) (*Page, error) {
	regionCount, err := br.count("region count", maxBinaryRegions)
	if err != nil {
		return nil, err
	}
	p := &Page{Index: index, Regions: make([]*Region, 0, regionCount)}
	for j := 0; j < regionCount; j++ {
		r, err := readRegion(br, index)
		if err != nil {
			return nil, err
		}
		p.Regions = append(p.Regions, r)
	}

	if p.Width, err = br.count("page width", maxPageSide); err != nil {
		return nil, err
	}
	if p.Height, err = br.count("page height", maxPageSide); err != nil {
		return nil, err
	}
	size, err := br.count("compressed size", math.MaxInt32)
	if err != nil {
		return nil, err
	}
	var compressed bytes.Buffer
	n, err := io.CopyN(&compressed, br.r, int64(size))
	br.off += n
	if err != nil {
		return nil, br.malformed("read page pixels", err)
	}

	// Page dimensions are untrusted; the buffer grows with the data.
	want := 4 * int64(p.Width) * int64(p.Height)
	var pix bytes.Buffer
	got, err := pix.ReadFrom(io.LimitReader(flate.NewReader(&compressed), want+1))
	switch {
	case err != nil:
		return nil, br.malformed(fmt.Sprintf("decompress page %d", index), err)
	case got < want:
		return nil, br.malformed(fmt.Sprintf("decompress page %d", index), io.ErrUnexpectedEOF)
	case got > want:
		return nil, br.malformed(fmt.Sprintf("page %d pixel data exceeds %dx%d", index, p.Width, p.Height), nil)
	}
	p.Pixels = &image.NRGBA{
		Pix:    pix.Bytes(),
		Stride: 4 * p.Width,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
	return p, nil
}

func readRegion(br *binReader, page int) (*Region, error) {
	var err error
	r := &Region{Page: page}
	if r.Name, err = br.string("region name"); err != nil {
		return nil, err
	}
	if r.Rotated, err = br.bool("rotate"); err != nil {
		return nil, err
	}
	rect, err := br.insets("region rect")
	if err != nil {
		return nil, err
	}
	r.Bounds = Rect{X: rect[0], Y: rect[1], Width: rect[2], Height: rect[3]}

	hasSplits, err := br.bool("hasSplits")
	if err != nil {
		return nil, err
	}
	if hasSplits {
		v, err := br.insets("splits")
		if err != nil {
			return nil, err
		}
		r.Splits = &Insets{Left: v[0], Right: v[1], Top: v[2], Bottom: v[3]}
	}

	hasPads, err := br.bool("hasPads")
	if err != nil {
		return nil, err
	}
	if hasPads {
		v, err := br.insets("pads")
		if err != nil {
			return nil, err
		}
		var pads [4]Pad
		for i, n := range v {
			pd, ok := readPad(n)
			if !ok {
				return nil, br.malformed(fmt.Sprintf("region %q: invalid pad %d", r.Name, n), nil)
			}
			pads[i] = pd
		}
		r.Pads = &PadInsets{Left: pads[0], Right: pads[1], Top: pads[2], Bottom: pads[3]}
	}

	tail, err := br.insets("region metrics")
	if err != nil {
		return nil, err
	}
	r.OriginalWidth, r.OriginalHeight = tail[0], tail[1]
	r.OffsetX, r.OffsetY = tail[2], tail[3]
	if r.Index, err = br.int32("index"); err != nil {
		return nil, err
	}
	return r, nil
}

// WriteBinaryFile writes pages to path through a temporary file that is
// renamed into place once complete.
func WriteBinaryFile(path string, pages []*Page) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return WriteBinary(w, pages)
	})
}

// ReadBinaryFile loads a binary atlas from disk.
func ReadBinaryFile(path string) (*Atlas, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := ReadBinary(f)
	if err != nil {
		return nil, withPath(err, path)
	}
	a.Name = atlasName(path)
	return a, nil
}
