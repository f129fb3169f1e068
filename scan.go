package blueberry

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"io/fs"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// sourceExts lists the image extensions ScanDir picks up.
var sourceExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// ScanOptions controls how source images are discovered and prepared.
type ScanOptions struct {
	Recursive         bool
	StripWhitespaceX  bool
	StripWhitespaceY  bool
	AlphaThreshold    uint8
	IgnoreBlankImages bool
	UseIndexes        bool

	// Concurrency bounds parallel decoding. Zero means GOMAXPROCS.
	Concurrency int
}

// ScanOptions returns the scan-related part of s.
func (s Settings) ScanOptions() ScanOptions {
	return ScanOptions{
		Recursive:         s.Recursive,
		StripWhitespaceX:  s.StripWhitespaceX,
		StripWhitespaceY:  s.StripWhitespaceY,
		AlphaThreshold:    uint8(s.AlphaThreshold),
		IgnoreBlankImages: s.IgnoreBlankImages,
		UseIndexes:        s.UseIndexes,
	}
}

// ScanDir finds every image under dir and prepares it for packing. Names
// are slash-separated paths relative to dir without the extension. Files are
// decoded concurrently; the result keeps the lexical walk order. Blank images
// are dropped when whitespace stripping is on and IgnoreBlankImages is set.
func ScanDir(ctx context.Context, dir string, opts ScanOptions) ([]SourceImage, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if sourceExts[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, &IOError{Op: "scan", Path: dir, Err: err}
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([]*SourceImage, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			img, err := readImageFile(path)
			if err != nil {
				return err
			}
			src, ok := PrepareSource(filepath.ToSlash(rel), img, opts)
			if ok {
				results[i] = &src
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]SourceImage, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// PrepareSource turns a decoded image into a packer input. name is the file
// name, with or without extension; a ".9" suffix marks a nine-patch whose
// marker border is read and cropped. It reports false when the image is blank
// and should be skipped.
func PrepareSource(name string, img image.Image, opts ScanOptions) (SourceImage, bool) {
	if ext := filepath.Ext(name); sourceExts[strings.ToLower(ext)] {
		name = strings.TrimSuffix(name, ext)
	}
	pixels := NewPixelSource(img).Image()
	w, h := pixels.Bounds().Dx(), pixels.Bounds().Dy()

	var src SourceImage
	if base, ok := strings.CutSuffix(name, ".9"); ok && w > 2 && h > 2 {
		splits := ninePatchSplits(pixels)
		pads := ninePatchPads(pixels, splits)
		inner := imaging.Crop(pixels, image.Rect(1, 1, w-1, h-1))
		src = SourceImage{
			Name:           base,
			Width:          w - 2,
			Height:         h - 2,
			OriginalWidth:  w - 2,
			OriginalHeight: h - 2,
			Splits:         splits,
			Pads:           pads,
			Pixels:         NewPixelSource(inner),
		}
	} else {
		src = SourceImage{Name: name, OriginalWidth: w, OriginalHeight: h}
		if !opts.StripWhitespaceX && !opts.StripWhitespaceY {
			src.Width, src.Height = w, h
			src.Pixels = NewPixelSource(pixels)
		} else {
			r := trimBounds(pixels, opts.StripWhitespaceX, opts.StripWhitespaceY, opts.AlphaThreshold)
			if r.Empty() {
				if opts.IgnoreBlankImages {
					return SourceImage{}, false
				}
				r = image.Rect(0, 0, 1, 1)
				pixels = image.NewNRGBA(r)
			}
			src.Width, src.Height = r.Dx(), r.Dy()
			src.OffsetX, src.OffsetY = r.Min.X, r.Min.Y
			src.Pixels = NewPixelSource(imaging.Crop(pixels, r))
		}
	}

	src.Index = -1
	if opts.UseIndexes {
		src.Name, src.Index = splitIndex(src.Name)
	}
	return src, true
}

// splitIndex splits a trailing "_NN" frame number off name.
func splitIndex(name string) (string, int) {
	i := strings.LastIndexByte(name, '_')
	if i <= 0 || i == len(name)-1 {
		return name, -1
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil || n < 0 || strings.ContainsAny(name[i+1:], "+-") {
		return name, -1
	}
	return name[:i], n
}

func (o ScanOptions) String() string {
	return fmt.Sprintf("recursive=%t strip=%t,%t alpha=%d ignoreBlank=%t indexes=%t",
		o.Recursive, o.StripWhitespaceX, o.StripWhitespaceY, o.AlphaThreshold, o.IgnoreBlankImages, o.UseIndexes)
}
