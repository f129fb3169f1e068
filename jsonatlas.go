package blueberry

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
)

// LoadTexturePackerJSON parses TexturePacker JSON data and attaches the
// given page images. Both the hash format (single "frames" object) and the
// array format ("textures" array with per-page frame lists) are supported.
// Frames are added in name order within each page. A nil pages slice builds
// a layout-only atlas sized from the JSON metadata.
func LoadTexturePackerJSON(jsonData []byte, pages []*image.NRGBA) (*Atlas, error) {
	doc, err := parseTexturePacker(jsonData)
	if err != nil {
		return nil, err
	}
	if pages != nil && len(pages) != len(doc) {
		return nil, fmt.Errorf("blueberry: atlas JSON has %d pages, got %d images", len(doc), len(pages))
	}
	out := make([]*Page, len(doc))
	for i, tex := range doc {
		p := &Page{Index: i, Width: tex.Size.W, Height: tex.Size.H}
		if pages != nil {
			b := pages[i].Bounds()
			p.Width, p.Height = b.Dx(), b.Dy()
			p.Pixels = NewPixelSource(pages[i]).Image()
		}
		names := make([]string, 0, len(tex.Frames))
		for name := range tex.Frames {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			r := frameToRegion(tex.Frames[name], i)
			r.Name = name
			p.Regions = append(p.Regions, r)
		}
		out[i] = p
	}
	return NewAtlas(out), nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Size   jsonSize             `json:"size"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseTexturePacker normalizes both layouts into a page list.
func parseTexturePacker(jsonData []byte) ([]jsonTexturePage, error) {
	// Probe top-level keys to detect format.
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
		Meta     struct {
			Image string   `json:"image"`
			Size  jsonSize `json:"size"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, &MalformedError{Reason: "parse atlas JSON", Err: err}
	}

	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, &MalformedError{Reason: "parse atlas textures array", Err: err}
		}
		return textures, nil
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, &MalformedError{Reason: "parse atlas frames", Err: err}
		}
		return []jsonTexturePage{{Image: probe.Meta.Image, Size: probe.Meta.Size, Frames: frames}}, nil
	}
	return nil, &MalformedError{Reason: `atlas JSON has neither "frames" nor "textures" key`}
}

// frameToRegion maps a TexturePacker frame. Frame sizes are unrotated, so a
// rotated frame occupies h×w on the page.
func frameToRegion(f jsonFrame, page int) *Region {
	b := Rect{X: f.Frame.X, Y: f.Frame.Y, Width: f.Frame.W, Height: f.Frame.H}
	if f.Rotated {
		b.Width, b.Height = b.Height, b.Width
	}
	r := &Region{
		Page:           page,
		Index:          -1,
		Bounds:         b,
		Rotated:        f.Rotated,
		OriginalWidth:  f.SourceSize.W,
		OriginalHeight: f.SourceSize.H,
	}
	if f.Trimmed {
		r.OffsetX, r.OffsetY = f.SpriteSourceSize.X, f.SpriteSourceSize.Y
	}
	if r.OriginalWidth == 0 && r.OriginalHeight == 0 {
		r.OriginalWidth, r.OriginalHeight = f.Frame.W, f.Frame.H
	}
	return r
}

// ReadJSONFile loads a TexturePacker JSON atlas, decoding the page images it
// names relative to the JSON file.
func ReadJSONFile(path string) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	doc, err := parseTexturePacker(data)
	if err != nil {
		return nil, withPath(err, path)
	}
	dir := filepath.Dir(path)
	pages := make([]*image.NRGBA, len(doc))
	for i, tex := range doc {
		if tex.Image == "" {
			return nil, &MalformedError{Path: path, Reason: fmt.Sprintf("page %d names no image", i)}
		}
		img, err := readImageFile(filepath.Join(dir, filepath.FromSlash(tex.Image)))
		if err != nil {
			return nil, err
		}
		pages[i] = NewPixelSource(img).Image()
	}
	a, err := LoadTexturePackerJSON(data, pages)
	if err != nil {
		return nil, withPath(err, path)
	}
	a.Name = atlasName(path)
	return a, nil
}
