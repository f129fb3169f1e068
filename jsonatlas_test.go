package blueberry

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

// --- Test JSON fixtures ---

const singlePageJSON = `{
  "frames": {
    "hero.png": {
      "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 64, "h": 64},
      "sourceSize": {"w": 64, "h": 64}
    },
    "enemy.png": {
      "frame": {"x": 64, "y": 0, "w": 32, "h": 48},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 32, "h": 48},
      "sourceSize": {"w": 32, "h": 48}
    },
    "trimmed.png": {
      "frame": {"x": 100, "y": 50, "w": 60, "h": 58},
      "rotated": false,
      "trimmed": true,
      "spriteSourceSize": {"x": 2, "y": 3, "w": 60, "h": 58},
      "sourceSize": {"w": 64, "h": 64}
    },
    "rotated.png": {
      "frame": {"x": 200, "y": 0, "w": 48, "h": 32},
      "rotated": true,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 48, "h": 32},
      "sourceSize": {"w": 48, "h": 32}
    }
  },
  "meta": {
    "image": "atlas.png",
    "size": {"w": 1024, "h": 1024}
  }
}`

const multiPageJSON = `{
  "textures": [
    {
      "image": "atlas-0.png",
      "size": {"w": 512, "h": 512},
      "frames": {
        "page0_sprite.png": {
          "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
          "rotated": false,
          "trimmed": false,
          "spriteSourceSize": {"x": 0, "y": 0, "w": 64, "h": 64},
          "sourceSize": {"w": 64, "h": 64}
        }
      }
    },
    {
      "image": "atlas-1.png",
      "size": {"w": 512, "h": 512},
      "frames": {
        "page1_sprite.png": {
          "frame": {"x": 10, "y": 20, "w": 50, "h": 50},
          "rotated": false,
          "trimmed": false,
          "spriteSourceSize": {"x": 0, "y": 0, "w": 50, "h": 50},
          "sourceSize": {"w": 50, "h": 50}
        }
      }
    }
  ]
}`

// --- LoadTexturePackerJSON tests ---

func TestLoadTexturePackerJSON_SinglePage(t *testing.T) {
	a, err := LoadTexturePackerJSON([]byte(singlePageJSON), []*image.NRGBA{newPagePixels(1024, 1024)})
	if err != nil {
		t.Fatalf("LoadTexturePackerJSON: %v", err)
	}
	regions, _ := a.Regions()
	want := []string{"enemy.png", "hero.png", "rotated.png", "trimmed.png"}
	if len(regions) != len(want) {
		t.Fatalf("region count = %d, want %d", len(regions), len(want))
	}
	for i, r := range regions {
		if r.Name != want[i] {
			t.Errorf("region %d = %q, want %q", i, r.Name, want[i])
		}
		if r.Index != -1 {
			t.Errorf("%s Index = %d, want -1", r.Name, r.Index)
		}
	}

	hero, _ := a.FindRegion("hero.png")
	if hero.Bounds != (Rect{0, 0, 64, 64}) {
		t.Errorf("hero bounds = %v, want 0,0 64x64", hero.Bounds)
	}
	enemy, _ := a.FindRegion("enemy.png")
	if enemy.Bounds != (Rect{64, 0, 32, 48}) {
		t.Errorf("enemy bounds = %v, want 64,0 32x48", enemy.Bounds)
	}
}

func TestLoadTexturePackerJSON_TrimmedRegion(t *testing.T) {
	a, err := LoadTexturePackerJSON([]byte(singlePageJSON), nil)
	if err != nil {
		t.Fatalf("LoadTexturePackerJSON: %v", err)
	}
	r, _ := a.FindRegion("trimmed.png")
	if r.OffsetX != 2 || r.OffsetY != 3 {
		t.Errorf("trimmed offset = %d/%d, want 2/3", r.OffsetX, r.OffsetY)
	}
	if r.OriginalWidth != 64 || r.OriginalHeight != 64 {
		t.Errorf("trimmed original = %d/%d, want 64/64", r.OriginalWidth, r.OriginalHeight)
	}
	if r.Width() != 60 || r.Height() != 58 {
		t.Errorf("trimmed size = %d/%d, want 60/58", r.Width(), r.Height())
	}
}

func TestLoadTexturePackerJSON_RotatedRegion(t *testing.T) {
	a, err := LoadTexturePackerJSON([]byte(singlePageJSON), nil)
	if err != nil {
		t.Fatalf("LoadTexturePackerJSON: %v", err)
	}
	r, _ := a.FindRegion("rotated.png")
	if !r.Rotated {
		t.Error("rotated.png Rotated = false, want true")
	}
	// Frame sizes are unrotated; on the page the region is turned.
	if r.Bounds != (Rect{200, 0, 32, 48}) {
		t.Errorf("rotated bounds = %v, want 200,0 32x48", r.Bounds)
	}
	if r.Width() != 48 || r.Height() != 32 {
		t.Errorf("rotated size = %d/%d, want 48/32", r.Width(), r.Height())
	}
}

func TestLoadTexturePackerJSON_LayoutOnly(t *testing.T) {
	a, err := LoadTexturePackerJSON([]byte(singlePageJSON), nil)
	if err != nil {
		t.Fatalf("LoadTexturePackerJSON: %v", err)
	}
	pages, _ := a.Pages()
	if pages[0].Width != 1024 || pages[0].Height != 1024 || pages[0].Pixels != nil {
		t.Errorf("page = %dx%d pixels=%v, want 1024x1024 without pixels",
			pages[0].Width, pages[0].Height, pages[0].Pixels != nil)
	}
}

func TestLoadTexturePackerJSON_MultiPage(t *testing.T) {
	a, err := LoadTexturePackerJSON([]byte(multiPageJSON), []*image.NRGBA{newPagePixels(512, 512), newPagePixels(512, 512)})
	if err != nil {
		t.Fatalf("LoadTexturePackerJSON: %v", err)
	}
	if got := a.Len(); got != 2 {
		t.Errorf("region count = %d, want 2", got)
	}
	r0, _ := a.FindRegion("page0_sprite.png")
	if r0.Page != 0 {
		t.Errorf("page0_sprite Page = %d, want 0", r0.Page)
	}
	r1, _ := a.FindRegion("page1_sprite.png")
	if r1.Page != 1 {
		t.Errorf("page1_sprite Page = %d, want 1", r1.Page)
	}
	if r1.Bounds.X != 10 || r1.Bounds.Y != 20 {
		t.Errorf("page1_sprite X/Y = %d/%d, want 10/20", r1.Bounds.X, r1.Bounds.Y)
	}
}

func TestLoadTexturePackerJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid JSON", `{invalid`},
		{"no frames or textures", `{"meta":{}}`},
		{"bad frames", `{"frames": [1, 2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTexturePackerJSON([]byte(tt.data), nil)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestLoadTexturePackerJSON_PageCountMismatch(t *testing.T) {
	_, err := LoadTexturePackerJSON([]byte(multiPageJSON), []*image.NRGBA{newPagePixels(512, 512)})
	if err == nil {
		t.Error("expected error for one image with two JSON pages")
	}
}

func TestReadJSONFile(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "atlas.png"), solidImage(256, 64, colorRed))
	path := filepath.Join(dir, "sheet.json")
	if err := os.WriteFile(path, []byte(singlePageJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := ReadJSONFile(path)
	if err != nil {
		t.Fatalf("ReadJSONFile: %v", err)
	}
	if a.Name != "sheet" {
		t.Errorf("Name = %q, want sheet", a.Name)
	}
	pages, _ := a.Pages()
	if pages[0].Width != 256 || pages[0].Height != 64 {
		t.Errorf("page = %dx%d, want image size 256x64", pages[0].Width, pages[0].Height)
	}

	// Missing page image.
	if err := os.Remove(filepath.Join(dir, "atlas.png")); err != nil {
		t.Fatal(err)
	}
	var ioErr *IOError
	if _, err := ReadJSONFile(path); !errors.As(err, &ioErr) {
		t.Errorf("err = %v, want *IOError", err)
	}
}

func BenchmarkLoadTexturePackerJSON(b *testing.B) {
	data := []byte(singlePageJSON)
	pages := []*image.NRGBA{newPagePixels(64, 64)}
	for i := 0; i < b.N; i++ {
		if _, err := LoadTexturePackerJSON(data, pages); err != nil {
			b.Fatal(err)
		}
	}
}
