package blueberry

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ninePatchCacheSize bounds the memoized nine-patches per atlas.
const ninePatchCacheSize = 128

// Atlas holds atlas pages and their regions in insertion order. It owns the
// page pixels and any textures uploaded from them; Dispose releases both.
//
// Lookups are linear scans. Atlases are built once and queried many times,
// and callers keep the Region or NinePatch they resolve.
type Atlas struct {
	// Name is an optional friendly name, usually the file base name.
	Name string

	pages    []*Page
	regions  []*Region
	textures []*ebiten.Image
	patches  *lru.Cache[string, *NinePatch]
	disposed bool
}

// NewAtlas builds an atlas over pages. The region list is the pages' regions
// in page order. The atlas takes ownership of the pages.
func NewAtlas(pages []*Page) *Atlas {
	a := &Atlas{pages: pages}
	for _, p := range pages {
		a.regions = append(a.regions, p.Regions...)
	}
	a.patches, _ = lru.New[string, *NinePatch](ninePatchCacheSize)
	return a
}

// Pages returns the atlas pages. The returned slice MUST NOT be mutated.
func (a *Atlas) Pages() ([]*Page, error) {
	if a.disposed {
		return nil, ErrDisposed
	}
	return a.pages, nil
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// Regions returns copies of all regions in insertion order.
func (a *Atlas) Regions() ([]Region, error) {
	if a.disposed {
		return nil, ErrDisposed
	}
	out := make([]Region, len(a.regions))
	for i, r := range a.regions {
		out[i] = r.clone()
	}
	return out, nil
}

// FindRegion returns the first region with the given name.
func (a *Atlas) FindRegion(name string) (Region, error) {
	if a.disposed {
		return Region{}, ErrDisposed
	}
	for _, r := range a.regions {
		if r.Name == name {
			return r.clone(), nil
		}
	}
	return Region{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// FindRegions returns every region with the given name in insertion order,
// such as the frames of an animation.
func (a *Atlas) FindRegions(name string) ([]Region, error) {
	if a.disposed {
		return nil, ErrDisposed
	}
	var out []Region
	for _, r := range a.regions {
		if r.Name == name {
			out = append(out, r.clone())
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return out, nil
}

// RegionMap returns all regions keyed by name. On duplicate names the last
// region wins.
func (a *Atlas) RegionMap() (map[string]Region, error) {
	if a.disposed {
		return nil, ErrDisposed
	}
	out := make(map[string]Region, len(a.regions))
	for _, r := range a.regions {
		out[r.Name] = r.clone()
	}
	return out, nil
}

// FindNinePatch returns the nine-patch for the first region with the given
// name that carries splits. It returns ErrNotANinePatch when regions of that
// name exist but none has splits, and ErrNotFound when none exists.
func (a *Atlas) FindNinePatch(name string) (*NinePatch, error) {
	if a.disposed {
		return nil, ErrDisposed
	}
	if np, ok := a.patches.Get(name); ok {
		return np, nil
	}
	found := false
	for _, r := range a.regions {
		if r.Name != name {
			continue
		}
		found = true
		if !r.IsNinePatch() {
			continue
		}
		np, err := NinePatchFromRegion(r)
		if err != nil {
			return nil, err
		}
		a.patches.Add(name, np)
		return np, nil
	}
	if found {
		return nil, fmt.Errorf("%w: %q", ErrNotANinePatch, name)
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Disposed reports whether Dispose has been called.
func (a *Atlas) Disposed() bool { return a.disposed }

// Dispose releases every page's pixels and uploaded texture. Calling it
// again does nothing; any other method returns ErrDisposed afterwards.
func (a *Atlas) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	for i, tex := range a.textures {
		if tex != nil {
			tex.Deallocate()
			a.textures[i] = nil
		}
	}
	for _, p := range a.pages {
		p.Pixels = nil
	}
	a.patches.Purge()
	a.textures = nil
	a.pages = nil
	a.regions = nil
}
