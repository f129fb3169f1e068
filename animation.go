package blueberry

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Drawable simultaneously.
// Create one via TweenSize or TweenTint and call Update(dt) each frame. If
// the drawable's atlas is disposed, the group stops immediately.
//
// There is no global animation manager; callers run Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *drawableBase
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.atlas != nil && g.target.atlas.Disposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenSize animates the drawable's preferred width and height. Targets
// below the drawable's minimum size are raised to it.
func TweenSize(d Drawable, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	b := d.base()
	toW, toH = max(toW, d.MinWidth()), max(toH, d.MinHeight())
	g := &TweenGroup{count: 2, target: b}
	g.tweens[0] = gween.New(float32(b.Width), float32(toW), duration, fn)
	g.tweens[1] = gween.New(float32(b.Height), float32(toH), duration, fn)
	g.fields[0] = &b.Width
	g.fields[1] = &b.Height
	return g
}

// TweenTint animates all four components of the drawable's tint.
func TweenTint(d Drawable, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	b := d.base()
	from := b.Tint
	g := &TweenGroup{count: 4, target: b}
	g.tweens[0] = gween.New(float32(from.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(from.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(from.B), float32(to.B), duration, fn)
	g.tweens[3] = gween.New(float32(from.A), float32(to.A), duration, fn)
	g.fields[0] = &b.Tint.R
	g.fields[1] = &b.Tint.G
	g.fields[2] = &b.Tint.B
	g.fields[3] = &b.Tint.A
	return g
}
