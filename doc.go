// Package blueberry packs images into texture atlases, stores them in a
// compact binary format or the libGDX text format, and looks regions and
// nine-patches up again at runtime, drawing them with [Ebitengine].
//
// # Packing
//
// [Pack] places [SourceImage] values onto as few pages as it can and
// composites their pixels. Nothing is ever dropped: an image that cannot fit
// an empty page fails the whole pack with a [*PackingError].
//
//	s := blueberry.DefaultSettings()
//	s.MaxWidth, s.MaxHeight = 512, 512
//	s.Padding = 1
//	pages, err := blueberry.Pack(images, s)
//
// [ScanDir] builds the inputs from a directory: it decodes PNG, JPEG, GIF,
// BMP, TIFF and WebP files, trims transparent borders, reads the marker
// border of ".9" nine-patch images and turns a trailing "_NN" into a frame
// index. [Pipeline] chains scan, pack and write, and is what the bbpack
// command runs.
//
// # Formats
//
// [WriteBinary] and [ReadBinary] handle the ".bba" format: little-endian
// records followed by DEFLATE-compressed RGBA pages. [WriteText] and
// [ReadText] handle ".atlas" files with PNG pages beside them.
// [LoadTexturePackerJSON] imports TexturePacker hash or array JSON. A
// [Registry] maps file extensions to decoders:
//
//	atlas, err := blueberry.DefaultRegistry().Load("ui.bba")
//
// # Lookup
//
// [Atlas.FindRegion], [Atlas.FindRegions] and [Atlas.FindNinePatch] fail
// with [ErrNotFound] or [ErrNotANinePatch] instead of returning empty values.
// Callers resolve once and keep the result.
//
//	panel, err := atlas.FindNinePatch("panel")
//	if errors.Is(err, blueberry.ErrNotANinePatch) { ... }
//
// # Drawing
//
// [Atlas.Texture] uploads a page on first use, [Atlas.DrawRegion] draws a
// region with its rotation and trim undone, and [NinePatch.Draw] stretches a
// patch through any [Canvas]; [EbitenCanvas] is the ebiten one.
// [RegionDrawable] and [NinePatchDrawable] wrap both for UI code;
// [TweenSize] and [TweenTint] animate them (via [gween]).
//
// Call [Atlas.Dispose] once when done; the atlas frees its pixels and
// textures and refuses further queries with [ErrDisposed].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package blueberry
