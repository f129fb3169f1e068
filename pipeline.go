package blueberry

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// NewLogger returns a stderr logger with the "[blueberry] " prefix used
// by Pipeline.
func NewLogger() *log.Logger {
	return log.New(os.Stderr, "[blueberry] ", 0)
}

// Pipeline runs scan, pack and write with one set of settings. It replaces
// process-wide configuration: everything a run needs is on the value.
type Pipeline struct {
	Settings Settings
	Registry *Registry

	// Logger receives progress lines. Nil means silent.
	Logger *log.Logger

	mu    sync.Mutex
	paths map[string]*sync.Mutex
}

// NewPipeline returns a pipeline over s with the default registry.
func NewPipeline(s Settings) *Pipeline {
	return &Pipeline{Settings: s, Registry: DefaultRegistry()}
}

// Result describes a completed run.
type Result struct {
	Path  string
	Pages []*Page
	Bytes int64
}

// OutputPath returns the atlas file path Run writes for name in outputDir.
func (p *Pipeline) OutputPath(outputDir, name string) string {
	ext := ".bba"
	if p.Settings.OutputFormat == FormatText {
		ext = ".atlas"
	}
	return filepath.Join(outputDir, sanitizeName(name)+ext)
}

// Run scans inputDir, packs every image found and writes the atlas to
// outputDir in the configured format.
func (p *Pipeline) Run(ctx context.Context, inputDir, outputDir, name string) (*Result, error) {
	if err := p.Settings.Validate(); err != nil {
		return nil, err
	}
	var stats runStats

	start := time.Now()
	images, err := ScanDir(ctx, inputDir, p.Settings.ScanOptions())
	if err != nil {
		return nil, err
	}
	stats.scanTime = time.Since(start)
	stats.images = len(images)
	p.logf("scanned %d images in %s", len(images), inputDir)

	start = time.Now()
	pages, err := Pack(images, p.Settings)
	if err != nil {
		return nil, err
	}
	stats.packTime = time.Since(start)
	stats.pages = len(pages)
	p.debugPages(pages)
	p.debugCheckOccupancy(pages)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := p.OutputPath(outputDir, name)
	start = time.Now()
	if err := p.Write(path, pages); err != nil {
		return nil, err
	}
	stats.writeTime = time.Since(start)
	if fi, err := os.Stat(path); err == nil {
		stats.bytes = fi.Size()
	}
	p.debugLog(stats)
	return &Result{Path: path, Pages: pages, Bytes: stats.bytes}, nil
}

// Write stores pages at path in the configured output format. Writes to the
// same path are serialized.
func (p *Pipeline) Write(path string, pages []*Page) error {
	unlock := p.lockPath(path)
	defer unlock()

	switch p.Settings.OutputFormat {
	case FormatText:
		return WriteTextFile(path, pages)
	case FormatBinary, "":
		return WriteBinaryFile(path, pages)
	}
	return fmt.Errorf("%w: output format %q", ErrUnknownFormat, p.Settings.OutputFormat)
}

// Load decodes an atlas file through the pipeline registry.
func (p *Pipeline) Load(path string) (*Atlas, error) {
	reg := p.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	unlock := p.lockPath(path)
	defer unlock()
	return reg.Load(path)
}

func (p *Pipeline) lockPath(path string) func() {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}
	p.mu.Lock()
	if p.paths == nil {
		p.paths = make(map[string]*sync.Mutex)
	}
	m, ok := p.paths[key]
	if !ok {
		m = new(sync.Mutex)
		p.paths[key] = m
	}
	p.mu.Unlock()
	m.Lock()
	return m.Unlock
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}
