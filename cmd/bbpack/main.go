// Command bbpack packs a directory of images into a texture atlas.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/phanxgames/blueberry"
)

func main() {
	opt := parseCLIOpts()

	settings := blueberry.DefaultSettings()
	if opt.configPath != "" {
		s, err := blueberry.LoadSettings(opt.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Couldn't load settings: %v\n", err)
			os.Exit(1)
		}
		settings = s
	}
	applyFlags(opt, &settings)
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if opt.writeConfig != "" {
		if err := blueberry.SaveSettings(opt.writeConfig, settings); err != nil {
			fmt.Fprintf(os.Stderr, "Couldn't write settings: %v\n", err)
			os.Exit(1)
		}
		return
	}

	p := blueberry.NewPipeline(settings)
	if opt.doLog {
		p.Logger = blueberry.NewLogger()
	}

	if opt.inspect != "" {
		if err := inspect(p, opt.inspect); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := p.Run(ctx, opt.inputDir, opt.outputDir, opt.name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't pack %s: %v\n", opt.inputDir, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s: %d pages, %s\n", res.Path, len(res.Pages), humanize.Bytes(uint64(res.Bytes)))
}

func inspect(p *blueberry.Pipeline, path string) error {
	a, err := p.Load(path)
	if err != nil {
		return err
	}
	defer a.Dispose()

	pages, err := a.Pages()
	if err != nil {
		return err
	}
	for _, pg := range pages {
		fmt.Printf("Page %d: %dx%d, %d regions, %.1f%% used\n",
			pg.Index, pg.Width, pg.Height, len(pg.Regions), 100*pg.Occupancy())
		for _, r := range pg.Regions {
			extra := ""
			if r.Rotated {
				extra += " rotated"
			}
			if r.IsNinePatch() {
				extra += " ninepatch"
			}
			if r.Index >= 0 {
				extra += fmt.Sprintf(" index=%d", r.Index)
			}
			fmt.Printf("\t%s %v%s\n", r.Name, r.Bounds, extra)
		}
	}
	return nil
}
