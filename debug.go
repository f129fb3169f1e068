package blueberry

import (
	"time"

	"github.com/dustin/go-humanize"
)

// runStats holds per-run timing and size metrics for a Pipeline.
type runStats struct {
	scanTime  time.Duration
	packTime  time.Duration
	writeTime time.Duration
	images    int
	pages     int
	bytes     int64
}

// debugLog prints timing and size stats to the pipeline logger.
func (p *Pipeline) debugLog(stats runStats) {
	if p.Logger == nil {
		return
	}
	total := stats.scanTime + stats.packTime + stats.writeTime
	p.Logger.Printf("scan: %v | pack: %v | write: %v | total: %v",
		stats.scanTime, stats.packTime, stats.writeTime, total)
	p.Logger.Printf("images: %d | pages: %d | output: %s",
		stats.images, stats.pages, humanize.Bytes(uint64(stats.bytes)))
}

// debugPages logs each page's size and coverage.
func (p *Pipeline) debugPages(pages []*Page) {
	if p.Logger == nil {
		return
	}
	for _, pg := range pages {
		p.Logger.Printf("page %d: %dx%d | regions: %d | occupancy: %.1f%% | pixels: %s",
			pg.Index, pg.Width, pg.Height, len(pg.Regions), 100*pg.Occupancy(),
			humanize.Bytes(uint64(4*pg.Width*pg.Height)))
	}
}

// debugOccupancyWarn is the page coverage below which a warning is logged.
const debugOccupancyWarn = 0.25

func (p *Pipeline) debugCheckOccupancy(pages []*Page) {
	if p.Logger == nil {
		return
	}
	for _, pg := range pages {
		if occ := pg.Occupancy(); len(pg.Regions) > 1 && occ < debugOccupancyWarn {
			p.Logger.Printf("warning: page %d is only %.1f%% covered (threshold %.0f%%)",
				pg.Index, 100*occ, 100*debugOccupancyWarn)
		}
	}
}
