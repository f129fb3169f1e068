package main

import (
	"flag"

	"github.com/phanxgames/blueberry"
)

type CLIOpts struct {
	doLog       bool
	inputDir    string
	outputDir   string
	name        string
	configPath  string
	writeConfig string
	inspect     string

	format    string
	method    string
	maxWidth  int
	maxHeight int
	padding   int
	pot       bool
	rotate    bool
	strip     bool
	recursive bool
}

func parseCLIOpts() CLIOpts {
	var opt CLIOpts
	flag.BoolVar(&opt.doLog, "log", false, "Print progress and timing to stderr")
	flag.StringVar(&opt.inputDir, "in", ".", "Directory of source images")
	flag.StringVar(&opt.outputDir, "out", ".", "Directory the atlas is written to")
	flag.StringVar(&opt.name, "name", "atlas", "Atlas file base name")
	flag.StringVar(&opt.configPath, "config", "", "TOML settings file")
	flag.StringVar(&opt.writeConfig, "write-config", "", "Write the effective settings as TOML to this path and exit")
	flag.StringVar(&opt.inspect, "inspect", "", "Load an atlas file and list its pages and regions")
	flag.StringVar(&opt.format, "format", "", "Output format: binary or text")
	flag.StringVar(&opt.method, "method", "", "Packing method: guillotine or maxrects")
	flag.IntVar(&opt.maxWidth, "maxw", 0, "Maximum page width")
	flag.IntVar(&opt.maxHeight, "maxh", 0, "Maximum page height")
	flag.IntVar(&opt.padding, "padding", 0, "Pixels of padding around each image")
	flag.BoolVar(&opt.pot, "pot", false, "Use power-of-two page sizes")
	flag.BoolVar(&opt.rotate, "rotate", false, "Allow 90 degree rotation")
	flag.BoolVar(&opt.strip, "strip", false, "Trim transparent borders")
	flag.BoolVar(&opt.recursive, "r", false, "Scan sub-directories")
	flag.Parse()

	return opt
}

// applyFlags overrides s with the flags given on the command line only, so
// a config file keeps its values for everything else.
func applyFlags(opt CLIOpts, s *blueberry.Settings) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			s.OutputFormat = blueberry.OutputFormat(opt.format)
		case "method":
			s.Method = blueberry.PackMethod(opt.method)
		case "maxw":
			s.MaxWidth = opt.maxWidth
		case "maxh":
			s.MaxHeight = opt.maxHeight
		case "padding":
			s.Padding = opt.padding
		case "pot":
			s.PowerOfTwo = opt.pot
		case "rotate":
			s.AllowRotation = opt.rotate
		case "strip":
			s.StripWhitespaceX, s.StripWhitespaceY = opt.strip, opt.strip
		case "r":
			s.Recursive = opt.recursive
		}
	})
}
