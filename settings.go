package blueberry

import (
	"io"

	"github.com/BurntSushi/toml"
)

// PackMethod selects the free-space heuristic used by Pack.
type PackMethod string

const (
	// MethodGuillotine splits the chosen free rectangle into a right and a
	// bottom remainder and never merges free space.
	MethodGuillotine PackMethod = "guillotine"
	// MethodMaxRects keeps every maximal free rectangle and places by best
	// short side fit. Tighter, slower.
	MethodMaxRects PackMethod = "maxrects"
)

// OutputFormat selects the atlas file written by a Pipeline.
type OutputFormat string

const (
	FormatBinary OutputFormat = "binary" // .bba
	FormatText   OutputFormat = "text"   // .atlas + PNG pages
)

// Settings configures scanning, packing and output. The zero value is not
// usable; start from DefaultSettings.
type Settings struct {
	MaxWidth       int          `toml:"maxWidth"`
	MaxHeight      int          `toml:"maxHeight"`
	MinWidth       int          `toml:"minWidth"`
	MinHeight      int          `toml:"minHeight"`
	PowerOfTwo     bool         `toml:"pot"`
	MultipleOfFour bool         `toml:"multipleOfFour"`
	AllowRotation  bool         `toml:"allowRotation"`
	Padding        int          `toml:"padding"`
	Method         PackMethod   `toml:"method"`
	OutputFormat   OutputFormat `toml:"outputFormat"`

	StripWhitespaceX  bool `toml:"stripWhitespaceX"`
	StripWhitespaceY  bool `toml:"stripWhitespaceY"`
	AlphaThreshold    int  `toml:"alphaThreshold"`
	IgnoreBlankImages bool `toml:"ignoreBlankImages"`
	UseIndexes        bool `toml:"useIndexes"`
	Recursive         bool `toml:"recursive"`
}

// DefaultSettings returns the default configuration.
func DefaultSettings() Settings {
	return Settings{
		MaxWidth:          1024,
		MaxHeight:         1024,
		Method:            MethodGuillotine,
		OutputFormat:      FormatBinary,
		IgnoreBlankImages: true,
		UseIndexes:        true,
	}
}

// SettingsError represents a settings validation error.
type SettingsError struct {
	Field  string
	Reason string
}

func (e *SettingsError) Error() string {
	return "blueberry: invalid settings." + e.Field + ": " + e.Reason
}

// Validate checks if the settings are usable.
func (s *Settings) Validate() error {
	if s.MaxWidth < 1 {
		return &SettingsError{Field: "MaxWidth", Reason: "must be at least 1"}
	}
	if s.MaxHeight < 1 {
		return &SettingsError{Field: "MaxHeight", Reason: "must be at least 1"}
	}
	if s.MultipleOfFour && !s.PowerOfTwo && (s.MaxWidth < 4 || s.MaxHeight < 4) {
		return &SettingsError{Field: "MultipleOfFour", Reason: "needs MaxWidth and MaxHeight of at least 4"}
	}
	if s.MinWidth < 0 || s.MinWidth > s.MaxWidth {
		return &SettingsError{Field: "MinWidth", Reason: "must be between 0 and MaxWidth"}
	}
	if s.MinHeight < 0 || s.MinHeight > s.MaxHeight {
		return &SettingsError{Field: "MinHeight", Reason: "must be between 0 and MaxHeight"}
	}
	if s.Padding < 0 {
		return &SettingsError{Field: "Padding", Reason: "must be non-negative"}
	}
	if s.AlphaThreshold < 0 || s.AlphaThreshold > 255 {
		return &SettingsError{Field: "AlphaThreshold", Reason: "must be between 0 and 255"}
	}
	switch s.Method {
	case MethodGuillotine, MethodMaxRects, "":
	default:
		return &SettingsError{Field: "Method", Reason: "unknown method " + string(s.Method)}
	}
	switch s.OutputFormat {
	case FormatBinary, FormatText, "":
	default:
		return &SettingsError{Field: "OutputFormat", Reason: "unknown format " + string(s.OutputFormat)}
	}
	return nil
}

// effectiveMax returns the page limits used while packing. With PowerOfTwo
// the limits drop to the largest power of two that fits, with MultipleOfFour
// to the largest multiple of four.
func (s *Settings) effectiveMax() (w, h int) {
	w, h = s.MaxWidth, s.MaxHeight
	switch {
	case s.PowerOfTwo:
		w, h = prevPowerOfTwo(w), prevPowerOfTwo(h)
	case s.MultipleOfFour && w >= 4 && h >= 4:
		w, h = w-w%4, h-h%4
	}
	return w, h
}

// LoadSettings reads a TOML settings file. Keys missing from the file keep
// their DefaultSettings values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, &IOError{Op: "read settings", Path: path, Err: err}
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// SaveSettings writes s as TOML.
func SaveSettings(path string, s Settings) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		if err := toml.NewEncoder(w).Encode(&s); err != nil {
			return &IOError{Op: "encode settings", Path: path, Err: err}
		}
		return nil
	})
}
