package dialmesh

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/unixpickle/dialmesh/distort"
	"github.com/unixpickle/dialmesh/layout"
	"github.com/unixpickle/dialmesh/solid"
)

// Stage selects where distortion applies in the slot pipeline. Exactly one
// stage runs per configuration, never both.
type Stage int

const (
	// StageContours distorts the flat polygons before placement.
	StageContours Stage = iota

	// StageMesh distorts vertex positions after extrusion.
	StageMesh
)

func (s Stage) String() string {
	switch s {
	case StageContours:
		return "contours"
	case StageMesh:
		return "mesh"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "contours", "2d":
		*s = StageContours
	case "mesh", "3d":
		*s = StageMesh
	default:
		return fmt.Errorf("unknown distortion stage %q", text)
	}
	return nil
}

// DistortionConfig selects the distortion filters for a run.
type DistortionConfig struct {
	Enabled bool           `toml:"enabled"`
	Stage   Stage          `toml:"stage"`
	Specs   []distort.Spec `toml:"specs"`
}

// Config collects every parameter of a dial generation run. Lengths are in
// millimeters.
type Config struct {
	InnerRadius    float64 `toml:"inner_radius"`
	OuterRadius    float64 `toml:"outer_radius"`
	Margin         float64 `toml:"margin"`
	LateralMargin  float64 `toml:"lateral_margin"`
	ExtrusionDepth float64 `toml:"extrusion_depth"`

	Numbering layout.Numbering `toml:"numbering"`
	Slots     layout.SlotSet   `toml:"slots"`
	Upright   bool             `toml:"upright"`

	// FitPadding is the fraction of the band a numeral may fill; zero
	// selects layout.DefaultFitPadding. PreciseFit additionally grows
	// each numeral into its trapezoidal sector by binary search.
	FitPadding float64 `toml:"fit_padding"`
	PreciseFit bool    `toml:"precise_fit"`

	// CurveSegments is the flattening resolution per font quadratic;
	// zero selects the glyph package default.
	CurveSegments int `toml:"curve_segments"`

	Distortion DistortionConfig `toml:"distortion"`
}

// DefaultConfig mirrors the defaults of the desktop tool this replaced.
func DefaultConfig() Config {
	return Config{
		InnerRadius:    35,
		OuterRadius:    50,
		Margin:         1,
		LateralMargin:  1,
		ExtrusionDepth: 2,
		Numbering:      layout.Decimal,
		Slots:          layout.AllHours,
		FitPadding:     layout.DefaultFitPadding,
		CurveSegments:  16,
	}
}

// LoadConfig reads a TOML parameter file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects impossible parameters before any geometry work begins.
// A configuration that fails here would fail for every slot, so Generate
// refuses it outright rather than emitting twelve identical slot errors.
func (c *Config) Validate() error {
	lengths := []struct {
		name  string
		value float64
	}{
		{"inner_radius", c.InnerRadius},
		{"outer_radius", c.OuterRadius},
		{"margin", c.Margin},
		{"lateral_margin", c.LateralMargin},
		{"extrusion_depth", c.ExtrusionDepth},
		{"fit_padding", c.FitPadding},
	}
	for _, l := range lengths {
		if math.IsNaN(l.value) || math.IsInf(l.value, 0) {
			return fmt.Errorf("dialmesh: %s is not a finite number", l.name)
		}
	}
	if c.InnerRadius <= 0 {
		return fmt.Errorf("dialmesh: inner radius %g must be positive", c.InnerRadius)
	}
	if c.OuterRadius <= c.InnerRadius {
		return fmt.Errorf("dialmesh: outer radius %g must exceed inner radius %g",
			c.OuterRadius, c.InnerRadius)
	}
	if c.Margin < 0 || c.LateralMargin < 0 {
		return fmt.Errorf("dialmesh: margins must not be negative")
	}
	if c.ExtrusionDepth <= 0 {
		return fmt.Errorf("dialmesh: extrusion depth %g: %w", c.ExtrusionDepth, solid.ErrInvalidExtrusion)
	}
	if c.FitPadding < 0 || c.FitPadding > 1 {
		return fmt.Errorf("dialmesh: fit padding %g outside [0, 1]", c.FitPadding)
	}
	if c.CurveSegments < 0 {
		return fmt.Errorf("dialmesh: curve segments %d must not be negative", c.CurveSegments)
	}
	if c.Distortion.Enabled {
		if c.Distortion.Stage != StageContours && c.Distortion.Stage != StageMesh {
			return fmt.Errorf("dialmesh: unknown distortion stage %d", int(c.Distortion.Stage))
		}
		for i, s := range c.Distortion.Specs {
			if err := s.Validate(); err != nil {
				return fmt.Errorf("dialmesh: distortion spec %d: %w", i, err)
			}
		}
	}
	// The band check does not depend on the slot, so slot 0 stands for
	// all of them.
	if _, _, err := layout.Bands(c.layoutParams(0)); err != nil {
		return err
	}
	return nil
}

func (c *Config) layoutParams(slot int) layout.Params {
	return layout.Params{
		Slot:          slot,
		SlotCount:     c.Slots.Count(),
		InnerRadius:   c.InnerRadius,
		OuterRadius:   c.OuterRadius,
		Margin:        c.Margin,
		LateralMargin: c.LateralMargin,
		FitPadding:    c.FitPadding,
		Upright:       c.Upright,
	}
}
