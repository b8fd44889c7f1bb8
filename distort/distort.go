// Package distort ages glyph geometry with deterministic, seed-driven
// filters. Filters apply either to 2D contours before extrusion or to
// the extruded mesh, never both in one pipeline pass.
package distort

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/unixpickle/dialmesh/poly"
	"github.com/unixpickle/dialmesh/solid"
)

// Kind selects a distortion filter.
type Kind int

const (
	// EdgeIrregularity jitters vertices along their outward normals,
	// like unevenly worn edges.
	EdgeIrregularity Kind = iota

	// SurfaceRoughness displaces vertices with a coherent noise field,
	// a weathered texture rather than grain.
	SurfaceRoughness

	// PerspectiveStretch scales vertices radially from the glyph
	// center, growing with distance, like a dial photographed at an
	// angle.
	PerspectiveStretch

	// Erosion shrinks the glyph toward its center, as if material wore
	// off all sides evenly.
	Erosion
)

var kindNames = map[Kind]string{
	EdgeIrregularity:   "edge_irregularity",
	SurfaceRoughness:   "surface_roughness",
	PerspectiveStretch: "perspective_stretch",
	Erosion:            "erosion",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidParameter, int(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	want := strings.ToLower(string(text))
	for kind, name := range kindNames {
		if name == want {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: unknown kind %q", ErrInvalidParameter, text)
}

// ErrInvalidParameter rejects specs outside their legal domain.
var ErrInvalidParameter = errors.New("distort: invalid parameter")

// ErrContainmentViolated reports a distorted contour that broke its own
// topology: a ring crossing itself, holes escaping the exterior or
// running into each other. The filter reports instead of clamping, so
// callers can drop the glyph rather than print garbage.
var ErrContainmentViolated = errors.New("distort: distorted contour violates containment")

// A Spec is one distortion filter with its strength and seed. Equal
// specs on equal geometry always produce identical output.
type Spec struct {
	Kind      Kind    `toml:"kind"`
	Intensity float64 `toml:"intensity"` // 0 disables the filter, 1 is the strongest legal value
	Seed      int64   `toml:"seed"`
}

// Validate checks that the intensity is a number within [0, 1] and the
// kind is known.
func (s Spec) Validate() error {
	if math.IsNaN(s.Intensity) || s.Intensity < 0 || s.Intensity > 1 {
		return fmt.Errorf("%w: intensity %v outside [0, 1]", ErrInvalidParameter, s.Intensity)
	}
	if _, ok := kindNames[s.Kind]; !ok {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidParameter, int(s.Kind))
	}
	return nil
}

// ApplyPolygon returns a distorted copy of a polygon. Intensity zero
// returns the input unchanged. The result's topology is verified: any
// self-intersection or containment break comes back as
// ErrContainmentViolated and no polygon.
func ApplyPolygon(p *poly.Polygon, s Spec) (*poly.Polygon, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Intensity == 0 {
		return p, nil
	}
	var out *poly.Polygon
	switch s.Kind {
	case EdgeIrregularity:
		out = irregularEdges(p, s)
	case SurfaceRoughness:
		out = roughenContours(p, s)
	case PerspectiveStretch:
		out = stretchContours(p, s)
	case Erosion:
		out = erodeContours(p, s)
	}
	if err := checkTopology(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyMesh distorts mesh vertices in place. Intensity zero leaves the
// mesh untouched. Unlike the contour path there is no topology check
// here; mesh distortion feeds the validation pass, which owns that
// judgment.
func ApplyMesh(m *solid.Mesh, s Spec) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Intensity == 0 {
		return nil
	}
	switch s.Kind {
	case EdgeIrregularity:
		irregularSurface(m, s)
	case SurfaceRoughness:
		roughenSurface(m, s)
	case PerspectiveStretch:
		stretchSurface(m, s)
	case Erosion:
		erodeSurface(m, s)
	}
	return nil
}

func checkTopology(p *poly.Polygon) error {
	if !p.Exterior.IsSimple() {
		return fmt.Errorf("%w: exterior self-intersects", ErrContainmentViolated)
	}
	for i, h := range p.Holes {
		if !h.IsSimple() {
			return fmt.Errorf("%w: hole %d self-intersects", ErrContainmentViolated, i)
		}
		if !p.Exterior.ContainsRing(h) {
			return fmt.Errorf("%w: hole %d escapes the exterior", ErrContainmentViolated, i)
		}
		for j, other := range p.Holes[i+1:] {
			if h.IntersectsRing(other) {
				return fmt.Errorf("%w: holes %d and %d intersect",
					ErrContainmentViolated, i, i+1+j)
			}
		}
	}
	return nil
}
