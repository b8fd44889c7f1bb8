package dialmesh

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/unixpickle/dialmesh/distort"
	"github.com/unixpickle/dialmesh/layout"
	"github.com/unixpickle/dialmesh/poly"
	"github.com/unixpickle/dialmesh/solid"
	"github.com/unixpickle/model3d/model2d"
)

// A ContourSource produces the outline rings of a label at a nominal size.
// Rings may use either winding convention and need not be classified into
// exteriors and holes; the pipeline normalizes them.
type ContourSource interface {
	Contours(label string, size float64) ([]poly.Ring, error)
}

// A SlotResult is the outcome of one slot's pipeline run.
type SlotResult struct {
	Label string
	Hour  int // 1 through 12
	Slot  int // Hour mod 12

	// Placement is the world transform that carried the local polygons
	// onto the dial.
	Placement layout.Placement

	// Polygons are the placed polygons in dial coordinates, one per
	// connected glyph part. The preview draws these.
	Polygons []*poly.Polygon

	// Mesh is the finished solid. It is nil whenever Err is set.
	Mesh *solid.Mesh

	// Diagnostics reports the first validation of the built mesh;
	// Repaired tells whether a repair pass was needed to reach Mesh.
	Diagnostics solid.Diagnostics
	Repaired    bool

	// Unrepaired holds the defective mesh when repair failed, so a
	// caller with an accept-with-warning policy can still use it.
	Unrepaired *solid.Mesh

	Err error
}

// Generate runs the slot pipeline for every numeral in the configuration.
// The returned error covers global failures only: a bad configuration, a
// dial with no room, or a canceled context. Per-slot failures land in
// SlotResult.Err so one slot never aborts its siblings. Results arrive in
// label order regardless of how the workers interleave.
func Generate(ctx context.Context, cfg Config, src ContourSource) ([]SlotResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, errors.New("dialmesh: nil contour source")
	}

	labels := layout.Labels(cfg.Numbering, cfg.Slots)
	results := make([]SlotResult, len(labels))

	workers := len(labels)
	if n := runtime.GOMAXPROCS(0); n < workers {
		workers = n
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Cancellation is cooperative at slot granularity:
				// a slot that starts always finishes, so no mesh is
				// left half built.
				if ctx.Err() != nil {
					continue
				}
				results[i] = runSlot(&cfg, src, labels[i])
			}
		}()
	}
	for i := range labels {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// runSlot is the per-glyph pipeline: contours, normalize, 2D distortion,
// placement, extrusion, 3D distortion, validation and repair. Every step
// is pure over its explicit inputs, so a failed slot needs no rollback.
func runSlot(cfg *Config, src ContourSource, label layout.Label) SlotResult {
	slot := label.Hour % 12
	res := SlotResult{Label: label.Text, Hour: label.Hour, Slot: slot}

	fail := func(err error) SlotResult {
		res.Err = fmt.Errorf("slot %d (%s): %w", slot, label.Text, err)
		return res
	}

	rings, err := src.Contours(label.Text, contourSize(cfg))
	if err != nil {
		return fail(err)
	}
	if len(rings) == 0 {
		return fail(errors.New("no contours"))
	}

	polys, err := poly.Normalize(rings)
	if err != nil {
		return fail(err)
	}
	if len(polys) == 0 {
		return fail(errors.New("no usable contours"))
	}

	if cfg.Distortion.Enabled && cfg.Distortion.Stage == StageContours {
		for i, p := range polys {
			for _, spec := range cfg.Distortion.Specs {
				if p, err = distort.ApplyPolygon(p, slotSpec(spec, slot)); err != nil {
					return fail(err)
				}
			}
			polys[i] = p
		}
	}

	// Sources center labels on the origin, but distortion and hand-fed
	// sources can drift the bounds. Recenter so placement scales about
	// the true middle.
	lo, hi := polyBounds(polys)
	if mid := lo.Mid(hi); mid.X != 0 || mid.Y != 0 {
		for i, p := range polys {
			polys[i] = p.Map(func(c model2d.Coord) model2d.Coord {
				return c.Sub(mid)
			})
		}
	}

	params := cfg.layoutParams(slot)
	pl, err := layout.Place(params, hi.Sub(lo))
	if err != nil {
		return fail(err)
	}
	if cfg.PreciseFit {
		var contours [][]model2d.Coord
		for _, p := range polys {
			for _, r := range p.Rings() {
				contours = append(contours, r)
			}
		}
		pl = pl.WithScale(layout.FitScale(contours, pl, layout.SectorFor(params), pl.Scale))
	}
	res.Placement = pl

	res.Polygons = make([]*poly.Polygon, len(polys))
	for i, p := range polys {
		res.Polygons[i] = p.Map(pl.Apply)
	}

	mesh := &solid.Mesh{}
	for _, p := range res.Polygons {
		part, err := solid.Build(p, cfg.ExtrusionDepth)
		if err != nil {
			return fail(err)
		}
		mesh.Append(part)
	}

	if cfg.Distortion.Enabled && cfg.Distortion.Stage == StageMesh {
		for _, spec := range cfg.Distortion.Specs {
			if err := distort.ApplyMesh(mesh, slotSpec(spec, slot)); err != nil {
				return fail(err)
			}
		}
	}

	res.Diagnostics = solid.Validate(mesh, solid.DefaultEpsilon)
	if res.Diagnostics.OK() {
		res.Mesh = mesh
		return res
	}
	repaired, err := solid.Repair(mesh, solid.DefaultEpsilon)
	if err != nil {
		res.Unrepaired = mesh
		return fail(err)
	}
	res.Mesh = repaired
	res.Repaired = true
	return res
}

// contourSize is the nominal outline height requested from the source.
// Placement rescales from measured bounds, so this only sets flattening
// resolution relative to the band.
func contourSize(cfg *Config) float64 {
	return cfg.OuterRadius - cfg.InnerRadius - 2*cfg.Margin
}

// slotSpec derives a per-slot seed so equal labels in different slots do
// not distort identically while runs stay reproducible.
func slotSpec(s distort.Spec, slot int) distort.Spec {
	s.Seed += int64(slot) * 7919
	return s
}

func polyBounds(polys []*poly.Polygon) (lo, hi model2d.Coord) {
	lo, hi = polys[0].Bounds()
	for _, p := range polys[1:] {
		pLo, pHi := p.Bounds()
		lo.X = math.Min(lo.X, pLo.X)
		lo.Y = math.Min(lo.Y, pLo.Y)
		hi.X = math.Max(hi.X, pHi.X)
		hi.Y = math.Max(hi.Y, pHi.Y)
	}
	return lo, hi
}
