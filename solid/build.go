package solid

import (
	"errors"
	"fmt"
	"math"

	"github.com/unixpickle/dialmesh/poly"
	"github.com/unixpickle/model3d/model3d"
)

// ErrInvalidExtrusion rejects non-positive extrusion depths before any
// geometry work happens.
var ErrInvalidExtrusion = errors.New("solid: extrusion depth must be positive")

// Build extrudes a polygon into a closed prism. The bottom cap sits at
// z=0 and the top cap at z=depth, with caps triangulated from the
// polygon and one wall quad per ring edge. Caps and walls share vertex
// indices, so the surface cannot develop seams between them.
//
// The canonical ring winding (exterior counter-clockwise, holes
// clockwise) makes every wall face outward: exterior walls away from
// the glyph, hole walls into the hole cavity.
func Build(p *poly.Polygon, depth float64) (*Mesh, error) {
	if math.IsNaN(depth) || depth <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidExtrusion, depth)
	}
	tris, err := p.Triangulate()
	if err != nil {
		return nil, err
	}
	verts, spans := p.Flatten()
	n := len(verts)

	mesh := &Mesh{
		Vertices: make([]model3d.Coord3D, 0, 2*n),
		Faces:    make([][3]int, 0, 2*len(tris)+4*n),
	}
	for _, c := range verts {
		mesh.Vertices = append(mesh.Vertices, model3d.Coord3D{X: c.X, Y: c.Y})
	}
	for _, c := range verts {
		mesh.Vertices = append(mesh.Vertices, model3d.Coord3D{X: c.X, Y: c.Y, Z: depth})
	}

	// The triangulation winds counter-clockwise, which faces +Z. The
	// bottom cap must face -Z, so its winding reverses.
	for _, t := range tris {
		mesh.Faces = append(mesh.Faces, [3]int{t[2], t[1], t[0]})
	}
	for _, t := range tris {
		mesh.Faces = append(mesh.Faces, [3]int{t[0] + n, t[1] + n, t[2] + n})
	}

	for _, span := range spans {
		for i := span[0]; i < span[1]; i++ {
			j := i + 1
			if j == span[1] {
				j = span[0]
			}
			mesh.Faces = append(mesh.Faces,
				[3]int{i, j, j + n},
				[3]int{i, j + n, i + n})
		}
	}
	return mesh, nil
}
