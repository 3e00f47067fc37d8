package facet

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/geometry"
	"github.com/philipparndt/mesh2step/internal/kernel"
	"github.com/philipparndt/mesh2step/internal/mesh"
)

// defaultDegenerateEpsilon is the area threshold used when no explicit
// degeneracy tolerance is given.
const defaultDegenerateEpsilon = 1e-8

// boundedHoleEdges caps the bounded hole fill pass
const boundedHoleEdges = 1000

// Mesh adapts mesh.Mesh to the kernel.Mesh contract
type Mesh struct {
	m   *mesh.Mesh
	log *zap.Logger
}

var _ kernel.Mesh = (*Mesh)(nil)

func (fm *Mesh) CountPoints() int { return fm.m.CountPoints() }
func (fm *Mesh) CountFacets() int { return fm.m.CountFacets() }
func (fm *Mesh) CountEdges() int  { return fm.m.CountEdges() }
func (fm *Mesh) IsSolid() bool    { return fm.m.IsSolid() }
func (fm *Mesh) Volume() float64  { return fm.m.Volume() }
func (fm *Mesh) Area() float64    { return fm.m.Area() }

func (fm *Mesh) HasNonManifolds() bool      { return fm.m.HasNonManifolds() }
func (fm *Mesh) HasSelfIntersections() bool { return fm.m.HasSelfIntersections() }

// RemoveDuplicatedPoints welds coincident points and returns the number
// of points removed.
func (fm *Mesh) RemoveDuplicatedPoints() (int, error) {
	return fm.m.RemoveDuplicatedPoints(), nil
}

// RemoveDuplicatedFacets drops facets that reference the same point set
func (fm *Mesh) RemoveDuplicatedFacets() (int, error) {
	return fm.m.RemoveDuplicatedFacets(), nil
}

// FixSelfIntersections removes intersecting facet pairs
func (fm *Mesh) FixSelfIntersections() error {
	removed := fm.m.RemoveSelfIntersections()
	if removed > 0 {
		fm.log.Debug("removed self intersecting facets", zap.Int("facets", removed))
	}
	return nil
}

// FixDegenerations removes facets whose area is at or below epsilon
func (fm *Mesh) FixDegenerations(epsilon float64) error {
	fm.m.RemoveDegenerateFacets(epsilon)
	return nil
}

// FixDegenerationsDefault removes degenerate facets at the default tolerance
func (fm *Mesh) FixDegenerationsDefault() error {
	return fm.FixDegenerations(defaultDegenerateEpsilon)
}

// RemoveNonManifolds drops facets so that no edge is shared by more than
// two facets.
func (fm *Mesh) RemoveNonManifolds() error {
	fm.m.RemoveNonManifolds()
	return nil
}

// FillHoles closes boundary loops with up to maxEdges edges
func (fm *Mesh) FillHoles(maxEdges int) error {
	if maxEdges <= 0 {
		maxEdges = boundedHoleEdges
	}
	fm.m.FillHoles(maxEdges)
	return nil
}

// FillAllHoles closes every boundary loop regardless of size
func (fm *Mesh) FillAllHoles() error {
	fm.m.FillHoles(0)
	return nil
}

// HarmonizeNormals orients all facets consistently, pointing outward on
// closed components.
func (fm *Mesh) HarmonizeNormals() {
	fm.m.HarmonizeNormals()
}

// ToShape builds a faceted shape from the mesh. Points closer together
// than the tolerance are welded into a single shape vertex.
func (fm *Mesh) ToShape(tolerance float64) (kernel.Shape, error) {
	if fm.m.CountFacets() == 0 {
		return nil, fmt.Errorf("cannot build a shape from an empty mesh")
	}
	sh := &Shape{log: fm.log}
	index := make(map[[3]int64]int)
	remap := make([]int, fm.m.CountPoints())
	for i, p := range fm.m.Points {
		key := quantize(p, tolerance)
		if prev, ok := index[key]; ok {
			remap[i] = prev
			continue
		}
		index[key] = len(sh.points)
		remap[i] = len(sh.points)
		sh.points = append(sh.points, p)
	}
	for _, t := range fm.m.Triangles {
		a, b, c := remap[t[0]], remap[t[1]], remap[t[2]]
		if a == b || b == c || a == c {
			continue
		}
		normal := geometry.TriangleNormal(sh.points[a], sh.points[b], sh.points[c])
		if normal.Length() == 0 {
			continue
		}
		sh.faces = append(sh.faces, face{loop: []int{a, b, c}, normal: normal})
	}
	if len(sh.faces) == 0 {
		return nil, fmt.Errorf("shape construction discarded all facets at tolerance %g", tolerance)
	}
	return sh, nil
}

func quantize(p geometry.Vector3, tolerance float64) [3]int64 {
	if tolerance <= 0 {
		tolerance = 1e-12
	}
	return [3]int64{
		int64(math.Floor(p.X/tolerance + 0.5)),
		int64(math.Floor(p.Y/tolerance + 0.5)),
		int64(math.Floor(p.Z/tolerance + 0.5)),
	}
}
