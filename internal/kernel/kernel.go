// Package kernel declares the geometry-kernel collaborator boundary used
// by the conversion pipeline. The pipeline only depends on these
// interfaces; internal/kernel/facet provides the built-in implementation.
package kernel

import (
	"errors"

	"github.com/philipparndt/mesh2step/internal/mesh"
)

// ErrNotSolid is returned by MakeSolid when a shape is not a closed,
// consistently oriented boundary.
var ErrNotSolid = errors.New("shape is not a closed solid")

// Kernel is the geometry kernel the pipeline collaborates with
type Kernel interface {
	// ReadMesh reads a mesh file (STL) from disk
	ReadMesh(path string) (Mesh, error)
	// AdoptMesh wraps raw mesh data, for example from a 3MF document
	AdoptMesh(m *mesh.Mesh) Mesh
	// MakeSolid classifies a shape as a solid
	MakeSolid(s Shape) (Shape, error)
	// MakeCompound combines multiple shapes into one compound
	MakeCompound(shapes []Shape) (Shape, error)
	// ExportSTEP writes one or more shapes to a STEP file
	ExportSTEP(shapes []Shape, path string) error
}

// Mesh is a triangulated mesh handle with repair primitives. Repair
// methods mutate the mesh in place; count and flag queries reflect the
// current state.
type Mesh interface {
	CountPoints() int
	CountFacets() int
	CountEdges() int
	IsSolid() bool
	Volume() float64
	Area() float64
	HasNonManifolds() bool
	HasSelfIntersections() bool

	// RemoveDuplicatedPoints welds identical points, returning the
	// number removed.
	RemoveDuplicatedPoints() (int, error)
	// RemoveDuplicatedFacets removes repeated triangles, returning the
	// number removed.
	RemoveDuplicatedFacets() (int, error)
	// FixSelfIntersections attempts to resolve self-intersecting facets
	FixSelfIntersections() error
	// FixDegenerations removes degenerate facets at the given area
	// tolerance.
	FixDegenerations(epsilon float64) error
	// FixDegenerationsDefault removes degenerate facets at the kernel's
	// default tolerance.
	FixDegenerationsDefault() error
	// RemoveNonManifolds drops facets on edges shared more than twice
	RemoveNonManifolds() error
	// FillHoles closes boundary loops of at most maxEdges edges
	FillHoles(maxEdges int) error
	// FillAllHoles closes every boundary loop regardless of size
	FillAllHoles() error
	// HarmonizeNormals orients facet normals consistently
	HarmonizeNormals()

	// ToShape converts the mesh to a boundary shape at the given
	// tolerance.
	ToShape(tolerance float64) (Shape, error)
}

// Shape is a boundary-representation shape handle
type Shape interface {
	// Refine cleans up redundant geometry before merging
	Refine() (Shape, error)
	// RemoveSplitter merges adjacent coplanar faces at the given
	// tolerance.
	RemoveSplitter(tolerance float64) (Shape, error)
	// RemoveSplitterDefault merges adjacent coplanar faces at the
	// kernel's default tolerance.
	RemoveSplitterDefault() (Shape, error)
	// IsSolid reports whether the shape has been classified as a solid
	IsSolid() bool
	// FaceCount returns the number of faces in the shape
	FaceCount() int
}
