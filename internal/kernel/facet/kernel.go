// Package facet is the built-in geometry kernel. Shapes are faceted:
// every face is a planar polygon, solids are closed oriented shells, and
// STEP export writes faceted boundary representations. All kernel noise
// goes to the logger handed in at construction, never to stdout.
package facet

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/kernel"
	"github.com/philipparndt/mesh2step/internal/mesh"
	"github.com/philipparndt/mesh2step/internal/stl"
)

// Kernel implements kernel.Kernel with faceted geometry
type Kernel struct {
	stl *stl.Reader
	log *zap.Logger
}

var _ kernel.Kernel = (*Kernel)(nil)

// New creates a facet kernel logging through the given sink
func New(log *zap.Logger) *Kernel {
	return &Kernel{
		stl: stl.NewReader(),
		log: log,
	}
}

// ReadMesh reads an STL file from disk
func (k *Kernel) ReadMesh(path string) (kernel.Mesh, error) {
	m, err := k.stl.Read(path)
	if err != nil {
		return nil, err
	}
	k.log.Debug("read mesh file", zap.String("path", path), zap.Int("facets", m.CountFacets()))
	return &Mesh{m: m, log: k.log}, nil
}

// AdoptMesh wraps raw mesh data
func (k *Kernel) AdoptMesh(m *mesh.Mesh) kernel.Mesh {
	return &Mesh{m: m, log: k.log}
}

// MakeSolid classifies a shape as a solid. The shape must be a closed,
// consistently oriented shell.
func (k *Kernel) MakeSolid(s kernel.Shape) (kernel.Shape, error) {
	sh, err := asShape(s)
	if err != nil {
		return nil, err
	}
	if !sh.closed() {
		return nil, kernel.ErrNotSolid
	}
	solid := sh.clone()
	solid.solid = true
	k.log.Debug("classified shape as solid", zap.Int("faces", len(solid.faces)))
	return solid, nil
}

// MakeCompound combines multiple shapes into one compound
func (k *Kernel) MakeCompound(shapes []kernel.Shape) (kernel.Shape, error) {
	if len(shapes) == 0 {
		return nil, fmt.Errorf("cannot build a compound from zero shapes")
	}
	compound := &Shape{log: k.log}
	for _, s := range shapes {
		sh, err := asShape(s)
		if err != nil {
			return nil, err
		}
		compound.children = append(compound.children, sh)
	}
	return compound, nil
}

func asShape(s kernel.Shape) (*Shape, error) {
	sh, ok := s.(*Shape)
	if !ok {
		return nil, fmt.Errorf("shape %T does not belong to the facet kernel", s)
	}
	return sh, nil
}
