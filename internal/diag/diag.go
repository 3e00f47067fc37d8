// Package diag inspects meshes and produces the diagnostic summaries
// embedded in conversion results.
package diag

import (
	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/kernel"
)

// MeshInfo is a diagnostic snapshot of a single mesh. Volume is nil for
// open shells, where no enclosed volume exists. The manifold and
// self-intersection flags are nil when the expensive checks were skipped.
type MeshInfo struct {
	Points               int      `json:"points"`
	Facets               int      `json:"facets"`
	Edges                int      `json:"edges"`
	IsSolid              bool     `json:"is_solid"`
	Volume               *float64 `json:"volume"`
	Area                 float64  `json:"area"`
	HasNonManifolds      *bool    `json:"has_non_manifolds,omitempty"`
	HasSelfIntersections *bool    `json:"has_self_intersections,omitempty"`
}

// Analyzer computes mesh diagnostics
type Analyzer struct {
	log *zap.Logger
}

// NewAnalyzer creates an analyzer logging through the given sink
func NewAnalyzer(log *zap.Logger) *Analyzer {
	return &Analyzer{log: log}
}

// Analyze snapshots the mesh. With skipExpensive set, the quadratic
// manifold and self-intersection checks are left out and their fields
// stay nil.
func (a *Analyzer) Analyze(m kernel.Mesh, skipExpensive bool) MeshInfo {
	info := MeshInfo{
		Points:  m.CountPoints(),
		Facets:  m.CountFacets(),
		Edges:   m.CountEdges(),
		IsSolid: m.IsSolid(),
		Area:    m.Area(),
	}
	if info.IsSolid {
		volume := m.Volume()
		info.Volume = &volume
	}
	if skipExpensive {
		a.log.Debug("skipping expensive mesh checks", zap.Int("facets", info.Facets))
		return info
	}
	a.log.Debug("checking non-manifold edges")
	nonManifold := m.HasNonManifolds()
	info.HasNonManifolds = &nonManifold
	a.log.Debug("checking self intersections")
	selfIntersecting := m.HasSelfIntersections()
	info.HasSelfIntersections = &selfIntersecting
	return info
}
