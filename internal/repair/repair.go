// Package repair runs the ordered mesh repair pipeline. The step order
// is a contract: welding and deduplication run before the expensive
// topological fixes, hole filling runs after non-manifold removal, and
// normals are harmonized last.
package repair

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/kernel"
)

// boundedHoleEdges caps the first, bounded hole fill attempt
const boundedHoleEdges = 1000

// Repairer mutates meshes in place and reports what it changed
type Repairer struct {
	log *zap.Logger
}

// NewRepairer creates a repairer logging through the given sink
func NewRepairer(log *zap.Logger) *Repairer {
	return &Repairer{log: log}
}

// Run repairs the mesh in place and returns one log entry per repair
// that actually changed something. With skipExpensive set, the
// self-intersection fix and non-manifold removal are skipped entirely.
// Individual step failures never abort the run.
func (r *Repairer) Run(m kernel.Mesh, skipExpensive bool) []string {
	var repairs []string

	removed, err := m.RemoveDuplicatedPoints()
	if err != nil {
		r.log.Warn("duplicate point removal failed", zap.Error(err))
	} else if removed > 0 {
		repairs = append(repairs, fmt.Sprintf("Removed %d duplicate points", removed))
	}

	removed, err = m.RemoveDuplicatedFacets()
	if err != nil {
		r.log.Warn("duplicate facet removal failed", zap.Error(err))
	} else if removed > 0 {
		repairs = append(repairs, fmt.Sprintf("Removed %d duplicate facets", removed))
	}

	if skipExpensive {
		r.log.Debug("skipping self intersection repair on large mesh")
	} else if m.HasSelfIntersections() {
		r.log.Debug("fixing self intersections")
		if err := m.FixSelfIntersections(); err != nil {
			r.log.Warn("self intersection fix failed", zap.Error(err))
		} else if !m.HasSelfIntersections() {
			repairs = append(repairs, "Fixed self-intersections")
		}
	}

	r.log.Debug("fixing degenerated facets")
	if err := m.FixDegenerations(0); err != nil {
		if err := m.FixDegenerationsDefault(); err != nil {
			r.log.Warn("degeneration fix failed", zap.Error(err))
		} else {
			repairs = append(repairs, "Fixed degenerations")
		}
	} else {
		repairs = append(repairs, "Fixed degenerations")
	}

	if skipExpensive {
		r.log.Debug("skipping non-manifold removal on large mesh")
	} else if m.HasNonManifolds() {
		r.log.Debug("removing non-manifold edges")
		if err := m.RemoveNonManifolds(); err != nil {
			r.log.Warn("non-manifold removal failed", zap.Error(err))
		} else if !m.HasNonManifolds() {
			repairs = append(repairs, "Removed non-manifolds")
		}
	}

	r.log.Debug("filling holes")
	if err := m.FillHoles(boundedHoleEdges); err != nil {
		if err := m.FillAllHoles(); err != nil {
			r.log.Warn("hole filling failed", zap.Error(err))
		} else {
			repairs = append(repairs, "Filled holes")
		}
	} else {
		repairs = append(repairs, "Filled holes")
	}

	r.log.Debug("harmonizing normals")
	m.HarmonizeNormals()
	repairs = append(repairs, "Harmonized normals")

	r.log.Debug("mesh repair complete", zap.Int("operations", len(repairs)))
	return repairs
}
