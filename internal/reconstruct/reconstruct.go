// Package reconstruct turns repaired meshes into kernel shapes and
// assembles them into the final exportable entity.
package reconstruct

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/heuristics"
	"github.com/philipparndt/mesh2step/internal/kernel"
)

// Builder reconstructs B-rep shapes from meshes
type Builder struct {
	kernel kernel.Kernel
	limits heuristics.Limits
	log    *zap.Logger
}

// NewBuilder creates a builder on top of the given kernel
func NewBuilder(k kernel.Kernel, limits heuristics.Limits, log *zap.Logger) *Builder {
	return &Builder{kernel: k, limits: limits, log: log}
}

// Assembly is the result of reconstructing a whole scene
type Assembly struct {
	// Final is the single entity to export
	Final kernel.Shape
	// IsSolid is true only when every mesh became a closed solid
	IsSolid bool
	// MergedPlanarFaces reports whether coplanar face merging succeeded
	// on the final entity.
	MergedPlanarFaces bool
	// MergedPerSolid is set for multi-mesh scenes, where merging already
	// happened per solid and no compound level merge runs.
	MergedPerSolid bool
	// SkippedMergeReason explains why merging did not run at all
	SkippedMergeReason string
}

// Build converts each mesh to a shape, attempts solid classification per
// mesh with a shell fallback, merges planar faces where the size limits
// allow, and assembles the final entity.
func (b *Builder) Build(meshes []kernel.Mesh, tolerance float64) (*Assembly, error) {
	if len(meshes) == 0 {
		return nil, errors.New("no meshes to reconstruct")
	}

	shapeTolerance := b.limits.ReconstructionTolerance(tolerance)
	mergeTolerance := b.limits.MergeTolerance(tolerance)
	b.log.Debug("reconstruction tolerances",
		zap.Float64("shape", shapeTolerance),
		zap.Float64("merge", mergeTolerance))

	var solids, shells []kernel.Shape
	totalFacets := 0
	for i, m := range meshes {
		totalFacets += m.CountFacets()
		b.log.Debug("converting mesh to shape",
			zap.Int("mesh", i+1),
			zap.Int("facets", m.CountFacets()))

		shape, err := m.ToShape(shapeTolerance)
		if err != nil {
			return nil, fmt.Errorf("error converting mesh %d to shape: %w", i+1, err)
		}

		solid, err := b.kernel.MakeSolid(shape)
		if err != nil {
			b.log.Debug("mesh is not a closed solid, keeping shell",
				zap.Int("mesh", i+1), zap.Error(err))
			shells = append(shells, shape)
			continue
		}
		if b.limits.MergeMesh(m.CountFacets()) {
			solid, _ = b.mergePlanarFaces(solid, mergeTolerance)
		}
		solids = append(solids, solid)
	}

	assembly := &Assembly{IsSolid: len(shells) == 0}
	all := append(append([]kernel.Shape(nil), solids...), shells...)
	if len(all) == 1 {
		assembly.Final = all[0]
	} else {
		b.log.Debug("building compound", zap.Int("shapes", len(all)))
		compound, err := b.kernel.MakeCompound(all)
		if err != nil {
			return nil, fmt.Errorf("error building compound: %w", err)
		}
		assembly.Final = compound
	}

	switch {
	case b.limits.MergeCompound(len(meshes), totalFacets):
		final, merged := b.mergePlanarFaces(assembly.Final, mergeTolerance)
		assembly.Final = final
		assembly.MergedPlanarFaces = merged
	case len(meshes) > 1:
		assembly.MergedPlanarFaces = true
		assembly.MergedPerSolid = true
	default:
		assembly.SkippedMergeReason = fmt.Sprintf("Mesh too large (%d facets)", totalFacets)
	}
	return assembly, nil
}

// mergePlanarFaces merges coplanar faces with decreasing aggressiveness:
// refine then merge, merge directly, merge at the default tolerance. The
// original shape is returned when every tier fails.
func (b *Builder) mergePlanarFaces(shape kernel.Shape, tolerance float64) (kernel.Shape, bool) {
	if refined, err := shape.Refine(); err == nil {
		if merged, err := refined.RemoveSplitter(tolerance); err == nil {
			return merged, true
		}
	}
	if merged, err := shape.RemoveSplitter(tolerance); err == nil {
		b.log.Debug("merged planar faces without refinement")
		return merged, true
	}
	if merged, err := shape.RemoveSplitterDefault(); err == nil {
		b.log.Debug("merged planar faces at default tolerance")
		return merged, true
	}
	b.log.Debug("planar face merge failed, keeping original shape")
	return shape, false
}
