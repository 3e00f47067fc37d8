// Package heuristics holds the size thresholds and tolerance factors
// that steer repair depth and face merging for large meshes.
package heuristics

// Limits drives the scale dependent decisions of a conversion. All
// values can be overridden from the configuration file.
type Limits struct {
	// ExpensiveCheckFacets is the total facet count above which the
	// quadratic mesh checks (non-manifold, self-intersection) are skipped.
	ExpensiveCheckFacets int `yaml:"expensive_check_facets"`

	// MergeFacets is the per-mesh facet count above which planar face
	// merging is skipped.
	MergeFacets int `yaml:"merge_facets"`

	// ReconstructionFactor scales the user tolerance into the sewing
	// tolerance used when turning a mesh into a shape.
	ReconstructionFactor float64 `yaml:"reconstruction_factor"`

	// MergeFactor scales the user tolerance into the tolerance used for
	// merging coplanar faces.
	MergeFactor float64 `yaml:"merge_factor"`
}

// DefaultLimits returns the stock thresholds
func DefaultLimits() Limits {
	return Limits{
		ExpensiveCheckFacets: 50000,
		MergeFacets:          100000,
		ReconstructionFactor: 5,
		MergeFactor:          10,
	}
}

// SkipExpensiveChecks reports whether the quadratic diagnostics should be
// skipped for the given total facet count.
func (l Limits) SkipExpensiveChecks(totalFacets int) bool {
	return totalFacets > l.ExpensiveCheckFacets
}

// MergeMesh reports whether planar face merging should run for a single
// mesh of the given size.
func (l Limits) MergeMesh(facets int) bool {
	return facets <= l.MergeFacets
}

// MergeCompound reports whether the final assembly should be merged. The
// merge only runs when the scene held exactly one mesh within the size
// limit, since merging across distinct bodies can weld them together.
func (l Limits) MergeCompound(meshCount, totalFacets int) bool {
	return meshCount == 1 && totalFacets <= l.MergeFacets
}

// ReconstructionTolerance derives the sewing tolerance from the user
// tolerance.
func (l Limits) ReconstructionTolerance(tolerance float64) float64 {
	return tolerance * l.ReconstructionFactor
}

// MergeTolerance derives the face merge tolerance from the user tolerance
func (l Limits) MergeTolerance(tolerance float64) float64 {
	return tolerance * l.MergeFactor
}
