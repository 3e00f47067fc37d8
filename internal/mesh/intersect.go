package mesh

import (
	"sort"

	"github.com/philipparndt/mesh2step/internal/geometry"
)

const intersectEpsilon = 1e-9

// HasSelfIntersections reports whether any two non-adjacent triangles
// properly intersect. This is the expensive check the pipeline gates by
// facet count.
func (m *Mesh) HasSelfIntersections() bool {
	found := false
	m.scanIntersections(func(i, j int) bool {
		found = true
		return false
	})
	return found
}

// RemoveSelfIntersections drops every facet involved in a proper
// intersection, leaving holes for the hole-filling step. It returns the
// number of facets removed.
func (m *Mesh) RemoveSelfIntersections() int {
	drop := make(map[int]bool)
	m.scanIntersections(func(i, j int) bool {
		drop[i] = true
		drop[j] = true
		return true
	})
	if len(drop) == 0 {
		return 0
	}
	kept := m.Triangles[:0]
	for i, t := range m.Triangles {
		if drop[i] {
			continue
		}
		kept = append(kept, t)
	}
	m.Triangles = kept
	return len(drop)
}

// scanIntersections visits intersecting triangle pairs until visit
// returns false. Candidate pairs come from a sweep over X intervals with
// a bounding-box overlap filter; triangles sharing a canonical vertex are
// treated as adjacent and skipped.
func (m *Mesh) scanIntersections(visit func(i, j int) bool) {
	tris := m.canonicalTriangles()
	n := len(tris)
	boxes := make([]geometry.BoundingBox, n)
	for i := range tris {
		b := geometry.NewBoundingBox()
		a, p, q := m.Vertices(i)
		b.Extend(a)
		b.Extend(p)
		b.Extend(q)
		boxes[i] = b
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return boxes[order[a]].MinX < boxes[order[b]].MinX
	})

	for a := 0; a < n; a++ {
		i := order[a]
		for b := a + 1; b < n; b++ {
			j := order[b]
			if boxes[j].MinX > boxes[i].MaxX+intersectEpsilon {
				break
			}
			if !boxes[i].Overlaps(&boxes[j], intersectEpsilon) {
				continue
			}
			if sharesVertex(tris[i], tris[j]) {
				continue
			}
			if m.trianglesIntersect(i, j) {
				if !visit(i, j) {
					return
				}
			}
		}
	}
}

func sharesVertex(a, b [3]int) bool {
	for _, u := range a {
		if u == b[0] || u == b[1] || u == b[2] {
			return true
		}
	}
	return false
}

// trianglesIntersect tests whether any edge of one triangle properly
// pierces the other. Coplanar overlap is deliberately not reported; the
// duplicate and degenerate facet steps deal with those configurations.
func (m *Mesh) trianglesIntersect(i, j int) bool {
	a0, a1, a2 := m.Vertices(i)
	b0, b1, b2 := m.Vertices(j)

	edges := [3][2]geometry.Vector3{{a0, a1}, {a1, a2}, {a2, a0}}
	for _, e := range edges {
		if segmentPiercesTriangle(e[0], e[1], b0, b1, b2) {
			return true
		}
	}
	edges = [3][2]geometry.Vector3{{b0, b1}, {b1, b2}, {b2, b0}}
	for _, e := range edges {
		if segmentPiercesTriangle(e[0], e[1], a0, a1, a2) {
			return true
		}
	}
	return false
}

// segmentPiercesTriangle is a Möller-Trumbore ray test restricted to the
// open segment interior and the open triangle interior.
func segmentPiercesTriangle(p, q, a, b, c geometry.Vector3) bool {
	dir := q.Sub(p)
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	h := dir.Cross(e2)
	det := e1.Dot(h)
	if det > -intersectEpsilon && det < intersectEpsilon {
		return false // parallel or coplanar
	}
	inv := 1 / det

	s := p.Sub(a)
	u := s.Dot(h) * inv
	if u <= intersectEpsilon || u >= 1-intersectEpsilon {
		return false
	}

	qv := s.Cross(e1)
	v := dir.Dot(qv) * inv
	if v <= intersectEpsilon || u+v >= 1-intersectEpsilon {
		return false
	}

	t := e2.Dot(qv) * inv
	return t > intersectEpsilon && t < 1-intersectEpsilon
}
