package mesh

import "github.com/philipparndt/mesh2step/internal/geometry"

// RemoveDuplicatedPoints welds points with identical coordinates and
// compacts the point list. It returns the number of points removed.
func (m *Mesh) RemoveDuplicatedPoints() int {
	before := len(m.Points)
	canon := m.canonicalIndex()

	remap := make([]int, len(m.Points))
	var points []geometry.Vector3
	for i := range m.Points {
		if canon[i] == i {
			remap[i] = len(points)
			points = append(points, m.Points[i])
		}
	}
	for i, t := range m.Triangles {
		m.Triangles[i] = [3]int{remap[canon[t[0]]], remap[canon[t[1]]], remap[canon[t[2]]]}
	}
	m.Points = points
	return before - len(m.Points)
}

// RemoveDuplicatedFacets removes triangles that reference the same three
// points as an earlier triangle, regardless of orientation. It returns the
// number of facets removed.
func (m *Mesh) RemoveDuplicatedFacets() int {
	before := len(m.Triangles)
	tris := m.canonicalTriangles()

	seen := make(map[[3]int]bool, len(tris))
	kept := m.Triangles[:0]
	for i, t := range tris {
		a, b, c := t[0], t[1], t[2]
		if a > b {
			a, b = b, a
		}
		if b > c {
			b, c = c, b
		}
		if a > b {
			a, b = b, a
		}
		key := [3]int{a, b, c}
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, m.Triangles[i])
	}
	m.Triangles = kept
	return before - len(m.Triangles)
}

// RemoveDegenerateFacets removes triangles with repeated corners or an
// area at or below epsilon. It returns the number of facets removed.
func (m *Mesh) RemoveDegenerateFacets(epsilon float64) int {
	before := len(m.Triangles)
	tris := m.canonicalTriangles()

	kept := m.Triangles[:0]
	for i, t := range tris {
		if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
			continue
		}
		a, b, c := m.Vertices(i)
		if geometry.TriangleArea(a, b, c) <= epsilon {
			continue
		}
		kept = append(kept, m.Triangles[i])
	}
	m.Triangles = kept
	return before - len(m.Triangles)
}

// RemoveNonManifolds drops the surplus triangles on edges shared by more
// than two facets, keeping the first two in triangle order. It returns the
// number of facets removed.
func (m *Mesh) RemoveNonManifolds() int {
	before := len(m.Triangles)
	tris := m.canonicalTriangles()

	claims := make(map[edge]int)
	kept := m.Triangles[:0]
	for i, t := range tris {
		drop := false
		edges := [3]edge{
			makeEdge(t[0], t[1]),
			makeEdge(t[1], t[2]),
			makeEdge(t[2], t[0]),
		}
		for _, e := range edges {
			if claims[e] >= 2 {
				drop = true
				break
			}
		}
		if drop {
			continue
		}
		for _, e := range edges {
			claims[e]++
		}
		kept = append(kept, m.Triangles[i])
	}
	m.Triangles = kept
	return before - len(m.Triangles)
}

// FillHoles triangulates boundary loops with a fan. Loops with more than
// maxEdges edges are left alone; maxEdges <= 0 fills every loop. It
// returns the number of holes filled.
func (m *Mesh) FillHoles(maxEdges int) int {
	filled := 0
	for _, loop := range m.boundaryLoops() {
		if maxEdges > 0 && len(loop) > maxEdges {
			continue
		}
		// Fan triangles reverse the boundary direction, so the shared
		// edges end up opposite to their existing triangles.
		for i := 1; i < len(loop)-1; i++ {
			m.Triangles = append(m.Triangles, [3]int{loop[0], loop[i+1], loop[i]})
		}
		filled++
	}
	return filled
}

// HarmonizeNormals orients all triangles consistently across shared
// manifold edges and flips closed components to point outward. It returns
// the number of triangles flipped.
func (m *Mesh) HarmonizeNormals() int {
	tris := m.canonicalTriangles()
	uses := m.edgeUses(tris)

	// Adjacency over manifold edges only.
	byEdge := make(map[edge][]int)
	for i, t := range tris {
		for k := 0; k < 3; k++ {
			e := makeEdge(t[k], t[(k+1)%3])
			if uses[e] == 2 {
				byEdge[e] = append(byEdge[e], i)
			}
		}
	}

	flipped := 0
	visited := make([]bool, len(tris))
	for seed := range tris {
		if visited[seed] {
			continue
		}
		component := []int{seed}
		visited[seed] = true
		queue := []int{seed}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			t := tris[cur]
			for k := 0; k < 3; k++ {
				u, v := t[k], t[(k+1)%3]
				for _, nb := range byEdge[makeEdge(u, v)] {
					if nb == cur || visited[nb] {
						continue
					}
					// A consistently oriented neighbor traverses the
					// shared edge in the opposite direction.
					if hasDirectedEdge(tris[nb], u, v) {
						m.flip(nb)
						flipTri(&tris[nb])
						flipped++
					}
					visited[nb] = true
					component = append(component, nb)
					queue = append(queue, nb)
				}
			}
		}
		if flips := m.orientOutward(tris, component); flips > 0 {
			flipped += flips
		}
	}
	return flipped
}

// orientOutward flips a closed component whose signed volume is negative.
// Open components are left as harmonized.
func (m *Mesh) orientOutward(tris [][3]int, component []int) int {
	componentUses := make(map[edge]int)
	signed := 0.0
	for _, i := range component {
		t := tris[i]
		componentUses[makeEdge(t[0], t[1])]++
		componentUses[makeEdge(t[1], t[2])]++
		componentUses[makeEdge(t[2], t[0])]++
		a, b, c := m.Vertices(i)
		signed += a.Dot(b.Cross(c)) / 6
	}
	for _, n := range componentUses {
		if n != 2 {
			return 0
		}
	}
	if signed >= 0 {
		return 0
	}
	for _, i := range component {
		m.flip(i)
		flipTri(&tris[i])
	}
	return len(component)
}

func (m *Mesh) flip(i int) {
	m.Triangles[i][1], m.Triangles[i][2] = m.Triangles[i][2], m.Triangles[i][1]
}

func flipTri(t *[3]int) {
	t[1], t[2] = t[2], t[1]
}

func hasDirectedEdge(t [3]int, u, v int) bool {
	return (t[0] == u && t[1] == v) || (t[1] == u && t[2] == v) || (t[2] == u && t[0] == v)
}
