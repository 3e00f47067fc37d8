package mesh

// edge is an undirected edge between two canonical point indices,
// stored with the smaller index first.
type edge [2]int

func makeEdge(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

// canonicalIndex maps every point to the index of its first occurrence,
// so that topological queries see shared vertices even when the point
// list carries duplicates.
func (m *Mesh) canonicalIndex() []int {
	canon := make([]int, len(m.Points))
	first := make(map[[3]float64]int, len(m.Points))
	for i, p := range m.Points {
		key := [3]float64{p.X, p.Y, p.Z}
		if j, ok := first[key]; ok {
			canon[i] = j
		} else {
			first[key] = i
			canon[i] = i
		}
	}
	return canon
}

// canonicalTriangles returns the triangle list remapped to canonical
// point indices.
func (m *Mesh) canonicalTriangles() [][3]int {
	canon := m.canonicalIndex()
	out := make([][3]int, len(m.Triangles))
	for i, t := range m.Triangles {
		out[i] = [3]int{canon[t[0]], canon[t[1]], canon[t[2]]}
	}
	return out
}

// edgeUses counts how many triangles use every undirected edge
func (m *Mesh) edgeUses(tris [][3]int) map[edge]int {
	uses := make(map[edge]int, len(tris)*3/2)
	for _, t := range tris {
		uses[makeEdge(t[0], t[1])]++
		uses[makeEdge(t[1], t[2])]++
		uses[makeEdge(t[2], t[0])]++
	}
	return uses
}

// IsSolid reports whether the mesh is closed: every edge is shared by
// exactly two triangles.
func (m *Mesh) IsSolid() bool {
	if len(m.Triangles) == 0 {
		return false
	}
	for _, n := range m.edgeUses(m.canonicalTriangles()) {
		if n != 2 {
			return false
		}
	}
	return true
}

// HasNonManifolds reports whether any edge is shared by more than two
// triangles.
func (m *Mesh) HasNonManifolds() bool {
	for _, n := range m.edgeUses(m.canonicalTriangles()) {
		if n > 2 {
			return true
		}
	}
	return false
}

// boundaryLoops chains the directed boundary edges (undirected use count
// of one) into closed loops of canonical point indices. Loops that cannot
// be chained unambiguously are dropped.
func (m *Mesh) boundaryLoops() [][]int {
	tris := m.canonicalTriangles()
	uses := m.edgeUses(tris)

	// Directed boundary edges as they appear in the triangles.
	next := make(map[int]int)
	ambiguous := make(map[int]bool)
	for _, t := range tris {
		for k := 0; k < 3; k++ {
			u, v := t[k], t[(k+1)%3]
			if uses[makeEdge(u, v)] != 1 {
				continue
			}
			if _, dup := next[u]; dup {
				ambiguous[u] = true
				continue
			}
			next[u] = v
		}
	}

	var loops [][]int
	visited := make(map[int]bool)
	for start := range next {
		if visited[start] || ambiguous[start] {
			continue
		}
		loop := []int{start}
		visited[start] = true
		cur := next[start]
		closed := false
		for {
			if cur == start {
				closed = true
				break
			}
			if visited[cur] || ambiguous[cur] {
				break
			}
			loop = append(loop, cur)
			visited[cur] = true
			n, ok := next[cur]
			if !ok {
				break
			}
			cur = n
		}
		if closed && len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	return loops
}
