package facet

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/mesh2step/internal/geometry"
	"github.com/philipparndt/mesh2step/internal/kernel"
)

// defaultMergeTolerance is used when no explicit merge tolerance is given
const defaultMergeTolerance = 1e-6

// Refine drops degenerate faces and collinear loop vertices
func (s *Shape) Refine() (kernel.Shape, error) {
	if len(s.children) > 0 {
		out := &Shape{log: s.log}
		for _, c := range s.children {
			refined, err := c.Refine()
			if err != nil {
				return nil, err
			}
			out.children = append(out.children, refined.(*Shape))
		}
		return out, nil
	}
	out := &Shape{points: s.points, solid: s.solid, log: s.log}
	for _, f := range s.faces {
		loop := dropCollinear(s.points, f.loop)
		if len(loop) < 3 {
			continue
		}
		out.faces = append(out.faces, face{loop: loop, normal: f.normal})
	}
	if len(out.faces) == 0 {
		return nil, fmt.Errorf("refinement discarded all faces")
	}
	return out, nil
}

func dropCollinear(points []geometry.Vector3, loop []int) []int {
	kept := append([]int(nil), loop...)
	for {
		n := len(kept)
		if n < 3 {
			return kept
		}
		removed := false
		for i := 0; i < n; i++ {
			prev := points[kept[(i+n-1)%n]]
			cur := points[kept[i]]
			next := points[kept[(i+1)%n]]
			cross := next.Sub(cur).Cross(prev.Sub(cur))
			if cross.Length() <= 1e-12 {
				kept = append(kept[:i], kept[i+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			return kept
		}
	}
}

// RemoveSplitterDefault merges coplanar faces at the default tolerance
func (s *Shape) RemoveSplitterDefault() (kernel.Shape, error) {
	return s.RemoveSplitter(defaultMergeTolerance)
}

// RemoveSplitter merges adjacent coplanar faces into larger polygons.
// Adjacent faces are merged when their normals and plane offsets agree
// within the tolerance. The call fails when a merged region does not
// reduce to a single boundary loop, so callers can fall back to less
// aggressive strategies.
func (s *Shape) RemoveSplitter(tolerance float64) (kernel.Shape, error) {
	if len(s.children) > 0 {
		out := &Shape{log: s.log}
		for _, c := range s.children {
			merged, err := c.RemoveSplitter(tolerance)
			if err != nil {
				return nil, err
			}
			out.children = append(out.children, merged.(*Shape))
		}
		return out, nil
	}
	if tolerance <= 0 {
		tolerance = defaultMergeTolerance
	}
	regions := s.coplanarRegions(tolerance)
	out := &Shape{points: s.points, solid: s.solid, log: s.log}
	for _, region := range regions {
		if len(region) == 1 {
			f := s.faces[region[0]]
			out.faces = append(out.faces, face{
				loop:   append([]int(nil), f.loop...),
				normal: f.normal,
			})
			continue
		}
		merged, err := s.mergeRegion(region)
		if err != nil {
			return nil, err
		}
		out.faces = append(out.faces, merged)
	}
	return out, nil
}

// coplanarRegions groups faces into connected coplanar regions. Faces
// belong to the same region when they share an edge and lie in the same
// plane within the tolerance.
func (s *Shape) coplanarRegions(tolerance float64) [][]int {
	angleBound := math.Max(1e-9, tolerance)
	parent := make([]int, len(s.faces))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	byEdge := make(map[[2]int][]int)
	for i, f := range s.faces {
		n := len(f.loop)
		for j := 0; j < n; j++ {
			a, b := f.loop[j], f.loop[(j+1)%n]
			if a > b {
				a, b = b, a
			}
			byEdge[[2]int{a, b}] = append(byEdge[[2]int{a, b}], i)
		}
	}
	for _, owners := range byEdge {
		if len(owners) != 2 {
			continue
		}
		a, b := s.faces[owners[0]], s.faces[owners[1]]
		if a.normal.Dot(b.normal) < 1-angleBound {
			continue
		}
		if math.Abs(s.planeOffset(a)-s.planeOffset(b)) > tolerance {
			continue
		}
		union(owners[0], owners[1])
	}

	grouped := make(map[int][]int)
	for i := range s.faces {
		root := find(i)
		grouped[root] = append(grouped[root], i)
	}
	roots := make([]int, 0, len(grouped))
	for root := range grouped {
		roots = append(roots, root)
	}
	sort.Ints(roots)
	regions := make([][]int, 0, len(roots))
	for _, root := range roots {
		regions = append(regions, grouped[root])
	}
	return regions
}

// mergeRegion chains the outer boundary of a coplanar face region into a
// single polygon loop.
func (s *Shape) mergeRegion(region []int) (face, error) {
	interior := make(map[[2]int]bool)
	directed := make(map[[2]int]bool)
	for _, fi := range region {
		loop := s.faces[fi].loop
		n := len(loop)
		for i := 0; i < n; i++ {
			directed[[2]int{loop[i], loop[(i+1)%n]}] = true
		}
	}
	for e := range directed {
		if directed[[2]int{e[1], e[0]}] {
			interior[e] = true
		}
	}
	next := make(map[int]int)
	start := -1
	boundary := 0
	for e := range directed {
		if interior[e] {
			continue
		}
		boundary++
		if _, dup := next[e[0]]; dup {
			return face{}, fmt.Errorf("merged face region has a branching boundary")
		}
		next[e[0]] = e[1]
		if start < 0 || e[0] < start {
			start = e[0]
		}
	}
	if start < 0 {
		return face{}, fmt.Errorf("merged face region has no boundary")
	}
	loop := []int{start}
	cur, ok := next[start]
	for ok && cur != start {
		if len(loop) > boundary {
			return face{}, fmt.Errorf("merged face region boundary does not close")
		}
		loop = append(loop, cur)
		cur, ok = next[cur]
	}
	if !ok {
		return face{}, fmt.Errorf("merged face region boundary does not close")
	}
	if len(loop) != boundary {
		return face{}, fmt.Errorf("merged face region has more than one boundary loop")
	}
	return face{loop: loop, normal: s.faces[region[0]].normal}, nil
}
