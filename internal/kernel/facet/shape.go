package facet

import (
	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/geometry"
	"github.com/philipparndt/mesh2step/internal/kernel"
)

// face is a planar polygon given as an ordered point loop
type face struct {
	loop   []int
	normal geometry.Vector3
}

// Shape is a faceted boundary representation. A compound shape has
// children and no faces of its own.
type Shape struct {
	points   []geometry.Vector3
	faces    []face
	solid    bool
	children []*Shape
	log      *zap.Logger
}

// IsSolid reports whether the shape (or every child of a compound)
// is a closed solid.
func (s *Shape) IsSolid() bool {
	if len(s.children) > 0 {
		for _, c := range s.children {
			if !c.IsSolid() {
				return false
			}
		}
		return true
	}
	return s.solid
}

// FaceCount returns the number of faces, including compound children
func (s *Shape) FaceCount() int {
	if len(s.children) > 0 {
		n := 0
		for _, c := range s.children {
			n += c.FaceCount()
		}
		return n
	}
	return len(s.faces)
}

func (s *Shape) clone() *Shape {
	out := &Shape{
		points: append([]geometry.Vector3(nil), s.points...),
		solid:  s.solid,
		log:    s.log,
	}
	for _, f := range s.faces {
		out.faces = append(out.faces, face{
			loop:   append([]int(nil), f.loop...),
			normal: f.normal,
		})
	}
	for _, c := range s.children {
		out.children = append(out.children, c.clone())
	}
	return out
}

// closed reports whether every directed boundary edge is matched by its
// reverse exactly once, i.e. the faces form a closed oriented shell.
func (s *Shape) closed() bool {
	if len(s.children) > 0 {
		for _, c := range s.children {
			if !c.closed() {
				return false
			}
		}
		return true
	}
	if len(s.faces) == 0 {
		return false
	}
	uses := make(map[[2]int]int)
	for _, f := range s.faces {
		n := len(f.loop)
		for i := 0; i < n; i++ {
			a, b := f.loop[i], f.loop[(i+1)%n]
			if a == b {
				return false
			}
			uses[[2]int{a, b}]++
		}
	}
	for e, n := range uses {
		if n != 1 || uses[[2]int{e[1], e[0]}] != 1 {
			return false
		}
	}
	return true
}

// planeOffset returns the signed distance of the face plane from origin
func (s *Shape) planeOffset(f face) float64 {
	return f.normal.Dot(s.points[f.loop[0]])
}

var _ kernel.Shape = (*Shape)(nil)
