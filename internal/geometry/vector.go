package geometry

import "math"

// Vector3 represents a 3D point or direction
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + w
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v scaled by s
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and w
func (v Vector3) Dot(w Vector3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product of v and w
func (v Vector3) Cross(w Vector3) Vector3 {
	return Vector3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the Euclidean length of v
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// TriangleArea returns the area of the triangle spanned by a, b and c
func TriangleArea(a, b, c Vector3) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Length() / 2
}

// TriangleNormal returns the unit normal of the triangle spanned by a, b
// and c, following the right-hand rule for the vertex order.
func TriangleNormal(a, b, c Vector3) Vector3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}
