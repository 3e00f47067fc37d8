package geometry

import "math"

// BoundingBox represents a 3D bounding box
type BoundingBox struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// NewBoundingBox returns an empty bounding box ready for Extend calls
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		MinX: math.Inf(1), MinY: math.Inf(1), MinZ: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1), MaxZ: math.Inf(-1),
	}
}

// Extend grows the bounding box to include p
func (b *BoundingBox) Extend(p Vector3) {
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MinZ = math.Min(b.MinZ, p.Z)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
	b.MaxZ = math.Max(b.MaxZ, p.Z)
}

// Width returns the width (X dimension) of the bounding box
func (b *BoundingBox) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the height (Y dimension) of the bounding box
func (b *BoundingBox) Height() float64 {
	return b.MaxY - b.MinY
}

// Depth returns the depth (Z dimension) of the bounding box
func (b *BoundingBox) Depth() float64 {
	return b.MaxZ - b.MinZ
}

// Diagonal returns the length of the box diagonal
func (b *BoundingBox) Diagonal() float64 {
	dx, dy, dz := b.Width(), b.Height(), b.Depth()
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Overlaps reports whether two boxes intersect, with a tolerance margin
func (b *BoundingBox) Overlaps(o *BoundingBox, margin float64) bool {
	return b.MinX <= o.MaxX+margin && o.MinX <= b.MaxX+margin &&
		b.MinY <= o.MaxY+margin && o.MinY <= b.MaxY+margin &&
		b.MinZ <= o.MaxZ+margin && o.MinZ <= b.MaxZ+margin
}
