// Package collide resolves particle interpenetration against scene
// objects and the domain boundary.
package collide

import "fluidlab/internal/vec"

// Object is static or kinematic solid geometry. Contact reports
// whether p is inside the solid region, and if so the penetration
// depth and the outward surface normal at the nearest surface point.
type Object interface {
	Contact(p vec.Vec3) (depth float64, normal vec.Vec3, hit bool)
}

// Mover is implemented by kinematic objects that advance over time.
type Mover interface {
	Advance(dt float64)
}

// Plane is the solid half-space below the plane dot(Normal, p) = Offset.
// Normal must be unit length.
type Plane struct {
	Normal vec.Vec3
	Offset float64
}

func (pl *Plane) Contact(p vec.Vec3) (float64, vec.Vec3, bool) {
	d := pl.Normal.Dot(p) - pl.Offset
	if d >= 0 {
		return 0, vec.Vec3{}, false
	}
	return -d, pl.Normal, true
}

// Sphere is a solid ball. A nonzero Vel makes it kinematic.
type Sphere struct {
	Center vec.Vec3
	Radius float64
	Vel    vec.Vec3
}

func (s *Sphere) Contact(p vec.Vec3) (float64, vec.Vec3, bool) {
	rel := p.Sub(s.Center)
	dist := rel.Len()
	if dist >= s.Radius {
		return 0, vec.Vec3{}, false
	}
	if dist == 0 {
		// Dead center: push up, any direction is as good.
		return s.Radius, vec.Vec3{Y: 1}, true
	}
	return s.Radius - dist, rel.Scale(1 / dist), true
}

func (s *Sphere) Advance(dt float64) {
	s.Center = s.Center.Add(s.Vel.Scale(dt))
}

// Box is a solid axis-aligned box.
type Box struct {
	Min vec.Vec3
	Max vec.Vec3
}

func (b *Box) Contact(p vec.Vec3) (float64, vec.Vec3, bool) {
	if p.X <= b.Min.X || p.X >= b.Max.X ||
		p.Y <= b.Min.Y || p.Y >= b.Max.Y ||
		p.Z <= b.Min.Z || p.Z >= b.Max.Z {
		return 0, vec.Vec3{}, false
	}

	// Inside: exit through the nearest face.
	depth := p.X - b.Min.X
	normal := vec.Vec3{X: -1}
	if d := b.Max.X - p.X; d < depth {
		depth, normal = d, vec.Vec3{X: 1}
	}
	if d := p.Y - b.Min.Y; d < depth {
		depth, normal = d, vec.Vec3{Y: -1}
	}
	if d := b.Max.Y - p.Y; d < depth {
		depth, normal = d, vec.Vec3{Y: 1}
	}
	if d := p.Z - b.Min.Z; d < depth {
		depth, normal = d, vec.Vec3{Z: -1}
	}
	if d := b.Max.Z - p.Z; d < depth {
		depth, normal = d, vec.Vec3{Z: 1}
	}
	return depth, normal, true
}
