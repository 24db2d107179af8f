package collide

import "fluidlab/internal/vec"

// Resolver pushes penetrating particles back to object surfaces and
// reflects their velocities. Objects are resolved in list order in a
// single sequential pass; the domain boundary acts as an implicit last
// object with the same reflect-and-clamp rule. The single pass trades
// iterative relaxation for a fixed per-step cost and assumes objects
// do not overlap.
type Resolver struct {
	Objects     []Object
	Bounds      vec.Bounds
	Restitution float64
	Friction    float64
}

// Resolve runs on pre-integration positions with current velocities.
// Besides resolving present penetration it reflects velocities whose
// predicted position p + v*dt would penetrate, so fast particles do
// not tunnel through thin geometry during the following integration.
func (r *Resolver) Resolve(pos, vel []vec.Vec3, dt float64) {
	for i := range pos {
		for _, o := range r.Objects {
			r.resolveObject(o, &pos[i], &vel[i], dt)
		}
		r.resolveBounds(&pos[i], &vel[i], dt)
	}
}

func (r *Resolver) resolveObject(o Object, p, v *vec.Vec3, dt float64) {
	if depth, n, hit := o.Contact(*p); hit {
		*p = p.Add(n.Scale(depth))
		if v.Dot(n) < 0 {
			r.reflect(v, n)
		}
		return
	}
	predicted := p.Add(v.Scale(dt))
	if _, n, hit := o.Contact(predicted); hit && v.Dot(n) < 0 {
		r.reflect(v, n)
	}
}

func (r *Resolver) resolveBounds(p, v *vec.Vec3, dt float64) {
	r.resolveFace(p, v, vec.Vec3{X: 1}, &p.X, r.Bounds.Min.X, dt)
	r.resolveFace(p, v, vec.Vec3{X: -1}, &p.X, r.Bounds.Max.X, dt)
	r.resolveFace(p, v, vec.Vec3{Y: 1}, &p.Y, r.Bounds.Min.Y, dt)
	r.resolveFace(p, v, vec.Vec3{Y: -1}, &p.Y, r.Bounds.Max.Y, dt)
	r.resolveFace(p, v, vec.Vec3{Z: 1}, &p.Z, r.Bounds.Min.Z, dt)
	r.resolveFace(p, v, vec.Vec3{Z: -1}, &p.Z, r.Bounds.Max.Z, dt)
}

// resolveFace treats one domain face as a plane with inward normal n.
// coord points at the position component on that axis and limit is the
// face coordinate.
func (r *Resolver) resolveFace(p, v *vec.Vec3, n vec.Vec3, coord *float64, limit float64, dt float64) {
	outward := (*coord - limit) * (n.X + n.Y + n.Z)
	if outward < 0 {
		*coord = limit
		if v.Dot(n) < 0 {
			r.reflect(v, n)
		}
		return
	}
	predictedOut := outward + v.Dot(n)*dt
	if predictedOut < 0 && v.Dot(n) < 0 {
		r.reflect(v, n)
	}
}

// reflect bounces the normal velocity component scaled by restitution
// and damps the tangential component by friction, proportional to the
// normal velocity change as in impulse-based contact.
func (r *Resolver) reflect(v *vec.Vec3, n vec.Vec3) {
	vn := n.Scale(v.Dot(n))
	vt := v.Sub(vn)

	impulse := vn.Len() * (1 + r.Restitution)
	if vtLen := vt.Len(); vtLen > 0 {
		scale := 1 - r.Friction*impulse/vtLen
		if scale < 0 {
			scale = 0
		}
		vt = vt.Scale(scale)
	}

	*v = vt.Sub(vn.Scale(r.Restitution))
}
