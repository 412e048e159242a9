package intercept

import "github.com/soypat/csg"

// Beam is the grid of rays parallel to one axis. Rays are addressed by the
// two coordinates orthogonal to the axis, see csg.V3i.Line.
type Beam struct {
	Box  csg.Box2i
	rays []Ray
}

// NewBeam returns a beam of empty rays covering box.
func NewBeam(box csg.Box2i) *Beam {
	b := &Beam{Box: box}
	if !box.Empty() {
		d := box.Dim()
		b.rays = make([]Ray, (d[0]+1)*(d[1]+1))
	}
	return b
}

func (b *Beam) index(p csg.V2i) int {
	return (p[0]-b.Box.Min[0])*(b.Box.Max[1]-b.Box.Min[1]+1) + p[1] - b.Box.Min[1]
}

// Ray returns the ray at p. Lines outside the box have no crossings.
func (b *Beam) Ray(p csg.V2i) Ray {
	if !b.Box.Contains(p) {
		return Ray{}
	}
	return b.rays[b.index(p)]
}

// SetRay replaces the ray at p, which must lie within the box.
func (b *Beam) SetRay(p csg.V2i, r Ray) {
	if !b.Box.Contains(p) {
		panic("ray line outside beam box")
	}
	b.rays[b.index(p)] = r
}

// IsIn classifies the point at coordinate s along line p. See Ray.IsIn.
func (b *Beam) IsIn(p csg.V2i, s int) int {
	if !b.Box.Contains(p) {
		return -1
	}
	return b.rays[b.index(p)].IsIn(s)
}

// Intersect replaces b with the intersection of b and o.
func (b *Beam) Intersect(o *Beam) {
	b.combine(o, b.Box.Intersect(o.Box), Ray.And)
}

// Union replaces b with the union of b and o.
func (b *Beam) Union(o *Beam) {
	b.combine(o, b.Box.Union(o.Box), Ray.Or)
}

// Subtract removes o from b. The box of b is unchanged and only the lines
// shared with o are recomputed.
func (b *Beam) Subtract(o *Beam) {
	shared := b.Box.Intersect(o.Box)
	if shared.Empty() {
		return
	}
	for x := shared.Min[0]; x <= shared.Max[0]; x++ {
		for y := shared.Min[1]; y <= shared.Max[1]; y++ {
			p := csg.V2i{x, y}
			i := b.index(p)
			b.rays[i] = b.rays[i].Sub(o.Ray(p))
		}
	}
}

func (b *Beam) combine(o *Beam, box csg.Box2i, op func(Ray, Ray) Ray) {
	nb := NewBeam(box)
	for x := box.Min[0]; x <= box.Max[0]; x++ {
		for y := box.Min[1]; y <= box.Max[1]; y++ {
			p := csg.V2i{x, y}
			nb.rays[nb.index(p)] = op(b.Ray(p), o.Ray(p))
		}
	}
	*b = *nb
}

// Intercepts returns the total number of crossings in the beam.
func (b *Beam) Intercepts() (n int) {
	for _, r := range b.rays {
		n += r.Len()
	}
	return n
}
