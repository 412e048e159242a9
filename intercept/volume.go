package intercept

import (
	"bufio"
	"fmt"
	"io"

	"github.com/soypat/csg"
	"gonum.org/v1/gonum/spatial/r3"
)

// Volume is the Marching Intersections representation of a solid: one
// beam per axis sampled on a grid of spacing Delta.
type Volume struct {
	Delta r3.Vec
	BBox  csg.Box3i
	// beams[i] holds the lines parallel to axis i.
	beams [3]*Beam

	inconsistencies int
}

// NewVolume returns an empty volume covering bbox.
func NewVolume(delta r3.Vec, bbox csg.Box3i) *Volume {
	v := &Volume{Delta: delta, BBox: bbox}
	for axis := range v.beams {
		v.beams[axis] = NewBeam(bbox.Plane(axis))
	}
	return v
}

// Beam returns the beam of lines parallel to axis.
func (v *Volume) Beam(axis int) *Beam { return v.beams[axis] }

// Ray returns the ray parallel to axis at line p.
func (v *Volume) Ray(axis int, p csg.V2i) Ray { return v.beams[axis].Ray(p) }

// vote returns the classification of p by the three beams and the raw
// per-beam answers.
func (v *Volume) vote(p csg.V3i) (int, [3]int) {
	var r, raw [3]int
	for axis := 0; axis < 3; axis++ {
		r[axis] = v.beams[axis].IsIn(p.Line(axis), p[axis])
	}
	raw = r
	if r[0] == 0 {
		r[0] = r[1] + r[2]
	}
	if r[1] == 0 {
		r[1] = r[0] + r[2]
	}
	if r[2] == 0 {
		r[2] = r[0] + r[1]
	}
	switch {
	case r[0] > 0 && r[1] > 0 && r[2] > 0:
		return 1, raw
	case r[0] < 0 && r[1] < 0 && r[2] < 0:
		return -1, raw
	case r[0] == 0 && r[1] == 0 && r[2] == 0:
		return -1, raw
	}
	return 0, raw
}

// IsIn classifies the grid point p: 1 inside, -1 outside. Points on which
// the three axes disagree are logged, counted and reported as 0; callers
// treat them as outside.
func (v *Volume) IsIn(p csg.V3i) int {
	in, raw := v.vote(p)
	if in == 0 {
		v.inconsistencies++
		csg.Logger().Warn("inconsistent in/out vote",
			"point", p, "delta", v.Delta, "votes", raw,
			"x", v.Ray(0, p.Line(0)).String(),
			"y", v.Ray(1, p.Line(1)).String(),
			"z", v.Ray(2, p.Line(2)).String(),
		)
	}
	return in
}

// Inconsistencies returns how many IsIn queries found the axes in
// disagreement.
func (v *Volume) Inconsistencies() int { return v.inconsistencies }

// Intercept returns the first crossing of the line parallel to axis through
// p at or after p[axis], together with its key. ok is false when the line
// has no such crossing.
func (v *Volume) Intercept(axis int, p csg.V3i) (x Intercept, key Key, ok bool) {
	line := p.Line(axis)
	x, idx, ok := v.Ray(axis, line).Intercept(p[axis])
	return x, Key{Axis: axis, Line: line, Index: idx}, ok
}

// EdgeIntercept returns the crossing of the grid edge from p to p+e_axis
// that takes the solid from outside to inside when entering is set, or from
// inside to outside otherwise. See Ray.Crossing.
func (v *Volume) EdgeIntercept(axis int, p csg.V3i, entering bool) (x Intercept, key Key, ok bool) {
	line := p.Line(axis)
	x, idx, ok := v.Ray(axis, line).Crossing(p[axis], entering)
	return x, Key{Axis: axis, Line: line, Index: idx}, ok
}

// Intersect replaces v with the intersection of v and o.
func (v *Volume) Intersect(o *Volume) {
	v.mustMatch(o)
	for axis := range v.beams {
		v.beams[axis].Intersect(o.beams[axis])
	}
	v.BBox = v.BBox.Intersect(o.BBox)
}

// Union replaces v with the union of v and o.
func (v *Volume) Union(o *Volume) {
	v.mustMatch(o)
	for axis := range v.beams {
		v.beams[axis].Union(o.beams[axis])
	}
	v.BBox = v.BBox.Union(o.BBox)
}

// Subtract removes o from v.
func (v *Volume) Subtract(o *Volume) {
	v.mustMatch(o)
	for axis := range v.beams {
		v.beams[axis].Subtract(o.beams[axis])
	}
}

// Apply combines v with o in place according to op.
func (v *Volume) Apply(op csg.Op, o *Volume) {
	switch op {
	case csg.Intersection:
		v.Intersect(o)
	case csg.Union:
		v.Union(o)
	case csg.Difference:
		v.Subtract(o)
	default:
		panic("unknown boolean operation " + op.String())
	}
}

func (v *Volume) mustMatch(o *Volume) {
	if v.Delta != o.Delta {
		panic(fmt.Sprintf("volume grid spacing mismatch: %v != %v", v.Delta, o.Delta))
	}
}

// Intercepts returns the total number of crossings over the three beams.
func (v *Volume) Intercepts() (n int) {
	for _, b := range v.beams {
		n += b.Intercepts()
	}
	return n
}

// Slice returns the classification of every grid point of the plane
// orthogonal to axis at coordinate level. Rows follow coordinate
// (axis+1)%3 and columns (axis+2)%3 over the volume bounding box. Values
// are 1 inside, -1 outside and 0 where the axes disagree. Slice does not
// count or log disagreements.
func (v *Volume) Slice(axis, level int) [][]int {
	plane := v.BBox.Plane(axis)
	if plane.Empty() {
		return nil
	}
	c1, c2 := (axis+1)%3, (axis+2)%3
	rows := make([][]int, plane.Max[0]-plane.Min[0]+1)
	for i := range rows {
		rows[i] = make([]int, plane.Max[1]-plane.Min[1]+1)
		for j := range rows[i] {
			var p csg.V3i
			p[axis] = level
			p[c1] = plane.Min[0] + i
			p[c2] = plane.Min[1] + j
			rows[i][j], _ = v.vote(p)
		}
	}
	return rows
}

// WriteSlices writes a text dump of every Z slice of the volume: '#' for
// inside points, '.' outside and '?' where the axes disagree.
func (v *Volume) WriteSlices(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for z := v.BBox.Min[2]; z <= v.BBox.Max[2]; z++ {
		fmt.Fprintf(bw, "z=%d\n", z)
		// Print with Y growing upwards.
		for y := v.BBox.Max[1]; y >= v.BBox.Min[1]; y-- {
			for x := v.BBox.Min[0]; x <= v.BBox.Max[0]; x++ {
				in, _ := v.vote(csg.V3i{x, y, z})
				switch in {
				case 1:
					bw.WriteByte('#')
				case -1:
					bw.WriteByte('.')
				default:
					bw.WriteByte('?')
				}
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}
