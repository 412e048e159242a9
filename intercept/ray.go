package intercept

import (
	"slices"
	"sort"
	"strings"

	"github.com/soypat/csg"
)

// Ray is the sorted list of crossings of one grid line with a solid. It has
// even length and the pairs [2k, 2k+1] delimit the spans inside the solid.
// Operations never modify a Ray in place.
type Ray struct {
	v []Intercept
}

// NewRay sorts the given crossings into a Ray. The slice is retained.
// Odd counts and repeated crossings are logged, not rejected.
func NewRay(x []Intercept) Ray {
	slices.SortFunc(x, Intercept.Cmp)
	r := Ray{v: x}
	r.check()
	return r
}

func (r Ray) check() {
	if len(r.v)%2 != 0 {
		csg.Logger().Warn("odd number of intercepts in ray", "ray", r.String())
	}
	for i := 1; i < len(r.v); i++ {
		if !r.v[i-1].Less(r.v[i]) {
			csg.Logger().Warn("ray intercepts not strictly increasing", "index", i, "ray", r.String())
			return
		}
	}
}

// Len returns the number of crossings.
func (r Ray) Len() int { return len(r.v) }

// Intercepts returns the crossings in order. The slice must not be modified.
func (r Ray) Intercepts() []Intercept { return r.v }

// search returns the index of the first crossing with distance >= s.
func (r Ray) search(s int) int {
	return sort.Search(len(r.v), func(i int) bool { return r.v[i].CmpDist(s) >= 0 })
}

// IsIn classifies the grid coordinate s: 1 inside, -1 outside, 0 when a
// crossing lies exactly on s.
func (r Ray) IsIn(s int) int {
	i := r.search(s)
	switch {
	case i == len(r.v):
		return -1
	case r.v[i].CmpDist(s) == 0:
		return 0
	case i%2 == 1:
		return 1
	}
	return -1
}

// Intercept returns the first crossing at or after s and its index. The
// caller must have established that a crossing exists there; ok is false
// past the last crossing.
func (r Ray) Intercept(s int) (x Intercept, index int, ok bool) {
	i := r.search(s)
	if i == len(r.v) {
		return Intercept{}, i, false
	}
	return r.v[i], i, true
}

// Crossing returns the first crossing within [s, s+1] that enters the
// solid when entering is set, or leaves it otherwise. Entering crossings
// have even indices. A crossing exactly on s+1 can thus only be claimed by
// one of the two unit segments sharing that coordinate.
func (r Ray) Crossing(s int, entering bool) (x Intercept, index int, ok bool) {
	parity := 1
	if entering {
		parity = 0
	}
	for i := r.search(s); i < len(r.v) && r.v[i].CmpDist(s+1) <= 0; i++ {
		if i%2 == parity {
			return r.v[i], i, true
		}
	}
	return Intercept{}, -1, false
}

// And returns the spans inside both rays.
func (r Ray) And(o Ray) Ray {
	a, b := r.v, o.v
	var out []Intercept
	i, j := 0, 0
	for i+1 < len(a) && j+1 < len(b) {
		lo, hi := a[i], a[i+1]
		if lo.Less(b[j]) {
			lo = b[j]
		}
		if b[j+1].Less(hi) {
			hi = b[j+1]
		}
		if lo.Less(hi) {
			out = append(out, lo, hi)
		}
		if a[i+1].Less(b[j+1]) {
			i += 2
		} else {
			j += 2
		}
	}
	return Ray{v: out}
}

// Or returns the spans inside either ray. Spans that touch are fused.
func (r Ray) Or(o Ray) Ray {
	a, b := r.v, o.v
	var out []Intercept
	i, j := 0, 0
	next := func() (s, e Intercept) {
		if j+1 >= len(b) || (i+1 < len(a) && a[i].Less(b[j])) {
			s, e = a[i], a[i+1]
			i += 2
			return s, e
		}
		s, e = b[j], b[j+1]
		j += 2
		return s, e
	}
	if len(a) < 2 && len(b) < 2 {
		return Ray{}
	}
	s, e := next()
	for i+1 < len(a) || j+1 < len(b) {
		s2, e2 := next()
		if !e.Less(s2) {
			if e.Less(e2) {
				e = e2
			}
			continue
		}
		out = append(out, s, e)
		s, e = s2, e2
	}
	out = append(out, s, e)
	return Ray{v: out}
}

// Sub returns the spans inside r and outside o. Crossings taken from o are
// negated so their normals face out of the result.
func (r Ray) Sub(o Ray) Ray {
	a, b := r.v, o.v
	var out []Intercept
	j := 0
	for i := 0; i+1 < len(a); i += 2 {
		s, e := a[i], a[i+1]
		// Spans of o ending at or before s do not affect this or later spans.
		for j+1 < len(b) && !s.Less(b[j+1]) {
			j += 2
		}
		// from is compared using the crossing it was built from.
		from, fromKey := s, s
		closed := false
		for k := j; k+1 < len(b) && b[k].Less(e); k += 2 {
			bs, be := b[k], b[k+1]
			if fromKey.Less(bs) {
				out = append(out, from, bs.Neg())
			}
			if !be.Less(e) {
				closed = true
				break
			}
			if fromKey.Less(be) {
				from, fromKey = be.Neg(), be
			}
		}
		if !closed && fromKey.Less(e) {
			out = append(out, from, e)
		}
	}
	return Ray{v: out}
}

// Complement returns the spans within [lo, hi] that are outside r. The
// crossings of r are negated. lo and hi must enclose every crossing of r.
func (r Ray) Complement(lo, hi Intercept) Ray {
	var out []Intercept
	from, fromKey := lo, lo
	for i := 0; i+1 < len(r.v); i += 2 {
		s, e := r.v[i], r.v[i+1]
		if fromKey.Less(s) {
			out = append(out, from, s.Neg())
		}
		from, fromKey = e.Neg(), e
	}
	if fromKey.Less(hi) {
		out = append(out, from, hi)
	}
	return Ray{v: out}
}

func (r Ray) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range r.v {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(x.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
