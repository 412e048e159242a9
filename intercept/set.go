package intercept

import "github.com/soypat/csg"

// Set accumulates the unsorted crossings of one grid line.
type Set struct {
	v []Intercept
}

// Add appends a crossing.
func (s *Set) Add(x Intercept) { s.v = append(s.v, x) }

// Len returns the number of accumulated crossings.
func (s *Set) Len() int { return len(s.v) }

// Ray sorts the accumulated crossings into a Ray. The set must not be used
// afterwards.
func (s *Set) Ray() Ray {
	r := NewRay(s.v)
	s.v = nil
	return r
}

// Set1 is a row of Sets addressed by one grid coordinate starting at Min.
type Set1 struct {
	Min  int
	sets []Set
}

// NewSet1 returns the row of sets for coordinates min through max inclusive.
func NewSet1(min, max int) Set1 {
	if max < min {
		return Set1{Min: min}
	}
	return Set1{Min: min, sets: make([]Set, max-min+1)}
}

// Add appends x to the set at coordinate i.
func (s *Set1) Add(i int, x Intercept) { s.sets[i-s.Min].Add(x) }

// Len returns the number of sets in the row.
func (s *Set1) Len() int { return len(s.sets) }

// Rays freezes every set of the row.
func (s *Set1) Rays() []Ray {
	rays := make([]Ray, len(s.sets))
	for i := range s.sets {
		rays[i] = s.sets[i].Ray()
	}
	return rays
}

// Set2 accumulates the crossings of a 2D grid of lines.
type Set2 struct {
	Box  csg.Box2i
	rows []Set1
}

// NewSet2 returns an empty accumulator covering box.
func NewSet2(box csg.Box2i) Set2 {
	s := Set2{Box: box}
	if box.Empty() {
		return s
	}
	s.rows = make([]Set1, box.Max[0]-box.Min[0]+1)
	for i := range s.rows {
		s.rows[i] = NewSet1(box.Min[1], box.Max[1])
	}
	return s
}

// Add appends x to the line p, which must be within the box.
func (s *Set2) Add(p csg.V2i, x Intercept) {
	s.rows[p[0]-s.Box.Min[0]].Add(p[1], x)
}

// Beam freezes the accumulator into a Beam.
func (s *Set2) Beam() *Beam {
	b := NewBeam(s.Box)
	for i := range s.rows {
		for j, r := range s.rows[i].Rays() {
			b.rays[b.index(csg.V2i{s.Box.Min[0] + i, s.Box.Min[1] + j})] = r
		}
	}
	s.rows = nil
	return b
}
