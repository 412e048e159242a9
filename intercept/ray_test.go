package intercept

import (
	"math/big"
	"math/rand"
	"slices"
	"testing"

	"github.com/soypat/csg"
	"gonum.org/v1/gonum/spatial/r3"
)

// ix returns an intercept at num/den whose normal points along sortNorm.
func ix(num, den int64, sortNorm float64) Intercept {
	return Intercept{
		Dist:     big.NewRat(num, den),
		Norm:     r3.Vec{X: sortNorm},
		SortNorm: sortNorm,
	}
}

// span returns a ray with inside spans between consecutive pairs of ends.
func span(ends ...int64) Ray {
	var x []Intercept
	for i, e := range ends {
		sn := -1.0
		if i%2 == 1 {
			sn = 1
		}
		x = append(x, ix(e, 1, sn))
	}
	return NewRay(x)
}

func dists(r Ray) []string {
	var s []string
	for _, x := range r.Intercepts() {
		s = append(s, x.Dist.RatString())
	}
	return s
}

func rayEqual(a, b Ray) bool {
	return slices.EqualFunc(a.Intercepts(), b.Intercepts(), func(x, y Intercept) bool {
		return x.Dist.Cmp(y.Dist) == 0 && x.SortNorm == y.SortNorm && x.Norm == y.Norm
	})
}

func TestRayIsIn(t *testing.T) {
	r := NewRay([]Intercept{ix(7, 2, 1), ix(1, 2, -1)}) // [0.5, 3.5]
	for _, test := range []struct {
		s    int
		want int
	}{
		{-1, -1}, {0, -1}, {1, 1}, {3, 1}, {4, -1}, {10, -1},
	} {
		if got := r.IsIn(test.s); got != test.want {
			t.Errorf("IsIn(%d) = %d, want %d", test.s, got, test.want)
		}
	}
	r = span(2, 5)
	if got := r.IsIn(2); got != 0 {
		t.Errorf("crossing on grid point: got %d, want 0", got)
	}
	if got := r.IsIn(5); got != 0 {
		t.Errorf("crossing on grid point: got %d, want 0", got)
	}
	x, i, ok := r.Intercept(3)
	if !ok || i != 1 || x.CmpDist(5) != 0 {
		t.Errorf("Intercept(3) = %v, %d, %v", x, i, ok)
	}
	if _, _, ok := r.Intercept(6); ok {
		t.Error("Intercept past the last crossing should fail")
	}
}

func TestRayCrossing(t *testing.T) {
	r := span(0, 3, 5, 9)
	for _, test := range []struct {
		s        int
		entering bool
		want     int // index, -1 when there is none
	}{
		{-1, true, 0},
		{0, true, 0},
		{0, false, -1},
		{2, false, 1},
		// Crossing on s itself.
		{3, false, 1},
		{3, true, -1},
		{4, true, 2},
		{8, false, 3},
		{9, true, -1},
	} {
		x, i, ok := r.Crossing(test.s, test.entering)
		if ok != (test.want >= 0) || i != test.want {
			t.Errorf("Crossing(%d, %v) = %d, %v; want %d", test.s, test.entering, i, ok, test.want)
			continue
		}
		if ok && (x.CmpDist(test.s) < 0 || x.CmpDist(test.s+1) > 0) {
			t.Errorf("Crossing(%d, %v) = %v outside the edge", test.s, test.entering, x)
		}
	}
}

func TestRayOps(t *testing.T) {
	a := span(0, 4, 6, 10)
	b := span(2, 7, 9, 12)
	for _, test := range []struct {
		name string
		got  Ray
		want []string
	}{
		{"and", a.And(b), []string{"2", "4", "6", "7", "9", "10"}},
		{"or", a.Or(b), []string{"0", "12"}},
		{"sub", a.Sub(b), []string{"0", "2", "7", "9"}},
		{"rsub", b.Sub(a), []string{"4", "6", "10", "12"}},
		{"empty and", a.And(Ray{}), nil},
		{"empty or", Ray{}.Or(b), []string{"2", "7", "9", "12"}},
		{"empty sub", a.Sub(Ray{}), []string{"0", "4", "6", "10"}},
		{"sub all", a.Sub(span(-1, 11)), nil},
		{"sub inner", span(0, 10).Sub(span(3, 4)), []string{"0", "3", "4", "10"}},
	} {
		if got := dists(test.got); !slices.Equal(got, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
		if test.got.Len()%2 != 0 {
			t.Errorf("%s: odd ray length %d", test.name, test.got.Len())
		}
	}
	// Crossings taken from the subtrahend face out of the result.
	d := span(0, 10).Sub(span(3, 4)).Intercepts()
	if d[1].SortNorm != 1 || d[2].SortNorm != -1 {
		t.Errorf("subtracted crossings not negated: %v", d)
	}
}

func TestRayTouching(t *testing.T) {
	a := span(0, 5)
	b := span(5, 9)
	if got := dists(a.Or(b)); !slices.Equal(got, []string{"0", "9"}) {
		t.Errorf("touching union should fuse, got %v", got)
	}
	and := a.And(b)
	for s := -1; s < 11; s++ {
		if and.IsIn(s) == 1 {
			t.Errorf("touching intersection has inside point %d: %v", s, and)
		}
	}
	if got := dists(a.Sub(b)); !slices.Equal(got, []string{"0", "5"}) {
		t.Errorf("touching difference should keep a, got %v", got)
	}
}

func TestRayDeMorgan(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	randRay := func() Ray {
		n := 2 * rng.Intn(6)
		seen := map[int64]bool{}
		var ends []int64
		for len(ends) < n {
			v := int64(rng.Intn(100))
			if !seen[v] {
				seen[v] = true
				ends = append(ends, v)
			}
		}
		slices.Sort(ends)
		return span(ends...)
	}
	lo, hi := ix(-1000, 1, -1), ix(1000, 1, 1)
	for i := 0; i < 500; i++ {
		a, b := randRay(), randRay()
		// Crossings shared between a and b would be broken by different
		// tie-breaks; keep only distinct ones.
		shared := false
		for _, x := range a.Intercepts() {
			for _, y := range b.Intercepts() {
				if x.Dist.Cmp(y.Dist) == 0 {
					shared = true
				}
			}
		}
		if shared {
			continue
		}
		got := a.Sub(b)
		want := a.And(b.Complement(lo, hi))
		if !rayEqual(got, want) {
			t.Fatalf("a=%v b=%v: a-b=%v, a&^b=%v", a, b, got, want)
		}
		for _, r := range []Ray{a.And(b), a.Or(b), got} {
			if r.Len()%2 != 0 {
				t.Fatalf("odd result %v from a=%v b=%v", r, a, b)
			}
		}
		if !rayEqual(a.And(b), b.And(a)) || !rayEqual(a.Or(b), b.Or(a)) {
			t.Fatalf("not commutative: a=%v b=%v", a, b)
		}
		if !rayEqual(a.And(a), a) || !rayEqual(a.Or(a), a) {
			t.Fatalf("not idempotent: a=%v", a)
		}
	}
}

func TestBeam(t *testing.T) {
	a := NewBeam(csg.Box2i{Max: csg.V2i{2, 2}})
	b := NewBeam(csg.Box2i{Min: csg.V2i{1, 1}, Max: csg.V2i{3, 3}})
	for x := 0; x <= 3; x++ {
		for y := 0; y <= 3; y++ {
			p := csg.V2i{x, y}
			if a.Box.Contains(p) {
				a.SetRay(p, span(0, 10))
			}
			if b.Box.Contains(p) {
				b.SetRay(p, span(5, 15))
			}
		}
	}
	if a.Ray(csg.V2i{5, 5}).Len() != 0 || a.IsIn(csg.V2i{-1, 0}, 3) != -1 {
		t.Error("lines outside the box should be empty")
	}

	and := *a
	and.Intersect(b)
	if and.Box != (csg.Box2i{Min: csg.V2i{1, 1}, Max: csg.V2i{2, 2}}) {
		t.Errorf("intersect box %v", and.Box)
	}
	if got := dists(and.Ray(csg.V2i{2, 2})); !slices.Equal(got, []string{"5", "10"}) {
		t.Errorf("intersect ray %v", got)
	}

	or := *a
	or.Union(b)
	if or.Box != (csg.Box2i{Max: csg.V2i{3, 3}}) {
		t.Errorf("union box %v", or.Box)
	}
	if got := dists(or.Ray(csg.V2i{3, 0})); got != nil {
		t.Errorf("union ray missing in both operands: %v", got)
	}
	if got := dists(or.Ray(csg.V2i{0, 0})); !slices.Equal(got, []string{"0", "10"}) {
		t.Errorf("union ray only in a: %v", got)
	}
	if got := dists(or.Ray(csg.V2i{3, 3})); !slices.Equal(got, []string{"5", "15"}) {
		t.Errorf("union ray only in b: %v", got)
	}

	sub := *a
	sub.rays = slices.Clone(a.rays)
	sub.Subtract(b)
	if sub.Box != a.Box {
		t.Errorf("subtract changed box to %v", sub.Box)
	}
	// The last row and column of the overlap are subtracted too.
	for _, p := range []csg.V2i{{1, 1}, {2, 2}, {1, 2}, {2, 1}} {
		if got := dists(sub.Ray(p)); !slices.Equal(got, []string{"0", "5"}) {
			t.Errorf("subtract ray %v: %v", p, got)
		}
	}
	if got := dists(sub.Ray(csg.V2i{0, 2})); !slices.Equal(got, []string{"0", "10"}) {
		t.Errorf("subtract ray outside overlap: %v", got)
	}
}

func TestFloorRat(t *testing.T) {
	for _, test := range []struct {
		num, den int64
		want     int
		exact    bool
	}{
		{7, 2, 3, false},
		{-7, 2, -4, false},
		{-6, 2, -3, true},
		{0, 5, 0, true},
		{-1, 3, -1, false},
	} {
		got, exact := floorRat(big.NewRat(test.num, test.den))
		if got != test.want || exact != test.exact {
			t.Errorf("floor(%d/%d) = %d, %v", test.num, test.den, got, exact)
		}
	}
	if cmpRatInt(big.NewRat(-7, 2), -3) >= 0 || cmpRatInt(big.NewRat(-7, 2), -4) <= 0 {
		t.Error("cmpRatInt")
	}
}
