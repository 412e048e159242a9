package intercept

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/soypat/csg"
	"github.com/soypat/csg/form3"
	"gonum.org/v1/gonum/spatial/r3"
)

func cubeVolume(t testing.TB, min r3.Vec, side, delta float64) *Volume {
	t.Helper()
	m, err := form3.Cube(min, side)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSet3(context.Background(), m, r3.Vec{X: delta, Y: delta, Z: delta}, DefaultPrecision, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s.Volume()
}

func TestSet3Cube(t *testing.T) {
	vol := cubeVolume(t, r3.Vec{}, 1, 0.25)
	want := csg.Box3i{Min: csg.V3i{-1, -1, -1}, Max: csg.V3i{5, 5, 5}}
	if vol.BBox != want {
		t.Fatalf("bbox %v, want %v", vol.BBox, want)
	}
	for axis := 0; axis < 3; axis++ {
		beam := vol.Beam(axis)
		for x := beam.Box.Min[0]; x <= beam.Box.Max[0]; x++ {
			for y := beam.Box.Min[1]; y <= beam.Box.Max[1]; y++ {
				r := beam.Ray(csg.V2i{x, y})
				// Lines on the min faces are inside, those on max faces are not.
				hit := x >= 0 && x < 4 && y >= 0 && y < 4
				if !hit {
					if r.Len() != 0 {
						t.Errorf("axis %d line (%d,%d): unexpected crossings %v", axis, x, y, r)
					}
					continue
				}
				if r.Len() != 2 {
					t.Errorf("axis %d line (%d,%d): got %d crossings, want 2", axis, x, y, r.Len())
					continue
				}
				x0, x1 := r.Intercepts()[0], r.Intercepts()[1]
				if x0.CmpDist(0) != 0 || x1.CmpDist(4) != 0 {
					t.Errorf("axis %d line (%d,%d): crossings %v", axis, x, y, r)
				}
				if x0.SortNorm != -1 || x1.SortNorm != 1 {
					t.Errorf("axis %d: crossing normals %v", axis, r)
				}
			}
		}
	}
	for _, test := range []struct {
		p    csg.V3i
		want int
	}{
		{csg.V3i{2, 2, 2}, 1},
		{csg.V3i{0, 1, 1}, 1},
		{csg.V3i{4, 1, 1}, -1},
		{csg.V3i{1, 1, 4}, -1},
		{csg.V3i{-1, 2, 2}, -1},
		{csg.V3i{9, 9, 9}, -1},
	} {
		if got := vol.IsIn(test.p); got != test.want {
			t.Errorf("IsIn(%v) = %d, want %d", test.p, got, test.want)
		}
	}
	if vol.Inconsistencies() != 0 {
		t.Errorf("cube has %d inconsistencies", vol.Inconsistencies())
	}
}

func TestSet3EvenRays(t *testing.T) {
	sphere, err := form3.Sphere(r3.Vec{X: 0.1, Y: -0.2, Z: 0.05}, 1, 20, 11)
	if err != nil {
		t.Fatal(err)
	}
	for _, delta := range []float64{0.07, 0.1, 1. / 8} {
		s, err := NewSet3(context.Background(), sphere, r3.Vec{X: delta, Y: delta, Z: delta}, DefaultPrecision, nil)
		if err != nil {
			t.Fatal(err)
		}
		vol := s.Volume()
		for axis := 0; axis < 3; axis++ {
			beam := vol.Beam(axis)
			for x := beam.Box.Min[0]; x <= beam.Box.Max[0]; x++ {
				for y := beam.Box.Min[1]; y <= beam.Box.Max[1]; y++ {
					r := beam.Ray(csg.V2i{x, y})
					if r.Len()%2 != 0 {
						t.Fatalf("delta %g axis %d line (%d,%d): odd ray %v", delta, axis, x, y, r)
					}
				}
			}
		}
	}
}

func TestSet3Errors(t *testing.T) {
	m, _ := form3.Cube(r3.Vec{}, 1)
	ctx := context.Background()
	if _, err := NewSet3(ctx, m, r3.Vec{X: 1, Y: 0, Z: 1}, DefaultPrecision, nil); err == nil {
		t.Error("expected error for zero spacing")
	}
	if _, err := NewSet3(ctx, m, r3.Vec{X: 1, Y: 1, Z: 1}, 0, nil); err == nil {
		t.Error("expected error for zero precision")
	}
	far, _ := form3.Cube(r3.Vec{X: 1e12}, 1)
	if _, err := NewSet3(ctx, far, r3.Vec{X: 1e-3, Y: 1e-3, Z: 1e-3}, DefaultPrecision, nil); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("got %v, want ErrOutOfRange", err)
	}
	calls := 0
	stop := func(float64, string) bool {
		calls++
		return false
	}
	s, err := NewSet3(ctx, m, r3.Vec{X: .1, Y: .1, Z: .1}, DefaultPrecision, stop)
	if !errors.Is(err, csg.ErrCancelled) || s != nil {
		t.Errorf("got %v, %v; want nil, ErrCancelled", s, err)
	}
	if calls != 1 {
		t.Errorf("progress called %d times after cancelling", calls)
	}
}

func TestSet3Quality(t *testing.T) {
	m, _ := form3.Cube(r3.Vec{}, 1)
	for i := range m.Vertices {
		m.Vertices[i].Q = m.Vertices[i].P.Z
	}
	s, err := NewSet3(context.Background(), m, r3.Vec{X: .25, Y: .25, Z: .25}, DefaultPrecision, nil)
	if err != nil {
		t.Fatal(err)
	}
	vol := s.Volume()
	// X rays cross the ±x faces at height z*0.25; quality is linear in z.
	for z := 0; z < 4; z++ {
		for _, x := range vol.Ray(0, csg.V2i{1, z}).Intercepts() {
			if math.Abs(x.Quality-float64(z)*0.25) > 1e-12 {
				t.Errorf("quality at z=%d: %g", z, x.Quality)
			}
		}
	}
}

func TestVolumeVote(t *testing.T) {
	box := csg.Box3i{Max: csg.V3i{4, 4, 4}}
	delta := r3.Vec{X: 1, Y: 1, Z: 1}
	v := NewVolume(delta, box)
	v.Beam(0).SetRay(csg.V2i{1, 1}, span(0, 4))
	if got := v.IsIn(csg.V3i{2, 1, 1}); got != 0 {
		t.Errorf("disagreeing axes: got %d, want 0", got)
	}
	if v.Inconsistencies() != 1 {
		t.Errorf("inconsistencies %d, want 1", v.Inconsistencies())
	}
	if got := v.Slice(2, 1)[2][1]; got != 0 {
		t.Errorf("slice value %d, want 0", got)
	}
	if v.Inconsistencies() != 1 {
		t.Error("Slice should not count inconsistencies")
	}
	// A zero answer takes the vote of the other two axes.
	v.Beam(1).SetRay(csg.V2i{1, 2}, span(0, 4))
	v.Beam(2).SetRay(csg.V2i{2, 1}, span(0, 4))
	if got := v.IsIn(csg.V3i{2, 1, 1}); got != 1 {
		t.Errorf("agreeing axes: got %d, want 1", got)
	}
	v.Beam(1).SetRay(csg.V2i{1, 0}, span(0, 4))
	v.Beam(2).SetRay(csg.V2i{0, 1}, span(0, 4))
	if got := v.IsIn(csg.V3i{0, 1, 1}); got != 1 {
		t.Errorf("point on crossing: got %d, want 1", got)
	}
}

func TestVolumeDeltaMismatch(t *testing.T) {
	a := NewVolume(r3.Vec{X: 1, Y: 1, Z: 1}, csg.Box3i{Max: csg.V3i{1, 1, 1}})
	b := NewVolume(r3.Vec{X: 1, Y: 2, Z: 1}, csg.Box3i{Max: csg.V3i{1, 1, 1}})
	for _, op := range []csg.Op{csg.Intersection, csg.Union, csg.Difference} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%v: expected panic on spacing mismatch", op)
				}
			}()
			a.Apply(op, b)
		}()
	}
}

func TestVolumeOps(t *testing.T) {
	const delta = 0.25
	for _, test := range []struct {
		op       csg.Op
		in, out  []csg.V3i
		wantBBox csg.Box3i
	}{
		{
			op:       csg.Intersection,
			in:       []csg.V3i{{3, 3, 3}, {2, 3, 3}},
			out:      []csg.V3i{{1, 1, 1}, {5, 5, 5}},
			wantBBox: csg.Box3i{Min: csg.V3i{1, 1, 1}, Max: csg.V3i{5, 5, 5}},
		},
		{
			op:       csg.Union,
			in:       []csg.V3i{{1, 1, 1}, {3, 3, 3}, {5, 5, 5}},
			out:      []csg.V3i{{1, 5, 1}, {7, 7, 7}},
			wantBBox: csg.Box3i{Min: csg.V3i{-1, -1, -1}, Max: csg.V3i{7, 7, 7}},
		},
		{
			op:       csg.Difference,
			in:       []csg.V3i{{1, 1, 1}, {1, 3, 3}},
			out:      []csg.V3i{{3, 3, 3}, {5, 5, 5}},
			wantBBox: csg.Box3i{Min: csg.V3i{-1, -1, -1}, Max: csg.V3i{5, 5, 5}},
		},
	} {
		a := cubeVolume(t, r3.Vec{}, 1, delta)
		b := cubeVolume(t, r3.Vec{X: .5, Y: .5, Z: .5}, 1, delta)
		a.Apply(test.op, b)
		if a.BBox != test.wantBBox {
			t.Errorf("%v: bbox %v, want %v", test.op, a.BBox, test.wantBBox)
		}
		for _, p := range test.in {
			if a.IsIn(p) != 1 {
				t.Errorf("%v: %v should be inside", test.op, p)
			}
		}
		for _, p := range test.out {
			if a.IsIn(p) == 1 {
				t.Errorf("%v: %v should be outside", test.op, p)
			}
		}
		if a.Inconsistencies() != 0 {
			t.Errorf("%v: %d inconsistencies", test.op, a.Inconsistencies())
		}
	}
}
