package matter

import (
	"math"
	"testing"

	"github.com/soypat/csg/form3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestScale(t *testing.T) {
	box, err := form3.Box(r3.Vec{}, r3.Vec{X: 10, Y: 10, Z: 10})
	if err != nil {
		t.Fatal(err)
	}
	scaled := PLA.Scale(box)
	if v := box.WorldSpace().Volume(); math.Abs(v-1000) > 1e-9 {
		t.Fatal("input mesh modified")
	}
	k := 1 / (1 - PLA.shrink)
	got := scaled.WorldSpace().Volume()
	want := 1000 * k * k * k
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("scaled volume %g, want %g", got, want)
	}
	bb := scaled.WorldSpace().Bounds()
	if math.Abs(bb.Max.X-10*k) > 1e-12 || bb.Min.X != 0 {
		t.Errorf("scaled bounds %v", bb)
	}
}

func TestInternalDimScale(t *testing.T) {
	got := PLA.InternalDimScale(3)
	if math.Abs(got-(3*1.002+0.45)) > 1e-12 {
		t.Errorf("got %g", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero dimension")
		}
	}()
	PLA.InternalDimScale(0)
}
