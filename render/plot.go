package render

import (
	"fmt"

	"github.com/soypat/csg"
	"github.com/soypat/csg/intercept"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// sliceGrid adapts a volume slice to plotter.GridXYZ. Columns follow axis
// (axis+1)%3 and rows (axis+2)%3, in world units.
type sliceGrid struct {
	values [][]int
	// origin and spacing of the two plotted axes.
	x0, dx, y0, dy float64
}

func (g sliceGrid) Dims() (c, r int) { return len(g.values), len(g.values[0]) }
func (g sliceGrid) Z(c, r int) float64 { return float64(g.values[c][r]) }
func (g sliceGrid) X(c int) float64    { return g.x0 + float64(c)*g.dx }
func (g sliceGrid) Y(r int) float64    { return g.y0 + float64(r)*g.dy }

var axisNames = [3]string{"X", "Y", "Z"}

// PlotSlice saves a heat map of the grid plane orthogonal to axis at grid
// coordinate level: inside points are hot, outside points cold and points
// where the three axes disagree in between. The file format follows the
// extension of path.
func PlotSlice(path string, vol *intercept.Volume, axis, level int) error {
	if axis < 0 || axis > 2 {
		return fmt.Errorf("invalid axis %d", axis)
	}
	values := vol.Slice(axis, level)
	if len(values) == 0 || len(values[0]) == 0 {
		return fmt.Errorf("empty %s slice", axisNames[axis])
	}
	c1, c2 := (axis+1)%3, (axis+2)%3
	delta := [3]float64{vol.Delta.X, vol.Delta.Y, vol.Delta.Z}
	plane := vol.BBox.Plane(axis)
	g := sliceGrid{
		values: values,
		x0:     float64(plane.Min[0]) * delta[c1],
		dx:     delta[c1],
		y0:     float64(plane.Min[1]) * delta[c2],
		dy:     delta[c2],
	}
	hm := plotter.NewHeatMap(g, palette.Heat(3, 1))
	hm.Min, hm.Max = -1, 1

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s = %g", axisNames[axis], float64(level)*delta[axis])
	p.X.Label.Text = axisNames[c1]
	p.Y.Label.Text = axisNames[c2]
	p.Add(hm)
	csg.Logger().Debug("plotting slice", "path", path, "axis", axis, "level", level)
	return p.Save(4*vg.Inch, 4*vg.Inch, path)
}
