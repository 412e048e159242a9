package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/soypat/csg"
	"github.com/soypat/csg/filter"
	"github.com/soypat/csg/intercept"
	"github.com/soypat/csg/internal/d3"
	"github.com/soypat/csg/render"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var sliceFlags struct {
	axis  string
	level float64
	delta float64
	weld  float64
	out   string
}

var sliceCmd = &cobra.Command{
	Use:   "slice [file]",
	Short: "Show the sampled inside/outside grid of a mesh",
	Long: `Rasterize a mesh and plot the grid plane orthogonal to --axis closest to
--level. Without --out every grid plane is printed as text, '#' inside,
'.' outside and '?' where the axes disagree.`,
	Args: cobra.ExactArgs(1),
	RunE: runSlice,
}

func init() {
	f := sliceCmd.Flags()
	f.StringVar(&sliceFlags.axis, "axis", "z", "plane normal: x, y or z")
	f.Float64Var(&sliceFlags.level, "level", 0, "plane position in model units")
	f.Float64Var(&sliceFlags.delta, "delta", 0, "grid spacing in model units (0 for automatic)")
	f.Float64Var(&sliceFlags.weld, "weld", 1e-6, "distance under which STL vertices are merged")
	f.StringVarP(&sliceFlags.out, "out", "o", "", "save the plane as an image (png, svg, pdf)")
	rootCmd.AddCommand(sliceCmd)
}

func runSlice(cmd *cobra.Command, args []string) error {
	axis := strings.IndexAny("xyz", strings.ToLower(sliceFlags.axis))
	if len(sliceFlags.axis) != 1 || axis < 0 {
		return fmt.Errorf("invalid axis %q", sliceFlags.axis)
	}
	m, err := loadMesh(args[0], sliceFlags.weld)
	if err != nil {
		return err
	}
	if err := csg.Validate(m); err != nil {
		return err
	}
	delta := filter.DefaultDelta(m, m)
	if sliceFlags.delta > 0 {
		d := sliceFlags.delta
		delta = r3.Vec{X: d, Y: d, Z: d}
	}
	s, err := intercept.NewSet3(cmd.Context(), m, delta, intercept.DefaultPrecision, nil)
	if err != nil {
		return err
	}
	vol := s.Volume()
	if sliceFlags.out == "" {
		return vol.WriteSlices(cmd.OutOrStdout())
	}
	level := int(math.Round(sliceFlags.level / d3.Get(delta, axis)))
	return render.PlotSlice(sliceFlags.out, vol, axis, level)
}
