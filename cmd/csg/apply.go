package main

import (
	"fmt"
	"math"
	"time"

	"github.com/soypat/csg"
	"github.com/soypat/csg/filter"
	"github.com/soypat/csg/intercept"
	"github.com/soypat/csg/render"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var applyFlags struct {
	op                 string
	delta              float64
	precision          int
	weld               float64
	maxInconsistencies int
	out                string
	png                string
}

var applyCmd = &cobra.Command{
	Use:   "apply [a.stl] [b.stl]",
	Short: "Combine two meshes with a boolean operation",
	Long: `Compute A op B where op is one of union, intersection or difference and
write the result as binary STL. The grid spacing defaults to 1% of the
diagonal of the bounding box of both meshes.`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	f := applyCmd.Flags()
	f.StringVar(&applyFlags.op, "op", "union", "boolean operation: union, intersection or difference")
	f.Float64Var(&applyFlags.delta, "delta", 0, "grid spacing in model units (0 for automatic)")
	f.IntVar(&applyFlags.precision, "precision", intercept.DefaultPrecision, "vertex snapping subdivisions per grid step")
	f.Float64Var(&applyFlags.weld, "weld", 1e-6, "distance under which STL vertices are merged")
	f.IntVar(&applyFlags.maxInconsistencies, "max-inconsistencies", 0, "fail when more grid points are inconsistent (0 disables)")
	f.StringVarP(&applyFlags.out, "out", "o", "out.stl", "output STL file")
	f.StringVar(&applyFlags.png, "png", "", "also save a PNG preview of the result")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	op, err := csg.ParseOp(applyFlags.op)
	if err != nil {
		return err
	}
	a, err := loadMesh(args[0], applyFlags.weld)
	if err != nil {
		return err
	}
	b, err := loadMesh(args[1], applyFlags.weld)
	if err != nil {
		return err
	}
	cfg := filter.DefaultConfig()
	cfg.Op = op
	cfg.Precision = applyFlags.precision
	cfg.MaxInconsistencies = applyFlags.maxInconsistencies
	cfg.Delta = filter.DefaultDelta(a, b)
	if applyFlags.delta > 0 {
		d := applyFlags.delta
		cfg.Delta = r3.Vec{X: d, Y: d, Z: d}
	}
	last := ""
	cfg.Progress = func(percent float64, stage string) bool {
		if stage != last {
			csg.Logger().Debug(stage, "percent", math.Round(percent))
			last = stage
		}
		return true
	}

	start := time.Now()
	res, err := filter.Apply(cmd.Context(), a, b, cfg)
	if err != nil && res == nil {
		return err
	}
	if err != nil {
		// The result is still written so it can be inspected.
		err = unreliable(err, res, applyFlags.out)
	}
	if err := render.CreateSTL(applyFlags.out, render.NewMeshRenderer(res.Mesh)); err != nil {
		return err
	}
	if applyFlags.png != "" {
		if err := render.SavePNG(applyFlags.png, res.Mesh, render.DefaultView()); err != nil {
			return err
		}
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s of %s and %s\n", op, args[0], args[1])
	fmt.Fprintf(w, "  Grid spacing: %.6g\n", cfg.Delta.X)
	fmt.Fprintf(w, "  Cells: %d\n", res.Cells)
	fmt.Fprintf(w, "  Inconsistent points: %d\n", res.Inconsistencies)
	fmt.Fprintf(w, "  Triangles: %d\n", len(res.Mesh.Faces))
	fmt.Fprintf(w, "  Volume: %.6f cubic units\n", res.Mesh.Volume())
	fmt.Fprintf(w, "  Time: %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(w, "Wrote %s\n", applyFlags.out)
	return err
}

// unreliable annotates an error returned together with a result. It is
// reported once by main.
func unreliable(err error, res *filter.Result, out string) error {
	return fmt.Errorf("%w (%d inconsistent points, %s written anyway)", err, res.Inconsistencies, out)
}
