package main

import (
	"fmt"

	"github.com/soypat/csg"
	"github.com/spf13/cobra"
)

var checkWeld float64

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check that an STL file can be used as a boolean operand",
	Long:  "Weld the triangles of an STL file and report whether the result is a closed, consistently oriented 2-manifold.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Float64Var(&checkWeld, "weld", 1e-6, "distance under which STL vertices are merged")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	m, err := loadMesh(args[0], checkWeld)
	if err != nil {
		return err
	}
	bb := m.Bounds()
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "File: %s\n", args[0])
	fmt.Fprintf(w, "  Vertices: %d\n", len(m.Vertices))
	fmt.Fprintf(w, "  Triangles: %d\n", len(m.Faces))
	fmt.Fprintf(w, "  Min: (%.6f, %.6f, %.6f)\n", bb.Min.X, bb.Min.Y, bb.Min.Z)
	fmt.Fprintf(w, "  Max: (%.6f, %.6f, %.6f)\n", bb.Max.X, bb.Max.Y, bb.Max.Z)
	fmt.Fprintf(w, "  Surface Area: %.6f square units\n", m.Area())
	if err := csg.Validate(m); err != nil {
		return err
	}
	fmt.Fprintf(w, "  Volume: %.6f cubic units\n", m.Volume())
	fmt.Fprintln(w, "OK")
	return nil
}
