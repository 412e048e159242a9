package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/soypat/csg"
	"github.com/soypat/csg/render"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "csg",
	Short: "Boolean operations on closed triangle meshes",
	Long: `csg computes the union, intersection and difference of two closed STL
meshes with the Marching Intersections algorithm. Both inputs are sampled on a
regular grid with exact crossings, combined per grid line and reconstructed
with marching cubes, so the output is always closed.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			csg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress and statistics to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadMesh reads an STL file and welds vertices closer than tol.
func loadMesh(path string, tol float64) (*csg.Mesh, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	m, err := render.ReadMesh(fp, tol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
