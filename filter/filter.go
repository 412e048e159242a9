/*
Package filter runs a boolean operation on two closed triangle meshes.

The inputs are rasterized into intercept volumes on a common grid, combined
exactly and turned back into a mesh with marching cubes:

	res, err := filter.Apply(ctx, a, b, filter.Config{
		Delta:     filter.DefaultDelta(a, b),
		Precision: intercept.DefaultPrecision,
		Op:        csg.Difference,
	})
*/
package filter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soypat/csg"
	"github.com/soypat/csg/intercept"
	"github.com/soypat/csg/internal/d3"
	"github.com/soypat/csg/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnreliable is returned together with a Result when the reconstruction
// met more cross-axis inconsistencies than Config.MaxInconsistencies.
var ErrUnreliable = errors.New("filter: too many inconsistent grid points")

// Config holds the parameters of Apply.
type Config struct {
	// Delta is the grid spacing along each axis, in world units.
	Delta r3.Vec
	// Precision is the number of subdivisions of a grid step vertices are
	// snapped to before rasterization.
	Precision int
	Op        csg.Op
	// MaxInconsistencies is the number of inconsistent grid points tolerated
	// before Apply reports ErrUnreliable. Zero disables the check.
	MaxInconsistencies int
	Progress           csg.ProgressFunc
}

// DefaultConfig returns a union with the default precision. Delta is left
// zero, set it with DefaultDelta.
func DefaultConfig() Config {
	return Config{
		Precision: intercept.DefaultPrecision,
		Op:        csg.Union,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if !d3.Finite(c.Delta) || c.Delta.X <= 0 || c.Delta.Y <= 0 || c.Delta.Z <= 0 {
		return fmt.Errorf("invalid grid spacing %v", c.Delta)
	}
	if c.Precision <= 0 {
		return fmt.Errorf("invalid precision %d", c.Precision)
	}
	switch c.Op {
	case csg.Intersection, csg.Union, csg.Difference:
	default:
		return fmt.Errorf("invalid operation %v", c.Op)
	}
	if c.MaxInconsistencies < 0 {
		return errors.New("negative inconsistency threshold")
	}
	return nil
}

// DefaultDelta returns an isotropic grid spacing of one hundredth of the
// diagonal of the box enclosing both meshes in world space.
func DefaultDelta(a, b *csg.Mesh) r3.Vec {
	box := d3.Box(a.WorldSpace().Bounds()).Extend(d3.Box(b.WorldSpace().Bounds()))
	s := box.Diagonal() / 100
	if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		s = 1
	}
	return r3.Vec{X: s, Y: s, Z: s}
}

// Result is the outcome of Apply.
type Result struct {
	Mesh *csg.Mesh
	// Cells is the number of grid cells visited during reconstruction.
	Cells int
	// Inconsistencies counts grid points on which the three axes did not
	// agree and that were treated as outside.
	Inconsistencies int
}

// Apply computes a Op b. The input meshes are left untouched. Invalid inputs
// return a *csg.InvalidMeshError naming the mesh ("A" or "B"). Cancellation
// through ctx or cfg.Progress returns csg.ErrCancelled.
func Apply(ctx context.Context, a, b *csg.Mesh, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, in := range []struct {
		name string
		m    *csg.Mesh
	}{{"A", a}, {"B", b}} {
		if err := csg.Validate(in.m); err != nil {
			var merr *csg.InvalidMeshError
			if errors.As(err, &merr) {
				merr.Mesh = in.name
				return nil, merr
			}
			return nil, fmt.Errorf("mesh %s: %w", in.name, err)
		}
	}
	start := time.Now()
	sa, err := intercept.NewSet3(ctx, a.WorldSpace(), cfg.Delta, cfg.Precision, cfg.Progress)
	if err != nil {
		return nil, fmt.Errorf("rasterizing A: %w", err)
	}
	sb, err := intercept.NewSet3(ctx, b.WorldSpace(), cfg.Delta, cfg.Precision, cfg.Progress)
	if err != nil {
		return nil, fmt.Errorf("rasterizing B: %w", err)
	}
	vol := sa.Volume()
	vol.Apply(cfg.Op, sb.Volume())

	out := &csg.Mesh{}
	w := intercept.NewWalker()
	err = w.BuildMesh(ctx, out, vol, render.NewMarchingCubes(out, w), cfg.Progress)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Mesh:            out,
		Cells:           w.Cells(),
		Inconsistencies: vol.Inconsistencies(),
	}
	csg.Logger().Info("boolean operation done",
		"op", cfg.Op, "delta", cfg.Delta, "cells", res.Cells,
		"vertices", len(out.Vertices), "faces", len(out.Faces),
		"inconsistencies", res.Inconsistencies, "elapsed", time.Since(start))
	if cfg.MaxInconsistencies > 0 && res.Inconsistencies > cfg.MaxInconsistencies {
		return res, ErrUnreliable
	}
	return res, nil
}
