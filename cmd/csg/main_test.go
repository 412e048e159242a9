package main

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/csg"
	"github.com/soypat/csg/filter"
	"github.com/soypat/csg/form3"
	"github.com/soypat/csg/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func writeCube(t *testing.T, dir, name string, min, max float64) string {
	t.Helper()
	m, err := form3.Box(r3.Vec{X: min, Y: min, Z: min}, r3.Vec{X: max, Y: max, Z: max})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := render.CreateSTL(path, render.NewMeshRenderer(m)); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeCube(t, dir, "a.stl", 0, 1)
	b := writeCube(t, dir, "b.stl", 0.5, 1.5)
	out := filepath.Join(dir, "out.stl")
	stdout, err := execute(t, "apply", a, b, "--op", "and", "--delta", "0.05", "-o", out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "intersection of") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	fp, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	m, err := render.ReadMesh(fp, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if err := csg.Validate(m); err != nil {
		t.Fatal(err)
	}
	if v := m.Volume(); math.Abs(v-0.125) > 0.02 {
		t.Errorf("intersection volume %g", v)
	}

	stdout, err = execute(t, "check", out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(stdout), "OK") {
		t.Errorf("check output:\n%s", stdout)
	}
}

func TestApplyCommandErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeCube(t, dir, "a.stl", 0, 1)
	if _, err := execute(t, "apply", a, a, "--op", "xor"); err == nil {
		t.Error("unknown operation accepted")
	}
	if _, err := execute(t, "apply", a, filepath.Join(dir, "missing.stl"), "--op", "union"); err == nil {
		t.Error("missing file accepted")
	}
}

func TestApplyUnreliable(t *testing.T) {
	res := &filter.Result{Inconsistencies: 12}
	err := unreliable(filter.ErrUnreliable, res, "out.stl")
	if !errors.Is(err, filter.ErrUnreliable) {
		t.Fatalf("lost ErrUnreliable: %v", err)
	}
	msg := err.Error()
	if strings.Count(msg, filter.ErrUnreliable.Error()) != 1 || !strings.Contains(msg, "12 inconsistent points") {
		t.Errorf("got %q", msg)
	}
}

func TestSliceCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeCube(t, dir, "a.stl", 0, 1)
	stdout, err := execute(t, "slice", a, "--delta", "0.25")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "#") || !strings.Contains(stdout, ".") {
		t.Errorf("slice dump has no inside or outside points:\n%s", stdout)
	}
	png := filepath.Join(dir, "slice.png")
	if _, err := execute(t, "slice", a, "--delta", "0.25", "--axis", "y", "--level", "0.5", "-o", png); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(png); err != nil {
		t.Error(err)
	}
	if _, err := execute(t, "slice", a, "--axis", "w"); err == nil {
		t.Error("invalid axis accepted")
	}
}
