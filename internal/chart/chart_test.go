package chart

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"rootcalc/internal/rootfind"
)

func TestSample(t *testing.T) {
	t.Parallel()

	xs, ys := Sample(rootfind.FuncOf(rootfind.Evaluate), rootfind.Interval{Left: 0, Right: 2}, 5)
	wantX := []float64{0, 0.5, 1, 1.5, 2}
	if len(xs) != len(wantX) || len(ys) != len(wantX) {
		t.Fatalf("sample count mismatch: xs=%d ys=%d", len(xs), len(ys))
	}
	for i, x := range wantX {
		if xs[i] != x || ys[i] != rootfind.Evaluate(x) {
			t.Fatalf("point %d mismatch: got=(%g, %g) want x=%g", i, xs[i], ys[i], x)
		}
	}
}

func TestSampleSkipsNonFinite(t *testing.T) {
	t.Parallel()

	f := rootfind.FuncOf(func(x float64) float64 {
		if x < 0 {
			return math.NaN()
		}
		return x
	})
	xs, ys := Sample(f, rootfind.Interval{Left: -1, Right: 1}, 3)
	if len(xs) != 2 || xs[0] != 0 || ys[1] != 1 {
		t.Fatalf("expected NaN point to be skipped: xs=%v ys=%v", xs, ys)
	}
}

func TestRenderWritesPNG(t *testing.T) {
	t.Parallel()

	e := rootfind.NewEngine(nil)
	iv := rootfind.Interval{Left: 0.2, Right: 1.5}
	if _, err := e.Run(iv, rootfind.RunConfig{Method: rootfind.FalsePosition, Mode: rootfind.FixedIterations, Iterations: 3}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	var out bytes.Buffer
	if err := Render(&out, "x^3 + x - 2", rootfind.FuncOf(rootfind.Evaluate), iv, e.Trace()); err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG image")
	}
}

func TestRenderNoFiniteValues(t *testing.T) {
	t.Parallel()

	f := rootfind.FuncOf(func(float64) float64 { return math.NaN() })
	err := Render(&bytes.Buffer{}, "nan", f, rootfind.Interval{Left: 0, Right: 1}, nil)
	if !errors.Is(err, ErrNoPoints) {
		t.Fatalf("expected ErrNoPoints, got %v", err)
	}
}
