package rootfind

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		x    float64
		want float64
	}{
		{x: 1, want: 0},
		{x: 0, want: -2},
		{x: 2, want: 8},
		{x: -1, want: -4},
		{x: 1.5, want: 2.875},
		{x: 0.5, want: -1.375},
	}

	for _, tc := range testCases {
		if got := Evaluate(tc.x); got != tc.want {
			t.Fatalf("Evaluate(%g) mismatch: got=%g want=%g", tc.x, got, tc.want)
		}
	}
}

func TestLookupDefault(t *testing.T) {
	t.Parallel()

	target, err := Lookup("")
	if err != nil {
		t.Fatalf("Lookup default error: %v", err)
	}
	if target.Name != DefaultTarget {
		t.Fatalf("default target mismatch: got=%q want=%q", target.Name, DefaultTarget)
	}
	if target.Label != "x^3 + x - 2" {
		t.Fatalf("default label mismatch: got=%q", target.Label)
	}
	y, err := target.Func.Eval(1)
	if err != nil || y != 0 {
		t.Fatalf("default Eval(1): got=%g err=%v", y, err)
	}
}

func TestLookupLabelTarget(t *testing.T) {
	t.Parallel()

	target, err := Lookup("label")
	if err != nil {
		t.Fatalf("Lookup(label) error: %v", err)
	}

	for _, x := range []float64{1, 2, 3.5, 4} {
		got, err := target.Func.Eval(x)
		if err != nil {
			t.Fatalf("Eval(%g) error: %v", x, err)
		}
		want := math.Pow(x, 3.3) - 79
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("Eval(%g) mismatch: got=%g want=%g", x, got, want)
		}
	}

	// корень x^3.3 = 79 лежит между 3 и 4
	if err := ValidateBracket(target.Func, 3, 4); err != nil {
		t.Fatalf("ValidateBracket(3, 4) error: %v", err)
	}
}

func TestLookupUnknown(t *testing.T) {
	t.Parallel()

	_, err := Lookup("sin")
	if !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
}

func TestTargetsSorted(t *testing.T) {
	t.Parallel()

	names := Targets()
	if len(names) != 2 || names[0] != "cubic" || names[1] != "label" {
		t.Fatalf("Targets mismatch: got=%v", names)
	}
}

func TestEvalFuncConcurrentCalls(t *testing.T) {
	t.Parallel()

	f, err := newEvalFunc("x ** 3.3 - 79")
	if err != nil {
		t.Fatalf("newEvalFunc error: %v", err)
	}

	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	got := make([]float64, len(xs))
	errs := make([]error, len(xs))

	var wg sync.WaitGroup
	for i, x := range xs {
		wg.Add(1)
		go func(i int, x float64) {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				got[i], errs[i] = f.Eval(x)
			}
		}(i, x)
	}
	wg.Wait()

	for i, x := range xs {
		if errs[i] != nil {
			t.Fatalf("Eval(%g) error: %v", x, errs[i])
		}
		want := math.Pow(x, 3.3) - 79
		if math.Abs(got[i]-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Fatalf("Eval(%g) mismatch: got=%v want=%v", x, got[i], want)
		}
	}
}
