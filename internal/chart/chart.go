package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"rootcalc/internal/rootfind"
)

// Samples число точек графика функции
const Samples = 400

var ErrNoPoints = errors.New("chart: function has no finite values on the interval")

// Sample вычисляет n равномерно распределённых точек f на отрезке.
// Точки с ошибкой, NaN или Inf пропускаются, чтобы результат кодировался в JSON.
func Sample(f rootfind.Func, iv rootfind.Interval, n int) (xs, ys []float64) {
	if n < 2 {
		n = 2
	}
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	h := iv.Width() / float64(n-1)
	for i := 0; i < n; i++ {
		x := iv.Left + float64(i)*h
		y, err := f.Eval(x)
		if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

// Render рисует f на отрезке и приближения xn из трассы, пишет PNG в w
func Render(w io.Writer, title string, f rootfind.Func, iv rootfind.Interval, steps []rootfind.Step) error {
	xs, ys := Sample(f, iv, Samples)
	if len(xs) == 0 {
		return ErrNoPoints
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "f(x)"
	p.Add(plotter.NewGrid())

	curve := make(plotter.XYs, len(xs))
	for i := range xs {
		curve[i].X, curve[i].Y = xs[i], ys[i]
	}
	line, err := plotter.NewLine(curve)
	if err != nil {
		return fmt.Errorf("chart: curve: %w", err)
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	p.Legend.Add("f(x)", line)

	zero, err := plotter.NewLine(plotter.XYs{{X: iv.Left, Y: 0}, {X: iv.Right, Y: 0}})
	if err != nil {
		return fmt.Errorf("chart: axis: %w", err)
	}
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(zero)

	if len(steps) > 0 {
		pts := make(plotter.XYs, 0, len(steps))
		for _, s := range steps {
			if math.IsNaN(s.FApprox) || math.IsInf(s.FApprox, 0) {
				continue
			}
			pts = append(pts, plotter.XY{X: s.Approx, Y: s.FApprox})
		}
		if len(pts) > 0 {
			scatter, err := plotter.NewScatter(pts)
			if err != nil {
				return fmt.Errorf("chart: approximations: %w", err)
			}
			scatter.GlyphStyle.Color = plotutil.Color(1)
			scatter.GlyphStyle.Shape = plotutil.Shape(0)
			p.Add(scatter)
			p.Legend.Add("xn", scatter)
		}
	}

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("chart: encode: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
