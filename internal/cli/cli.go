package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"rootcalc/internal/chart"
	"rootcalc/internal/config"
	"rootcalc/internal/report"
	"rootcalc/internal/rootfind"
)

const usageText = `Usage:
  rootcalc [flags]

Flags:
  -target <name>       fixed function (cubic, label)
  -a <float> -b <float>
  -method <name>       bisection | false-position
  -mode <name>         iterations | truncation
  -iterations <n>
  -tolerance <float>
  -csv                 print the trace as CSV
  -plot <file.png>     write a chart of f(x) and the approximations
  -list                list the available functions
`

// Execute разбирает флаги, запускает метод и печатает таблицу с итогом
func Execute(args []string, stdout, stderr io.Writer, logger *slog.Logger) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("rootcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	target := fs.String("target", cfg.Target, "fixed function name")
	left := fs.Float64("a", cfg.Interval.Left, "left endpoint")
	right := fs.Float64("b", cfg.Interval.Right, "right endpoint")
	method := fs.String("method", cfg.Run.Method.String(), "bisection | false-position")
	mode := fs.String("mode", cfg.Run.Mode.String(), "iterations | truncation")
	iterations := fs.Int("iterations", cfg.Run.Iterations, "fixed iteration count")
	tolerance := fs.Float64("tolerance", cfg.Run.Tolerance, "truncation error bound")
	csvMode := fs.Bool("csv", false, "print the trace as CSV")
	plotPath := fs.String("plot", "", "write a PNG chart to this file")
	list := fs.Bool("list", false, "list the available functions")

	fs.Usage = func() {
		_, _ = io.WriteString(stderr, usageText)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if *list {
		return listTargets(stdout)
	}

	tgt, err := rootfind.Lookup(*target)
	if err != nil {
		return err
	}
	runCfg := rootfind.RunConfig{Iterations: *iterations, Tolerance: *tolerance}
	if runCfg.Method, err = rootfind.ParseMethod(*method); err != nil {
		return err
	}
	if runCfg.Mode, err = rootfind.ParseMode(*mode); err != nil {
		return err
	}

	engine := rootfind.NewEngine(tgt.Func)
	if err := engine.ValidateBracket(*left, *right); err != nil {
		return describeBracketError(err)
	}

	iv := rootfind.Interval{Left: *left, Right: *right}
	logger.Debug("approximating root",
		slog.String("target", tgt.Name),
		slog.String("method", runCfg.Method.String()),
		slog.String("mode", runCfg.Mode.String()),
		slog.Float64("a", iv.Left),
		slog.Float64("b", iv.Right),
	)

	out, err := engine.Run(iv, runCfg)
	if err != nil {
		return err
	}
	steps := engine.Trace()

	if *csvMode {
		if err := report.WriteCSV(stdout, steps); err != nil {
			return err
		}
	} else {
		if err := report.WriteTable(stdout, steps); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(stdout, report.Summary(tgt.Label, out)); err != nil {
			return err
		}
	}

	if *plotPath != "" {
		if err := writePlot(*plotPath, tgt, iv, steps); err != nil {
			return err
		}
		logger.Info("chart written", slog.String("path", *plotPath))
	}

	return nil
}

func listTargets(w io.Writer) error {
	for _, name := range rootfind.Targets() {
		t, err := rootfind.Lookup(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\tf(x) = %s\n", t.Name, t.Label); err != nil {
			return err
		}
	}
	return nil
}

func describeBracketError(err error) error {
	switch {
	case errors.Is(err, rootfind.ErrInvalidOrder):
		return fmt.Errorf("интервал некорректен, требуется a < b: %w", err)
	case errors.Is(err, rootfind.ErrNoSignChange):
		return fmt.Errorf("на интервале, по-видимому, нет корня: %w", err)
	case errors.Is(err, rootfind.ErrNonFiniteValue):
		return fmt.Errorf("значение функции на конце интервала не конечно: %w", err)
	default:
		return err
	}
}

func writePlot(path string, tgt rootfind.Target, iv rootfind.Interval, steps []rootfind.Step) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	if err := chart.Render(f, "f(x) = "+tgt.Label, tgt.Func, iv, steps); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
