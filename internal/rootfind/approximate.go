package rootfind

import (
	"errors"
	"fmt"
)

var (
	// ErrStopped специальная ошибка для принудительной остановки
	ErrStopped = errors.New("rootfind: stopped by callback")
	// ErrDegenerateSecant: f(a) == f(b), секущая параллельна оси x
	ErrDegenerateSecant = errors.New("rootfind: degenerate secant, f(a) == f(b)")
)

// Step одна строка таблицы: отрезок до сужения, приближение и значения f
type Step struct {
	N       int     `json:"n"`
	Left    float64 `json:"an"`
	Right   float64 `json:"bn"`
	Approx  float64 `json:"xn"`
	FLeft   float64 `json:"fan"`
	FRight  float64 `json:"fbn"`
	FApprox float64 `json:"fxn"`
}

// Outcome итог запуска. Exact означает, что f(Approx) == 0.
type Outcome struct {
	Approx float64 `json:"approx"`
	Exact  bool    `json:"exact"`
	Steps  int     `json:"steps"`
}

// Approximate ищет корень f на отрезке iv выбранным методом.
// onStep вызывается после каждого шага; если вернёт ErrStopped, алгоритм прерывается.
// iv передаётся по значению, поэтому отрезок вызывающего кода после запуска не меняется.
func Approximate(
	f Func,
	iv Interval,
	cfg RunConfig,
	onStep func(Step) error,
) (Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return Outcome{}, err
	}
	if !(iv.Left < iv.Right) {
		return Outcome{}, fmt.Errorf("%w: a=%g b=%g", ErrInvalidOrder, iv.Left, iv.Right)
	}

	fl, err := f.Eval(iv.Left)
	if err != nil {
		return Outcome{}, fmt.Errorf("rootfind: eval f(%g): %w", iv.Left, err)
	}
	fr, err := f.Eval(iv.Right)
	if err != nil {
		return Outcome{}, fmt.Errorf("rootfind: eval f(%g): %w", iv.Right, err)
	}

	// корень на конце отрезка; левый конец проверяется первым
	if fl == 0 {
		return Outcome{Approx: iv.Left, Exact: true}, nil
	}
	if fr == 0 {
		return Outcome{Approx: iv.Right, Exact: true}, nil
	}
	if err := checkSignChange(iv.Left, iv.Right, fl, fr); err != nil {
		return Outcome{}, err
	}

	budget, err := cfg.Budget(iv)
	if err != nil {
		return Outcome{}, err
	}

	var last Outcome
	for n := 0; n < budget; n++ {
		c, err := cfg.Method.next(iv, fl, fr)
		if err != nil {
			return last, err
		}
		fc, err := f.Eval(c)
		if err != nil {
			return last, fmt.Errorf("rootfind: eval f(%g): %w", c, err)
		}

		last = Outcome{Approx: c, Steps: n + 1}

		if onStep != nil {
			err := onStep(Step{
				N:       n,
				Left:    iv.Left,
				Right:   iv.Right,
				Approx:  c,
				FLeft:   fl,
				FRight:  fr,
				FApprox: fc,
			})
			if err != nil {
				if errors.Is(err, ErrStopped) {
					return last, ErrStopped
				}
				return last, err
			}
		}

		if fc == 0 {
			last.Exact = true
			return last, nil
		}
		iv, fl, fr = narrow(iv, fl, fr, c, fc)
	}

	return last, nil
}

// next вычисляет очередное приближение внутри отрезка
func (m Method) next(iv Interval, fl, fr float64) (float64, error) {
	switch m {
	case Bisection:
		return (iv.Left + iv.Right) / 2, nil
	case FalsePosition:
		den := fr - fl
		if den == 0 {
			return 0, fmt.Errorf("%w: a=%g b=%g f=%g", ErrDegenerateSecant, iv.Left, iv.Right, fl)
		}
		return iv.Right - fr*((iv.Right-iv.Left)/den), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
}
