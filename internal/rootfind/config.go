package rootfind

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownMethod     = errors.New("rootfind: unknown method")
	ErrUnknownMode       = errors.New("rootfind: unknown stopping mode")
	ErrInvalidIterations = errors.New("rootfind: iterations must be > 0")
)

// Method метод сужения отрезка
type Method int

const (
	Bisection Method = iota + 1
	FalsePosition
)

func (m Method) String() string {
	switch m {
	case Bisection:
		return "bisection"
	case FalsePosition:
		return "false-position"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

func (m Method) MarshalText() ([]byte, error) {
	if m != Bisection && m != FalsePosition {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMethod разбирает имя метода, регистр и разделители не важны
func ParseMethod(s string) (Method, error) {
	switch normalize(s) {
	case "bisection", "biseccion", "dichotomy":
		return Bisection, nil
	case "falseposition", "falsaposicion", "regulafalsi":
		return FalsePosition, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Mode критерий остановки
type Mode int

const (
	FixedIterations Mode = iota + 1
	TruncationError
)

func (m Mode) String() string {
	switch m {
	case FixedIterations:
		return "iterations"
	case TruncationError:
		return "truncation"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != FixedIterations && m != TruncationError {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func ParseMode(s string) (Mode, error) {
	switch normalize(s) {
	case "iterations", "iteraciones", "fixed":
		return FixedIterations, nil
	case "truncation", "truncationerror", "errortruncamiento", "tolerance":
		return TruncationError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "", "_", "", " ", "", "ó", "o", "í", "i").Replace(s)
	return s
}

// RunConfig параметры одного запуска; Iterations используется в режиме
// FixedIterations, Tolerance в режиме TruncationError
type RunConfig struct {
	Method     Method  `json:"method"`
	Mode       Mode    `json:"mode"`
	Iterations int     `json:"iterations,omitempty"`
	Tolerance  float64 `json:"tolerance,omitempty"`
}

func (c RunConfig) Validate() error {
	switch c.Method {
	case Bisection, FalsePosition:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMethod, int(c.Method))
	}

	switch c.Mode {
	case FixedIterations:
		if c.Iterations <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidIterations, c.Iterations)
		}
	case TruncationError:
		if !(c.Tolerance > 0) {
			return fmt.Errorf("%w: tolerance=%g must be > 0", ErrInvalidBracket, c.Tolerance)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(c.Mode))
	}
	return nil
}

// Budget число шагов для отрезка iv: Iterations, либо RequiredSteps+1
// (оценка по делению пополам применяется к обоим методам). Не меньше одного шага.
func (c RunConfig) Budget(iv Interval) (int, error) {
	if c.Mode == FixedIterations {
		return c.Iterations, nil
	}
	k, err := RequiredSteps(iv.Left, iv.Right, c.Tolerance)
	if err != nil {
		return 0, err
	}
	return max(k+1, 1), nil
}
