package rootfind

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Knetic/govaluate"
)

// ErrUnknownTarget возвращается, если в каталоге нет функции с таким именем
var ErrUnknownTarget = errors.New("rootfind: unknown target function")

// Func интерфейс для функции f(x)
type Func interface {
	Eval(x float64) (float64, error)
}

// FuncOf превращает обычную функцию в Func
type FuncOf func(x float64) float64

func (fn FuncOf) Eval(x float64) (float64, error) {
	return fn(x), nil
}

// Evaluate вычисляет целевую функцию x^3 + x - 2
func Evaluate(x float64) float64 {
	return x*x*x + x - 2
}

// Target описывает одну фиксированную функцию каталога
type Target struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Func  Func   `json:"-"`
}

const DefaultTarget = "cubic"

type targetSpec struct {
	label string
	expr  string
}

// каталог закрыт: пользовательские выражения не принимаются
var targets = map[string]targetSpec{
	DefaultTarget: {label: "x^3 + x - 2"},
	"label":       {label: "x^3.3 - 79", expr: "x ** 3.3 - 79"},
}

// Targets возвращает имена функций каталога в алфавитном порядке
func Targets() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup находит функцию каталога по имени; пустое имя означает функцию по умолчанию.
// Каждый вызов компилирует выражение заново, поэтому результат можно отдавать в отдельную горутину.
func Lookup(name string) (Target, error) {
	if name == "" {
		name = DefaultTarget
	}
	entry, ok := targets[name]
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
	}
	if entry.expr == "" {
		return Target{Name: name, Label: entry.label, Func: FuncOf(Evaluate)}, nil
	}

	f, err := newEvalFunc(entry.expr)
	if err != nil {
		return Target{}, fmt.Errorf("rootfind: compile %q: %w", name, err)
	}
	return Target{Name: name, Label: entry.label, Func: f}, nil
}

// evalFunc реализация Func на основе govaluate
type evalFunc struct {
	expr *govaluate.EvaluableExpression
}

func newEvalFunc(expr string) (*evalFunc, error) {
	parsed, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, err
	}

	return &evalFunc{expr: parsed}, nil
}

func (f *evalFunc) Eval(x float64) (float64, error) {
	v, err := f.expr.Evaluate(map[string]interface{}{"x": x})
	if err != nil {
		return math.NaN(), err
	}

	// арифметика govaluate всегда даёт float64
	y, ok := v.(float64)
	if !ok {
		return math.NaN(), fmt.Errorf("rootfind: expression returned %T, not a number", v)
	}
	return y, nil
}
