package rootfind

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidOrder: левый конец не меньше правого
	ErrInvalidOrder = errors.New("rootfind: left endpoint must be less than right endpoint")
	// ErrNoSignChange: на концах нет смены знака, корень не гарантирован
	ErrNoSignChange = errors.New("rootfind: no sign change between endpoints")
	// ErrNonFiniteValue: f на конце отрезка переполнилась до ±Inf
	ErrNonFiniteValue = errors.New("rootfind: function value at endpoint is infinite")
)

// Interval текущий отрезок [Left, Right], содержащий корень
type Interval struct {
	Left  float64 `json:"a"`
	Right float64 `json:"b"`
}

func (iv Interval) Width() float64 {
	return iv.Right - iv.Left
}

// Sign двузначный знак: ноль считается неотрицательным
type Sign bool

const (
	Negative    Sign = false
	Nonnegative Sign = true
)

func SignOf(v float64) Sign {
	return v >= 0
}

// ValidateBracket проверяет, что left < right и что f меняет знак на концах.
// Произведение, равное нулю, допустимо: тогда корень лежит на конце отрезка.
func ValidateBracket(f Func, left, right float64) error {
	if !(left < right) {
		return fmt.Errorf("%w: a=%g b=%g", ErrInvalidOrder, left, right)
	}
	fl, err := f.Eval(left)
	if err != nil {
		return fmt.Errorf("rootfind: eval f(%g): %w", left, err)
	}
	fr, err := f.Eval(right)
	if err != nil {
		return fmt.Errorf("rootfind: eval f(%g): %w", right, err)
	}
	return checkSignChange(left, right, fl, fr)
}

// NaN в произведении тоже отклоняется
func checkSignChange(left, right, fl, fr float64) error {
	if math.IsInf(fl, 0) || math.IsInf(fr, 0) {
		return fmt.Errorf("%w: f(%g)=%g f(%g)=%g", ErrNonFiniteValue, left, fl, right, fr)
	}
	if !(fl*fr <= 0) {
		return fmt.Errorf("%w: f(%g)=%g f(%g)=%g", ErrNoSignChange, left, fl, right, fr)
	}
	return nil
}

// narrow заменяет тот конец, у которого знак f совпадает со знаком f(c).
// Если не совпал ни один (вырожденный случай), отрезок не меняется.
func narrow(iv Interval, fl, fr, c, fc float64) (Interval, float64, float64) {
	switch SignOf(fc) {
	case SignOf(fl):
		iv.Left, fl = c, fc
	case SignOf(fr):
		iv.Right, fr = c, fc
	}
	return iv, fl, fr
}
