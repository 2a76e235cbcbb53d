package rootfind

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBracket: формула числа шагов не определена для таких входных данных
var ErrInvalidBracket = errors.New("rootfind: invalid bracket for step estimate")

// RequiredSteps возвращает наименьшее k, при котором (right-left)/2^(k+1) <= tol:
// k = ceil(log((right-left)/tol)/log(2) - 1).
// Если отрезок короче tol, результат может быть нулевым или отрицательным.
func RequiredSteps(left, right, tol float64) (int, error) {
	if !(right > left) {
		return 0, fmt.Errorf("%w: a=%g b=%g", ErrInvalidBracket, left, right)
	}
	if !(tol > 0) {
		return 0, fmt.Errorf("%w: tolerance=%g must be > 0", ErrInvalidBracket, tol)
	}
	width := right - left
	if math.IsInf(width, 0) {
		return 0, fmt.Errorf("%w: width of [%g, %g] overflows", ErrInvalidBracket, left, right)
	}
	// разность логарифмов: отношение width/tol может переполниться и при конечных входах
	k := math.Ceil((math.Log(width)-math.Log(tol))/math.Ln2 - 1)
	if math.IsInf(k, 0) || math.IsNaN(k) {
		return 0, fmt.Errorf("%w: a=%g b=%g tolerance=%g", ErrInvalidBracket, left, right, tol)
	}
	return int(k), nil
}
