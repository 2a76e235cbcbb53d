package rootfind

// Engine связывает функцию с трассой последнего запуска.
// Не предназначен для одновременных запусков из нескольких горутин.
type Engine struct {
	f     Func
	trace []Step
}

func NewEngine(f Func) *Engine {
	if f == nil {
		f = FuncOf(Evaluate)
	}
	return &Engine{f: f}
}

func (e *Engine) ValidateBracket(left, right float64) error {
	return ValidateBracket(e.f, left, right)
}

// Run выполняет Approximate и заменяет трассу. При ошибке трасса содержит
// шаги, выполненные до неё.
func (e *Engine) Run(iv Interval, cfg RunConfig) (Outcome, error) {
	steps := make([]Step, 0, 16)
	out, err := Approximate(e.f, iv, cfg, func(s Step) error {
		steps = append(steps, s)
		return nil
	})
	e.trace = steps
	return out, err
}

// Trace возвращает копию шагов последнего Run по порядку
func (e *Engine) Trace() []Step {
	return append([]Step(nil), e.trace...)
}
