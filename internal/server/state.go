package server

import (
	"context"
	"sync"
	"time"

	"rootcalc/internal/rootfind"
)

// параметры запуска метода
type RunParams struct {
	Target     string          `json:"target"`
	A          float64         `json:"a"`
	B          float64         `json:"b"`
	Method     rootfind.Method `json:"method"`
	Mode       rootfind.Mode   `json:"mode"`
	Iterations int             `json:"iterations"`
	Tolerance  float64         `json:"tolerance"`
}

func (p RunParams) Interval() rootfind.Interval {
	return rootfind.Interval{Left: p.A, Right: p.B}
}

func (p RunParams) Config() rootfind.RunConfig {
	return rootfind.RunConfig{
		Method:     p.Method,
		Mode:       p.Mode,
		Iterations: p.Iterations,
		Tolerance:  p.Tolerance,
	}
}

// состояние одного запуска; поля после mu меняет горутина метода
type RunState struct {
	ID        string
	Params    RunParams
	Label     string
	CreatedAt time.Time
	Cancel    context.CancelFunc

	mu      sync.Mutex
	steps   []rootfind.Step
	outcome *rootfind.Outcome
	err     string
	done    bool
	stopped bool

	finished chan struct{}
}

// RunSnapshot копия состояния для ответа клиенту
type RunSnapshot struct {
	ID        string            `json:"id"`
	Params    RunParams         `json:"params"`
	Label     string            `json:"label"`
	CreatedAt time.Time         `json:"createdAt"`
	Steps     []rootfind.Step   `json:"steps"`
	Outcome   *rootfind.Outcome `json:"outcome,omitempty"`
	Err       string            `json:"err,omitempty"`
	Done      bool              `json:"done"`
	Stopped   bool              `json:"stopped"`
}

func newRunState(id string, p RunParams, label string, cancel context.CancelFunc) *RunState {
	return &RunState{
		ID:        id,
		Params:    p,
		Label:     label,
		CreatedAt: time.Now(),
		Cancel:    cancel,
		steps:     []rootfind.Step{},
		finished:  make(chan struct{}),
	}
}

func (rs *RunState) appendStep(s rootfind.Step) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.steps = append(rs.steps, s)
}

func (rs *RunState) complete(out rootfind.Outcome) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.outcome = &out
	rs.done = true
}

func (rs *RunState) stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.stopped = true
}

func (rs *RunState) fail(msg string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.err = msg
}

func (rs *RunState) close() {
	close(rs.finished)
}

// Finished закрывается, когда горутина метода завершилась
func (rs *RunState) Finished() <-chan struct{} {
	return rs.finished
}

func (rs *RunState) Snapshot() RunSnapshot {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	steps := make([]rootfind.Step, len(rs.steps))
	copy(steps, rs.steps)

	snap := RunSnapshot{
		ID:        rs.ID,
		Params:    rs.Params,
		Label:     rs.Label,
		CreatedAt: rs.CreatedAt,
		Steps:     steps,
		Err:       rs.err,
		Done:      rs.done,
		Stopped:   rs.stopped,
	}
	if rs.outcome != nil {
		out := *rs.outcome
		snap.Outcome = &out
	}
	return snap
}

// Store хранит запуски в памяти процесса
type Store struct {
	mu   sync.Mutex
	runs map[string]*RunState
}

func NewStore() *Store {
	return &Store{runs: map[string]*RunState{}}
}

func (s *Store) Save(rs *RunState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[rs.ID] = rs
}

func (s *Store) Get(id string) *RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}
