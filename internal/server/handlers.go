package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rootcalc/internal/chart"
	"rootcalc/internal/report"
	"rootcalc/internal/rootfind"
	"rootcalc/internal/sse"
)

// тело запроса /start и /validate; отсутствующие поля берутся из конфигурации
type startRequest struct {
	Target     string           `json:"target"`
	A          *float64         `json:"a"`
	B          *float64         `json:"b"`
	Method     *rootfind.Method `json:"method"`
	Mode       *rootfind.Mode   `json:"mode"`
	Iterations *int             `json:"iterations"`
	Tolerance  *float64         `json:"tolerance"`
}

func (s *Server) resolve(req startRequest) RunParams {
	p := RunParams{
		Target:     s.cfg.Target,
		A:          s.cfg.Interval.Left,
		B:          s.cfg.Interval.Right,
		Method:     s.cfg.Run.Method,
		Mode:       s.cfg.Run.Mode,
		Iterations: s.cfg.Run.Iterations,
		Tolerance:  s.cfg.Run.Tolerance,
	}
	if req.Target != "" {
		p.Target = req.Target
	}
	if req.A != nil {
		p.A = *req.A
	}
	if req.B != nil {
		p.B = *req.B
	}
	if req.Method != nil {
		p.Method = *req.Method
	}
	if req.Mode != nil {
		p.Mode = *req.Mode
	}
	if req.Iterations != nil {
		p.Iterations = *req.Iterations
	}
	if req.Tolerance != nil {
		p.Tolerance = *req.Tolerance
	}
	return p
}

func decodeStart(w http.ResponseWriter, r *http.Request) (startRequest, bool) {
	var req startRequest
	// пустое тело означает параметры по умолчанию
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "ошибка JSON: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// bracketError ответ 422 для отклонённого отрезка
func bracketError(w http.ResponseWriter, err error) bool {
	kind := ""
	switch {
	case errors.Is(err, rootfind.ErrInvalidOrder):
		kind = "invalid_order"
	case errors.Is(err, rootfind.ErrNoSignChange):
		kind = "no_sign_change"
	case errors.Is(err, rootfind.ErrNonFiniteValue):
		kind = "non_finite"
	default:
		return false
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error": err.Error(),
		"kind":  kind,
	})
	return true
}

// Validate проверяет отрезок без запуска метода
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "только POST", http.StatusMethodNotAllowed)
		return
	}
	req, ok := decodeStart(w, r)
	if !ok {
		return
	}
	p := s.resolve(req)

	_, span := s.tracer.Start(r.Context(), "rootfind.ValidateBracket",
		trace.WithAttributes(
			attribute.String("target", p.Target),
			attribute.Float64("a", p.A),
			attribute.Float64("b", p.B),
		),
	)
	defer span.End()

	target, err := rootfind.Lookup(p.Target)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rootfind.ValidateBracket(target.Func, p.A, p.B); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bracket rejected")
		if !bracketError(w, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartRun запускает новый процесс поиска корня
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "только POST", http.StatusMethodNotAllowed)
		return
	}
	req, ok := decodeStart(w, r)
	if !ok {
		return
	}
	p := s.resolve(req)

	target, err := rootfind.Lookup(p.Target)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rootfind.ValidateBracket(target.Func, p.A, p.B); err != nil {
		if !bracketError(w, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	if err := p.Config().Validate(); err != nil {
		http.Error(w, "ошибка параметров: "+err.Error(), http.StatusBadRequest)
		return
	}
	p.Target = target.Name

	// предварительно считаем значения функции для графика
	xs, ys := chart.Sample(target.Func, p.Interval(), chart.Samples)

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	rs := newRunState(id, p, target.Label, cancel)
	s.runs.Save(rs)

	s.logger.Info("run started",
		slog.String("run_id", id),
		slog.String("target", p.Target),
		slog.String("method", p.Method.String()),
		slog.String("mode", p.Mode.String()),
	)

	// асинхронный запуск
	go s.execute(ctx, rs, target.Func)

	writeJSON(w, http.StatusOK, map[string]any{
		"id": id,
		"xs": xs,
		"ys": ys,
	})
}

// StopRun прерывание процесса
func (s *Server) StopRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "только POST", http.StatusMethodNotAllowed)
		return
	}
	rs, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	if rs.Cancel != nil {
		rs.Cancel()
	}

	w.WriteHeader(http.StatusNoContent)
}

// Snapshot текущее состояние запуска в JSON
func (s *Server) Snapshot(w http.ResponseWriter, r *http.Request) {
	rs, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rs.Snapshot())
}

// ExportCSV экспорт итераций в CSV
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rs, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=iterations_"+rs.ID+".csv")

	if err := report.WriteCSV(w, rs.Snapshot().Steps); err != nil {
		s.logger.Warn("export csv", slog.String("run_id", rs.ID), slog.Any("error", err))
	}
}

// Table трасса в виде текстовой таблицы и итоговая строка
func (s *Server) Table(w http.ResponseWriter, r *http.Request) {
	rs, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	snap := rs.Snapshot()

	var buf bytes.Buffer
	if err := report.WriteTable(&buf, snap.Steps); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if snap.Outcome != nil {
		buf.WriteString(report.Summary(snap.Label, *snap.Outcome))
		buf.WriteByte('\n')
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// Plot PNG-график функции и приближений
func (s *Server) Plot(w http.ResponseWriter, r *http.Request) {
	rs, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	snap := rs.Snapshot()

	target, err := rootfind.Lookup(snap.Params.Target)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, snap.Label, target.Func, snap.Params.Interval(), snap.Steps); err != nil {
		http.Error(w, "ошибка построения графика: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// Stream SSE-стрим итераций
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "требуется id", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, cancel := s.hub.Subscribe(id)
	defer cancel()

	// заголовки уходят клиенту сразу, не дожидаясь первого события
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			if err := sse.WriteEvent(w, "msg", msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// Targets список функций каталога
func (s *Server) Targets(w http.ResponseWriter, r *http.Request) {
	out := make([]rootfind.Target, 0, 2)
	for _, name := range rootfind.Targets() {
		t, err := rootfind.Lookup(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out = append(out, t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*RunState, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "требуется id", http.StatusBadRequest)
		return nil, false
	}

	rs := s.runs.Get(id)
	if rs == nil {
		http.Error(w, "неизвестный id", http.StatusNotFound)
		return nil, false
	}
	return rs, true
}

// writeJSON кодирует ответ до записи заголовка, чтобы ошибка кодирования
// превратилась в 500, а не в пустое тело со статусом 200
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, "ошибка кодирования JSON: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
