package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rootcalc/internal/config"
	"rootcalc/internal/report"
	"rootcalc/internal/rootfind"
	"rootcalc/internal/sse"
)

// Server HTTP-интерфейс калькулятора корней
type Server struct {
	cfg    config.Config
	logger *slog.Logger
	hub    *sse.Hub
	runs   *Store
	tracer trace.Tracer
}

func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		hub:    sse.NewHub(),
		runs:   NewStore(),
		tracer: otel.Tracer("rootcalc/server"),
	}
}

// Handler роутер с логированием запросов
func (s *Server) Handler() http.Handler {
	return requestLoggingMiddleware(s.logger)(s.NewRouter())
}

// Run возвращает запуск по id или nil
func (s *Server) Run(id string) *RunState {
	return s.runs.Get(id)
}

// execute выполняет метод и публикует события в SSE
func (s *Server) execute(ctx context.Context, rs *RunState, f rootfind.Func) {
	defer rs.close()

	ctx, span := s.tracer.Start(ctx, "rootfind.Approximate",
		trace.WithAttributes(
			attribute.String("run_id", rs.ID),
			attribute.String("target", rs.Params.Target),
			attribute.String("method", rs.Params.Method.String()),
			attribute.String("mode", rs.Params.Mode.String()),
			attribute.Float64("a", rs.Params.A),
			attribute.Float64("b", rs.Params.B),
		),
	)
	defer span.End()

	logger := s.logger.With(slog.String("run_id", rs.ID))
	s.publish(rs.ID, map[string]any{
		"type": "start",
		"id":   rs.ID,
	})

	onStep := func(st rootfind.Step) error {
		select {
		case <-ctx.Done():
			return rootfind.ErrStopped
		default:
		}

		rs.appendStep(st)
		s.publish(rs.ID, map[string]any{
			"type": "step",
			"step": st,
		})
		return nil
	}

	out, err := rootfind.Approximate(f, rs.Params.Interval(), rs.Params.Config(), onStep)
	if err != nil {
		if errors.Is(err, rootfind.ErrStopped) {
			rs.stop()
			span.SetAttributes(attribute.Bool("stopped", true))
			logger.Info("run stopped", slog.Int("steps", out.Steps))
			s.publish(rs.ID, map[string]any{
				"type": "stopped",
			})
			return
		}

		msg := "ошибка при вычислении: " + err.Error()
		rs.fail(msg)
		span.RecordError(err)
		span.SetStatus(codes.Error, "approximation failed")
		logger.Warn("run failed", slog.Any("error", err))
		s.publish(rs.ID, map[string]any{
			"type": "error",
			"err":  msg,
		})
		return
	}

	rs.complete(out)
	span.SetAttributes(
		attribute.Int("steps", out.Steps),
		attribute.Bool("exact", out.Exact),
		attribute.Float64("approx", out.Approx),
	)
	logger.Info("run finished",
		slog.Int("steps", out.Steps),
		slog.Bool("exact", out.Exact),
		slog.Float64("approx", out.Approx),
	)
	s.publish(rs.ID, map[string]any{
		"type":    "done",
		"x":       out.Approx,
		"exact":   out.Exact,
		"steps":   out.Steps,
		"summary": report.Summary(rs.Label, out),
	})
}

func (s *Server) publish(id string, event map[string]any) {
	if err := s.hub.PublishJSON(id, event); err != nil {
		s.logger.Error("publish event", slog.String("run_id", id), slog.Any("error", err))
	}
}
