package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"rootcalc/internal/rootfind"
)

const (
	defaultHTTPAddr        = "127.0.0.1:8080"
	defaultShutdownTimeout = 5 * time.Second
	defaultLogFormat       = LogFormatText
	defaultLogLevel        = slog.LevelInfo

	// начальные значения калькулятора
	defaultLeft       = 0.2
	defaultRight      = 1.5
	defaultMethod     = rootfind.FalsePosition
	defaultMode       = rootfind.FixedIterations
	defaultIterations = 3
	defaultTolerance  = 0.001
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config параметры сервера и значения запуска по умолчанию
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogFormat       LogFormat
	LogLevel        slog.Level

	Target   string
	Interval rootfind.Interval
	Run      rootfind.RunConfig
}

// Load читает конфигурацию из переменных окружения ROOTCALC_*
func Load() (Config, error) {
	cfg := Default()

	if addr := strings.TrimSpace(os.Getenv("ROOTCALC_HTTP_ADDR")); addr != "" {
		cfg.HTTPAddr = addr
	}
	if timeout := strings.TrimSpace(os.Getenv("ROOTCALC_SHUTDOWN_TIMEOUT")); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse ROOTCALC_SHUTDOWN_TIMEOUT: %w", err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("parse ROOTCALC_SHUTDOWN_TIMEOUT: value must be > 0")
		}
		cfg.ShutdownTimeout = parsed
	}
	if level := strings.TrimSpace(os.Getenv("ROOTCALC_LOG_LEVEL")); level != "" {
		parsed, err := parseLogLevel(level)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = parsed
	}
	if format := strings.TrimSpace(os.Getenv("ROOTCALC_LOG_FORMAT")); format != "" {
		parsed, err := parseLogFormat(format)
		if err != nil {
			return Config{}, err
		}
		cfg.LogFormat = parsed
	}

	if target := strings.TrimSpace(os.Getenv("ROOTCALC_TARGET")); target != "" {
		cfg.Target = target
	}
	if err := floatEnv("ROOTCALC_LEFT", &cfg.Interval.Left); err != nil {
		return Config{}, err
	}
	if err := floatEnv("ROOTCALC_RIGHT", &cfg.Interval.Right); err != nil {
		return Config{}, err
	}
	if err := floatEnv("ROOTCALC_TOLERANCE", &cfg.Run.Tolerance); err != nil {
		return Config{}, err
	}
	if method := strings.TrimSpace(os.Getenv("ROOTCALC_METHOD")); method != "" {
		parsed, err := rootfind.ParseMethod(method)
		if err != nil {
			return Config{}, fmt.Errorf("parse ROOTCALC_METHOD: %w", err)
		}
		cfg.Run.Method = parsed
	}
	if mode := strings.TrimSpace(os.Getenv("ROOTCALC_MODE")); mode != "" {
		parsed, err := rootfind.ParseMode(mode)
		if err != nil {
			return Config{}, fmt.Errorf("parse ROOTCALC_MODE: %w", err)
		}
		cfg.Run.Mode = parsed
	}
	if iterations := strings.TrimSpace(os.Getenv("ROOTCALC_ITERATIONS")); iterations != "" {
		parsed, err := strconv.Atoi(iterations)
		if err != nil {
			return Config{}, fmt.Errorf("parse ROOTCALC_ITERATIONS: %w", err)
		}
		cfg.Run.Iterations = parsed
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func Default() Config {
	return Config{
		HTTPAddr:        defaultHTTPAddr,
		ShutdownTimeout: defaultShutdownTimeout,
		LogFormat:       defaultLogFormat,
		LogLevel:        defaultLogLevel,
		Target:          rootfind.DefaultTarget,
		Interval:        rootfind.Interval{Left: defaultLeft, Right: defaultRight},
		Run: rootfind.RunConfig{
			Method:     defaultMethod,
			Mode:       defaultMode,
			Iterations: defaultIterations,
			Tolerance:  defaultTolerance,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("validate config: empty ROOTCALC_HTTP_ADDR")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("validate config: ROOTCALC_SHUTDOWN_TIMEOUT must be > 0")
	}

	switch c.LogLevel {
	case slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError:
	default:
		return fmt.Errorf("validate config: unsupported ROOTCALC_LOG_LEVEL %q", c.LogLevel.String())
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf(
			"validate config: unsupported ROOTCALC_LOG_FORMAT %q (allowed: %q, %q)",
			c.LogFormat,
			LogFormatText,
			LogFormatJSON,
		)
	}

	target, err := rootfind.Lookup(c.Target)
	if err != nil {
		return fmt.Errorf("validate config: ROOTCALC_TARGET: %w", err)
	}
	if err := rootfind.ValidateBracket(target.Func, c.Interval.Left, c.Interval.Right); err != nil {
		return fmt.Errorf("validate config: ROOTCALC_LEFT/ROOTCALC_RIGHT: %w", err)
	}
	// обе настройки проверяются, даже та, что не используется текущим режимом
	if c.Run.Iterations <= 0 {
		return fmt.Errorf("validate config: ROOTCALC_ITERATIONS: %w", rootfind.ErrInvalidIterations)
	}
	if !(c.Run.Tolerance > 0) {
		return errors.New("validate config: ROOTCALC_TOLERANCE must be > 0")
	}
	if err := c.Run.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}

func floatEnv(name string, dst *float64) error {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	// запятая как десятичный разделитель тоже допустима
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = parsed
	return nil
}

func parseLogLevel(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf(
			"parse ROOTCALC_LOG_LEVEL: unsupported value %q (allowed: %q, %q, %q, %q)",
			input,
			slog.LevelDebug.String(),
			slog.LevelInfo.String(),
			slog.LevelWarn.String(),
			slog.LevelError.String(),
		)
	}
}

func parseLogFormat(input string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(LogFormatText):
		return LogFormatText, nil
	case string(LogFormatJSON):
		return LogFormatJSON, nil
	default:
		return "", fmt.Errorf(
			"parse ROOTCALC_LOG_FORMAT: unsupported value %q (allowed: %q, %q)",
			input,
			LogFormatText,
			LogFormatJSON,
		)
	}
}
