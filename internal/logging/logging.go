// Package logging wraps zap for the CLI and the storefront API. The core
// packages never log; only the outer layers do.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service is stamped on every entry so API and CLI logs can share a sink.
const Service = "glazeworks"

// L is the process logger. It starts as a console logger at info level and is
// replaced by Initialize once configuration is loaded.
var L *zap.Logger

// Config contains logging configuration
type Config struct {
	// Level is debug, info, warn or error. Unknown levels log at info.
	Level string `json:"level" yaml:"level"`

	// Format is console (alias text) or json
	Format string `json:"format" yaml:"format"`

	// Output is stderr, stdout or a file path
	Output string `json:"output" yaml:"output"`

	// Development adds stack traces to errors
	Development bool `json:"development" yaml:"development"`
}

// DefaultConfig logs to stderr so stdout stays clean for -o json.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

func (c Config) level() zapcore.Level {
	level, err := zapcore.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func (c Config) sink() (zapcore.WriteSyncer, bool, error) {
	switch c.Output {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), true, nil
	case "stdout":
		return zapcore.Lock(os.Stdout), true, nil
	}
	f, err := os.OpenFile(c.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, false, err
	}
	return zapcore.AddSync(f), false, nil
}

// New builds a logger from cfg without touching L.
func New(cfg Config) (*zap.Logger, error) {
	ws, terminal, err := cfg.sink()
	if err != nil {
		return nil, err
	}

	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "json":
		enc = zapcore.NewJSONEncoder(ec)
	default:
		// Colour codes only make sense on a terminal stream.
		if terminal {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			ec.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(ec)
	}

	opts := []zap.Option{zap.AddCaller(), zap.Fields(zap.String("service", Service))}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(zapcore.NewCore(enc, ws, cfg.level()), opts...), nil
}

// Initialize replaces L with a logger built from cfg.
func Initialize(cfg Config) error {
	logger, err := New(cfg)
	if err != nil {
		return err
	}
	L = logger
	return nil
}

// Sync flushes L. Errors from syncing a terminal are ignored.
func Sync() {
	_ = L.Sync()
}

// Component returns L tagged with the component that owns the entries.
func Component(name string) *zap.Logger {
	return L.With(zap.String("component", name))
}

func Debug(msg string, fields ...zap.Field) { L.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L.Error(msg, fields...) }

func init() {
	L, _ = New(DefaultConfig())
}
