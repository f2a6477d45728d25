// Package logging defines the small structured logger used across the generator.
package logging

import (
	"io"
	"log/slog"
)

// Logger is the structured logger the generator writes to. Attributes are
// alternating key/value pairs, the same convention log/slog uses:
//
//	logger.Info("unresolvable schema type", "operation", "get /pets", "fallback", "object")
type Logger interface {
	Debug(msg string, attrs ...any)
	Info(msg string, attrs ...any)
	Warn(msg string, attrs ...any)
	Error(msg string, attrs ...any)

	// With returns a Logger that prepends attrs to every record.
	With(attrs ...any) Logger
}

// Nop discards everything. It is the default when no logger is configured.
type Nop struct{}

func (Nop) Debug(_ string, _ ...any) {}
func (Nop) Info(_ string, _ ...any)  {}
func (Nop) Warn(_ string, _ ...any)  {}
func (Nop) Error(_ string, _ ...any) {}
func (n Nop) With(_ ...any) Logger   { return n }

var _ Logger = Nop{}

// SlogAdapter wraps a *slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter returns an adapter for logger, or for slog.Default() when nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, attrs ...any) { s.logger.Debug(msg, attrs...) }
func (s *SlogAdapter) Info(msg string, attrs ...any)  { s.logger.Info(msg, attrs...) }
func (s *SlogAdapter) Warn(msg string, attrs ...any)  { s.logger.Warn(msg, attrs...) }
func (s *SlogAdapter) Error(msg string, attrs ...any) { s.logger.Error(msg, attrs...) }

func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

var _ Logger = (*SlogAdapter)(nil)

// NewText builds a text-format slog logger writing to w. Verbose enables debug records.
func NewText(w io.Writer, verbose bool) Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return NewSlogAdapter(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// OrNop returns l, or Nop when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}
