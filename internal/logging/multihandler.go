package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// sink is one named log destination with an optional minimum level of its
// own on top of whatever its handler enforces.
type sink struct {
	name    string
	level   slog.Leveler
	handler slog.Handler
}

func (s sink) enabled(ctx context.Context, level slog.Level) bool {
	if s.level != nil && level < s.level.Level() {
		return false
	}
	return s.handler.Enabled(ctx, level)
}

// FanoutHandler writes every record to each sink that admits its level.
type FanoutHandler struct {
	sinks []sink
}

// NewFanoutHandler returns a handler with no sinks.
func NewFanoutHandler() *FanoutHandler {
	return &FanoutHandler{}
}

// Add registers a sink. Nil handlers are skipped; a nil level leaves gating
// to the handler.
func (f *FanoutHandler) Add(name string, level slog.Leveler, h slog.Handler) *FanoutHandler {
	if h == nil {
		return f
	}
	f.sinks = append(f.sinks, sink{name: name, level: level, handler: h})
	return f
}

// Sinks returns the sink names in registration order.
func (f *FanoutHandler) Sinks() []string {
	names := make([]string, len(f.sinks))
	for i, s := range f.sinks {
		names[i] = s.name
	}
	return names
}

func (f *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range f.sinks {
		if s.enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes r to every admitting sink. A failing sink does not stop the
// others; the failures come back joined and named by sink.
func (f *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range f.sinks {
		if !s.enabled(ctx, r.Level) {
			continue
		}
		if err := s.handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (f *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *FanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *FanoutHandler) derive(fn func(slog.Handler) slog.Handler) *FanoutHandler {
	sinks := make([]sink, len(f.sinks))
	for i, s := range f.sinks {
		sinks[i] = sink{name: s.name, level: s.level, handler: fn(s.handler)}
	}
	return &FanoutHandler{sinks: sinks}
}
