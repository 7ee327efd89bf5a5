package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// pinnedCore overrides the level of the core it wraps, so a single logger can be
// more or less verbose than the global one.
type pinnedCore struct {
	zapcore.Core

	// level is the only level check applied to entries.
	level zapcore.Level
}

// Enabled ignores the wrapped core's level.
func (c *pinnedCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check routes ent to this core when the pinned level allows it.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *pinnedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With keeps the pinned level on loggers derived with fields.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *pinnedCore) With(fields []zapcore.Field) zapcore.Core {
	return &pinnedCore{
		Core:  c.Core.With(fields),
		level: c.level,
	}
}

// WithLevel pins the level of a derived logger regardless of the global level.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &pinnedCore{Core: core, level: lvl}
	})
}

// Tracer returns the context logger named name with debug entries always enabled.
// Byte-level link traces use it so they show up without lowering the node's log level.
func Tracer(ctx context.Context, name string) *zap.SugaredLogger {
	return FromContext(ctx).WithOptions(WithLevel(zapcore.DebugLevel)).Named(name)
}
