package vp9me

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the field names used by the picker.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler. A nil handler logs
// text to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards everything.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithFrame tags records with a frame index.
func (l *Logger) WithFrame(index int) *Logger {
	return &Logger{Logger: l.Logger.With("frame", index)}
}

// WithSpeed tags records with the speed preset.
func (l *Logger) WithSpeed(speed int) *Logger {
	return &Logger{Logger: l.Logger.With("speed", speed)}
}

// LogFrame logs the setup of a frame.
func (l *Logger) LogFrame(p *FrameParams) {
	l.Debug("frame prepared",
		"qindex", p.QIndex,
		"filter", p.InterpFilter,
		"last", p.RefFlags&LastFlag != 0,
		"golden", p.RefFlags&GoldenFlag != 0,
		"frames_since_golden", p.FramesSinceGolden,
	)
}

// LogDecision logs the outcome of one block.
func (l *Logger) LogDecision(blk *Block, d *Decision) {
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug("block decided",
		"row", blk.Row,
		"col", blk.Col,
		"size", blk.Size,
		"ref", d.Ref,
		"mode", d.Mode,
		"mv", d.MV,
		"filter", d.Filter,
		"skip", d.Skip,
		"rdcost", d.RDCost,
	)
}

// LogError logs a rejected input.
func (l *Logger) LogError(op string, err error) {
	l.Warn(op+" rejected", "error", err)
}
