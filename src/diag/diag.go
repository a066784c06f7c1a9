// Package diag provides leveled diagnostics for the assay pipeline.
//
// Parsing emits a stream of per-line notices (skipped header rows, malformed
// lines, detection announcements). Routing them through an explicit Sink
// keeps the callers in control of visibility and lets tests assert on what
// was emitted.
package diag

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents severity.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// Sink receives formatted messages that pass the logger's level filter.
type Sink interface {
	Emit(level Level, msg string)
}

// Logger filters by level and forwards to a Sink. A nil *Logger discards
// everything, so library code can call it unconditionally.
type Logger struct {
	level int32
	sink  Sink
}

func New(sink Sink, level Level) *Logger {
	return &Logger{level: int32(level), sink: sink}
}

// NewStderr returns a logger backed by a zap console logger on stderr at
// info level.
func NewStderr() *Logger { return New(NewZapSink(), LevelInfo) }

// SetLevel parses and applies a level name; unknown names are ignored.
func (l *Logger) SetLevel(s string) {
	if l == nil {
		return
	}
	if lv, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		atomic.StoreInt32(&l.level, int32(lv))
	}
}

func (l *Logger) enabled(lv Level) bool {
	return Level(atomic.LoadInt32(&l.level)) <= lv
}

func (l *Logger) logf(lv Level, format string, args ...interface{}) {
	if l == nil || l.sink == nil || !l.enabled(lv) {
		return
	}
	// Only format when there are args; a plain message may contain literal
	// % characters (instrument column headers do).
	if len(args) == 0 {
		l.sink.Emit(lv, format)
		return
	}
	l.sink.Emit(lv, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, a ...interface{}) { l.logf(LevelDebug, format, a...) }
func (l *Logger) Infof(format string, a ...interface{})  { l.logf(LevelInfo, format, a...) }
func (l *Logger) Warnf(format string, a ...interface{})  { l.logf(LevelWarn, format, a...) }
func (l *Logger) Errorf(format string, a ...interface{}) { l.logf(LevelError, format, a...) }

// ZapSink writes diagnostics through a zap SugaredLogger.
type ZapSink struct {
	s *zap.SugaredLogger
}

// NewZapSink builds a console-encoded stderr sink. Level filtering happens
// in Logger, so the zap core accepts everything.
func NewZapSink() *ZapSink {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}
	zl, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		zl = zap.NewNop()
	}
	return &ZapSink{s: zl.Sugar()}
}

func (z *ZapSink) Emit(level Level, msg string) {
	switch level {
	case LevelDebug:
		z.s.Debug(msg)
	case LevelWarn:
		z.s.Warn(msg)
	case LevelError:
		z.s.Error(msg)
	default:
		z.s.Info(msg)
	}
}

// Entry is one captured diagnostic.
type Entry struct {
	Level   Level
	Message string
}

// Capture is a Sink that records entries for assertions in tests.
type Capture struct {
	mu      sync.Mutex
	entries []Entry
}

func (c *Capture) Emit(level Level, msg string) {
	c.mu.Lock()
	c.entries = append(c.entries, Entry{Level: level, Message: msg})
	c.mu.Unlock()
}

// Entries returns a copy of everything emitted so far.
func (c *Capture) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

// Contains reports whether any captured message contains substr.
func (c *Capture) Contains(substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
