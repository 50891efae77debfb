package observability

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theory-cloud/spadeploy/pkg/sanitization"
)

type testLoggerCore struct {
	mu      sync.Mutex
	entries []LogEntry

	entriesLogged  atomic.Int64
	flushCount     atomic.Int64
	lastFlushNanos atomic.Int64
}

// TestLogger is an in-memory logger for deterministic unit tests.
//
// Derived loggers (via With* calls) share the same underlying core.
type TestLogger struct {
	core *testLoggerCore

	fields   map[string]any
	sanitize SanitizerFunc

	requestID string
	jobID     string

	closed *atomic.Bool
}

var _ StructuredLogger = (*TestLogger)(nil)

func NewTestLogger() *TestLogger {
	return &TestLogger{
		core:     &testLoggerCore{},
		fields:   map[string]any{},
		sanitize: sanitization.SanitizeFieldValue,
		closed:   &atomic.Bool{},
	}
}

// Entries returns a copy of every entry recorded so far.
func (l *TestLogger) Entries() []LogEntry {
	if l == nil || l.core == nil {
		return nil
	}
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	out := make([]LogEntry, len(l.core.entries))
	copy(out, l.core.entries)
	return out
}

// Find returns the first entry whose message contains substr.
func (l *TestLogger) Find(substr string) (LogEntry, bool) {
	for _, entry := range l.Entries() {
		if strings.Contains(entry.Message, substr) {
			return entry, true
		}
	}
	return LogEntry{}, false
}

func (l *TestLogger) Debug(message string, fields ...map[string]any) {
	l.log("debug", message, fields...)
}
func (l *TestLogger) Info(message string, fields ...map[string]any) {
	l.log("info", message, fields...)
}
func (l *TestLogger) Warn(message string, fields ...map[string]any) {
	l.log("warn", message, fields...)
}
func (l *TestLogger) Error(message string, fields ...map[string]any) {
	l.log("error", message, fields...)
}

func (l *TestLogger) WithField(key string, value any) StructuredLogger {
	return l.WithFields(map[string]any{key: value})
}

func (l *TestLogger) WithFields(fields map[string]any) StructuredLogger {
	next := l.clone()
	for k, v := range fields {
		next.fields[k] = v
	}
	return next
}

func (l *TestLogger) WithRequestID(requestID string) StructuredLogger {
	next := l.clone()
	next.requestID = requestID
	return next
}

func (l *TestLogger) WithJobID(jobID string) StructuredLogger {
	next := l.clone()
	next.jobID = jobID
	return next
}

func (l *TestLogger) Flush(ctx context.Context) error {
	if l == nil || l.core == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	l.core.flushCount.Add(1)
	l.core.lastFlushNanos.Store(time.Now().UnixNano())
	return nil
}

func (l *TestLogger) Close() error {
	if l == nil || l.closed == nil {
		return nil
	}
	l.closed.Store(true)
	return nil
}

func (l *TestLogger) IsHealthy() bool {
	return l != nil && l.core != nil && l.closed != nil && !l.closed.Load()
}

func (l *TestLogger) GetStats() LoggerStats {
	if l == nil || l.core == nil {
		return LoggerStats{}
	}
	return LoggerStats{
		LastFlush:     time.Unix(0, l.core.lastFlushNanos.Load()),
		EntriesLogged: l.core.entriesLogged.Load(),
		FlushCount:    l.core.flushCount.Load(),
	}
}

func (l *TestLogger) clone() *TestLogger {
	if l == nil {
		return NewTestLogger()
	}
	nextFields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		nextFields[k] = v
	}
	return &TestLogger{
		core:      l.core,
		fields:    nextFields,
		sanitize:  l.sanitize,
		requestID: l.requestID,
		jobID:     l.jobID,
		closed:    l.closed,
	}
}

func (l *TestLogger) log(level string, message string, fields ...map[string]any) {
	if l == nil || l.core == nil || !l.IsHealthy() {
		return
	}

	allFields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		allFields[k] = v
	}
	for _, set := range fields {
		for k, v := range set {
			allFields[k] = v
		}
	}

	sanitizer := l.sanitize
	if sanitizer == nil {
		sanitizer = sanitization.SanitizeFieldValue
	}
	sanitized := make(map[string]any, len(allFields))
	for k, v := range allFields {
		sanitized[k] = sanitizer(k, v)
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   sanitization.SanitizeLogString(message),
		Fields:    sanitized,
		RequestID: l.requestID,
		JobID:     l.jobID,
	}

	l.core.entriesLogged.Add(1)

	l.core.mu.Lock()
	l.core.entries = append(l.core.entries, entry)
	l.core.mu.Unlock()
}
