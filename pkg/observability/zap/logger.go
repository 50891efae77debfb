package zap

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	ubzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/theory-cloud/spadeploy/pkg/observability"
	"github.com/theory-cloud/spadeploy/pkg/sanitization"
)

const (
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warn"
	levelError = "error"
)

type Option func(*loggerOptions)

type loggerOptions struct {
	initErr error

	zapLogger *ubzap.Logger
	output    io.Writer
	sanitizer observability.SanitizerFunc
	notifier  observability.ErrorNotifier
}

func WithZapLogger(logger *ubzap.Logger) Option {
	return func(opts *loggerOptions) {
		opts.zapLogger = logger
	}
}

// WithOutput writes encoded entries to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(opts *loggerOptions) {
		opts.output = w
	}
}

func WithSanitizer(fn observability.SanitizerFunc) Option {
	return func(opts *loggerOptions) {
		opts.sanitizer = fn
	}
}

func WithErrorNotifier(notifier observability.ErrorNotifier) Option {
	return func(opts *loggerOptions) {
		opts.notifier = notifier
	}
}

type zapCore struct {
	logger *ubzap.Logger

	sanitizer observability.SanitizerFunc
	notifier  observability.ErrorNotifier

	retryDelay time.Duration
	maxRetries int

	notifyMu sync.Mutex
	notifyCh chan observability.LogEntry
	notifyWg sync.WaitGroup

	closeOnce sync.Once
	closed    atomic.Bool

	entriesLogged   atomic.Int64
	entriesDropped  atomic.Int64
	flushCount      atomic.Int64
	errorCount      atomic.Int64
	lastFlushNanos  atomic.Int64
	totalFlushNanos atomic.Int64
	lastError       atomic.Value
}

type Logger struct {
	core *zapCore
	log  *ubzap.Logger

	fields map[string]any

	requestID string
	jobID     string
}

var _ observability.StructuredLogger = (*Logger)(nil)

func NewZapLogger(config observability.LoggerConfig, options ...Option) (observability.StructuredLogger, error) {
	cfg := normalizeLoggerConfig(config)

	opts := &loggerOptions{
		sanitizer: sanitization.SanitizeFieldValue,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(opts)
	}
	if opts.initErr != nil {
		return nil, opts.initErr
	}

	base := opts.zapLogger
	if base == nil {
		built, err := buildZapLogger(cfg, opts.output)
		if err != nil {
			return nil, err
		}
		base = built
	}

	zcore := &zapCore{
		logger:     base,
		sanitizer:  opts.sanitizer,
		notifier:   opts.notifier,
		retryDelay: cfg.RetryDelay,
		maxRetries: cfg.MaxRetries,
	}
	zcore.lastError.Store("")

	if zcore.notifier != nil {
		zcore.notifyCh = make(chan observability.LogEntry, cfg.BufferSize)
		go zcore.runNotifier()
	}

	return &Logger{
		core:   zcore,
		log:    base,
		fields: map[string]any{},
	}, nil
}

func buildZapLogger(cfg observability.LoggerConfig, output io.Writer) (*ubzap.Logger, error) {
	level, err := parseZapLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	enc := zapEncoderConfig(cfg.EnableCaller)
	var encoder zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "console":
		encoder = zapcore.NewConsoleEncoder(enc)
	case "json", "":
		encoder = zapcore.NewJSONEncoder(enc)
	default:
		return nil, errors.New("observability/zap: unsupported log format")
	}

	if output == nil {
		output = os.Stdout
	}
	base := ubzap.New(zapcore.NewCore(encoder, zapcore.AddSync(output), level))
	if cfg.EnableCaller {
		base = base.WithOptions(ubzap.AddCaller())
	}
	if cfg.EnableStack {
		base = base.WithOptions(ubzap.AddStacktrace(zapcore.ErrorLevel))
	}
	return base, nil
}

func normalizeLoggerConfig(config observability.LoggerConfig) observability.LoggerConfig {
	cfg := config

	if strings.TrimSpace(cfg.Format) == "" {
		if isLambda() {
			cfg.Format = "json"
		} else {
			cfg.Format = "console"
		}
	}
	if strings.TrimSpace(cfg.Level) == "" {
		cfg.Level = levelInfo
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 256
	}
	return cfg
}

func isLambda() bool {
	for _, key := range []string{"AWS_LAMBDA_FUNCTION_NAME", "AWS_LAMBDA_RUNTIME_API", "LAMBDA_TASK_ROOT"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

func parseZapLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case levelDebug:
		return zapcore.DebugLevel, nil
	case levelInfo, "":
		return zapcore.InfoLevel, nil
	case levelWarn, "warning":
		return zapcore.WarnLevel, nil
	case levelError:
		return zapcore.ErrorLevel, nil
	default:
		return 0, errors.New("observability/zap: unsupported log level")
	}
}

func zapEncoderConfig(enableCaller bool) zapcore.EncoderConfig {
	enc := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	if enableCaller {
		enc.CallerKey = "caller"
		enc.EncodeCaller = zapcore.ShortCallerEncoder
	}
	return enc
}

func (l *Logger) Debug(message string, fields ...map[string]any) {
	l.logEntry(levelDebug, message, fields...)
}
func (l *Logger) Info(message string, fields ...map[string]any) {
	l.logEntry(levelInfo, message, fields...)
}
func (l *Logger) Warn(message string, fields ...map[string]any) {
	l.logEntry(levelWarn, message, fields...)
}
func (l *Logger) Error(message string, fields ...map[string]any) {
	l.logEntry(levelError, message, fields...)
}

func (l *Logger) WithField(key string, value any) observability.StructuredLogger {
	return l.WithFields(map[string]any{key: value})
}

func (l *Logger) WithFields(fields map[string]any) observability.StructuredLogger {
	next := l.clone()
	for k, v := range fields {
		next.fields[k] = v
	}
	next.log = next.log.With(anyFields(fields, l.sanitizer())...)
	return next
}

func (l *Logger) WithRequestID(requestID string) observability.StructuredLogger {
	next := l.clone()
	next.requestID = requestID
	next.log = next.log.With(ubzap.String("request_id", sanitization.SanitizeLogString(requestID)))
	return next
}

func (l *Logger) WithJobID(jobID string) observability.StructuredLogger {
	next := l.clone()
	next.jobID = jobID
	next.log = next.log.With(ubzap.String("job_id", sanitization.SanitizeLogString(jobID)))
	return next
}

func (l *Logger) Flush(ctx context.Context) error {
	if l == nil || l.core == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	l.core.flushCount.Add(1)
	err := l.core.logger.Sync()
	if err != nil && !ignorableSyncError(err) {
		l.core.recordError(err)
	} else {
		err = nil
	}

	l.core.waitNotifier(ctx)

	l.core.lastFlushNanos.Store(time.Now().UnixNano())
	l.core.totalFlushNanos.Add(time.Since(start).Nanoseconds())
	return err
}

func (l *Logger) Close() error {
	if l == nil || l.core == nil {
		return nil
	}
	return l.core.close()
}

func (l *Logger) IsHealthy() bool {
	if l == nil || l.core == nil || l.core.closed.Load() {
		return false
	}
	return l.core.lastErrorString() == ""
}

func (l *Logger) GetStats() observability.LoggerStats {
	if l == nil || l.core == nil {
		return observability.LoggerStats{}
	}

	flushCount := l.core.flushCount.Load()
	totalFlush := l.core.totalFlushNanos.Load()

	avg := time.Duration(0)
	if flushCount > 0 && totalFlush > 0 {
		avg = time.Duration(totalFlush / flushCount)
	}

	return observability.LoggerStats{
		LastFlush:      time.Unix(0, l.core.lastFlushNanos.Load()),
		LastError:      l.core.lastErrorString(),
		EntriesLogged:  l.core.entriesLogged.Load(),
		EntriesDropped: l.core.entriesDropped.Load(),
		FlushCount:     flushCount,
		ErrorCount:     l.core.errorCount.Load(),
		AverageFlush:   avg,
	}
}

func (l *Logger) sanitizer() observability.SanitizerFunc {
	if l == nil || l.core == nil || l.core.sanitizer == nil {
		return sanitization.SanitizeFieldValue
	}
	return l.core.sanitizer
}

func (l *Logger) clone() *Logger {
	if l == nil {
		return &Logger{fields: map[string]any{}}
	}
	nextFields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		nextFields[k] = v
	}
	return &Logger{
		core:      l.core,
		log:       l.log,
		fields:    nextFields,
		requestID: l.requestID,
		jobID:     l.jobID,
	}
}

func (l *Logger) logEntry(level string, message string, fields ...map[string]any) {
	if l == nil || l.core == nil || l.log == nil || l.core.closed.Load() {
		return
	}

	message = sanitization.SanitizeLogString(message)
	callFields := mergeFields(fields...)

	l.write(level, message, anyFields(callFields, l.sanitizer()))
	l.core.entriesLogged.Add(1)

	if level == levelError && l.core.notifier != nil {
		l.core.enqueueNotification(l.notificationEntry(level, message, callFields))
	}
}

func (l *Logger) write(level string, message string, fields []ubzap.Field) {
	switch level {
	case levelDebug:
		l.log.Debug(message, fields...)
	case levelWarn:
		l.log.Warn(message, fields...)
	case levelError:
		l.log.Error(message, fields...)
	default:
		l.log.Info(message, fields...)
	}
}

func (l *Logger) notificationEntry(level string, message string, callFields map[string]any) observability.LogEntry {
	merged := mergeFields(l.fields, callFields)
	sanitizer := l.sanitizer()
	sanitized := make(map[string]any, len(merged))
	for k, v := range merged {
		sanitized[k] = sanitizer(k, v)
	}
	return observability.LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    sanitized,
		RequestID: l.requestID,
		JobID:     l.jobID,
	}
}

func anyFields(fields map[string]any, sanitizerFn observability.SanitizerFunc) []ubzap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]ubzap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, ubzap.Any(k, sanitizerFn(k, v)))
	}
	return out
}

// mergeFields merges left to right; later sets win.
func mergeFields(fieldSets ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, set := range fieldSets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

// Syncing a terminal or pipe stdout returns EINVAL/ENOTTY on Linux.
func ignorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}

func (c *zapCore) recordError(err error) {
	c.errorCount.Add(1)
	c.lastError.Store(err.Error())
}

func (c *zapCore) enqueueNotification(entry observability.LogEntry) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if c.closed.Load() || c.notifyCh == nil {
		c.entriesDropped.Add(1)
		return
	}

	c.notifyWg.Add(1)
	select {
	case c.notifyCh <- entry:
	default:
		c.notifyWg.Done()
		c.entriesDropped.Add(1)
	}
}

func (c *zapCore) runNotifier() {
	for entry := range c.notifyCh {
		if err := c.notifyWithRetries(entry); err != nil {
			c.recordError(err)
		}
		c.notifyWg.Done()
	}
}

func (c *zapCore) notifyWithRetries(entry observability.LogEntry) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		err := c.notifier.Notify(context.Background(), entry)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < c.maxRetries-1 {
			time.Sleep(c.retryDelay)
		}
	}
	return lastErr
}

func (c *zapCore) waitNotifier(ctx context.Context) {
	if c.notifier == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		c.notifyWg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}
}

func (c *zapCore) close() error {
	var err error
	c.closeOnce.Do(func() {
		c.notifyMu.Lock()
		c.closed.Store(true)
		if c.notifyCh != nil {
			close(c.notifyCh)
			c.notifyCh = nil
		}
		c.notifyMu.Unlock()

		c.notifyWg.Wait()
		if syncErr := c.logger.Sync(); syncErr != nil && !ignorableSyncError(syncErr) {
			c.recordError(syncErr)
			err = syncErr
		}
	})
	return err
}

func (c *zapCore) lastErrorString() string {
	if c == nil {
		return ""
	}
	lastError, ok := c.lastError.Load().(string)
	if !ok {
		return ""
	}
	return lastError
}
