package logging

import (
	"context"
	"io"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Options selects the encoder and sink of a Logger. A nil Output writes JSON
// to stdout and console lines to stderr.
type Options struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

// Logger wraps zap with slog-style key/value arguments. Context variants
// attach the active trace and span ids.
type Logger struct {
	zap    *zap.Logger
	synced atomic.Bool
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

func New(opts Options) *Logger {
	enc := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var (
		encoder zapcore.Encoder
		out     io.Writer = opts.Output
		zopts   []zap.Option
	)
	switch opts.Format {
	case FormatConsole:
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoder = zapcore.NewConsoleEncoder(enc)
		if out == nil {
			out = os.Stderr
		}
	default:
		encoder = zapcore.NewJSONEncoder(enc)
		zopts = append(zopts, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel))
		if out == nil {
			out = os.Stdout
		}
	}

	z := zap.New(zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(out)), opts.Level), zopts...)
	if opts.Name != "" {
		z = z.Named(opts.Name)
	}
	return FromZap(z)
}

// NewJSON is the server logger: JSON lines on stdout.
func NewJSON(level Level) *Logger {
	return New(Options{Level: level, Format: FormatJSON})
}

// NewConsole is the command line logger: colored lines on stderr.
func NewConsole(level Level) *Logger {
	return New(Options{Level: level, Format: FormatConsole})
}

func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{zap: z}
}

func Default() *Logger {
	return defaultLogger.Load()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

func (l *Logger) Zap() *zap.Logger {
	return l.core()
}

func (l *Logger) core() *zap.Logger {
	switch {
	case l != nil && l.zap != nil:
		return l.zap
	case Default() != nil && Default() != l:
		return Default().core()
	default:
		return zap.NewNop()
	}
}

// Sync flushes once; repeated calls return nil.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil || !l.synced.CompareAndSwap(false, true) {
		return nil
	}
	return l.zap.Sync()
}

func (l *Logger) With(args ...any) *Logger {
	return FromZap(l.core().With(fields(nil, args)...))
}

// Named scopes the logger to a component, e.g. "database" or "importer".
func (l *Logger) Named(name string) *Logger {
	return FromZap(l.core().Named(name))
}

func (l *Logger) Debug(msg string, args ...any) { l.write(nil, LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(nil, LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(nil, LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(nil, LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, msg, args)
}

func (l *Logger) write(ctx context.Context, level Level, msg string, args []any) {
	if ce := l.core().Check(level, msg); ce != nil {
		ce.Write(fields(ctx, args)...)
	}
}

// fields turns alternating key/value args into zap fields. A non-string key
// becomes "arg" and a trailing key without a value logs as null.
func fields(ctx context.Context, args []any) []zap.Field {
	out := make([]zap.Field, 0, len(args)/2+2)
	for len(args) > 0 {
		key, ok := args[0].(string)
		if !ok || key == "" {
			key = "arg"
		}
		var value any
		if len(args) > 1 {
			value = args[1]
			args = args[2:]
		} else {
			args = args[1:]
		}

		if err, isErr := value.(error); isErr {
			out = append(out, zap.NamedError(key, err))
		} else {
			out = append(out, zap.Any(key, value))
		}
	}

	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			out = append(out,
				zap.Stringer("trace_id", sc.TraceID()),
				zap.Stringer("span_id", sc.SpanID()),
			)
		}
	}
	return out
}
