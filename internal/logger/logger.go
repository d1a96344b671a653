package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)
	Title(msg string)
	// With returns a child logger that always carries the given fields,
	// e.g. zap.String("chain", "relay").
	With(fields ...zap.Field) Logger
	Sugar() *zap.SugaredLogger
}

type ZapLogger struct {
	*zap.Logger
	writer io.Writer
}

// LoggerOptions configures the logger
type LoggerOptions struct {
	Verbose bool
	Writer  io.Writer
}

// NewLogger creates a logger writing to stderr
func NewLogger(verbose bool) Logger {
	return NewLoggerWithOptions(LoggerOptions{
		Verbose: verbose,
		Writer:  os.Stderr,
	})
}

// NewLoggerWithWriter creates a logger with a custom writer
func NewLoggerWithWriter(verbose bool, w io.Writer) Logger {
	return NewLoggerWithOptions(LoggerOptions{
		Verbose: verbose,
		Writer:  w,
	})
}

// NewLoggerWithOptions creates a logger with full configuration options
func NewLoggerWithOptions(opts LoggerOptions) Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    coloredLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(opts.Writer),
		level,
	)

	return &ZapLogger{
		Logger: zap.New(core),
		writer: opts.Writer,
	}
}

func (l *ZapLogger) Title(msg string) {
	fmt.Fprintln(l.writer)
	color.New(color.FgCyan, color.Bold).Fprintln(l.writer, msg)
	fmt.Fprintln(l.writer)
}

func (l *ZapLogger) With(fields ...zap.Field) Logger {
	return &ZapLogger{
		Logger: l.Logger.With(fields...),
		writer: l.writer,
	}
}

func coloredLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var levelColor *color.Color
	var levelText string

	switch l {
	case zapcore.DebugLevel:
		levelColor = color.New(color.FgWhite)
		levelText = "DEBUG"
	case zapcore.InfoLevel:
		levelColor = color.New(color.FgBlue)
		levelText = "INFO"
	case zapcore.WarnLevel:
		levelColor = color.New(color.FgYellow)
		levelText = "WARN"
	case zapcore.ErrorLevel:
		levelColor = color.New(color.FgRed)
		levelText = "ERROR"
	case zapcore.FatalLevel:
		levelColor = color.New(color.FgRed, color.Bold)
		levelText = "FATAL"
	default:
		levelColor = color.New(color.FgWhite)
		levelText = l.String()
	}

	enc.AppendString(levelColor.Sprint(levelText))
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(color.New(color.FgWhite).Sprintf("[%s]", t.Format("15:04:05")))
}

var globalLogger Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(verbose bool) {
	globalLogger = NewLogger(verbose)
}

// GetLogger returns the global logger
func GetLogger() Logger {
	if globalLogger == nil {
		globalLogger = NewLogger(false)
	}
	return globalLogger
}
