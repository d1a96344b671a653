package logger

import (
	"io"

	"go.uber.org/zap"
)

// NewTestLogger returns a logger that discards everything. Tests that
// need to assert on output should use NewLoggerWithWriter instead.
func NewTestLogger() Logger {
	return &ZapLogger{
		Logger: zap.NewNop(),
		writer: io.Discard,
	}
}
