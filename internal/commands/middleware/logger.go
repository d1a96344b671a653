package middleware

import (
	"context"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/parallel-finance/paractl/internal/config"
	"github.com/parallel-finance/paractl/internal/logger"
)

// LoggerBeforeFunc initializes the logger and stores it in the context
func LoggerBeforeFunc(c *cli.Context) (logger.Logger, error) {
	logger.InitGlobalLogger(c.Bool("verbose"))
	log := GetLogger(c)

	c.Context = context.WithValue(c.Context, config.LoggerKey, log)
	return log, nil
}

// GetLogger returns the logger stored by LoggerBeforeFunc, or a new one
// writing to the app's error writer.
func GetLogger(c *cli.Context) logger.Logger {
	if c.Context != nil {
		if log, ok := c.Context.Value(config.LoggerKey).(logger.Logger); ok && log != nil {
			return log
		}
	}
	var w io.Writer
	if c.App != nil {
		w = c.App.ErrWriter
	}
	return logger.NewLoggerWithWriter(c.Bool("verbose"), w)
}
