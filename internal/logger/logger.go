// internal/logger/logger.go
package logger

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/inventory-pos/internal/config"
)

type contextKey string

const (
	loggerKey contextKey = "logger"

	// GinKey is the gin context key holding the per-request entry.
	GinKey = "logger"
)

// Init configures the standard logrus logger from config.
func Init(cfg config.LogConfig, environment string) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)

	if cfg.Format == "json" || environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func WithContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, entry)
}

func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func FromGin(c *gin.Context) *logrus.Entry {
	if entry, ok := c.Get(GinKey); ok {
		if e, ok := entry.(*logrus.Entry); ok {
			return e
		}
	}
	return FromContext(c.Request.Context())
}
