package config

import (
	"context"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

func Init() {
	Logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(getEnvString("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	Logger.SetFormatter(&logrus.JSONFormatter{})
}

// WithContext returns a log entry tagged with the request id set by chi's
// RequestID middleware, if any.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(Logger)
	if ctx == nil {
		return entry
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	return entry
}
