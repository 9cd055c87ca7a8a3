package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Development gets a text formatter at
// debug level; every other env logs JSON at info. A non-empty level overrides
// the env default when logrus can parse it.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl := logrus.InfoLevel
	if env == "development" {
		lvl = logrus.DebugLevel
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	var bad error
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			bad = err
		} else {
			lvl = parsed
		}
	}
	logger.SetLevel(lvl)

	entry := logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": lvl.String()})
	if bad != nil {
		entry.WithError(bad).Warn("invalid LOG_LEVEL, using default")
	}
	entry.Debug("logger initialized")
	return logger
}

// LogError logs msg at error level with err and fields attached.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	entry := logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}
