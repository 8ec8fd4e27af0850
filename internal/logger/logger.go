// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/Domenick1991/boatbooking/config"
	"github.com/sirupsen/logrus"
)

// SetupLogger points the standard logger at stdout and tags every entry with
// the process name ("api", "worker", "migrate").
func SetupLogger(cfg config.LogConfig, service string) {
	configure(logrus.StandardLogger(), cfg, service, os.Stdout)
}

func configure(l *logrus.Logger, cfg config.LogConfig, service string, out io.Writer) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(formatter(cfg.Format))
	l.ReplaceHooks(logrus.LevelHooks{})
	if service != "" {
		l.AddHook(serviceHook{service: service})
	}

	if err != nil {
		l.WithField("level", cfg.Level).Warn("unknown log level, using info")
	}
}

func formatter(format string) logrus.Formatter {
	if format == "text" {
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339}
	}
	return &logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "ts",
			logrus.FieldKeyMsg:  "message",
		},
	}
}

type serviceHook struct {
	service string
}

func (h serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = h.service
	}
	return nil
}
