// Package logrus adapts a *logrus.Entry to veganify.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/veganify"
)

var _ veganify.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New tags every line with component=veganify.
func New(l *logrus.Logger) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", "veganify")}
}

func (l LogrusLogger) Debug(msg string, f veganify.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f veganify.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f veganify.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f veganify.Fields) { l.with(f).Error(msg) }

func (l LogrusLogger) with(f veganify.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	return l.E.WithFields(logrus.Fields(f))
}
