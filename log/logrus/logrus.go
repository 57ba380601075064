// Package logrus adapts sirupsen/logrus to phrasecache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/phrasecache"
)

type Logger struct{ E *logrus.Entry }

var _ phrasecache.Logger = Logger{}

func (l Logger) Debug(msg string, f phrasecache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}

func (l Logger) Info(msg string, f phrasecache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}

func (l Logger) Warn(msg string, f phrasecache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}

func (l Logger) Error(msg string, f phrasecache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
