//go:build go1.21

// Package slog adapts the standard library's log/slog to phrasecache.Logger.
package slog

import (
	"context"
	stdslog "log/slog"

	"github.com/unkn0wn-root/phrasecache"
)

type Logger struct{ L *stdslog.Logger }

var _ phrasecache.Logger = Logger{}

func (s Logger) Debug(msg string, f phrasecache.Fields) { s.logAt(stdslog.LevelDebug, msg, f) }
func (s Logger) Info(msg string, f phrasecache.Fields)  { s.logAt(stdslog.LevelInfo, msg, f) }
func (s Logger) Warn(msg string, f phrasecache.Fields)  { s.logAt(stdslog.LevelWarn, msg, f) }
func (s Logger) Error(msg string, f phrasecache.Fields) { s.logAt(stdslog.LevelError, msg, f) }

func (s Logger) logAt(level stdslog.Level, msg string, f phrasecache.Fields) {
	attrs := make([]stdslog.Attr, 0, len(f))
	for k, v := range f {
		attrs = append(attrs, stdslog.Any(k, v))
	}
	s.L.LogAttrs(context.Background(), level, msg, attrs...)
}
