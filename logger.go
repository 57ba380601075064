package phrasecache

// Fields carries structured context for a log line.
type Fields map[string]any

// Logger is a tiny leveled logger. Wrap your logging stack with an adapter
// (see log/zap, log/logrus, log/slog). A nil Logger in Options disables
// logging entirely.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}
