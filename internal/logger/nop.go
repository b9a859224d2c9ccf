package logger

import "go.uber.org/zap"

// NewNop returns a logger that discards every entry.
func NewNop() Logger {
	return &zapLogger{logger: zap.NewNop()}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return NewNop()
	}
	return l
}
