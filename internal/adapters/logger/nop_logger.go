package logger

import "github.com/baditaflorin/go_string_processor/internal/ports"

// NopLogger discards every record. It is the library default so that the
// text operations stay free of side effects.
type NopLogger struct{}

// NewNopLogger creates a logger that discards everything.
func NewNopLogger() ports.Logger {
	return NopLogger{}
}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Close() error                 { return nil }
