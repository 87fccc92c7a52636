package config

import (
	"github.com/MonkyMars/gecho"
)

// NewLogger builds the process logger. Unknown levels fall back to gecho's default.
func NewLogger(level string) *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(
		gecho.WithShowCaller(false),
		gecho.WithLogLevel(gecho.ParseLogLevel(level)),
	))
}

// Discard returns a logger that only reports errors; used when callers pass nil.
func Discard() *gecho.Logger {
	return NewLogger("error")
}
