package config

import (
	"github.com/MonkyMars/gecho"
)

// InitializeLogger builds the process logger from the configured level
func InitializeLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(
		gecho.WithShowCaller(!IsProduction()),
		gecho.WithLogLevel(gecho.ParseLogLevel(GetLogLevel())),
	))
}
