package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a zap logger for the given environment name. "dev" and "development"
// produce a human readable console logger, anything else the JSON production logger.
func New(env string) (*zap.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local":
		return zap.NewDevelopment()
	case "nop", "test":
		return zap.NewNop(), nil
	}
	return zap.NewProduction()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
