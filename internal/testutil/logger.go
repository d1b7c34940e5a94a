// Package testutil contains helpers shared by tests.
package testutil

import (
	"io"

	"github.com/dtroode/identity-server/internal/logger"
)

// MakeNoopLogger returns a logger that discards every record.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0, false)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
