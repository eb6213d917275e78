// Package cli implements the gapscan commands.
package cli

import "go.uber.org/zap"

// newLogger builds the process logger. Debug mode switches to the
// human-readable development encoder.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
