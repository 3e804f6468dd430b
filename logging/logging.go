// Package logging holds the process-wide zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

// Init builds the logger. Debug mode uses zap's development config.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}
	sugar = l.Sugar()
	return nil
}

// Get returns the sugared logger, falling back to a production logger
// when Init was never called.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		l, _ := zap.NewProduction()
		sugar = l.Sugar()
	}
	return sugar
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *zap.SugaredLogger { return zap.NewNop().Sugar() }

// Sync flushes any buffered log entries.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
