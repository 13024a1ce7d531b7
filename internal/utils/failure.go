package utils

import (
	"fieldops/internal/lifecycle"

	logger "github.com/Bparsons0904/goLogger"
)

// LogFailure logs err and returns it unchanged. Typed lifecycle failures are
// expected outcomes and go out at warn level; anything else is an error.
func LogFailure(log logger.Logger, msg string, err error, args ...any) error {
	if lifecycle.Kind(err) != nil {
		log.Warn(msg, append([]any{"reason", err.Error()}, args...)...)
		return err
	}
	return log.Err(msg, err, args...)
}
