package utils

import (
	"io"

	"github.com/MrSnakeDoc/mindnest/internal/logger"
)

// MustClose closes c and logs any error under name.
// Use for shutdown paths where a failed close must not abort the rest.
func MustClose(log logger.Logger, name string, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("component", name), logger.Error(err))
		return
	}
	log.Info("closed cleanly", logger.String("component", name))
}
