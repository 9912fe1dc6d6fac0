package utils

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang-stock-newsdigest/pkg/logger"
)

// GoSafe runs fn in a goroutine and turns a panic into a log line instead of a crash.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from panic",
					logger.StringField("panic", fmt.Sprint(r)),
					logger.StringField("stack", string(debug.Stack())),
				)
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether ctx is still live, logging when it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Warn("Context done, stopping", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
