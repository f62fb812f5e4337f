package utils

import (
	"trading-journal/pkg/logger"
)

// GoSafe runs fn in a goroutine and recovers panics so a background worker
// cannot take down the process.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from panic in goroutine", logger.Field("panic", r))
			}
		}()
		fn()
	}()
}
