package logger

import (
	"time"
)

// LogAndMeasureExecutionTime writes a debug line when operation begins and
// returns the function that writes its duration once it ends:
//
//	defer logger.LogAndMeasureExecutionTime(log, "mineLoop")()
func LogAndMeasureExecutionTime(log *Logger, operation string) (onEnd func()) {
	start := time.Now()
	log.Debugf("%s started", operation)
	return func() {
		log.Debugf("%s finished after %s", operation, time.Since(start).Round(time.Millisecond))
	}
}
