package publishers

import "github.com/samvad-hq/samvad-hn-harvester/internal/logger"

// Logger is the structured logger sinks report delivery results to.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return &logger.NopLogger{}
	}
	return log
}
