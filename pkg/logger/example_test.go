package logger_test

import (
	"errors"

	"github.com/wonny/fscore/pkg/config"
	"github.com/wonny/fscore/pkg/logger"
)

// Example_withFields demonstrates per-ticker structured logging
func Example_withFields() {
	log := logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "console",
	})

	log.WithTicker("MSFT").WithFields(map[string]interface{}{
		"anchor_year": "2023",
		"score":       "7/9",
	}).Info("Scored ticker")

	log.WithTicker("XYZ").WithError(errors.New("no data")).Warn("Skipped ticker")
}
