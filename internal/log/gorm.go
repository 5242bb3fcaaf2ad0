package log

import (
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Info().Msgf(format, args...)
}

// Gorm returns a gorm logger that writes through zerolog.
func Gorm(level string) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch level {
	case "silent", "disabled", "off":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info", "debug":
		lvl = gormlogger.Info
	}

	return gormlogger.New(gormWriter{logger: L().With().Str("source", "gorm").Logger()}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}
