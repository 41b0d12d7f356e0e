package logger

import (
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type gocronLogger struct {
	log *zap.SugaredLogger
}

// NewGocronLogger routes scheduler logs through zap. gocron passes
// alternating key/value args, which the sugared *w methods accept as is.
func NewGocronLogger(log *zap.Logger) gocron.Logger {
	return &gocronLogger{log: log.Named("scheduler").Sugar()}
}

func (l *gocronLogger) Debug(msg string, args ...any) { l.log.Debugw(msg, args...) }
func (l *gocronLogger) Info(msg string, args ...any)  { l.log.Infow(msg, args...) }
func (l *gocronLogger) Warn(msg string, args ...any)  { l.log.Warnw(msg, args...) }
func (l *gocronLogger) Error(msg string, args ...any) { l.log.Errorw(msg, args...) }
