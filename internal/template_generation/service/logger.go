package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/logging"
)

// Logger provides structured logging for services
type Logger struct {
	base      *zap.Logger
	requestID string
}

// NewLogger creates a logger bound to the request id carried by ctx.
func NewLogger(ctx context.Context, base *zap.Logger) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	requestID := logging.RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{base: base.With(zap.String("request_id", requestID)), requestID: requestID}
}

func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{base: l.base.With(fields...), requestID: l.requestID}
}

func (l *Logger) LogError(operation string, err error) {
	l.base.Error("operation failed", zap.String("operation", operation), zap.Error(err))
}

func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	l.base.Error(fmt.Sprintf(format, args...), zap.String("operation", operation))
}

func (l *Logger) LogInfo(operation string, message string) {
	l.base.Info(message, zap.String("operation", operation))
}

func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.base.Info(fmt.Sprintf(format, args...), zap.String("operation", operation))
}

func (l *Logger) LogWarn(operation string, message string) {
	l.base.Warn(message, zap.String("operation", operation))
}

func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	l.base.Warn(fmt.Sprintf(format, args...), zap.String("operation", operation))
}
