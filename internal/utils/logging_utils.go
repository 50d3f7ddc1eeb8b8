package utils

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var serviceName = "url-shrinker"

// SetServiceName changes the service field attached to every log entry.
func SetServiceName(name string) {
	if name != "" {
		serviceName = name
	}
}

// ExtractServiceName returns the service field attached to every log entry.
func ExtractServiceName() string {
	return serviceName
}

func GenerateTraceId() string {
	return uuid.New().String()
}

func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": serviceName,
	})

	LogEntry(entry, level, message)
}

// LogMessageWithFields logs a message with the trace id of the request bound to ctx.
func LogMessageWithFields(ctx context.Context, level, message string) {
	LogEntry(requestEntry(ctx), level, message)
}

// LogMessageWithFieldsAndError logs a message with the trace id of the request and the given error.
func LogMessageWithFieldsAndError(ctx context.Context, level, message string, err error) {
	LogEntry(requestEntry(ctx).WithError(err), level, message)
}

func requestEntry(ctx context.Context) *log.Entry {
	// gin.Context resolves string keys from its own key store
	traceId, _ := ctx.Value(TraceIdKey.String()).(string)

	return log.WithFields(log.Fields{
		"traceId": traceId,
		"service": serviceName,
	})
}
