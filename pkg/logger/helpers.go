package logger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// LogRequest logs a completed HTTP request at a level matching its status
func LogRequest(l Logger, method, url string, statusCode int, durationMs float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": durationMs,
	}

	switch {
	case statusCode >= 500:
		l.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		l.WarnWithFields("HTTP request client error", fields)
	default:
		l.DebugWithFields("HTTP request completed", fields)
	}
}

// LogSubmission logs the outcome of one profile submission
func LogSubmission(l Logger, url, status, message string, err error) {
	entry := l.WithFields(map[string]interface{}{
		"profile_url": url,
		"status":      status,
		"message":     message,
	})
	if err != nil {
		entry.WithError(err).Warn("Profile submission failed")
		return
	}
	entry.Info("Profile submitted")
}

// LogPageScan logs the result of scanning one results page
func LogPageScan(l Logger, page, candidates, newProfiles, totalFound int) {
	l.InfoWithFields("Page scanned", map[string]interface{}{
		"page":         page,
		"candidates":   candidates,
		"new_profiles": newProfiles,
		"total_found":  totalFound,
	})
}

// LogProgress logs batch progress
func LogProgress(l Logger, batch, totalBatches int, processed int) {
	percentage := 0.0
	if totalBatches > 0 {
		percentage = float64(batch) / float64(totalBatches) * 100
	}
	l.WithFields(map[string]interface{}{
		"batch":      batch,
		"batches":    totalBatches,
		"processed":  processed,
		"percentage": fmt.Sprintf("%.1f%%", percentage),
	}).Info("Batch complete")
}

// LogComponentStart logs when a component starts
func LogComponentStart(l Logger, component string, config map[string]interface{}) {
	entry := l.WithField("component", component)
	if len(config) > 0 {
		entry = entry.WithFields(config)
	}
	entry.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(l Logger, component string, reason string) {
	l.WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
