package logger

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger is a Logger that records every message so tests can assert on them.
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	buffer   bytes.Buffer
	zerolog  zerolog.Logger
}

// LogMessage is one recorded log call.
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger returns an empty TestLogger.
func NewTestLogger() *TestLogger {
	return &TestLogger{zerolog: zerolog.Nop()}
}

func (l *TestLogger) root() *boundTestLogger {
	return &boundTestLogger{sink: l}
}

func (l *TestLogger) Debug(msg string) { l.root().Debug(msg) }
func (l *TestLogger) Info(msg string)  { l.root().Info(msg) }
func (l *TestLogger) Warn(msg string)  { l.root().Warn(msg) }
func (l *TestLogger) Error(msg string) { l.root().Error(msg) }
func (l *TestLogger) Fatal(msg string) { l.root().Fatal(msg) }

func (l *TestLogger) DebugWithFields(msg string, f map[string]interface{}) {
	l.root().DebugWithFields(msg, f)
}
func (l *TestLogger) InfoWithFields(msg string, f map[string]interface{}) {
	l.root().InfoWithFields(msg, f)
}
func (l *TestLogger) WarnWithFields(msg string, f map[string]interface{}) {
	l.root().WarnWithFields(msg, f)
}
func (l *TestLogger) ErrorWithFields(msg string, f map[string]interface{}) {
	l.root().ErrorWithFields(msg, f)
}
func (l *TestLogger) FatalWithFields(msg string, f map[string]interface{}) {
	l.root().FatalWithFields(msg, f)
}

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.root().WithField(key, value)
}
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	return l.root().WithFields(fields)
}
func (l *TestLogger) WithError(err error) Logger             { return l.root().WithError(err) }
func (l *TestLogger) WithContext(ctx context.Context) Logger { return l }
func (l *TestLogger) GetZerolog() *zerolog.Logger            { return &l.zerolog }

func (l *TestLogger) record(level, msg string, fields map[string]interface{}, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, LogMessage{Level: level, Message: msg, Fields: fields, Error: err})

	fmt.Fprintf(&l.buffer, "[%s] %s", level, msg)
	if len(fields) > 0 {
		fmt.Fprintf(&l.buffer, " fields=%v", fields)
	}
	if err != nil {
		fmt.Fprintf(&l.buffer, " error=%v", err)
	}
	l.buffer.WriteByte('\n')
}

// GetMessages returns a copy of the recorded messages in log order.
func (l *TestLogger) GetMessages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	messages := make([]LogMessage, len(l.messages))
	copy(messages, l.messages)
	return messages
}

// GetMessagesByLevel returns the recorded messages logged at level,
// for example "WARN".
func (l *TestLogger) GetMessagesByLevel(level string) []LogMessage {
	var filtered []LogMessage
	for _, msg := range l.GetMessages() {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage reports whether a message with exactly this text was logged.
func (l *TestLogger) HasMessage(text string) bool {
	for _, msg := range l.GetMessages() {
		if msg.Message == text {
			return true
		}
	}
	return false
}

// CountMessages returns how many messages contain substr.
func (l *TestLogger) CountMessages(substr string) int {
	n := 0
	for _, msg := range l.GetMessages() {
		if strings.Contains(msg.Message, substr) {
			n++
		}
	}
	return n
}

// HasError reports whether anything was logged at ERROR level.
func (l *TestLogger) HasError() bool {
	return len(l.GetMessagesByLevel("ERROR")) > 0
}

// Clear drops everything recorded so far.
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = l.messages[:0]
	l.buffer.Reset()
}

// String renders the recorded messages one per line.
func (l *TestLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buffer.String()
}

// boundTestLogger carries fields and an error into the shared sink
type boundTestLogger struct {
	sink   *TestLogger
	fields map[string]interface{}
	err    error
}

func (b *boundTestLogger) merge(extra map[string]interface{}) map[string]interface{} {
	if len(b.fields) == 0 && len(extra) == 0 {
		return nil
	}
	merged := make(map[string]interface{}, len(b.fields)+len(extra))
	for k, v := range b.fields {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func (b *boundTestLogger) emit(level, msg string, extra map[string]interface{}) {
	b.sink.record(level, msg, b.merge(extra), b.err)
}

func (b *boundTestLogger) Debug(msg string) { b.emit("DEBUG", msg, nil) }
func (b *boundTestLogger) Info(msg string)  { b.emit("INFO", msg, nil) }
func (b *boundTestLogger) Warn(msg string)  { b.emit("WARN", msg, nil) }
func (b *boundTestLogger) Error(msg string) { b.emit("ERROR", msg, nil) }
func (b *boundTestLogger) Fatal(msg string) { b.emit("FATAL", msg, nil) }

func (b *boundTestLogger) DebugWithFields(msg string, f map[string]interface{}) {
	b.emit("DEBUG", msg, f)
}
func (b *boundTestLogger) InfoWithFields(msg string, f map[string]interface{}) {
	b.emit("INFO", msg, f)
}
func (b *boundTestLogger) WarnWithFields(msg string, f map[string]interface{}) {
	b.emit("WARN", msg, f)
}
func (b *boundTestLogger) ErrorWithFields(msg string, f map[string]interface{}) {
	b.emit("ERROR", msg, f)
}
func (b *boundTestLogger) FatalWithFields(msg string, f map[string]interface{}) {
	b.emit("FATAL", msg, f)
}

func (b *boundTestLogger) WithField(key string, value interface{}) Logger {
	return b.WithFields(map[string]interface{}{key: value})
}

func (b *boundTestLogger) WithFields(fields map[string]interface{}) Logger {
	return &boundTestLogger{sink: b.sink, fields: b.merge(fields), err: b.err}
}

func (b *boundTestLogger) WithError(err error) Logger {
	return &boundTestLogger{sink: b.sink, fields: b.fields, err: err}
}

func (b *boundTestLogger) WithContext(ctx context.Context) Logger { return b }
func (b *boundTestLogger) GetZerolog() *zerolog.Logger            { return &b.sink.zerolog }
