package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// TaggedLogger prefixes every message with a fixed source tag, e.g. "[database/connection]".
// Auxiliary arguments are attached as structured fields.
type TaggedLogger struct {
	tag  string
	base *zap.Logger // nil means the process logger at call time
}

// Tagged returns a logger writing to the process logger under tag.
func Tagged(tag string) *TaggedLogger {
	return &TaggedLogger{tag: tag}
}

// TaggedWith returns a tagged logger bound to l instead of the process logger.
func TaggedWith(l *zap.Logger, tag string) *TaggedLogger {
	return &TaggedLogger{tag: tag, base: l}
}

// Tag returns the source tag.
func (t *TaggedLogger) Tag() string { return t.tag }

func (t *TaggedLogger) Info(msg string, args ...any) {
	t.logger().Info(t.message(msg), argFields(args)...)
}

func (t *TaggedLogger) Warn(msg string, args ...any) {
	t.logger().Warn(t.message(msg), argFields(args)...)
}

func (t *TaggedLogger) Error(msg string, args ...any) {
	t.logger().Error(t.message(msg), argFields(args)...)
}

// Success logs at info level with outcome=success.
func (t *TaggedLogger) Success(msg string, args ...any) {
	fields := append(argFields(args), zap.String("outcome", "success"))
	t.logger().Info(t.message(msg), fields...)
}

func (t *TaggedLogger) logger() *zap.Logger {
	if t.base != nil {
		return t.base
	}
	return Get()
}

func (t *TaggedLogger) message(msg string) string {
	if t.tag == "" {
		return strings.TrimSpace(msg)
	}
	return strings.TrimSpace(fmt.Sprintf("[%s] %s", t.tag, msg))
}

func argFields(args []any) []zap.Field {
	fields := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		key := fmt.Sprintf("arg%d", i)
		switch val := arg.(type) {
		case zap.Field:
			fields = append(fields, val)
		case error:
			fields = append(fields, zap.Error(val))
		case string:
			fields = append(fields, zap.String(key, val))
		case int:
			fields = append(fields, zap.Int(key, val))
		case int64:
			fields = append(fields, zap.Int64(key, val))
		case bool:
			fields = append(fields, zap.Bool(key, val))
		default:
			fields = append(fields, zap.Any(key, val))
		}
	}
	return fields
}
