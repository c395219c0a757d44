/*
Package logger - GORM logger adapter tests
*/
package logger

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"
)

// TestGormLoggerAdapter tests the GORM logger adapter functionality
func TestGormLoggerAdapter(t *testing.T) {
	originalLogger := log
	defer func() { log = originalLogger }()

	testCases := []struct {
		name          string
		logLevel      logger.LogLevel
		shouldLogInfo bool
	}{
		{"Warn Level", logger.Warn, false},
		{"Info Level", logger.Info, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			log = zap.New(core)

			adapter := NewGormLoggerAdapter(tc.logLevel)
			if adapter.LogMode(logger.Info) == nil {
				t.Fatal("LogMode should return a new adapter")
			}

			adapter.Info(context.Background(), "test info message")
			adapter.Warn(context.Background(), "test warn message")
			adapter.Error(context.Background(), "test error message")
			adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
				return "SELECT * FROM users", 1
			}, nil)

			found := map[string]bool{}
			for _, entry := range logs.All() {
				found[entry.Message] = true
				if entry.Message == "SQL query executed" {
					if _, ok := entry.ContextMap()["sql"]; !ok {
						t.Error("SQL query not found in trace log fields")
					}
				}
			}

			if found["test info message"] != tc.shouldLogInfo {
				t.Errorf("info message logged = %v, want %v", found["test info message"], tc.shouldLogInfo)
			}
			if !found["test warn message"] {
				t.Error("Warn message not found in logs")
			}
			if !found["test error message"] {
				t.Error("Error message not found in logs")
			}
			if found["SQL query executed"] != tc.shouldLogInfo {
				t.Errorf("trace logged = %v, want %v", found["SQL query executed"], tc.shouldLogInfo)
			}
		})
	}
}

// TestGormLoggerAdapterWithConfig tests slow queries, ignored not-found errors and request IDs
func TestGormLoggerAdapterWithConfig(t *testing.T) {
	originalLogger := log
	defer func() { log = originalLogger }()

	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)

	adapter := NewGormLoggerAdapterWithConfig(logger.Info, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
	})

	ctx := ContextWithRequestID(context.Background(), "test-request-123")

	adapter.Trace(ctx, time.Now().Add(-15*time.Millisecond), func() (string, int64) {
		return "SELECT * FROM slow_table", 1
	}, nil)

	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM users WHERE id = 999", 0
	}, logger.ErrRecordNotFound)

	foundSlowQuery := false
	foundRequestID := false
	for _, entry := range logs.All() {
		if entry.Message == "Slow SQL query" {
			foundSlowQuery = true
			if entry.ContextMap()["request_id"] == "test-request-123" {
				foundRequestID = true
			}
		}
		if entry.Message == "Database operation failed" {
			t.Error("Record not found error should be ignored with custom config")
		}
	}

	if !foundSlowQuery {
		t.Error("Slow query should be logged with warn level")
	}
	if !foundRequestID {
		t.Error("Request ID should be propagated from context")
	}
}

func TestParseGormLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"debug":  logger.Info,
		"warn":   logger.Warn,
		"error":  logger.Error,
		"silent": logger.Silent,
		"":       logger.Warn,
	}
	for in, want := range cases {
		if got := ParseGormLevel(in); got != want {
			t.Errorf("ParseGormLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
