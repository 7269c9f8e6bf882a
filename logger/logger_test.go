package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewDevelopment(t *testing.T) {
	l, err := New("development")
	if err != nil {
		t.Fatal(err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger should enable debug level")
	}
}

func TestNewProduction(t *testing.T) {
	l, err := New("production")
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("production logger should not enable debug level")
	}
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("production logger should enable info level")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected a logger for nil input")
	}
}
