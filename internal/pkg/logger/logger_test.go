package logger

import (
	"testing"

	"defi_copilot/internal/config"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"INFO":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Errorf("ParseLevel(%q) = %v,%v want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseLevel("verbose"); ok {
		t.Errorf("expected unknown level to be reported")
	}
}

func TestNewRespectsLevel(t *testing.T) {
	l, err := New(config.LoggingConfig{Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Errorf("info should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Errorf("warn should be enabled")
	}
}
