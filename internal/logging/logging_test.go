package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Modes(t *testing.T) {
	tests := []struct {
		name        string
		development bool
		verbose     bool
		wantDebug   bool
	}{
		{"development", true, false, true},
		{"production", false, false, false},
		{"production verbose", false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.development, tt.verbose)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer func() { _ = logger.Sync() }()
			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}
