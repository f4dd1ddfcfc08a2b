package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/rickgao/fx-ticks/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		wantDebug bool
		wantErr   bool
	}{
		{name: "development debug", cfg: config.LoggingConfig{Level: "debug"}, wantDebug: true},
		{name: "production info", cfg: config.LoggingConfig{Level: "info", Production: true}},
		{name: "bad level", cfg: config.LoggingConfig{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, sync, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("New() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer sync()

			if got := l.Enabled(context.Background(), slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !l.Enabled(context.Background(), slog.LevelError) {
				t.Error("error level should always be enabled")
			}
		})
	}
}
