package config

import (
	"testing"
	"time"

	"chronicle/anchoring/internal/anchor"
	"chronicle/anchoring/internal/editor"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ANCHOR_MIN_MATCH_LENGTH", "ANCHOR_LOCATOR", "ANCHOR_DIFF_THRESHOLD", "ANCHOR_DIFF_DISTANCE",
		"ANCHOR_TEXT_CACHE_SIZE", "ANCHOR_STRATEGY", "REDIS_URL", "ANCHOR_DRAFT_TTL_SECONDS", "ANCHOR_EXPORT_TITLE",
	} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.MinMatchLength != 3 || cfg.Locator != "substring" || cfg.Strategy != "mark" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.TextCacheSize != 128 || cfg.DraftTTL != 7*24*time.Hour || cfg.RedisURL != "" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ANCHOR_MIN_MATCH_LENGTH", "5")
	t.Setenv("ANCHOR_LOCATOR", "diff")
	t.Setenv("ANCHOR_DIFF_THRESHOLD", "0.25")
	t.Setenv("ANCHOR_TEXT_CACHE_SIZE", "oops")
	t.Setenv("ANCHOR_DRAFT_TTL_SECONDS", "60")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg := Load()
	if cfg.MinMatchLength != 5 || cfg.DiffThreshold != 0.25 || cfg.DraftTTL != time.Minute {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.TextCacheSize != 128 {
		t.Errorf("invalid integers should fall back, got %d", cfg.TextCacheSize)
	}
	if cfg.RedisURL != "redis://localhost:6379" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
}

func TestNewLocator(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    anchor.Locator
		wantErr bool
	}{
		{"default", Config{MinMatchLength: 3}, anchor.SubstringLocator{MinLength: 3}, false},
		{"substring", Config{Locator: "substring", MinMatchLength: 4}, anchor.SubstringLocator{MinLength: 4}, false},
		{"diff", Config{Locator: "diff", MinMatchLength: 3, DiffThreshold: 0.4, DiffDistance: 100}, anchor.DiffLocator{MinLength: 3, Threshold: 0.4, Distance: 100}, false},
		{"unknown", Config{Locator: "regex"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.NewLocator()
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewLocator() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NewLocator() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestEditorStrategy(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		want     editor.Strategy
		wantErr  bool
	}{
		{"default", "", editor.MarkStrategy, false},
		{"mark", "mark", editor.MarkStrategy, false},
		{"decoration", "decoration", editor.DecorationStrategy, false},
		{"typo", "decorations", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Config{Strategy: tt.strategy}.EditorStrategy()
			if (err != nil) != tt.wantErr {
				t.Fatalf("EditorStrategy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("EditorStrategy() = %q, want %q", got, tt.want)
			}
		})
	}
}
