package config

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"GAME_DIR", "TEMP_DIR", "TARGET_LOCALE", "COLLECTIONS", "MAX_PAGE_LINES", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.SourceLocale != "en" || cfg.TargetLocale != "pt" || cfg.MaxPageLines != 35000 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Collections, []string{"data", "data_vx1", "data_vx2", "data_vx3"}) {
		t.Fatalf("unexpected collections %v", cfg.Collections)
	}
	if cfg.IndexPath() != filepath.Join("temp", "translate_data.json") {
		t.Fatalf("unexpected index path %s", cfg.IndexPath())
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("translation memory should be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TARGET_LOCALE", "de")
	t.Setenv("COLLECTIONS", " data , ,data_vx1")
	t.Setenv("MAX_PAGE_LINES", "10")
	cfg := Load()
	if cfg.TargetLocale != "de" || cfg.MaxPageLines != 10 {
		t.Fatalf("overrides ignored %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Collections, []string{"data", "data_vx1"}) {
		t.Fatalf("unexpected collections %v", cfg.Collections)
	}
}

func TestGetEnvIntFallback(t *testing.T) {
	t.Setenv("MAX_PAGE_LINES", "many")
	if got := getEnvInt("MAX_PAGE_LINES", 7); got != 7 {
		t.Fatalf("got %d", got)
	}
}
