package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Mode: "debug"},
		Cache:  CacheConfig{Backend: "memory"},
		Series: []SeriesConfig{
			{Slug: "cup-2022", Title: "Cup", Source: SourceStorage, Prefix: "cup-2022"},
			{
				Slug:   "league",
				Title:  "League",
				Source: SourceHTTP,
				Rounds: []RoundSource{{Round: "1", URL: "https://example.com/1.csv"}},
			},
		},
	}
}

func TestLoadConfig_DefaultsAndSeries(t *testing.T) {
	data := filepath.Join(t.TempDir(), "sheets")
	dir := writeConfig(t, `
server:
  mode: debug
storage:
  local_path: `+data+`
cache:
  source_ttl: 30s
series:
  - slug: cup-2022
    title: Cup 2022
    source: storage
    prefix: cup-2022
    refresh_cron: "*/5 * * * *"
  - slug: league
    title: League
    source: http
    rounds:
      - round: "2"
        url: https://example.com/2.csv
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Dir != dir {
		t.Errorf("Dir = %q, want %q", cfg.Dir, dir)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %q", cfg.Server.Port)
	}
	if cfg.Cache.SourceTTL != 30*time.Second {
		t.Errorf("source_ttl = %v, want 30s", cfg.Cache.SourceTTL)
	}
	if cfg.Cache.SeriesTTL != 5*time.Minute {
		t.Errorf("default series_ttl = %v", cfg.Cache.SeriesTTL)
	}
	if cfg.Scoring.QuestionOrder != "lexicographic" {
		t.Errorf("default question order = %q", cfg.Scoring.QuestionOrder)
	}
	if len(cfg.Series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(cfg.Series))
	}
	if cfg.Series[1].Rounds[0].URL != "https://example.com/2.csv" {
		t.Errorf("round url = %q", cfg.Series[1].Rounds[0].URL)
	}
	if _, err := os.Stat(data); err != nil {
		t.Errorf("local storage dir not created: %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing slug", func(c *Config) { c.Series[0].Slug = "" }, "Slug"},
		{"uppercase slug", func(c *Config) { c.Series[0].Slug = "Cup" }, "Slug"},
		{"slash in slug", func(c *Config) { c.Series[0].Slug = "a/b" }, "Slug"},
		{"unknown source", func(c *Config) { c.Series[0].Source = "ftp" }, "Source"},
		{"storage without prefix", func(c *Config) { c.Series[0].Prefix = "" }, "Prefix"},
		{"http without rounds", func(c *Config) { c.Series[1].Rounds = nil }, "Rounds"},
		{"non numeric round", func(c *Config) { c.Series[1].Rounds[0].Round = "final" }, "Round"},
		{"bad round url", func(c *Config) { c.Series[1].Rounds[0].URL = "not a url" }, "URL"},
		{"bad cron", func(c *Config) { c.Series[0].RefreshCron = "every minute" }, "RefreshCron"},
		{"duplicate slug", func(c *Config) { c.Series[1].Slug = "cup-2022" }, "duplicate series slug"},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache backend"},
		{"short secret in release", func(c *Config) {
			c.Server.Mode = "release"
			c.JWT.Secret = "short"
		}, "JWT secret is too short"},
		{"empty secret in release", func(c *Config) { c.Server.Mode = "release" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindSeries(t *testing.T) {
	cfg := validConfig()
	if s, ok := cfg.FindSeries("league"); !ok || s.Title != "League" {
		t.Errorf("FindSeries(league) = %+v, %v", s, ok)
	}
	if _, ok := cfg.FindSeries("missing"); ok {
		t.Error("expected missing series not to be found")
	}
}
