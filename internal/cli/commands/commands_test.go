package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/JonMunkholm/datalens/internal/config"
	"github.com/JonMunkholm/datalens/internal/core"
)

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8000,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			RequestTimeout:  time.Second,
			ShutdownTimeout: time.Second,
		},
		Dataset:  config.DatasetConfig{Path: "ml/dataset.csv", MaxFileSize: 1024},
		Analysis: config.AnalysisConfig{MaxConcurrent: 1, MaxWaitTime: time.Second, NEstimators: 10, Seed: 42, TestRatio: 0.2},
		Rate:     config.RateLimitConfig{RequestsPerMinute: 1, AnalyzeLimit: 1},
		Logging:  config.LoggingConfig{Level: "info", Format: "text"},
		History:  config.HistoryConfig{MaxConns: 1, ListLimit: 10},
	}
}

func TestApplyFlags(t *testing.T) {
	newFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.String("data", "", "")
		fs.String("history", "", "")
		fs.String("log-level", "", "")
		fs.String("log-format", "", "")
		return fs
	}

	t.Run("unset flags keep config", func(t *testing.T) {
		cfg := validConfig()
		if err := ApplyFlags(newFlags(), cfg); err != nil {
			t.Fatalf("ApplyFlags: %v", err)
		}
		if cfg.Dataset.Path != "ml/dataset.csv" {
			t.Errorf("Dataset.Path = %q", cfg.Dataset.Path)
		}
	})

	t.Run("set flags override", func(t *testing.T) {
		fs := newFlags()
		if err := fs.Parse([]string{"--data", "x.csv", "--history", "runs.db", "--log-format", "json"}); err != nil {
			t.Fatal(err)
		}
		cfg := validConfig()
		if err := ApplyFlags(fs, cfg); err != nil {
			t.Fatalf("ApplyFlags: %v", err)
		}
		if cfg.Dataset.Path != "x.csv" || cfg.History.URL != "runs.db" || cfg.Logging.Format != "json" {
			t.Errorf("overrides not applied: %+v %+v %+v", cfg.Dataset, cfg.History, cfg.Logging)
		}
	})

	t.Run("invalid override fails validation", func(t *testing.T) {
		fs := newFlags()
		if err := fs.Parse([]string{"--log-format", "xml"}); err != nil {
			t.Fatal(err)
		}
		if err := ApplyFlags(fs, validConfig()); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestConfigFrom(t *testing.T) {
	if _, err := configFrom(context.Background()); err == nil {
		t.Error("expected error for context without config")
	}
	cfg := validConfig()
	got, err := configFrom(WithConfig(context.Background(), cfg))
	if err != nil || got != cfg {
		t.Errorf("configFrom = %v, %v", got, err)
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"table", "json", "yaml"} {
		if err := validateFormat(f); err != nil {
			t.Errorf("validateFormat(%q) = %v", f, err)
		}
	}
	if err := validateFormat("csv"); err == nil {
		t.Error("validateFormat(csv) should fail")
	}
}

func TestRenderRunsTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderRunsTable(&buf, nil)
	if got := buf.String(); got != "(0 runs)\n" {
		t.Errorf("got %q", got)
	}
}

func TestFormatFloat(t *testing.T) {
	v := 0.5
	if got := formatFloat(&v); got != "0.5000" {
		t.Errorf("formatFloat = %q", got)
	}
	if got := formatFloat(nil); got != "-" {
		t.Errorf("formatFloat(nil) = %q", got)
	}
}

func TestUserError(t *testing.T) {
	err := userError(core.ErrEmptyFeatureSet)
	if !errors.Is(err, core.ErrEmptyFeatureSet) {
		t.Errorf("userError lost the cause: %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "(Code: ") {
		t.Errorf("userError(%v) = %q, want catalogue prefix", core.ErrEmptyFeatureSet, got)
	}

	plain := errors.New("boom")
	if got := userError(plain); got != plain {
		t.Errorf("userError should pass unmapped errors through, got %v", got)
	}
}
