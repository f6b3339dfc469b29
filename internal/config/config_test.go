package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
server:
  port: "9090"
jwt:
  secret: file-secret
cohort:
  total_students: 4000
  branches:
    CSE: 1200
    ECE: 800
  years:
    4: 1000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Cohort.TotalStudents != 4000 || cfg.Cohort.Branches["CSE"] != 1200 || cfg.Cohort.Years[4] != 1000 {
		t.Errorf("cohort = %+v", cfg.Cohort)
	}
	if cfg.Cohort.AcademicYearStartMonth != int(time.July) || cfg.Cohort.TrendMonths != 7 {
		t.Errorf("calendar defaults = %+v", cfg.Cohort)
	}
	if cfg.Remote.Timeout != 3*time.Second {
		t.Errorf("remote timeout = %v", cfg.Remote.Timeout)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("COHORT_BRANCHES", "CSE=10, ME=5")
	t.Setenv("COHORT_YEARS", "3=7,4=9")
	t.Setenv("REMOTE_TIMEOUT", "750ms")
	t.Setenv("REMOTE_ALLOW_DEGRADED_START", "false")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("secret = %q", cfg.JWT.Secret)
	}
	if len(cfg.Cohort.Branches) != 2 || cfg.Cohort.Branches["ME"] != 5 {
		t.Errorf("branches = %v", cfg.Cohort.Branches)
	}
	if cfg.Cohort.Years[3] != 7 || cfg.Cohort.Years[4] != 9 {
		t.Errorf("years = %v", cfg.Cohort.Years)
	}
	if cfg.Remote.Timeout != 750*time.Millisecond || cfg.Remote.AllowDegradedStart {
		t.Errorf("remote = %+v", cfg.Remote)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error without a JWT secret")
	}

	t.Setenv("JWT_SECRET", "x")
	t.Setenv("COHORT_TREND_MONTHS", "13")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for trend_months out of range")
	}
}

func TestSetMapFromEnvRejectsMalformed(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("COHORT_BRANCHES", "CSE:10")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for malformed map entry")
	}
}
