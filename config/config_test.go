package config

import (
	"os"
	"testing"
)

func TestGetEnvDefaults(t *testing.T) {
	os.Unsetenv("DOCSHARE_TEST_MISSING")
	if got := getEnv("DOCSHARE_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback for missing variable, got %q", got)
	}

	t.Setenv("DOCSHARE_TEST_SET", "value")
	if got := getEnv("DOCSHARE_TEST_SET", "fallback"); got != "value" {
		t.Errorf("Expected value from environment, got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("DOCSHARE_TEST_INT", "42")
	if got := getEnvInt("DOCSHARE_TEST_INT", 7); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}

	t.Setenv("DOCSHARE_TEST_INT", "not-a-number")
	if got := getEnvInt("DOCSHARE_TEST_INT", 7); got != 7 {
		t.Errorf("Expected default 7 for unparsable value, got %d", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("DOCSHARE_TEST_BOOL", "true")
	if !getEnvBool("DOCSHARE_TEST_BOOL", false) {
		t.Error("Expected true from environment")
	}

	t.Setenv("DOCSHARE_TEST_BOOL", "banana")
	if getEnvBool("DOCSHARE_TEST_BOOL", false) {
		t.Error("Expected default false for unparsable value")
	}
}
