package main

import (
	"os"
	"testing"
)

func TestGetenv(t *testing.T) {
	key := "TEST_ENV_VAR_SERVICE"
	def := "fallback"
	if val := getenv(key, def); val != def {
		t.Errorf("expected %q, got %q", def, val)
	}

	os.Setenv(key, "configured")
	defer os.Unsetenv(key)

	if val := getenv(key, def); val != "configured" {
		t.Errorf("expected %q, got %q", "configured", val)
	}
}
