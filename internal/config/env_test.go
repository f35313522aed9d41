package config_test

import (
	"os"
	"testing"
)

// unsetForTest removes keys for the rest of the test. Callers register the keys
// with t.Setenv first so the original values come back afterwards.
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unsetenv %s: %v", key, err)
		}
	}
}
