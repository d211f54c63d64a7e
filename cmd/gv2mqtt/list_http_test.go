package main

import (
	"os"
	"testing"
)

// TestListHTTPCmd_RequiresAPIKey verifies the command fails fast, without
// touching the network, when GOVEE_API_KEY is unset.
func TestListHTTPCmd_RequiresAPIKey(t *testing.T) {
	for _, v := range []string{"GOVEE_API_KEY", "GOVEE_EMAIL", "GOVEE_PASSWORD"} {
		original := os.Getenv(v)
		os.Unsetenv(v)
		defer os.Setenv(v, original)
	}

	cmd := newListHTTPCmd()
	cmd.SetArgs(nil)
	err := cmd.Execute()
	if err == nil {
		t.Fatal("list-http should fail when GOVEE_API_KEY is not set")
	}
}
