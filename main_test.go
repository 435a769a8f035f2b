package main

import (
	"testing"

	"github.com/anight/teamcity-cli/cmd"
)

func TestVersionDefault(t *testing.T) {
	if version != "dev" {
		t.Errorf("Expected default version to be 'dev', got %s", version)
	}
}

func TestSetVersion(t *testing.T) {
	cmd.SetVersion("1.2.3")
	if got := cmd.GetVersion(); got != "1.2.3" {
		t.Errorf("Expected version to be 1.2.3, got %s", got)
	}
	cmd.SetVersion(version)
}
