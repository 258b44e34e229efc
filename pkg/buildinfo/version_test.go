package buildinfo

import (
	"strings"
	"testing"
)

func TestCurrent(t *testing.T) {
	old := Version
	defer func() { Version = old }()
	Version = "v1.2.3"

	if got := Current().Version; got != "v1.2.3" {
		t.Errorf("Current().Version = %q, want v1.2.3", got)
	}
	if !strings.Contains(Template(), "version: v1.2.3") {
		t.Errorf("Template() = %q, want the version line", Template())
	}
}
