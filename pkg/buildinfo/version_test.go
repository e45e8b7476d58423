package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.24.0",
		Main:      debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	got := fill(Info{Version: "dev", Commit: "none", Date: "unknown"}, bi)
	want := Info{Version: "v0.3.0", Commit: "abc123", Date: "2026-01-02T03:04:05Z", GoVersion: "go1.24.0"}
	if got != want {
		t.Errorf("fill() = %+v, want %+v", got, want)
	}

	stamped := Info{Version: "v1.0.0", Commit: "feed", Date: "2025-12-31"}
	if got := fill(stamped, bi); got.Version != "v1.0.0" || got.Commit != "feed" || got.Date != "2025-12-31" {
		t.Errorf("ldflags values overwritten: %+v", got)
	}

	bi.Main.Version = "(devel)"
	if got := fill(Info{Version: "dev"}, bi); got.Version != "dev" {
		t.Errorf("devel build version = %q", got.Version)
	}
}

func TestTemplate(t *testing.T) {
	Version, Commit = "v1.2.3", "abc123"
	defer func() { Version, Commit = "dev", "none" }()

	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version v1.2.3\ncommit: abc123\n") {
		t.Errorf("Template() = %q", tmpl)
	}
}
