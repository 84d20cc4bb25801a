package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.GoVersion != runtime.Version() {
		t.Fatalf("unexpected go version %q", info.GoVersion)
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Fatalf("unexpected platform %q", info.Platform)
	}
	if info.String() != "v0.0.0-dev" {
		t.Fatalf("unstamped build should report the dev version, got %q", info.String())
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v1.0.0"}, "v1.0.0"},
		{Info{Version: "v1.0.0", Commit: "unknown"}, "v1.0.0"},
		{Info{Version: "v1.0.0", Commit: "abc1234"}, "v1.0.0 (abc1234)"},
		{Info{Version: "v1.0.0", Commit: "abc1234", TreeState: "dirty"}, "v1.0.0-dirty (abc1234)"},
		{Info{Version: "v1.0.0", TreeState: "clean"}, "v1.0.0"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("%+v: got %q, want %q", tt.info, got, tt.want)
		}
	}
}

func TestTable(t *testing.T) {
	info := Info{Version: "v1.0.0", Commit: "abc", BuildDate: "2024-01-01T00:00:00Z", GoVersion: "go1.21", Platform: "linux/amd64"}
	text := info.Table()
	for _, want := range []string{"relay:", "v1.0.0 (abc)", "built:", "2024-01-01T00:00:00Z", "platform:", "linux/amd64"} {
		if !strings.Contains(text, want) {
			t.Fatalf("table missing %q:\n%s", want, text)
		}
	}
}
