// Package version holds build metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/ai-gateway/chat-relay/internal/version.gitVersion=v1.2.0 \
//	  -X github.com/ai-gateway/chat-relay/internal/version.gitCommit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"

	"github.com/gosuri/uitable"
)

var (
	gitVersion   = "v0.0.0-dev"
	gitCommit    = "unknown"
	gitTreeState = ""
	buildDate    = "1970-01-01T00:00:00Z"
)

// Info describes the running relay binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	TreeState string `json:"treeState,omitempty"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:   gitVersion,
		Commit:    gitCommit,
		TreeState: gitTreeState,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is the version reported in logs, /health and --version,
// e.g. "v1.2.0 (abc1234)" or "v1.2.0-dirty (abc1234)".
func (i Info) String() string {
	v := i.Version
	if i.TreeState == "dirty" {
		v += "-dirty"
	}
	if i.Commit == "" || i.Commit == "unknown" {
		return v
	}
	return fmt.Sprintf("%s (%s)", v, i.Commit)
}

// Table renders every field as aligned "key: value" rows.
func (i Info) Table() string {
	t := uitable.New()
	t.MaxColWidth = 80
	t.Separator = "  "
	for _, row := range [][2]string{
		{"relay", i.String()},
		{"built", i.BuildDate},
		{"go", i.GoVersion},
		{"platform", i.Platform},
	} {
		t.AddRow(row[0]+":", row[1])
	}
	return t.String()
}
