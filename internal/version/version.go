// Package version describes the running build.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Info identifies a build. Fields are set at link time and may be empty.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Normalized fills empty fields with their display defaults.
func (i Info) Normalized() Info {
	if strings.TrimSpace(i.Version) == "" {
		i.Version = "dev"
	}
	if i.Commit == "" {
		i.Commit = "unknown"
	}
	if i.Date == "" {
		i.Date = "unknown"
	}
	return i
}

// String renders the build as "v1.2.3 (commit: abc1234, built: 2026-01-15)".
func (i Info) String() string {
	n := i.Normalized()
	return fmt.Sprintf("%s (commit: %s, built: %s)", n.Version, n.Commit, n.Date)
}

// UserAgent is sent with node requests.
func (i Info) UserAgent() string {
	return fmt.Sprintf("mipd/%s (%s/%s)", i.Normalized().Version, runtime.GOOS, runtime.GOARCH)
}
