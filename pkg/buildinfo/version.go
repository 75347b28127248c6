// Package buildinfo reports which reftree build is running.
//
// Release builds stamp the variables via ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/reftree/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/reftree/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/reftree/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/reftree
//
// Binaries from "go install" carry no ldflags; [Resolve] then falls back to
// the module version and VCS settings embedded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"

	// Commit is the short git revision.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Info is the resolved build identity served at /healthz.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"built"`
}

// Resolve returns the ldflags values, filling unset ones from the embedded
// module build info when available.
func Resolve() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none":
			info.Commit = s.Value[:min(len(s.Value), 12)]
		case s.Key == "vcs.time" && info.Date == "unknown":
			info.Date = s.Value
		}
	}
	return info
}

// String formats i as a single line, e.g. "reftree v1.2.0 (abc1234, 2026-01-02T03:04:05Z)".
func (i Info) String() string {
	return fmt.Sprintf("reftree %s (%s, %s)", i.Version, i.Commit, i.Date)
}

// Template returns the cobra version template for "reftree --version".
func Template() string {
	return Resolve().String() + "\n"
}
