package version

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Version information for flx
const (
	// Version is the current semantic version of flx
	Version = "0.1.0"

	// BuildDate is set during build time (use -ldflags)
	BuildDate = "development"

	// GitCommit is set during build time (use -ldflags)
	GitCommit = "unknown"
)

// FullInfo returns the version with commit, build date and build ID, as
// printed by flx --version.
func FullInfo() string {
	return Version + " (commit: " + GitCommit + ", built: " + BuildDate + ", build: " + BuildID() + ")"
}

var (
	buildID     string
	buildIDOnce sync.Once
)

// BuildID returns a fingerprint of the current binary build: the Go
// version, module path and version, and VCS settings. Scores depend on the
// reference constants compiled in, so two binaries with different build IDs
// may rank the same corpus differently.
func BuildID() string {
	buildIDOnce.Do(func() {
		buildID = computeBuildID()
	})
	return buildID
}

func computeBuildID() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version + "-" + GitCommit
	}

	h := xxhash.New()
	_, _ = h.WriteString(info.GoVersion)
	_, _ = h.WriteString(info.Main.Path)
	_, _ = h.WriteString(info.Main.Version)

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision", "vcs.modified", "vcs.time":
			_, _ = h.WriteString(s.Key)
			_, _ = h.WriteString(s.Value)
		}
	}

	return fmt.Sprintf("%016x", h.Sum64())
}
