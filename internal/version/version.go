package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build metadata, set via ldflags:
//
//	-X github.com/ludo-technologies/textscope/internal/version.Version=v0.2.0
var (
	// Version is the semantic version (e.g., v0.1.0)
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// Date is the build date
	Date = "unknown"
)

// Build describes this client binary and the backend it is configured for.
type Build struct {
	Client  string `json:"client" yaml:"client"`
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Backend string `json:"backend" yaml:"backend"`
	Go      string `json:"go" yaml:"go"`
	// Platform is GOOS/GOARCH.
	Platform string `json:"platform" yaml:"platform"`
}

// Current returns the build metadata with backend as the configured API base
// URL. An empty backend is reported as "unconfigured".
func Current(backend string) Build {
	if strings.TrimSpace(backend) == "" {
		backend = "unconfigured"
	}
	return Build{
		Client:   "textscope",
		Version:  Version,
		Commit:   Commit,
		Date:     Date,
		Backend:  backend,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info formats Current(backend) for the version command.
func Info(backend string) string {
	b := Current(backend)
	return fmt.Sprintf(
		"%s %s (TextScope client)\nBackend: %s\nCommit: %s\nBuilt: %s\nGo: %s\nOS/Arch: %s",
		b.Client, b.Version, b.Backend, b.Commit, b.Date, b.Go, b.Platform,
	)
}

// Short returns just the version string
func Short() string {
	return Version
}

// UserAgent is the User-Agent sent to the analysis backend.
func UserAgent() string {
	return fmt.Sprintf("textscope/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
