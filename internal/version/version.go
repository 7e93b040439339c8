// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/ogsc/liveview/internal/version.Version=0.3.0 \
//	                   -X github.com/ogsc/liveview/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/ogsc/liveview/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "runtime"

// Build-time variables (set via ldflags)
var (
	// Version is the semantic version (e.g., "0.3.0")
	Version = "dev"

	// Commit is the git commit hash (short form)
	Commit = "unknown"

	// BuildTime is the UTC build timestamp (ISO 8601)
	BuildTime = "unknown"
)

// String returns a formatted version string.
func String() string {
	return "liveview " + Version + " (" + Commit + ", " + runtime.Version() + ") built " + BuildTime
}

// UserAgent is sent on the websocket handshake so the push service can tell
// dashboard clients apart.
func UserAgent() string {
	return "liveview/" + Version + " (+" + Commit + ")"
}
