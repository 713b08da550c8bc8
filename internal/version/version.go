// Package version holds the build identity reported by the CLI and stamped
// into publish reports.
package version

// Overridden at build time:
// go build -ldflags "-X javabrowser/internal/version.Version=1.0.0 -X javabrowser/internal/version.Commit=abc123"
var (
	Version = "0.4.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Info returns the version with an abbreviated commit when one is known.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns the multi-line version banner.
func Full() string {
	return "javabrowser version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
