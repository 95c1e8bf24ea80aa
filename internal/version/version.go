// Package version provides build information for condoview.
package version

import "runtime"

// Version is overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash, set at build time.
var Commit = "unknown"

// String returns the version, with the commit appended when known.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}

// UserAgent identifies the client in backend requests, e.g.
// "condoview/1.0.0+abc1234 (linux/amd64)".
func UserAgent() string {
	return "condoview/" + String() + " (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
}
