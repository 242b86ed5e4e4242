// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

var (
	Version    = "dev"
	Codename   = "unknown"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Short returns the version followed by its release codename, the form the
// CLI prints for --version.
func Short() string {
	return Version + " (" + Codename + ")"
}
