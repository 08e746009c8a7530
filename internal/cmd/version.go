package cmd

// Build information injected at build time via ldflags
// Example: -ldflags="-X repotabs/internal/cmd.Version=v1.0.0"
var (
	Commit  = "unknown"
	Date    = "unknown"
	Version = "dev"
)

// VersionInfo returns formatted version information for CLI display
func VersionInfo() string {
	return "repotabs " + Version + " (commit: " + Commit + ", built: " + Date + ")"
}
