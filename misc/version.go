// Package misc keeps build time program identification.
package misc

// Values are expected to be overwritten at build time with -ldflags "-X".
var (
	appName = "domx"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name to be used in logs and temporary file names.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from.
func GetGitHash() string {
	return gitHash
}
