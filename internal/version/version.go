package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/cankit/cankit/internal/version.Version=v0.5.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// ToolchainDefault returns the toolchain version used when a project does
// not pin one. Development builds carry a "-debug" suffix so the resolver
// never treats them as installed and the install manager re-provisions the
// binaries on every run.
func ToolchainDefault() string {
	if debugBuild {
		return Version + "-debug"
	}
	return Version
}
