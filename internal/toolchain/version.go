package toolchain

import (
	"fmt"
	"strings"
)

// Version identifies one installed set of toolchain binaries. It is an
// opaque semantic version string that may carry a build-mode suffix.
type Version string

// DebugSuffix marks development builds of the toolchain. A debug version
// is never considered installed so it is re-provisioned on every run and
// callers never silently run a stale development build.
const DebugSuffix = "-debug"

// ParseVersion validates a raw version string.
func ParseVersion(raw string) (Version, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("toolchain version must not be empty")
	}
	return Version(raw), nil
}

// IsDebug reports whether the version carries the debug build-mode suffix.
func (v Version) IsDebug() bool {
	return strings.HasSuffix(string(v), DebugSuffix)
}

func (v Version) String() string {
	return string(v)
}
