// Package toolchain locates versioned compiler binaries in the process-wide
// cache. It only resolves paths; populating the cache belongs to an
// Installer implementation.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Logical binary names recognized by the resolver.
const (
	// BinCompiler compiles canister source to a wasm binary and, with
	// --idl, to an interface description.
	BinCompiler = "asc"
	// BinBindgen generates language bindings from an interface description.
	BinBindgen = "didc"
)

// KnownBinaries enumerates the logical binary names the resolver accepts.
var KnownBinaries = []string{BinCompiler, BinBindgen}

// NotInstalledError reports that a toolchain version is absent from the
// cache. The install manager must provision it before resolution succeeds.
type NotInstalledError struct {
	Version Version
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("toolchain version %s is not installed", e.Version)
}

// UnknownBinaryError reports a binary name outside KnownBinaries.
type UnknownBinaryError struct {
	Name string
}

func (e *UnknownBinaryError) Error() string {
	return fmt.Sprintf("unknown toolchain binary %q", e.Name)
}

// Resolver maps (version, binary name) pairs to absolute executable paths
// inside a versioned cache directory. It is stateless and safe for
// concurrent use by multiple watch workers.
type Resolver struct {
	cacheRoot string
}

// DefaultCacheRoot returns the per-user toolchain cache directory. The
// layout <root>/<version>/<binary> is a contract shared with the external
// install manager.
func DefaultCacheRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache dir: %w", err)
	}
	return filepath.Join(base, "cankit", "versions"), nil
}

// NewResolver creates a resolver rooted at cacheRoot.
func NewResolver(cacheRoot string) *Resolver {
	return &Resolver{cacheRoot: cacheRoot}
}

// CacheRoot returns the resolver's cache root directory.
func (r *Resolver) CacheRoot() string {
	return r.cacheRoot
}

// VersionRoot returns the installation root for a version.
func (r *Resolver) VersionRoot(v Version) string {
	return filepath.Join(r.cacheRoot, v.String())
}

// Installed reports whether a version is present in the cache. Debug
// versions are never reported as installed.
func (r *Resolver) Installed(v Version) bool {
	if v.IsDebug() {
		return false
	}
	info, err := os.Stat(r.VersionRoot(v))
	return err == nil && info.IsDir()
}

// Resolve returns the absolute path of a binary for a version. It performs
// only a path computation plus an existence check; it never installs.
func (r *Resolver) Resolve(v Version, binary string) (string, error) {
	if _, err := ParseVersion(v.String()); err != nil {
		return "", err
	}
	if !known(binary) {
		return "", &UnknownBinaryError{Name: binary}
	}
	path := filepath.Join(r.VersionRoot(v), binary)
	if _, err := os.Stat(path); err != nil {
		return "", &NotInstalledError{Version: v}
	}
	return path, nil
}

// Installer provisions a toolchain version into the cache. Implementations
// live outside this core; DirInstaller ships for local dist directories
// and tests.
type Installer interface {
	EnsureInstalled(ctx context.Context, v Version) error
}

// Ensure installs the version if the cache does not already hold it, then
// verifies every known binary resolves.
func (r *Resolver) Ensure(ctx context.Context, inst Installer, v Version) error {
	if !r.Installed(v) {
		if inst == nil {
			return &NotInstalledError{Version: v}
		}
		if err := inst.EnsureInstalled(ctx, v); err != nil {
			return fmt.Errorf("install toolchain %s: %w", v, err)
		}
	}
	for _, bin := range KnownBinaries {
		if _, err := r.Resolve(v, bin); err != nil {
			return err
		}
	}
	return nil
}

func known(binary string) bool {
	for _, b := range KnownBinaries {
		if b == binary {
			return true
		}
	}
	return false
}
