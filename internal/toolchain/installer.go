package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DirInstaller copies toolchain binaries from a local distribution
// directory into the versioned cache. It backs `cankit cache ensure` when
// CANKIT_TOOLCHAIN_DIST is set and serves as the test installer; network
// download mechanics are out of scope.
type DirInstaller struct {
	// Dist is the directory holding the binaries to install.
	Dist string
	// Resolver supplies the cache layout to install into.
	Resolver *Resolver
}

// EnsureInstalled copies every known binary for the version into the cache.
func (d *DirInstaller) EnsureInstalled(ctx context.Context, v Version) error {
	if d.Dist == "" {
		return fmt.Errorf("no toolchain distribution directory configured")
	}
	root := d.Resolver.VersionRoot(v)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create version root: %w", err)
	}
	for _, bin := range KnownBinaries {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(d.Dist, bin)
		dst := filepath.Join(root, bin)
		if err := copyExecutable(src, dst); err != nil {
			return fmt.Errorf("install %s: %w", bin, err)
		}
	}
	return nil
}

func copyExecutable(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
