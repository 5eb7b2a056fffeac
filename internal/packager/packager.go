package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gameanalytics/gabuild/internal/cmake"
	"github.com/gameanalytics/gabuild/internal/log"
	"github.com/gameanalytics/gabuild/internal/platform"
	"github.com/gameanalytics/gabuild/internal/runtime"
	"github.com/otiai10/copy"
)

// DirName is the package directory created inside the build directory.
const DirName = "package"

// Options configures Package.
type Options struct {
	BuildDir   string
	IncludeDir string
	Product    string
	Config     platform.Configuration
	Platform   platform.Platform

	Runner runtime.Runner
	// Host selects shell quoting. Defaults to the running host.
	Host   platform.Host
	Logger log.Logger
}

// Dir returns the package directory for a build directory.
func Dir(buildDir string) string {
	return filepath.Join(buildDir, DirName)
}

// Pattern returns the glob matching the product's libraries inside dir.
func Pattern(dir, product string) string {
	return filepath.Join(dir, "*"+product+".*")
}

// Package copies the configuration's libraries and the include tree into the
// package directory, then lists it. On macOS the packaged libraries'
// architectures are printed as well. Existing files are overwritten.
func Package(ctx context.Context, opts Options) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	host := opts.Host
	if host.GOOS == "" {
		host = platform.CurrentHost()
	}
	dialect := cmake.DialectFor(host)

	pkgDir := Dir(opts.BuildDir)
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		return "", fmt.Errorf("creating package directory %s: %w", pkgDir, err)
	}

	libs, err := CopyLibraries(filepath.Join(opts.BuildDir, string(opts.Config)), pkgDir, opts.Product)
	if err != nil {
		return "", err
	}
	logger.WithField("count", len(libs)).Debug("copied libraries")

	includeDst := filepath.Join(pkgDir, "include")
	if err := copy.Copy(opts.IncludeDir, includeDst); err != nil {
		return "", fmt.Errorf("copying %s to %s: %w", opts.IncludeDir, includeDst, err)
	}

	if _, err := opts.Runner.Run(ctx, ListCommand(opts.Platform, pkgDir).Render(dialect), ""); err != nil {
		return "", err
	}

	if opts.Platform.IsMacOS() {
		inspect, err := InspectCommand(pkgDir, opts.Product)
		if err != nil {
			return "", err
		}
		if _, err := opts.Runner.Run(ctx, inspect.Render(dialect), ""); err != nil {
			return "", err
		}
	}

	return pkgDir, nil
}

// CopyLibraries copies every regular file in srcDir matching *<product>.*
// into dstDir and returns the destination paths. No match is not an error.
func CopyLibraries(srcDir, dstDir, product string) ([]string, error) {
	matches, err := filepath.Glob(Pattern(srcDir, product))
	if err != nil {
		return nil, fmt.Errorf("matching libraries in %s: %w", srcDir, err)
	}

	var copied []string
	for _, src := range matches {
		info, err := os.Stat(src)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			continue
		}
		dst := filepath.Join(dstDir, filepath.Base(src))
		if err := copy.Copy(src, dst); err != nil {
			return nil, fmt.Errorf("copying %s to %s: %w", src, dst, err)
		}
		copied = append(copied, dst)
	}
	return copied, nil
}

// ListCommand returns the directory listing command for the target platform:
// "dir" for Windows targets and "ls -la" elsewhere.
func ListCommand(p platform.Platform, dir string) *cmake.Command {
	if p.IsWindows() {
		return cmake.New("dir", dir)
	}
	return cmake.New("ls", "-la", dir)
}

// InspectCommand returns "lipo -info" over the packaged libraries. When
// nothing matches, the glob itself is passed so lipo reports the failure.
func InspectCommand(pkgDir, product string) (*cmake.Command, error) {
	pattern := Pattern(pkgDir, product)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("matching libraries in %s: %w", pkgDir, err)
	}
	if len(matches) == 0 {
		return cmake.New("lipo", "-info", pattern), nil
	}
	return cmake.New("lipo", "-info").Arg(matches...), nil
}
