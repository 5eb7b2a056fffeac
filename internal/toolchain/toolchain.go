package toolchain

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gameanalytics/gabuild/internal/runtime"
)

// Tool is one external program the build depends on.
type Tool struct {
	Name string // executable name or path
	Role string // what it is used for, shown in the report
}

// Options configures Check.
type Options struct {
	Tools []Tool

	// CMake is the cmake executable whose version is checked.
	CMake string
	// MinCMakeVersion is the oldest acceptable CMake release.
	MinCMakeVersion string

	// Runner is used to query "cmake --version"; its output writers should
	// discard, the captured Output is what gets parsed.
	Runner runtime.Runner

	// LookPath defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// Report is the outcome of Check.
type Report struct {
	Missing      []string
	CMakeVersion string
	CMakeTooOld  bool
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	return len(r.Missing) == 0 && !r.CMakeTooOld
}

var versionPattern = regexp.MustCompile(`cmake version (\d+\.\d+(?:\.\d+)?)`)

// ParseCMakeVersion extracts the version from "cmake --version" output.
func ParseCMakeVersion(output string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, fmt.Errorf("no version found in %q", strings.TrimSpace(firstLine(output)))
	}
	return semver.NewVersion(m[1])
}

// Check prints one line per tool to w and returns a summary.
func Check(ctx context.Context, w io.Writer, opts Options) (*Report, error) {
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	report := &Report{}
	fmt.Fprintln(w, "Tool check:")

	cmakeFound := false
	for _, tool := range opts.Tools {
		path, err := lookPath(tool.Name)
		if err != nil {
			fmt.Fprintf(w, "  [MISS] %s (%s)\n", tool.Name, tool.Role)
			report.Missing = append(report.Missing, tool.Name)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s found at %s\n", tool.Name, path)
		if tool.Name == opts.CMake {
			cmakeFound = true
		}
	}

	if cmakeFound && opts.MinCMakeVersion != "" && opts.Runner != nil {
		if err := checkCMakeVersion(ctx, w, opts, report); err != nil {
			return report, err
		}
	}

	if len(report.Missing) > 0 {
		fmt.Fprintf(w, "\n  %d missing tool(s).\n", len(report.Missing))
	}
	return report, nil
}

func checkCMakeVersion(ctx context.Context, w io.Writer, opts Options, report *Report) error {
	minVersion, err := semver.NewVersion(opts.MinCMakeVersion)
	if err != nil {
		return fmt.Errorf("parsing minimum CMake version %q: %w", opts.MinCMakeVersion, err)
	}

	out, err := opts.Runner.Run(ctx, opts.CMake+" --version", "")
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s --version: %v\n", opts.CMake, err)
		report.CMakeTooOld = true
		return nil
	}

	v, err := ParseCMakeVersion(out.Stdout)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] could not read CMake version: %v\n", err)
		report.CMakeTooOld = true
		return nil
	}
	report.CMakeVersion = v.String()

	if v.LessThan(minVersion) {
		fmt.Fprintf(w, "  [FAIL] CMake %s is older than required %s\n", v, minVersion)
		report.CMakeTooOld = true
		return nil
	}
	fmt.Fprintf(w, "  [ OK ] CMake %s (>= %s)\n", v, minVersion)
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
