// Package cmake composes command lines for CMake, CTest and the shell
// utilities run around them. It never executes anything; callers hand the
// resulting strings to a runtime.Runner.
package cmake

import (
	"strings"

	"github.com/gameanalytics/gabuild/internal/platform"
)

// Command is an ordered command line. Arguments are kept in the order they
// were added.
type Command struct {
	Name string
	Args []string
}

// New returns a command invoking name with the given leading arguments.
func New(name string, args ...string) *Command {
	return &Command{Name: name, Args: append([]string(nil), args...)}
}

// Arg appends raw arguments.
func (c *Command) Arg(args ...string) *Command {
	c.Args = append(c.Args, args...)
	return c
}

// Define adds a -D<key>=<value> cache entry.
func (c *Command) Define(key, value string) *Command {
	return c.Arg("-D" + key + "=" + value)
}

// DefineTyped adds a -D<key>:<type>=<value> cache entry.
func (c *Command) DefineTyped(key, typeName, value string) *Command {
	return c.Arg("-D" + key + ":" + typeName + "=" + value)
}

// DefineBool adds a -D<key>=ON/OFF cache entry.
func (c *Command) DefineBool(key string, value bool) *Command {
	if value {
		return c.Define(key, "ON")
	}
	return c.Define(key, "OFF")
}

// Generator selects the CMake generator. The name is always quoted since
// several generator names contain spaces.
func (c *Command) Generator(name string) *Command {
	return c.Arg("-G", `"`+name+`"`)
}

// Has reports whether any argument equals arg or, for defines, starts with
// "-D<arg>" followed by ':' or '='.
func (c *Command) Has(arg string) bool {
	for _, a := range c.Args {
		if a == arg {
			return true
		}
		if rest, ok := strings.CutPrefix(a, "-D"+arg); ok && (strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, ":")) {
			return true
		}
	}
	return false
}

// Dialect selects the shell quoting rules used when rendering a command.
type Dialect int

const (
	// POSIX renders for sh -c.
	POSIX Dialect = iota
	// PowerShell renders for powershell.exe -Command.
	PowerShell
)

// DialectFor returns the quoting dialect of the host's shell.
func DialectFor(h platform.Host) Dialect {
	if h.IsWindows() {
		return PowerShell
	}
	return POSIX
}

// String renders the command line for sh -c.
func (c *Command) String() string {
	return c.Render(POSIX)
}

// Render renders the command line for the given shell. Under PowerShell a
// quoted program name is prefixed with the call operator, otherwise it would
// be evaluated as a string expression.
func (c *Command) Render(d Dialect) string {
	parts := make([]string, 0, len(c.Args)+1)
	name := QuoteFor(d, c.Name)
	if d == PowerShell && name != c.Name {
		name = "& " + name
	}
	parts = append(parts, name)
	for _, a := range c.Args {
		parts = append(parts, QuoteFor(d, a))
	}
	return strings.Join(parts, " ")
}

// Quote quotes s for sh -c.
func Quote(s string) string {
	return QuoteFor(POSIX, s)
}

// QuoteFor single-quotes s when it contains anything besides plain path and
// define characters. Single-quoted strings are literal in both shells, so
// $, backticks and double quotes are never expanded. Glob characters are left
// bare so patterns still expand. An argument already wrapped in double quotes
// is passed through unchanged.
func QuoteFor(d Dialect, s string) string {
	if s == "" {
		return "''"
	}
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) && len(s) > 1 && !strings.ContainsAny(s[1:len(s)-1], "\"$`") {
		return s
	}
	if isBare(d, s) {
		return s
	}
	if d == PowerShell {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isBare(d Dialect, s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("_-+=:./%*?", r):
		case r == '\\' && d == PowerShell:
		case (r == '[' || r == ']' || r == ',' || r == '@') && d == POSIX:
		default:
			return false
		}
	}
	return true
}

// Configure returns "cmake -B <build> -S <source>".
func Configure(tool, buildDir, sourceDir string) *Command {
	return New(tool, "-B", buildDir, "-S", sourceDir)
}

// Build returns "cmake --build <build> --config <cfg> --verbose".
func Build(tool, buildDir, config string) *Command {
	return New(tool, "--build", buildDir, "--config", config, "--verbose")
}

// Target returns "cmake --build <build> --target <target>".
func Target(tool, buildDir, target string) *Command {
	return New(tool, "--build", buildDir, "--target", target)
}

// Test returns "ctest --build-config <cfg> --verbose --output-on-failure".
// CTest must be run from inside the build directory.
func Test(tool, config string) *Command {
	return New(tool, "--build-config", config, "--verbose", "--output-on-failure")
}
