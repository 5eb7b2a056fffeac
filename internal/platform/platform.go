package platform

import (
	"fmt"
	"strings"
)

// Platform identifies a build target.
type Platform string

// Supported build targets.
const (
	LinuxX64 Platform = "linux_x64"
	LinuxX86 Platform = "linux_x86"
	OSX      Platform = "osx"
	Win32    Platform = "win32"
	Win64    Platform = "win64"
	UWP      Platform = "uwp"
)

// All lists every supported platform in display order.
var All = []Platform{LinuxX64, LinuxX86, OSX, Win32, Win64, UWP}

// Parse returns the Platform named by s.
func Parse(s string) (Platform, error) {
	for _, p := range All {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid platform %q (choose from %s)", s, joinNames(All))
}

// IsLinux reports whether p is one of the Linux targets.
func (p Platform) IsLinux() bool {
	return strings.HasPrefix(string(p), "linux")
}

// IsWindows reports whether p is a Windows target. UWP counts as Windows.
func (p Platform) IsWindows() bool {
	return strings.HasPrefix(string(p), "win") || p == UWP
}

// IsMacOS reports whether p is the macOS target.
func (p Platform) IsMacOS() bool {
	return p == OSX
}

// MultiConfig reports whether the CMake generator used for p selects the
// configuration at build time rather than at configure time.
func (p Platform) MultiConfig() bool {
	return !p.IsLinux()
}

// String implements pflag.Value.
func (p *Platform) String() string { return string(*p) }

// Set implements pflag.Value.
func (p *Platform) Set(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Type implements pflag.Value.
func (p *Platform) Type() string { return "platform" }

// Configuration is the CMake build configuration.
type Configuration string

const (
	Release Configuration = "Release"
	Debug   Configuration = "Debug"
)

// Configurations lists the accepted configuration names.
var Configurations = []Configuration{Release, Debug}

// ParseConfiguration returns the Configuration named by s. Names are case sensitive.
func ParseConfiguration(s string) (Configuration, error) {
	for _, c := range Configurations {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid configuration %q (choose from %s)", s, joinNames(Configurations))
}

func (c *Configuration) String() string { return string(*c) }

func (c *Configuration) Set(s string) error {
	v, err := ParseConfiguration(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c *Configuration) Type() string { return "cfg" }

func joinNames[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
