// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	ProductName     string `yaml:"product_name"`
	EnvPrefix       string `yaml:"env_prefix"`
	ConfigFile      string `yaml:"config_file"`
	MinCMakeVersion string `yaml:"min_cmake_version"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:         "gabuild",
			DisplayName:     "GameAnalytics SDK build",
			Description:     "Configure, build, test and package the GameAnalytics C++ SDK",
			ProductName:     "GameAnalytics",
			EnvPrefix:       "GABUILD",
			ConfigFile:      ".gabuild.yaml",
			MinCMakeVersion: "3.20.0",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "gabuild").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable tool name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short tool description.
func Description() string { load(); return defaults.Description }

// ProductName returns the stem shared by every packaged library file
// (e.g., "GameAnalytics" for libGameAnalytics.a).
func ProductName() string { load(); return defaults.ProductName }

// EnvPrefix returns the environment variable prefix (e.g., "GABUILD").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ConfigFile returns the name of the per-project config file.
func ConfigFile() string { load(); return defaults.ConfigFile }

// MinCMakeVersion returns the oldest CMake release the SDK build supports.
func MinCMakeVersion() string { load(); return defaults.MinCMakeVersion }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("build_dir") → "GABUILD_BUILD_DIR".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
