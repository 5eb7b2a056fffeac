package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gameanalytics/gabuild/internal/branding"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const fileType = "yaml"

// Configuration keys.
const (
	KeyBuildDir       = "build_dir"
	KeyIncludeDir     = "include_dir"
	KeyProduct        = "product"
	KeyCMake          = "cmake"
	KeyCTest          = "ctest"
	KeyCoverageTarget = "coverage_target"
	KeyLogLevel       = "log_level"
)

// Keys lists every configuration key in display order.
var Keys = []string{
	KeyBuildDir,
	KeyIncludeDir,
	KeyProduct,
	KeyCMake,
	KeyCTest,
	KeyCoverageTarget,
	KeyLogLevel,
}

// Settings are the resolved configuration values for one run.
type Settings struct {
	BuildDir       string
	IncludeDir     string
	Product        string
	CMake          string
	CTest          string
	CoverageTarget string
	LogLevel       string
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		BuildDir:       "build",
		IncludeDir:     "include",
		Product:        branding.ProductName(),
		CMake:          "cmake",
		CTest:          "ctest",
		CoverageTarget: "cov",
		LogLevel:       "warn",
	}
}

// InvalidFileError reports a config file that failed schema validation.
type InvalidFileError struct {
	Path   string
	Result *ValidationResult
}

func (e *InvalidFileError) Error() string {
	msg := fmt.Sprintf("invalid config file %s", e.Path)
	for _, issue := range e.Result.Issues {
		if issue.Path != "" {
			msg += fmt.Sprintf("\n  %s: %s", issue.Path, issue.Message)
		} else {
			msg += "\n  " + issue.Message
		}
	}
	return msg
}

// InvalidEnvError reports environment overrides that break the same rules
// the config file must follow.
type InvalidEnvError struct {
	Result *ValidationResult
}

func (e *InvalidEnvError) Error() string {
	msg := "invalid environment override"
	for _, issue := range e.Result.Issues {
		if key := strings.TrimPrefix(issue.Path, "/"); key != "" {
			msg += fmt.Sprintf("\n  %s: %s", branding.EnvVar(key), issue.Message)
		} else {
			msg += "\n  " + issue.Message
		}
	}
	return msg
}

// FilePath returns the config file location for a working directory.
func FilePath(workDir string) string {
	return filepath.Join(workDir, branding.ConfigFile())
}

// New returns a Viper instance with defaults, environment binding and (when
// present) the project config file attached. It does not read the file.
func New(workDir string) *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyBuildDir, d.BuildDir)
	v.SetDefault(KeyIncludeDir, d.IncludeDir)
	v.SetDefault(KeyProduct, d.Product)
	v.SetDefault(KeyCMake, d.CMake)
	v.SetDefault(KeyCTest, d.CTest)
	v.SetDefault(KeyCoverageTarget, d.CoverageTarget)
	v.SetDefault(KeyLogLevel, d.LogLevel)

	v.SetConfigFile(FilePath(workDir))
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()
	return v
}

// Load validates and reads the project config for workDir. A missing config
// file is not an error. Environment overrides are checked against the file
// schema too.
func Load(workDir string) (*viper.Viper, error) {
	v := New(workDir)
	if err := checkEnv(); err != nil {
		return nil, err
	}

	path := FilePath(workDir)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	result, err := ValidateFile(path)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &InvalidFileError{Path: path, Result: result}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return v, nil
}

// checkEnv validates the GABUILD_* variables viper would pick up. Empty
// variables are ignored, as viper does.
func checkEnv() error {
	overrides := map[string]interface{}{}
	for _, key := range Keys {
		if value := os.Getenv(branding.EnvVar(key)); value != "" {
			overrides[key] = value
		}
	}
	if len(overrides) == 0 {
		return nil
	}

	result, err := validateValue(overrides)
	if err != nil {
		return err
	}
	if !result.Valid {
		return &InvalidEnvError{Result: result}
	}
	return nil
}

// Resolve extracts Settings from a loaded Viper instance.
func Resolve(v *viper.Viper) Settings {
	return Settings{
		BuildDir:       v.GetString(KeyBuildDir),
		IncludeDir:     v.GetString(KeyIncludeDir),
		Product:        v.GetString(KeyProduct),
		CMake:          v.GetString(KeyCMake),
		CTest:          v.GetString(KeyCTest),
		CoverageTarget: v.GetString(KeyCoverageTarget),
		LogLevel:       v.GetString(KeyLogLevel),
	}
}

// IsKey reports whether key is a known configuration key.
func IsKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a key-value pair to the project config file, creating it if
// needed. The merged document is validated first; on failure the file on disk
// is left untouched.
func Set(workDir, key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	// Only persist what the file already held plus the new key, so
	// environment overrides and defaults are not frozen into the file.
	path := FilePath(workDir)
	values := map[string]interface{}{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parsing config file %s: %w", path, err)
		}
		if values == nil {
			values = map[string]interface{}{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	values[key] = value

	out, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	result, err := Validate(out)
	if err != nil {
		return err
	}
	if !result.Valid {
		return &InvalidFileError{Path: path, Result: result}
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
