//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testEnv holds paths to an isolated SDK checkout and fake tool directory.
type testEnv struct {
	SourceDir string // mock SDK checkout (include/, CMakeLists.txt)
	BinDir    string // fake cmake/ctest, prepended to PATH
	LogFile   string // every fake tool invocation is appended here
}

// fakeCMake records its arguments and, for "--build ... --config <cfg>",
// produces libraries under <build>/<cfg>/ the way a multi-config generator would.
const fakeCMake = `#!/bin/sh
echo "cmake $*" >> "$GABUILD_TOOL_LOG"
if [ "$1" = "--build" ]; then
  build="$2"
  cfg=""
  while [ $# -gt 0 ]; do
    if [ "$1" = "--config" ]; then cfg="$2"; fi
    if [ "$1" = "--target" ] && [ "$2" = "cov" ]; then mkdir -p "$build/cov" && echo ok > "$build/cov/index.html"; fi
    shift
  done
  if [ -n "$cfg" ]; then
    mkdir -p "$build/$cfg"
    echo lib > "$build/$cfg/libGameAnalytics.a"
    echo exe > "$build/$cfg/GameAnalyticsUnitTests"
  fi
fi
exit ${FAKE_CMAKE_EXIT:-0}
`

const fakeCTest = `#!/bin/sh
echo "ctest $* (in $(pwd))" >> "$GABUILD_TOOL_LOG"
exit ${FAKE_CTEST_EXIT:-0}
`

// setupTestEnv creates the mock checkout, installs fake tools on PATH and
// points the tool log at a temp file.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are sh scripts, skipping on Windows")
	}

	env := &testEnv{
		SourceDir: t.TempDir(),
		BinDir:    t.TempDir(),
	}
	env.LogFile = filepath.Join(t.TempDir(), "tools.log")

	writeExecutable(t, filepath.Join(env.BinDir, "cmake"), fakeCMake)
	writeExecutable(t, filepath.Join(env.BinDir, "ctest"), fakeCTest)

	writeFile(t, filepath.Join(env.SourceDir, "CMakeLists.txt"), "cmake_minimum_required(VERSION 3.20)\n")
	writeFile(t, filepath.Join(env.SourceDir, "include", "GameAnalytics", "GameAnalytics.h"), "#pragma once\n")
	writeFile(t, filepath.Join(env.SourceDir, "include", "GameAnalytics", "GATypes.h"), "#pragma once\n")

	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("GABUILD_TOOL_LOG", env.LogFile)
	return env
}

// toolLog returns the recorded fake tool invocations in order.
func (e *testEnv) toolLog(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.LogFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading tool log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}
