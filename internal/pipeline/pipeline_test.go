package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gameanalytics/gabuild/internal/cmake"
	"github.com/gameanalytics/gabuild/internal/config"
	"github.com/gameanalytics/gabuild/internal/platform"
	"github.com/gameanalytics/gabuild/internal/runtime"
)

type call struct {
	command string
	dir     string
}

// fakeRunner records every command and fails the first one starting with
// failOn, if set.
type fakeRunner struct {
	calls    []call
	failOn   string
	exitCode int
}

func (r *fakeRunner) Run(_ context.Context, command, dir string) (*runtime.Output, error) {
	r.calls = append(r.calls, call{command, dir})
	if r.failOn != "" && strings.HasPrefix(command, r.failOn) {
		return &runtime.Output{ExitCode: r.exitCode}, &runtime.ProcessError{Command: command, ExitCode: r.exitCode}
	}
	return &runtime.Output{}, nil
}

func (r *fakeRunner) commands() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.command
	}
	return out
}

func newPipeline(t *testing.T, opts Options) (*Pipeline, *fakeRunner, *bytes.Buffer) {
	t.Helper()
	req, err := NewRequest(opts)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	runner := &fakeRunner{}
	var out bytes.Buffer
	return &Pipeline{
		Request:  req,
		Settings: config.Defaults(),
		WorkDir:  t.TempDir(),
		Runner:   runner,
		Host:     platform.Host{GOOS: "linux"},
		Out:      &out,
	}, runner, &out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func configureOf(t *testing.T, opts Options) *cmake.Command {
	t.Helper()
	p, _, _ := newPipeline(t, opts)
	return p.ConfigureCommand()
}

func TestConfigureCommand_Linux(t *testing.T) {
	p, _, _ := newPipeline(t, Options{Platform: platform.LinuxX64, Config: platform.Release})
	got := p.ConfigureCommand().String()

	want := "cmake -B " + filepath.Join(p.WorkDir, "build") + " -S " + p.WorkDir +
		" -DCMAKE_C_COMPILER=clang -DCMAKE_CXX_COMPILER=clang++" +
		" -DCMAKE_BUILD_TYPE=Release -DPLATFORM:STRING=linux_x64"
	if got != want {
		t.Errorf("ConfigureCommand() =\n  %s\nwant\n  %s", got, want)
	}
}

func TestConfigureCommand_Flags(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		present []string
		absent  []string
	}{
		{
			name:    "osx uses Xcode",
			opts:    Options{Platform: platform.OSX},
			present: []string{"-G", "PLATFORM", "CMAKE_C_COMPILER"},
			absent:  []string{"CMAKE_BUILD_TYPE", "GA_SHARED_LIB", "ENABLE_COVERAGE"},
		},
		{
			name:    "win64 multi-config",
			opts:    Options{Platform: platform.Win64},
			present: []string{"PLATFORM", "CMAKE_C_COMPILER"},
			absent:  []string{"CMAKE_BUILD_TYPE", "-G"},
		},
		{
			name:    "uwp multi-config",
			opts:    Options{Platform: platform.UWP},
			present: []string{"PLATFORM"},
			absent:  []string{"CMAKE_BUILD_TYPE", "-G"},
		},
		{
			name:    "linux shared",
			opts:    Options{Platform: platform.LinuxX86, Shared: true},
			present: []string{"GA_SHARED_LIB", "CMAKE_BUILD_TYPE", "PLATFORM"},
			absent:  []string{"ENABLE_COVERAGE", "-G"},
		},
		{
			name:    "linux coverage",
			opts:    Options{Platform: platform.LinuxX64, Coverage: true},
			present: []string{"ENABLE_COVERAGE", "CMAKE_BUILD_TYPE"},
			absent:  []string{"GA_SHARED_LIB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := configureOf(t, tt.opts)
			for _, arg := range tt.present {
				if !cmd.Has(arg) {
					t.Errorf("expected %s in %q", arg, cmd.String())
				}
			}
			for _, arg := range tt.absent {
				if cmd.Has(arg) {
					t.Errorf("did not expect %s in %q", arg, cmd.String())
				}
			}
		})
	}
}

func TestConfigureCommand_Ordering(t *testing.T) {
	cmd := configureOf(t, Options{Platform: platform.OSX, Shared: true})
	s := cmd.String()

	order := []string{"-DCMAKE_C_COMPILER=clang", "-DCMAKE_CXX_COMPILER=clang++", "-DGA_SHARED_LIB=ON", `-G "Xcode"`, "-DPLATFORM:STRING=osx"}
	last := -1
	for _, part := range order {
		idx := strings.Index(s, part)
		if idx < 0 {
			t.Fatalf("%q missing from %q", part, s)
		}
		if idx < last {
			t.Errorf("%q out of order in %q", part, s)
		}
		last = idx
	}
}

func TestRun_ConfigureOnly(t *testing.T) {
	p, runner, out := newPipeline(t, Options{Platform: platform.OSX})

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !reflect.DeepEqual(result.Completed, []StageName{StageConfigure}) {
		t.Errorf("Completed = %v, want [configure]", result.Completed)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("calls = %v, want exactly one configure", runner.commands())
	}
	if runner.calls[0].dir != p.WorkDir {
		t.Errorf("configure dir = %q, want %q", runner.calls[0].dir, p.WorkDir)
	}
	if _, err := os.Stat(p.BuildDir()); err != nil {
		t.Errorf("build directory not created: %v", err)
	}
	if !strings.Contains(out.String(), "Building static library for osx with clang") {
		t.Errorf("start banner missing:\n%s", out.String())
	}
	if strings.Contains(out.String(), "[OK]") {
		t.Errorf("completion banner printed on early exit:\n%s", out.String())
	}
}

func TestRun_BuildOnly(t *testing.T) {
	p, runner, _ := newPipeline(t, Options{Platform: platform.Win32, Build: true, Config: platform.Release})

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !reflect.DeepEqual(result.Completed, []StageName{StageConfigure, StageBuild}) {
		t.Errorf("Completed = %v", result.Completed)
	}
	want := "cmake --build " + p.BuildDir() + " --config Release --verbose"
	if len(runner.calls) != 2 || runner.calls[1].command != want {
		t.Errorf("calls = %v, want build command %q", runner.commands(), want)
	}
}

func TestRun_BuildAndTest(t *testing.T) {
	p, runner, out := newPipeline(t, Options{Platform: platform.LinuxX64, Build: true, Test: true})
	writeFile(t, filepath.Join(p.WorkDir, "include", "GameAnalytics", "GameAnalytics.h"), "// api")
	writeFile(t, filepath.Join(p.BuildDir(), "Debug", "libGameAnalytics.a"), "lib")

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantStages := []StageName{StageConfigure, StageBuild, StageTest, StagePackage}
	if !reflect.DeepEqual(result.Completed, wantStages) {
		t.Errorf("Completed = %v, want %v", result.Completed, wantStages)
	}

	cmds := runner.commands()
	if len(cmds) != 4 {
		t.Fatalf("commands = %v", cmds)
	}
	if !strings.HasPrefix(cmds[0], "cmake -B ") {
		t.Errorf("first command = %q, want configure", cmds[0])
	}
	for _, want := range []string{"-DCMAKE_C_COMPILER=clang", "-DCMAKE_CXX_COMPILER=clang++", "-DCMAKE_BUILD_TYPE=Debug"} {
		if !strings.Contains(cmds[0], want) {
			t.Errorf("configure %q missing %s", cmds[0], want)
		}
	}
	if strings.Contains(cmds[0], "ENABLE_COVERAGE") {
		t.Errorf("configure %q has coverage define", cmds[0])
	}
	if !strings.HasPrefix(cmds[1], "cmake --build ") {
		t.Errorf("second command = %q, want build", cmds[1])
	}
	if cmds[2] != "ctest --build-config Debug --verbose --output-on-failure" {
		t.Errorf("third command = %q, want ctest", cmds[2])
	}
	if runner.calls[2].dir != p.BuildDir() {
		t.Errorf("ctest dir = %q, want %q", runner.calls[2].dir, p.BuildDir())
	}
	if !strings.HasPrefix(cmds[3], "ls -la ") {
		t.Errorf("fourth command = %q, want listing", cmds[3])
	}

	pkgDir := filepath.Join(p.BuildDir(), "package")
	if result.PackageDir != pkgDir {
		t.Errorf("PackageDir = %q, want %q", result.PackageDir, pkgDir)
	}
	for _, f := range []string{"libGameAnalytics.a", filepath.Join("include", "GameAnalytics", "GameAnalytics.h")} {
		if _, err := os.Stat(filepath.Join(pkgDir, f)); err != nil {
			t.Errorf("package missing %s: %v", f, err)
		}
	}

	banner := out.String()
	if !strings.Contains(banner, "[OK] Static library build completed for linux_x64 with clang") {
		t.Errorf("completion banner missing:\n%s", banner)
	}
	if !strings.Contains(banner, "Package location: "+pkgDir) {
		t.Errorf("package location missing:\n%s", banner)
	}
}

func TestRun_Coverage(t *testing.T) {
	p, runner, _ := newPipeline(t, Options{Platform: platform.LinuxX64, Compiler: platform.GCC, Build: true, Test: true, Coverage: true})
	writeFile(t, filepath.Join(p.WorkDir, "include", "GameAnalytics.h"), "// api")

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	wantStages := []StageName{StageConfigure, StageBuild, StageTest, StageCoverage, StagePackage}
	if !reflect.DeepEqual(result.Completed, wantStages) {
		t.Errorf("Completed = %v, want %v", result.Completed, wantStages)
	}

	if !strings.Contains(runner.calls[0].command, "-DENABLE_COVERAGE=ON") {
		t.Errorf("configure missing coverage define: %q", runner.calls[0].command)
	}
	if !strings.Contains(runner.calls[0].command, "-DCMAKE_C_COMPILER=gcc") {
		t.Errorf("configure missing gcc: %q", runner.calls[0].command)
	}
	cov := runner.calls[3]
	if cov.command != "cmake --build "+p.BuildDir()+" --target cov" {
		t.Errorf("coverage command = %q", cov.command)
	}
	if cov.dir != p.BuildDir() {
		t.Errorf("coverage dir = %q, want %q", cov.dir, p.BuildDir())
	}
}

func TestRun_StageFailureStops(t *testing.T) {
	p, runner, out := newPipeline(t, Options{Platform: platform.LinuxX64, Build: true, Test: true})
	runner.failOn = "ctest"
	runner.exitCode = 8

	_, err := p.Run(context.Background())
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected *StageError, got %v", err)
	}
	if stageErr.Stage != StageTest {
		t.Errorf("Stage = %q, want test", stageErr.Stage)
	}
	if stageErr.ExitCode() != 8 {
		t.Errorf("ExitCode() = %d, want 8", stageErr.ExitCode())
	}
	if len(runner.calls) != 3 {
		t.Errorf("calls after failure = %v", runner.commands())
	}
	if strings.Contains(out.String(), "[OK]") {
		t.Error("completion banner printed after failure")
	}
}

func TestRun_ConfigureFailure(t *testing.T) {
	p, runner, _ := newPipeline(t, Options{Platform: platform.Win64, Build: true})
	runner.failOn = "cmake -B"
	runner.exitCode = 1

	_, err := p.Run(context.Background())
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageConfigure {
		t.Fatalf("expected configure *StageError, got %v", err)
	}
	if len(runner.calls) != 1 {
		t.Errorf("build ran after configure failure: %v", runner.commands())
	}
}

func TestRun_PackageCopyFailureExitCode(t *testing.T) {
	// No include directory: the package stage fails without a process exit code.
	p, _, _ := newPipeline(t, Options{Platform: platform.LinuxX64, Build: true, Test: true})

	_, err := p.Run(context.Background())
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected *StageError, got %v", err)
	}
	if stageErr.Stage != StagePackage {
		t.Errorf("Stage = %q, want package", stageErr.Stage)
	}
	if stageErr.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", stageErr.ExitCode())
	}
}

func TestPipeline_CustomSettings(t *testing.T) {
	p, _, _ := newPipeline(t, Options{Platform: platform.LinuxX64})
	abs := filepath.Join(t.TempDir(), "out")
	p.Settings.BuildDir = abs
	p.Settings.CMake = "/opt/cmake/bin/cmake"
	p.Settings.CoverageTarget = "coverage"

	if p.BuildDir() != abs {
		t.Errorf("BuildDir() = %q, want absolute setting %q", p.BuildDir(), abs)
	}
	if got := p.CoverageCommand().String(); got != "/opt/cmake/bin/cmake --build "+abs+" --target coverage" {
		t.Errorf("CoverageCommand() = %q", got)
	}
}

func TestSharedBanner(t *testing.T) {
	p, _, out := newPipeline(t, Options{Platform: platform.Win64, Shared: true})
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Building shared library for win64 with cl") {
		t.Errorf("banner = %q", out.String())
	}
}

func TestPipeline_QuotesForHostShell(t *testing.T) {
	t.Run("posix", func(t *testing.T) {
		p, runner, _ := newPipeline(t, Options{Platform: platform.LinuxX64})
		p.WorkDir = filepath.Join(t.TempDir(), "sdk $HOME `id`")

		if _, err := p.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		want := "cmake -B '" + p.BuildDir() + "' -S '" + p.WorkDir + "'"
		if got := runner.commands()[0]; !strings.HasPrefix(got, want) {
			t.Errorf("configure = %q, want prefix %q", got, want)
		}
	})

	t.Run("powershell", func(t *testing.T) {
		p, runner, _ := newPipeline(t, Options{Platform: platform.Win64})
		p.Host = platform.Host{GOOS: "windows"}
		p.Settings.CMake = `C:\Program Files\CMake\bin\cmake.exe`

		if _, err := p.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		got := runner.commands()[0]
		if !strings.HasPrefix(got, `& 'C:\Program Files\CMake\bin\cmake.exe' -B `) {
			t.Errorf("configure = %q, want call operator before quoted tool", got)
		}
	})
}

func TestConfigureCommand_NoCompilerOverride(t *testing.T) {
	p, _, _ := newPipeline(t, Options{Platform: platform.LinuxX64})
	p.Request.Compilers = platform.CompilerPair{}

	cmd := p.ConfigureCommand()
	for _, arg := range []string{"CMAKE_C_COMPILER", "CMAKE_CXX_COMPILER"} {
		if cmd.Has(arg) {
			t.Errorf("unexpected %s in %q", arg, cmd.String())
		}
	}
}
