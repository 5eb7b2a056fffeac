package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gameanalytics/gabuild/internal/cmake"
	"github.com/gameanalytics/gabuild/internal/config"
	"github.com/gameanalytics/gabuild/internal/log"
	"github.com/gameanalytics/gabuild/internal/packager"
	"github.com/gameanalytics/gabuild/internal/platform"
	"github.com/gameanalytics/gabuild/internal/runtime"
)

// StageName identifies a pipeline stage.
type StageName string

const (
	StageConfigure StageName = "configure"
	StageBuild     StageName = "build"
	StageTest      StageName = "test"
	StageCoverage  StageName = "coverage"
	StagePackage   StageName = "package"
)

// Stage is one step of the pipeline. Run returns false to end the pipeline
// successfully without running later stages.
type Stage struct {
	Name StageName
	Run  func(ctx context.Context) (next bool, err error)
}

// Result describes a run that finished without error.
type Result struct {
	// Completed lists the stages that ran, in order.
	Completed []StageName
	// PackageDir is set when the package stage ran.
	PackageDir string
}

// Pipeline runs the stages for one Request.
type Pipeline struct {
	Request  Request
	Settings config.Settings
	// WorkDir is the source directory; the build directory is resolved
	// against it.
	WorkDir string

	Runner runtime.Runner
	// Host selects shell quoting for rendered commands. Defaults to the
	// running host.
	Host platform.Host
	// Out receives the start and completion banners. Defaults to os.Stdout.
	Out    io.Writer
	Logger log.Logger

	packageDir string
}

// BuildDir returns the absolute build output directory.
func (p *Pipeline) BuildDir() string {
	return p.resolve(p.Settings.BuildDir)
}

// IncludeDir returns the absolute public header directory.
func (p *Pipeline) IncludeDir() string {
	return p.resolve(p.Settings.IncludeDir)
}

func (p *Pipeline) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.WorkDir, dir)
}

// ConfigureCommand returns the CMake configure command for the request.
func (p *Pipeline) ConfigureCommand() *cmake.Command {
	r := p.Request
	cmd := cmake.Configure(p.Settings.CMake, p.BuildDir(), p.WorkDir)

	if !r.Compilers.IsZero() {
		cmd.Define("CMAKE_C_COMPILER", r.Compilers.C)
		cmd.Define("CMAKE_CXX_COMPILER", r.Compilers.CXX)
	}
	if r.Shared {
		cmd.DefineBool("GA_SHARED_LIB", true)
	}
	if r.Platform.IsMacOS() {
		cmd.Generator("Xcode")
	}
	// Multi-config generators (Xcode, Visual Studio) pick the
	// configuration with --config at build time instead.
	if !r.Platform.MultiConfig() {
		cmd.Define("CMAKE_BUILD_TYPE", string(r.Config))
	}
	cmd.DefineTyped("PLATFORM", "STRING", string(r.Platform))
	if r.Coverage {
		cmd.DefineBool("ENABLE_COVERAGE", true)
	}
	return cmd
}

// BuildCommand returns the CMake build command for the request.
func (p *Pipeline) BuildCommand() *cmake.Command {
	return cmake.Build(p.Settings.CMake, p.BuildDir(), string(p.Request.Config))
}

// TestCommand returns the CTest command; it runs inside BuildDir.
func (p *Pipeline) TestCommand() *cmake.Command {
	return cmake.Test(p.Settings.CTest, string(p.Request.Config))
}

// CoverageCommand returns the command building the coverage target.
func (p *Pipeline) CoverageCommand() *cmake.Command {
	return cmake.Target(p.Settings.CMake, p.BuildDir(), p.Settings.CoverageTarget)
}

// Stages returns the stages for the request in execution order.
func (p *Pipeline) Stages() []Stage {
	r := p.Request
	stages := []Stage{
		{Name: StageConfigure, Run: func(ctx context.Context) (bool, error) {
			return r.Build, p.run(ctx, p.ConfigureCommand(), p.WorkDir)
		}},
		{Name: StageBuild, Run: func(ctx context.Context) (bool, error) {
			return r.Test, p.run(ctx, p.BuildCommand(), p.WorkDir)
		}},
		{Name: StageTest, Run: func(ctx context.Context) (bool, error) {
			return true, p.run(ctx, p.TestCommand(), p.BuildDir())
		}},
	}
	if r.Coverage {
		stages = append(stages, Stage{Name: StageCoverage, Run: func(ctx context.Context) (bool, error) {
			return true, p.run(ctx, p.CoverageCommand(), p.BuildDir())
		}})
	}
	stages = append(stages, Stage{Name: StagePackage, Run: p.runPackage})
	return stages
}

// Run prints the start banner, executes the stages in order and, when every
// stage ran, prints the completion banner. The first failing stage is
// returned as a *StageError.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.Out == nil {
		p.Out = os.Stdout
	}
	if p.Logger == nil {
		p.Logger = log.Discard()
	}
	if p.Host.GOOS == "" {
		p.Host = platform.CurrentHost()
	}

	printStartBanner(p.Out, p.Request)

	buildDir := p.BuildDir()
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return nil, &StageError{Stage: StageConfigure, Err: fmt.Errorf("creating build directory %s: %w", buildDir, err)}
	}

	result := &Result{}
	for _, stage := range p.Stages() {
		p.Logger.WithField("stage", stage.Name).Info("starting stage")
		next, err := stage.Run(ctx)
		if err != nil {
			return nil, &StageError{Stage: stage.Name, Err: err}
		}
		result.Completed = append(result.Completed, stage.Name)
		if !next {
			p.Logger.WithField("stage", stage.Name).Info("stopping after stage")
			return result, nil
		}
	}

	result.PackageDir = p.packageDir
	printCompletionBanner(p.Out, p.Request, result.PackageDir)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, cmd *cmake.Command, dir string) error {
	_, err := p.Runner.Run(ctx, cmd.Render(cmake.DialectFor(p.Host)), dir)
	return err
}

func (p *Pipeline) runPackage(ctx context.Context) (bool, error) {
	dir, err := packager.Package(ctx, packager.Options{
		BuildDir:   p.BuildDir(),
		IncludeDir: p.IncludeDir(),
		Product:    p.Settings.Product,
		Config:     p.Request.Config,
		Platform:   p.Request.Platform,
		Runner:     p.Runner,
		Host:       p.Host,
		Logger:     p.Logger,
	})
	if err != nil {
		return false, err
	}
	p.packageDir = dir
	return true, nil
}
