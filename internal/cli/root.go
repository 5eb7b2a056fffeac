package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gameanalytics/gabuild/internal/branding"
	"github.com/gameanalytics/gabuild/internal/config"
	"github.com/gameanalytics/gabuild/internal/log"
	"github.com/gameanalytics/gabuild/internal/pipeline"
	"github.com/gameanalytics/gabuild/internal/platform"
	"github.com/gameanalytics/gabuild/internal/runtime"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// env carries the process-level collaborators of a command tree, so tests can
// run commands against a temp directory and a fake runner.
type env struct {
	Stdout  io.Writer
	Stderr  io.Writer
	WorkDir string
	// NewRunner returns the runner used for external commands.
	NewRunner func(logger log.Logger, stdout, stderr io.Writer) runtime.Runner
}

func defaultEnv() *env {
	return &env{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewRunner: func(logger log.Logger, stdout, stderr io.Writer) runtime.Runner {
			r := runtime.NewShellRunner(logger)
			r.Stdout = stdout
			r.Stderr = stderr
			return r
		},
	}
}

func (e *env) workDir() (string, error) {
	if e.WorkDir != "" {
		return e.WorkDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return wd, nil
}

// settings loads the project configuration, applying a --log-level override.
// Configuration problems are usage errors.
func (e *env) settings(cmd *cobra.Command) (string, config.Settings, error) {
	workDir, err := e.workDir()
	if err != nil {
		return "", config.Settings{}, err
	}
	v, err := config.Load(workDir)
	if err != nil {
		return "", config.Settings{}, &pipeline.UsageError{Msg: err.Error()}
	}
	s := config.Resolve(v)
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		s.LogLevel = f.Value.String()
	}
	return workDir, s, nil
}

func (e *env) logger(level string) (log.Logger, error) {
	logger, err := log.New(level, e.Stderr)
	if err != nil {
		return nil, &pipeline.UsageError{Msg: err.Error()}
	}
	return logger, nil
}

func newRootCmd(e *env) *cobra.Command {
	opts := pipeline.Options{Config: platform.Debug}

	cmd := &cobra.Command{
		Use:   branding.CLIName() + " --platform <platform> [flags]",
		Short: branding.Description(),
		Long: branding.DisplayName() + ` configures the SDK with CMake for one target platform and,
on request, builds it, runs the tests, produces a coverage report and
collects the libraries and public headers into <build>/package.`,
		Example: `  ` + branding.CLIName() + ` --platform linux_x64 --compiler gcc --build --test
  ` + branding.CLIName() + ` --platform osx --cfg Release --build --test
  ` + branding.CLIName() + ` --platform win64 --shared --build`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &pipeline.UsageError{Msg: "unrecognized arguments: " + strings.Join(args, " ")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, e, opts)
		},
	}

	cmd.SetOut(e.Stdout)
	cmd.SetErr(e.Stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &pipeline.UsageError{Msg: err.Error()}
	})

	f := cmd.Flags()
	f.Var(&opts.Platform, "platform", "Platform to build for ("+names(platform.All)+")")
	f.Var(&opts.Config, "cfg", "Configuration type ("+names(platform.Configurations)+")")
	f.Var(&opts.Compiler, "compiler", "Compiler to use (Linux only: gcc or clang, default=clang)")
	f.BoolVar(&opts.Shared, "shared", false, "Build shared library instead of static")
	f.BoolVar(&opts.Build, "build", false, "Execute the build step")
	f.BoolVar(&opts.Test, "test", false, "Execute the test step")
	f.BoolVar(&opts.Coverage, "coverage", false, "Generate code coverage report")
	cmd.PersistentFlags().String("log-level", "warn", "Log level for command tracing (debug, info, warn, error)")

	cmd.AddCommand(newDoctorCmd(e))
	cmd.AddCommand(newConfigCmd(e))
	cmd.AddCommand(newVersionCmd(e))
	return cmd
}

func runBuild(cmd *cobra.Command, e *env, opts pipeline.Options) error {
	req, err := pipeline.NewRequest(opts)
	if err != nil {
		return err
	}

	workDir, settings, err := e.settings(cmd)
	if err != nil {
		return err
	}
	logger, err := e.logger(settings.LogLevel)
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Request:  req,
		Settings: settings,
		WorkDir:  workDir,
		Runner:   e.NewRunner(logger, e.Stdout, e.Stderr),
		Out:      e.Stdout,
		Logger:   logger,
	}
	_, err = p.Run(cmd.Context())
	return err
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return newRootCmd(defaultEnv()).ExecuteContext(context.Background())
}

func names[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
