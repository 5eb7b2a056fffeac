package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gameanalytics/gabuild/internal/branding"
	"github.com/gameanalytics/gabuild/internal/platform"
	"github.com/gameanalytics/gabuild/internal/toolchain"
	"github.com/spf13/cobra"
)

func newDoctorCmd(e *env) *cobra.Command {
	var minVersion string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the build tools are installed",
		Long: `Verify that CMake and CTest (and lipo on macOS hosts) can be found on PATH
and that CMake is at least the version the SDK requires.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, settings, err := e.settings(cmd)
			if err != nil {
				return err
			}
			logger, err := e.logger(settings.LogLevel)
			if err != nil {
				return err
			}

			tools := []toolchain.Tool{
				{Name: settings.CMake, Role: "configure and build"},
				{Name: settings.CTest, Role: "run tests"},
			}
			if platform.CurrentHost().GOOS == "darwin" {
				tools = append(tools, toolchain.Tool{Name: "lipo", Role: "inspect packaged architectures"})
			}

			report, err := toolchain.Check(cmd.Context(), e.Stdout, toolchain.Options{
				Tools:           tools,
				CMake:           settings.CMake,
				MinCMakeVersion: minVersion,
				Runner:          e.NewRunner(logger, io.Discard, io.Discard),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(e.Stdout)
			if !report.OK() {
				return fmt.Errorf("toolchain check failed")
			}
			color.New(color.FgGreen).Fprintln(e.Stdout, "All build tools are available.")
			return nil
		},
	}

	cmd.Flags().StringVar(&minVersion, "min-cmake", branding.MinCMakeVersion(), "Minimum required CMake version")
	return cmd
}
