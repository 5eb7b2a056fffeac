package cli

import (
	"fmt"
	"os"

	"github.com/gameanalytics/gabuild/internal/branding"
	"github.com/gameanalytics/gabuild/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit project settings",
		Long: fmt.Sprintf(`Read and write %s settings stored in %s in the working directory.
Environment variables named %s override the file.`,
			branding.CLIName(), branding.ConfigFile(), branding.EnvVar("<key>")),
	}
	cmd.AddCommand(newConfigShowCmd(e))
	cmd.AddCommand(newConfigGetCmd(e))
	cmd.AddCommand(newConfigSetCmd(e))
	cmd.AddCommand(newConfigValidateCmd(e))
	return cmd
}

func newConfigShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := e.workDir()
			if err != nil {
				return err
			}
			v, err := config.Load(workDir)
			if err != nil {
				return err
			}
			for _, key := range config.Keys {
				fmt.Fprintf(e.Stdout, "%-16s %s\n", key, v.GetString(key))
			}
			return nil
		},
	}
}

func newConfigGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.IsKey(args[0]) {
				return fmt.Errorf("unknown config key %q", args[0])
			}
			workDir, err := e.workDir()
			if err != nil {
				return err
			}
			v, err := config.Load(workDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.Stdout, v.GetString(args[0]))
			return nil
		},
	}
}

func newConfigSetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := e.workDir()
			if err != nil {
				return err
			}
			key, value := args[0], args[1]
			if err := config.Set(workDir, key, value); err != nil {
				return fmt.Errorf("setting config key %q: %w", key, err)
			}
			fmt.Fprintf(e.Stdout, "Set %s = %s\n", key, value)
			return nil
		},
	}
}

func newConfigValidateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a config file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				workDir, err := e.workDir()
				if err != nil {
					return err
				}
				path = config.FilePath(workDir)
			}

			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("config file not found: %s", path)
			}
			result, err := config.ValidateFile(path)
			if err != nil {
				return err
			}
			if !result.Valid {
				return &config.InvalidFileError{Path: path, Result: result}
			}
			fmt.Fprintf(e.Stdout, "%s is valid\n", path)
			return nil
		},
	}
}
