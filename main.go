package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gameanalytics/gabuild/internal/branding"
	"github.com/gameanalytics/gabuild/internal/cli"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	err := cli.Execute(version, commit, date)
	if err == nil {
		return
	}

	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(os.Stderr, "%s: %s %v\n", branding.CLIName(), red("error:"), err)
	if cli.IsUsageError(err) {
		fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", branding.CLIName())
	}
	os.Exit(cli.ExitCode(err))
}
