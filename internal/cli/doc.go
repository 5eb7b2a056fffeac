// Package cli defines the Cobra command tree for the gabuild CLI. The root
// command runs the build pipeline; each other file registers one subcommand
// (doctor, config, version). Commands only handle flag parsing and output
// and delegate the work to internal packages.
package cli
