// Package runtime defines the Runner interface for executing external build
// tools and provides ShellRunner, which hands each command string to the
// host's native shell. Stages never build argv slices themselves; they pass a
// complete command line and a working directory.
package runtime
