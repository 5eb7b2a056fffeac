// Package platform models the build targets gabuild understands and the host
// it is running on. A Platform selects the compiler pair and which configure
// flags are emitted; a Host selects how external commands are wrapped for the
// local shell. The enum types implement pflag.Value so they can be bound
// directly to command-line flags and reject values outside their set.
package platform
