// Package pipeline turns validated command-line options into the ordered
// configure, build, test, coverage and package stages and runs them.
//
// A Request is built once by NewRequest and never changes. Pipeline.Run
// executes stages strictly in order; the first failing stage stops the run
// and its error is returned as a *StageError. Configure-only and build-only
// runs end early with a nil error.
package pipeline
