package pipeline

import "github.com/gameanalytics/gabuild/internal/platform"

// Options are the raw command-line values before validation.
type Options struct {
	Platform platform.Platform
	Config   platform.Configuration
	Compiler platform.Compiler
	Shared   bool
	Build    bool
	Test     bool
	Coverage bool
}

// Request is the validated, resolved set of options for one run.
type Request struct {
	Platform  platform.Platform
	Config    platform.Configuration
	Compiler  platform.Compiler
	Compilers platform.CompilerPair
	Shared    bool
	Build     bool
	Test      bool
	Coverage  bool
}

// NewRequest validates opts and resolves the compiler pair. Invalid
// combinations are reported as *UsageError.
func NewRequest(opts Options) (Request, error) {
	if opts.Platform == "" {
		return Request{}, usageErrorf("the following arguments are required: --platform")
	}
	if _, err := platform.Parse(string(opts.Platform)); err != nil {
		return Request{}, &UsageError{Msg: err.Error()}
	}

	cfg := opts.Config
	if cfg == "" {
		cfg = platform.Debug
	}
	if _, err := platform.ParseConfiguration(string(cfg)); err != nil {
		return Request{}, &UsageError{Msg: err.Error()}
	}

	if opts.Compiler != platform.CompilerDefault {
		if _, err := platform.ParseCompiler(string(opts.Compiler)); err != nil {
			return Request{}, &UsageError{Msg: err.Error()}
		}
		if !opts.Platform.IsLinux() {
			return Request{}, usageErrorf("--compiler can only be used with Linux platforms")
		}
	}

	if opts.Coverage && opts.Shared {
		return Request{}, usageErrorf("--coverage cannot be used with --shared (coverage requires tests which need static library)")
	}

	return Request{
		Platform:  opts.Platform,
		Config:    cfg,
		Compiler:  opts.Compiler,
		Compilers: platform.ResolveCompilers(opts.Platform, opts.Compiler),
		Shared:    opts.Shared,
		Build:     opts.Build,
		Test:      opts.Test,
		Coverage:  opts.Coverage,
	}, nil
}

// LibraryKind returns "shared" or "static".
func (r Request) LibraryKind() string {
	if r.Shared {
		return "shared"
	}
	return "static"
}
