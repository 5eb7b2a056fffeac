package platform

import "fmt"

// Compiler is an explicit compiler family choice. Only Linux targets accept one.
type Compiler string

const (
	// CompilerDefault means no choice was made.
	CompilerDefault Compiler = ""
	GCC             Compiler = "gcc"
	Clang           Compiler = "clang"
)

// Compilers lists the accepted compiler choices.
var Compilers = []Compiler{GCC, Clang}

// ParseCompiler returns the Compiler named by s.
func ParseCompiler(s string) (Compiler, error) {
	for _, c := range Compilers {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid compiler %q (choose from %s)", s, joinNames(Compilers))
}

func (c *Compiler) String() string { return string(*c) }

func (c *Compiler) Set(s string) error {
	v, err := ParseCompiler(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c *Compiler) Type() string { return "compiler" }

// CompilerPair holds the C and C++ compiler names passed to CMake.
// The zero value means CMake picks its own defaults.
type CompilerPair struct {
	C   string
	CXX string
}

// IsZero reports whether no compiler override applies.
func (p CompilerPair) IsZero() bool {
	return p.C == "" && p.CXX == ""
}

// Name returns the C compiler name, or "default" when none is set.
func (p CompilerPair) Name() string {
	if p.C == "" {
		return "default"
	}
	return p.C
}

// ResolveCompilers returns the compiler pair for a platform. The choice is
// only consulted for Linux targets; Clang is the Linux default.
func ResolveCompilers(p Platform, choice Compiler) CompilerPair {
	switch {
	case p.IsMacOS():
		return CompilerPair{C: "clang", CXX: "clang++"}
	case p.IsWindows():
		return CompilerPair{C: "cl", CXX: "cl"}
	case p.IsLinux():
		if choice == GCC {
			return CompilerPair{C: "gcc", CXX: "g++"}
		}
		return CompilerPair{C: "clang", CXX: "clang++"}
	}
	return CompilerPair{}
}
