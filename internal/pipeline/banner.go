package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	header  = color.New(color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	rule    = strings.Repeat("=", 60)
)

func printStartBanner(w io.Writer, r Request) {
	fmt.Fprintf(w, "\n%s\n", rule)
	header.Fprintf(w, "Building %s library for %s with %s", r.LibraryKind(), r.Platform, r.Compilers.Name())
	fmt.Fprintf(w, "\n%s\n\n", rule)
}

func printCompletionBanner(w io.Writer, r Request, packageDir string) {
	kind := cases.Title(language.English).String(r.LibraryKind())
	fmt.Fprintln(w)
	success.Fprintf(w, "[OK] %s library build completed for %s with %s", kind, r.Platform, r.Compilers.Name())
	fmt.Fprintf(w, "\n  Package location: %s\n\n", packageDir)
}
