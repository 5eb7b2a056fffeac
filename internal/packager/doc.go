// Package packager assembles the distributable SDK directory after a
// successful build: the built libraries for one configuration plus the public
// headers, laid out under <build>/package.
package packager
