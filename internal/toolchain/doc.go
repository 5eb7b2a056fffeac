// Package toolchain verifies that the external tools a build needs are
// installed, and that CMake is recent enough for the SDK's CMakeLists.
package toolchain
