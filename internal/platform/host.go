package platform

import "runtime"

// Host describes the operating system gabuild itself runs on. It is
// independent of the target Platform.
type Host struct {
	GOOS string
}

// CurrentHost returns the Host for the running process.
func CurrentHost() Host {
	return Host{GOOS: runtime.GOOS}
}

// IsWindows returns true if the host is Windows.
func (h Host) IsWindows() bool {
	return h.GOOS == "windows"
}

// Shell returns the argv prefix used to hand a full command string to the
// host's native shell. The command string is appended as the final argument.
func (h Host) Shell() []string {
	if h.IsWindows() {
		return []string{"powershell.exe", "-Command"}
	}
	return []string{"sh", "-c"}
}
