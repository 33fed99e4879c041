package toolchain

import "runtime"

// platforms maps GOOS/GOARCH to the platform suffix of tree-sitter release
// assets. Unknown combinations have no prebuilt binary.
var platforms = map[string]map[string]string{
	"linux": {
		"amd64": "linux-x64",
		"arm64": "linux-arm64",
		"arm":   "linux-arm",
		"386":   "linux-x86",
	},
	"darwin": {
		"amd64": "macos-x64",
		"arm64": "macos-arm64",
	},
	"windows": {
		"amd64": "windows-x64",
		"386":   "windows-x86",
		"arm64": "windows-arm64",
	},
}

// Platform returns the release platform for goos/goarch.
func Platform(goos, goarch string) (string, bool) {
	p, ok := platforms[goos][goarch]
	return p, ok
}

// DefaultPlatform returns the release platform of the running binary, falling
// back to "<goos>-<goarch>" so the user gets a readable download error.
func DefaultPlatform() string {
	if p, ok := Platform(runtime.GOOS, runtime.GOARCH); ok {
		return p
	}
	return runtime.GOOS + "-" + runtime.GOARCH
}

// BinaryName returns the file name of the provisioned build tool.
func BinaryName(platform string) string {
	name := "tree-sitter-" + platform
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}
