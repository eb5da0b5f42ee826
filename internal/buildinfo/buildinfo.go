// Package buildinfo holds release metadata set at link time:
//
//	go build -ldflags "-X github.com/aidanlsb/broom/internal/buildinfo.Version=v0.3.0"
//
// Local builds leave them empty and fall back to debug.ReadBuildInfo.
package buildinfo

var (
	Version = ""
	Commit  = ""
	Date    = ""
)
