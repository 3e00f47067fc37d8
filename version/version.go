// Package version exposes build metadata set at link time.
package version

import "fmt"

// Set via -ldflags at build time
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info describes the running binary
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the build information
func Get() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("mesh2step %s (commit %s, built %s)", i.Version, i.Commit, i.Date)
}
