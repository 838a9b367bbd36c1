package config

import "fmt"

// Populated at build time via -ldflags.
var (
	Version    = "dev"
	CommitHash = "n/a"
	BuildTime  = "n/a"
)

var VersionString = fmt.Sprintf("%s-%s (%s)", Version, CommitHash, BuildTime)
