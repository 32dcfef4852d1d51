package build

import "fmt"

// These variables are set at build time via -ldflags.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// ServiceName identifies notifyd in telemetry resources and logs.
const ServiceName = "notifyd"

// String returns a single human-readable build info string.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", ServiceName, Version, CommitSHA, BuildDate)
}
