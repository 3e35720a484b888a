package markergen

import "strings"

// version is overridden at link time with -ldflags "-X github.com/vast-data/markergen.version=...".
var version = "0.3.0"

// Version returns the markergen release version. It is recorded in exported manifests
// and checked against the required_version constraint of .markergen.toml.
func Version() string {
	return strings.TrimSpace(version)
}
