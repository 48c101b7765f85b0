// Package buildinfo carries values fixed at build time.
package buildinfo

// Version is overridden with -ldflags "-X .../internal/buildinfo.Version=...".
var Version = "0.1.0-dev"

// FrontendCompatible is the semver range of front-end bundles this backend serves.
const FrontendCompatible = "^0.1"
