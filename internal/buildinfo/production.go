//go:build production

package buildinfo

// Debug is false for release builds produced by wails build.
const Debug = false
