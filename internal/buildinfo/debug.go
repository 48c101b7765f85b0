//go:build !production

package buildinfo

// Debug is true for development builds (wails dev, go run, go test).
const Debug = true
