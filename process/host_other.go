//go:build !windows

package process

// HostModule returns the main module of the current process.
func HostModule() (Module, error) {
	return Module{}, ErrUnsupportedPlatform
}
