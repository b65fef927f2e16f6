//go:build !windows

package process

func fileVersion(exePath string) (FileVersion, error) {
	return scanFileVersion(exePath)
}
