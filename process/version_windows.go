package process

import (
	"fmt"
	"unsafe"

	"github.com/apex/log"
	"golang.org/x/sys/windows"
)

func fileVersion(exePath string) (FileVersion, error) {
	v, err := queryFileVersion(exePath)
	if err == nil {
		return v, nil
	}

	log.WithError(err).WithField("exe", exePath).
		Debug("version api failed, scanning file for version info")

	return scanFileVersion(exePath)
}

func queryFileVersion(exePath string) (FileVersion, error) {
	size, err := windows.GetFileVersionInfoSize(exePath, nil)
	if err != nil {
		return FileVersion{}, fmt.Errorf("failed to get version info size - %w", err)
	}

	buf := make([]byte, size)

	err = windows.GetFileVersionInfo(exePath, 0, size, unsafe.Pointer(&buf[0]))
	if err != nil {
		return FileVersion{}, fmt.Errorf("failed to get version info - %w", err)
	}

	var fixed *windows.VS_FIXEDFILEINFO
	var fixedLen uint32

	err = windows.VerQueryValue(unsafe.Pointer(&buf[0]), `\`, unsafe.Pointer(&fixed), &fixedLen)
	if err != nil {
		return FileVersion{}, fmt.Errorf("failed to query fixed file info - %w", err)
	}

	if fixed == nil || fixedLen == 0 {
		return FileVersion{}, ErrNoVersionInfo
	}

	return fileVersionFromParts(fixed.FileVersionMS, fixed.FileVersionLS), nil
}
