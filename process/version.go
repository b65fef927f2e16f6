package process

import (
	"encoding/binary"
	"fmt"
	"os"

	"gitlab.com/stephen-fox/memkit/pattern"
)

// FileVersion is the file version stored in an executable's
// VS_FIXEDFILEINFO resource.
type FileVersion struct {
	Major uint16
	Minor uint16
	Patch uint16
	Build uint16
}

func (o FileVersion) String() string {
	return fmt.Sprintf("%d.%02d.%d", o.Major, o.Minor, o.Patch)
}

func fileVersionFromParts(ms uint32, ls uint32) FileVersion {
	return FileVersion{
		Major: uint16(ms >> 16),
		Minor: uint16(ms & 0xffff),
		Patch: uint16(ls >> 16),
		Build: uint16(ls & 0xffff),
	}
}

// FileVersionOfOrExit calls FileVersionOf, invoking DefaultExitFn
// if an error occurs.
func FileVersionOfOrExit(exePath string) FileVersion {
	v, err := FileVersionOf(exePath)
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to get file version of '%s' - %w", exePath, err))
	}
	return v
}

// FileVersionOf returns the file version of an executable.
func FileVersionOf(exePath string) (FileVersion, error) {
	return fileVersion(exePath)
}

// fixedFileInfoPattern matches the dwSignature and dwStrucVersion
// members of a VS_FIXEDFILEINFO.
var fixedFileInfoPattern = pattern.ParseOrExit("BD 04 EF FE 00 00 01 00")

// scanFileVersion finds the file version in an executable without
// the help of the operating system by looking for a VS_FIXEDFILEINFO.
func scanFileVersion(exePath string) (FileVersion, error) {
	raw, err := os.ReadFile(exePath)
	if err != nil {
		return FileVersion{}, err
	}

	return parseFixedFileInfo(raw)
}

func parseFixedFileInfo(data []byte) (FileVersion, error) {
	offset, found := fixedFileInfoPattern.Find(data)
	if !found || offset+16 > len(data) {
		return FileVersion{}, ErrNoVersionInfo
	}

	ms := binary.LittleEndian.Uint32(data[offset+8:])
	ls := binary.LittleEndian.Uint32(data[offset+12:])

	return fileVersionFromParts(ms, ls), nil
}
