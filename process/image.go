package process

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Binject/debug/pe"
	"github.com/apex/log"
)

// ImageSnapshotOrExit calls ImageSnapshot, invoking DefaultExitFn
// if an error occurs.
func ImageSnapshotOrExit(exePath string) *ModuleSnapshot {
	snapshot, err := ImageSnapshot(exePath)
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to create image snapshot of '%s' - %w", exePath, err))
	}
	return snapshot
}

// ImageSnapshot maps a PE file's headers and sections at their
// relative virtual addresses, producing the module memory that the
// loader would map before relocations and imports are applied.
// The snapshot's base is the image's preferred base address.
//
// Unlike LaunchSnapshot, this works on any platform and does not
// run the executable. Executables that unpack or decrypt themselves
// at run time are not supported.
func ImageSnapshot(exePath string) (*ModuleSnapshot, error) {
	raw, err := os.ReadFile(exePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read executable - %w", err)
	}

	return imageSnapshotFromBytes(filepath.Base(exePath), exePath, raw)
}

func imageSnapshotFromBytes(name string, exePath string, raw []byte) (*ModuleSnapshot, error) {
	peFile, err := pe.NewFile(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pe file - %w", err)
	}

	var imageBase uint64
	var imageSize uint32
	var headersSize uint32

	switch header := peFile.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		imageBase = header.ImageBase
		imageSize = header.SizeOfImage
		headersSize = header.SizeOfHeaders
	case *pe.OptionalHeader32:
		imageBase = uint64(header.ImageBase)
		imageSize = header.SizeOfImage
		headersSize = header.SizeOfHeaders
	default:
		return nil, fmt.Errorf("pe file has no optional header")
	}

	image := make([]byte, imageSize)

	copy(image, raw[:min(int(headersSize), len(raw), len(image))])

	for _, section := range peFile.Sections {
		if section.Size == 0 {
			continue
		}

		data, err := section.Data()
		if err != nil {
			return nil, fmt.Errorf("failed to read section %s - %w", section.Name, err)
		}

		if section.VirtualSize > 0 && uint32(len(data)) > section.VirtualSize {
			data = data[:section.VirtualSize]
		}

		if uint64(section.VirtualAddress)+uint64(len(data)) > uint64(len(image)) {
			return nil, fmt.Errorf("section %s at 0x%x exceeds the image size of 0x%x",
				section.Name, section.VirtualAddress, len(image))
		}

		copy(image[section.VirtualAddress:], data)
	}

	snapshot := &ModuleSnapshot{
		Name: name,
		Path: exePath,
		Base: uintptr(imageBase),
		Data: image,
	}

	log.WithFields(log.Fields{
		"module":   name,
		"sections": len(peFile.Sections),
	}).Debugf("mapped image %s", snapshot)

	return snapshot, nil
}
