package process

import (
	"bytes"
	stdpe "debug/pe"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const (
	testImageBase   = 0x140000000
	testSectionRVA  = 0x1000
	testImageSize   = 0x2000
	testFileAlign   = 0x200
	testSectionSize = 0x40
)

// testSectionData contains "mov rax, qword ptr [rip+0xff0]" followed
// by a VS_FIXEDFILEINFO for version 1.02.3.
func testSectionData() []byte {
	data := make([]byte, testFileAlign)

	copy(data, []byte{0x48, 0x8B, 0x05, 0xF0, 0x0F, 0x00, 0x00, 0x48, 0x85, 0xC0})

	copy(data[0x10:], []byte{0xBD, 0x04, 0xEF, 0xFE, 0x00, 0x00, 0x01, 0x00})
	binary.LittleEndian.PutUint32(data[0x18:], 0x00010002)
	binary.LittleEndian.PutUint32(data[0x1c:], 0x00030007)

	return data
}

func buildTestPE(t *testing.T) []byte {
	buf := bytes.NewBuffer(nil)

	dos := make([]byte, 0x40)
	copy(dos, "MZ")
	binary.LittleEndian.PutUint32(dos[0x3c:], 0x40)
	buf.Write(dos)
	buf.WriteString("PE\x00\x00")

	write := func(v interface{}) {
		err := binary.Write(buf, binary.LittleEndian, v)
		if err != nil {
			t.Fatal(err)
		}
	}

	write(stdpe.FileHeader{
		Machine:              stdpe.IMAGE_FILE_MACHINE_AMD64,
		NumberOfSections:     1,
		SizeOfOptionalHeader: uint16(binary.Size(stdpe.OptionalHeader64{})),
		Characteristics:      0x22,
	})

	write(stdpe.OptionalHeader64{
		Magic:               0x20b,
		AddressOfEntryPoint: testSectionRVA,
		ImageBase:           testImageBase,
		SectionAlignment:    0x1000,
		FileAlignment:       testFileAlign,
		SizeOfImage:         testImageSize,
		SizeOfHeaders:       testFileAlign,
		Subsystem:           3,
		NumberOfRvaAndSizes: 16,
	})

	section := stdpe.SectionHeader32{
		VirtualSize:      testSectionSize,
		VirtualAddress:   testSectionRVA,
		SizeOfRawData:    testFileAlign,
		PointerToRawData: testFileAlign,
		Characteristics:  0x60000020,
	}
	copy(section.Name[:], ".text")
	write(section)

	buf.Write(make([]byte, testFileAlign-buf.Len()))
	buf.Write(testSectionData())

	return buf.Bytes()
}

func writeTestPE(t *testing.T) string {
	exePath := filepath.Join(t.TempDir(), "target.exe")

	err := os.WriteFile(exePath, buildTestPE(t), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	return exePath
}

func TestImageSnapshot(t *testing.T) {
	snapshot, err := ImageSnapshot(writeTestPE(t))
	if err != nil {
		t.Fatal(err)
	}

	if snapshot.Name != "target.exe" {
		t.Fatalf("expected target.exe - got %s", snapshot.Name)
	}

	if snapshot.Base != testImageBase {
		t.Fatalf("expected 0x%x - got 0x%x", testImageBase, snapshot.Base)
	}

	if snapshot.Size() != testImageSize {
		t.Fatalf("expected 0x%x - got 0x%x", testImageSize, snapshot.Size())
	}

	if !bytes.Equal(snapshot.Data[:2], []byte("MZ")) {
		t.Fatalf("headers were not mapped - got 0x%x", snapshot.Data[:2])
	}

	exp := testSectionData()[:testSectionSize]
	if !bytes.Equal(snapshot.Data[testSectionRVA:testSectionRVA+testSectionSize], exp) {
		t.Fatal("section was not mapped at its virtual address")
	}

	if snapshot.Data[testSectionRVA+testSectionSize] != 0 {
		t.Fatal("section data past its virtual size was mapped")
	}

	var first [4]byte
	err = snapshot.Space().ReadAt(testImageBase+testSectionRVA+0x10, first[:])
	if err != nil {
		t.Fatal(err)
	}

	if first != [4]byte{0xBD, 0x04, 0xEF, 0xFE} {
		t.Fatalf("unexpected bytes at section offset 0x10: 0x%x", first)
	}
}

func TestImageSnapshot_NotPE(t *testing.T) {
	exePath := filepath.Join(t.TempDir(), "nope.exe")

	err := os.WriteFile(exePath, []byte("#!/bin/sh\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	_, err = ImageSnapshot(exePath)
	if err == nil {
		t.Fatal("expected an error")
	}
}
