package process

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindPID_Self(t *testing.T) {
	exePath, err := os.Executable()
	if err != nil {
		t.Skip(err)
	}

	_, err = FindPID(filepath.Base(exePath))
	if err != nil {
		t.Fatal(err)
	}
}

func TestFindPID_NotFound(t *testing.T) {
	_, err := FindPID("memkit-no-such-process.exe")
	if !errors.Is(err, ErrProcessNotFound) {
		t.Fatalf("expected ErrProcessNotFound - got %v", err)
	}
}
