package process

import (
	"errors"
	"log"
)

var (
	// DefaultExitFn is invoked by functions and methods ending in
	// the "OrExit" suffix when an error occurs.
	DefaultExitFn = func(err error) {
		log.Fatalln(err)
	}

	ErrUnsupportedPlatform = errors.New("operation is not supported on this platform")
	ErrProcessCreate       = errors.New("failed to create process")
	ErrProcessExited       = errors.New("process exited before its modules were loaded")
	ErrLoaderTimeout       = errors.New("timed out waiting for the process loader")
	ErrModuleNotFound      = errors.New("module not found")
	ErrProcessNotFound     = errors.New("process not found")
	ErrNoVersionInfo       = errors.New("file has no version information")
)
