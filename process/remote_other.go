//go:build !windows

package process

// OpenRemoteOrExit calls OpenRemote, invoking DefaultExitFn if
// an error occurs.
func OpenRemoteOrExit(pid uint32) *RemoteSpace {
	space, err := OpenRemote(pid)
	if err != nil {
		DefaultExitFn(err)
	}
	return space
}

// OpenRemote opens the address space of another process.
func OpenRemote(uint32) (*RemoteSpace, error) {
	return nil, ErrUnsupportedPlatform
}

// RemoteSpace is the address space of another process.
type RemoteSpace struct{}

func (o *RemoteSpace) ReadAt(uintptr, []byte) error {
	return ErrUnsupportedPlatform
}

func (o *RemoteSpace) WriteAt(uintptr, []byte) error {
	return ErrUnsupportedPlatform
}

func (o *RemoteSpace) PointerSizeBytes() int {
	return 8
}

func (o *RemoteSpace) PID() uint32 {
	return 0
}

func (o *RemoteSpace) MainModule() (Module, error) {
	return Module{}, ErrUnsupportedPlatform
}

func (o *RemoteSpace) Snapshot() (*ModuleSnapshot, error) {
	return nil, ErrUnsupportedPlatform
}

func (o *RemoteSpace) Close() error {
	return nil
}
