package process

import (
	"fmt"
	"strings"

	psprocess "github.com/shirou/gopsutil/v3/process"
)

// FindPIDOrExit calls FindPID, invoking DefaultExitFn if an error occurs.
func FindPIDOrExit(exeName string) uint32 {
	pid, err := FindPID(exeName)
	if err != nil {
		DefaultExitFn(err)
	}
	return pid
}

// FindPID returns the ID of the first running process whose
// executable is named exeName. The comparison ignores case.
func FindPID(exeName string) (uint32, error) {
	processes, err := psprocess.Processes()
	if err != nil {
		return 0, fmt.Errorf("failed to list processes - %w", err)
	}

	for _, p := range processes {
		name, err := p.Name()
		if err == nil && strings.EqualFold(name, exeName) {
			return uint32(p.Pid), nil
		}
	}

	return 0, fmt.Errorf("%w: no process named '%s'", ErrProcessNotFound, exeName)
}
