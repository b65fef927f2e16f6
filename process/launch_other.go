//go:build !(windows && amd64)

package process

import (
	"context"
)

func launchSnapshot(context.Context, string, launchConfig) (*ModuleSnapshot, error) {
	return nil, ErrUnsupportedPlatform
}
