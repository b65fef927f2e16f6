package process

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultPollInterval = time.Second
	defaultLoadTimeout  = 30 * time.Second
)

// LaunchOption customizes LaunchSnapshot.
type LaunchOption func(*launchConfig)

type launchConfig struct {
	pollInterval time.Duration
	loadTimeout  time.Duration
	moduleName   string
}

// WithPollInterval sets the maximum amount of time spent waiting
// for a single debug event before checking for cancellation.
func WithPollInterval(d time.Duration) LaunchOption {
	return func(c *launchConfig) {
		c.pollInterval = d
	}
}

// WithLoadTimeout sets the maximum amount of time to wait for the
// process loader to map the executable's modules.
func WithLoadTimeout(d time.Duration) LaunchOption {
	return func(c *launchConfig) {
		c.loadTimeout = d
	}
}

// WithModuleName snapshots the named module rather than the
// executable's own module.
func WithModuleName(name string) LaunchOption {
	return func(c *launchConfig) {
		c.moduleName = name
	}
}

func newLaunchConfig(options []LaunchOption) launchConfig {
	config := launchConfig{
		pollInterval: defaultPollInterval,
		loadTimeout:  defaultLoadTimeout,
	}

	for _, option := range options {
		option(&config)
	}

	if config.pollInterval <= 0 {
		config.pollInterval = defaultPollInterval
	}

	if config.loadTimeout <= 0 {
		config.loadTimeout = defaultLoadTimeout
	}

	return config
}

// LaunchSnapshotOrExit calls LaunchSnapshot, invoking DefaultExitFn
// if an error occurs.
func LaunchSnapshotOrExit(ctx context.Context, exePath string, options ...LaunchOption) *ModuleSnapshot {
	snapshot, err := LaunchSnapshot(ctx, exePath, options...)
	if err != nil {
		DefaultExitFn(fmt.Errorf("failed to snapshot '%s' - %w", exePath, err))
	}
	return snapshot
}

// LaunchSnapshot starts the executable under a debugger, waits until
// the loader has mapped its modules, copies the executable's module
// out of the new process, and terminates the process. The process
// is terminated on every return path, and never gets to run its
// own code for long.
//
// LaunchSnapshot is only supported on 64-bit Windows. Other
// platforms return ErrUnsupportedPlatform. ImageSnapshot is
// a portable alternative.
func LaunchSnapshot(ctx context.Context, exePath string, options ...LaunchOption) (*ModuleSnapshot, error) {
	config := newLaunchConfig(options)

	ctx, cancelFn := context.WithTimeout(ctx, config.loadTimeout)
	defer cancelFn()

	return launchSnapshot(ctx, exePath, config)
}
