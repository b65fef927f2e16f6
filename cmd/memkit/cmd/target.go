package cmd

import (
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"gitlab.com/stephen-fox/memkit/baseaddr"
	"gitlab.com/stephen-fox/memkit/memory"
	"gitlab.com/stephen-fox/memkit/process"
	"gitlab.com/stephen-fox/memkit/version"
)

const defaultExeName = "eldenring.exe"

// target is a running game process and its rebased base addresses.
type target struct {
	space     *process.RemoteSpace
	version   version.Version
	addresses baseaddr.BaseAddresses
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32P("pid", "p", 0, "process ID of the game (default is the first process named --name)")
	cmd.Flags().StringP("name", "n", defaultExeName, "executable name of the game")
	cmd.Flags().StringP("game-version", "g", "", "game version (default is the main module's file version)")
}

func openTarget(cmd *cobra.Command) (*target, error) {
	pid, _ := cmd.Flags().GetUint32("pid")
	exeName, _ := cmd.Flags().GetString("name")
	forcedVersion, _ := cmd.Flags().GetString("game-version")

	if pid == 0 {
		var err error
		pid, err = process.FindPID(exeName)
		if err != nil {
			return nil, err
		}
	}

	space, err := process.OpenRemote(pid)
	if err != nil {
		return nil, err
	}

	t, err := newTarget(space, forcedVersion)
	if err != nil {
		space.Close()
		return nil, err
	}

	return t, nil
}

func newTarget(space *process.RemoteSpace, forcedVersion string) (*target, error) {
	module, err := space.MainModule()
	if err != nil {
		return nil, err
	}

	var v version.Version
	if forcedVersion != "" {
		v, err = version.Parse(forcedVersion)
	} else {
		var fv process.FileVersion
		fv, err = process.FileVersionOf(module.Path)
		if err == nil {
			v, err = version.FromTriple(uint32(fv.Major), uint32(fv.Minor), uint32(fv.Patch))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to identify %s - %w", module.Name, err)
	}

	offsets, err := baseaddr.For(v)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pid":     space.PID(),
		"module":  module.String(),
		"version": v.String(),
	}).Debug("Opened game process")

	return &target{
		space:     space,
		version:   v,
		addresses: offsets.WithModuleBaseAddr(module.Base),
	}, nil
}

// root returns the absolute root address of spec.
func (o *target) root(spec memory.ChainSpec) (uintptr, error) {
	if spec.Symbol == "" {
		return spec.Root(0), nil
	}

	addr, found := o.addresses.Lookup(spec.Symbol)
	if !found {
		return 0, fmt.Errorf("%s is not resolved for %s", spec.Symbol, o.version)
	}

	return spec.Root(addr), nil
}

func (o *target) Close() error {
	return o.space.Close()
}
