package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gitlab.com/stephen-fox/memkit/process"
	"gitlab.com/stephen-fox/memkit/signature"
)

// loadCatalog returns the catalog named by the "catalog" setting,
// or the built-in catalog.
func loadCatalog() (signature.Catalog, error) {
	catalogPath := viper.GetString("catalog")
	if catalogPath == "" {
		return signature.DefaultCatalog()
	}

	f, err := os.Open(catalogPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open catalog")
	}
	defer f.Close()

	return signature.LoadCatalog(f)
}

// snapshotExe maps exePath as a PE image, or launches it under
// a debugger when launch is true.
func snapshotExe(ctx context.Context, exePath string, launch bool) (*process.ModuleSnapshot, error) {
	if launch {
		return process.LaunchSnapshot(ctx, exePath)
	}

	return process.ImageSnapshot(exePath)
}
