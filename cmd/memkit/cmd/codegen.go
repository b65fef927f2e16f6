package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/caarlos0/ctrlc"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gitlab.com/stephen-fox/memkit/resolve"
)

func init() {
	rootCmd.AddCommand(codegenCmd)

	codegenCmd.Flags().StringP("patches", "p", "", "directory containing one sub-directory per game patch")
	codegenCmd.Flags().StringP("exe", "e", resolve.DefaultExeRelPath, "path of the executable relative to a patch directory")
	codegenCmd.Flags().StringP("output", "o", filepath.Join("baseaddr", "base_addresses.go"), "output Go file")
	codegenCmd.Flags().String("package", resolve.DefaultPackage, "package name of the generated file")
	codegenCmd.Flags().Bool("image", false, "map executables from disk instead of launching them")
	codegenCmd.Flags().IntP("parallel", "j", 0, "number of concurrent scans (default is GOMAXPROCS)")
	viper.BindPFlag("patches-path", codegenCmd.Flags().Lookup("patches"))
	viper.BindPFlag("exe", codegenCmd.Flags().Lookup("exe"))
	viper.BindPFlag("output", codegenCmd.Flags().Lookup("output"))
	viper.BindEnv("patches-path", "ERPT_PATCHES_PATH", "MEMKIT_PATCHES_PATH")
	codegenCmd.MarkFlagDirname("patches")
}

// codegenCmd represents the codegen command
var codegenCmd = &cobra.Command{
	Use:   "codegen",
	Short: "Resolve the signature catalog against every patch and generate the base address tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		patchesDir := viper.GetString("patches-path")
		if patchesDir == "" {
			return fmt.Errorf("please specify a patches directory with --patches or MEMKIT_PATCHES_PATH")
		}

		pkgName, _ := cmd.Flags().GetString("package")
		useImage, _ := cmd.Flags().GetBool("image")
		parallel, _ := cmd.Flags().GetInt("parallel")
		outputPath := viper.GetString("output")

		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		exePaths, err := resolve.PatchPaths(patchesDir, viper.GetString("exe"))
		if err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"patches":    len(exePaths),
			"signatures": len(catalog),
			"directory":  patchesDir,
			"image-mode": useImage,
		}).Info("Resolving signatures")

		acquire := resolve.LaunchAcquirer()
		if useImage {
			acquire = resolve.ImageAcquirer()
		}

		options := []resolve.ResolverOption{resolve.WithAcquirer(acquire)}
		if parallel > 0 {
			options = append(options, resolve.WithScanOptions(resolve.WithParallelism(parallel)))
		}

		resolver := resolve.NewResolver(catalog, options...)

		var reports []resolve.Report

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := ctrlc.Default.Run(ctx, func() error {
			var err error
			reports, err = resolver.Resolve(ctx, exePaths)
			return err
		}); err != nil {
			return err
		}

		usable := 0
		for _, report := range reports {
			if report.Err != nil {
				log.WithField("exe", report.Path).WithError(report.Err).Error("Skipping executable")
				continue
			}

			usable++

			log.WithFields(log.Fields{
				"version": report.Version.String(),
				"size":    humanize.IBytes(uint64(report.Size)),
				"found":   len(report.Result.Offsets),
			}).Debug("Resolved")
		}

		if usable == 0 {
			return fmt.Errorf("no usable executables were found in %s", patchesDir)
		}

		source := bytes.NewBuffer(nil)

		err = resolve.Generate(source, resolve.GenerateConfig{
			Package: pkgName,
			Catalog: catalog,
			Table:   resolve.Table(reports),
		})
		if err != nil {
			return err
		}

		if err := os.WriteFile(outputPath, source.Bytes(), 0644); err != nil {
			return errors.Wrapf(err, "failed to write %s", outputPath)
		}

		log.Infof("Created %s", outputPath)

		return nil
	},
}
