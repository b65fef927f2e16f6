package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"gitlab.com/stephen-fox/memkit/memory"
	"gitlab.com/stephen-fox/memkit/process"
	"gitlab.com/stephen-fox/memkit/signature"
	"gitlab.com/stephen-fox/memkit/version"
)

var (
	ErrDuplicateVersion = errors.New("another executable has the same version")
)

// Acquirer produces a snapshot of an executable's main module.
type Acquirer func(ctx context.Context, exePath string) (*process.ModuleSnapshot, error)

// VersionDetector identifies the build of an executable.
type VersionDetector func(exePath string) (version.Version, error)

// LaunchAcquirer snapshots executables by launching them under
// a debugger. Refer to process.LaunchSnapshot for details.
func LaunchAcquirer(options ...process.LaunchOption) Acquirer {
	return func(ctx context.Context, exePath string) (*process.ModuleSnapshot, error) {
		return process.LaunchSnapshot(ctx, exePath, options...)
	}
}

// ImageAcquirer snapshots executables by mapping their PE image.
// Refer to process.ImageSnapshot for details.
func ImageAcquirer() Acquirer {
	return func(_ context.Context, exePath string) (*process.ModuleSnapshot, error) {
		return process.ImageSnapshot(exePath)
	}
}

// DetectVersion identifies an executable from its file version.
func DetectVersion(exePath string) (version.Version, error) {
	fileVersion, err := process.FileVersionOf(exePath)
	if err != nil {
		return 0, err
	}

	return version.FromTriple(uint32(fileVersion.Major), uint32(fileVersion.Minor), uint32(fileVersion.Patch))
}

// Report is the outcome of resolving the catalog for one executable.
type Report struct {
	Path    string
	Version version.Version
	Base    uintptr
	Size    int
	Result  *Result

	// Err is non-nil if the executable's version could not be
	// identified or if its module could not be acquired.
	Err error
}

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithAcquirer sets how snapshots are produced. LaunchAcquirer
// is used by default.
func WithAcquirer(acquire Acquirer) ResolverOption {
	return func(r *Resolver) {
		r.acquire = acquire
	}
}

// WithVersionDetector sets how builds are identified. DetectVersion
// is used by default.
func WithVersionDetector(detect VersionDetector) ResolverOption {
	return func(r *Resolver) {
		r.detect = detect
	}
}

// WithScanOptions sets the options passed to Scan. The parallelism
// is also used to limit how many executables are processed at once.
func WithScanOptions(options ...Option) ResolverOption {
	return func(r *Resolver) {
		r.scanOptions = options
	}
}

// NewResolver creates a *Resolver for the specified catalog.
func NewResolver(catalog signature.Catalog, options ...ResolverOption) *Resolver {
	r := &Resolver{
		catalog: catalog,
		acquire: LaunchAcquirer(),
		detect:  DetectVersion,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

// Resolver resolves a signature catalog against several builds
// of an executable.
type Resolver struct {
	catalog     signature.Catalog
	acquire     Acquirer
	detect      VersionDetector
	scanOptions []Option
}

// Resolve produces one Report per executable, ordered by version.
// Executables are processed concurrently and a failure to process
// one executable never affects the others.
//
// An error is only returned if ctx is done.
func (o *Resolver) Resolve(ctx context.Context, exePaths []string) ([]Report, error) {
	reports := make([]Report, len(exePaths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(newConfig(o.scanOptions).parallelism)

	for i, exePath := range exePaths {
		g.Go(func() error {
			reports[i] = o.resolveOne(ctx, exePath)
			return ctx.Err()
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Version < reports[j].Version
	})

	seen := make(map[version.Version]string)

	for i := range reports {
		if reports[i].Err != nil {
			continue
		}

		if other, hasIt := seen[reports[i].Version]; hasIt {
			reports[i].Err = fmt.Errorf("%w: %s (%s)", ErrDuplicateVersion, reports[i].Version, other)
			reports[i].Result = nil
			continue
		}

		seen[reports[i].Version] = reports[i].Path
	}

	return reports, nil
}

func (o *Resolver) resolveOne(ctx context.Context, exePath string) Report {
	report := Report{
		Path: exePath,
	}

	logger := log.WithField("exe", exePath)

	v, err := o.detect(exePath)
	if err != nil {
		report.Err = fmt.Errorf("failed to identify version - %w", err)
		logger.WithError(err).Warn("skipping executable")
		return report
	}

	report.Version = v
	logger = logger.WithField("version", v)

	snapshot, err := o.acquire(ctx, exePath)
	if err != nil {
		report.Err = fmt.Errorf("failed to acquire module - %w", err)
		logger.WithError(err).Warn("skipping executable")
		return report
	}

	report.Base = snapshot.Base
	report.Size = snapshot.Size()

	logger.Infof("acquired %s", snapshot)

	result, err := Scan(ctx, snapshot.Data, o.catalog, o.scanOptions...)
	if err != nil {
		report.Err = err
		return report
	}

	for _, failure := range result.Failures {
		logger.WithField("signature", failure.Name).WithError(failure.Err).Warn("signature not resolved")
	}

	logger.WithFields(log.Fields{
		"found":   len(result.Offsets),
		"missing": len(result.Failures),
	}).Info("resolved signatures")

	report.Result = result

	return report
}

// Table converts successful reports into a *memory.AddressTable with
// one context per version, named by the version's string form.
func Table(reports []Report) *memory.AddressTable {
	table := memory.NewAddressTable("")

	for _, report := range reports {
		if report.Err != nil || report.Result == nil {
			continue
		}

		contextName := report.Version.String()
		if table.CurrentContext() == "" {
			table.SetContext(contextName)
		}

		for name, offset := range report.Result.Offsets {
			table.AddSymbolInContext(name, uintptr(offset), contextName)
		}
	}

	return table
}

// DefaultExeRelPath is the location of the executable within
// a patch directory.
var DefaultExeRelPath = filepath.Join("Game", "eldenring.exe")

// PatchPaths lists the executables found at exeRelPath within each
// subdirectory of dir. Each subdirectory holds one build.
func PatchPaths(dir string, exeRelPath string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read patches directory - %w", err)
	}

	var exePaths []string

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		exePath := filepath.Join(dir, entry.Name(), exeRelPath)

		info, err := os.Stat(exePath)
		if err != nil || info.IsDir() {
			log.WithField("dir", entry.Name()).Debug("patch directory has no executable")
			continue
		}

		exePaths = append(exePaths, exePath)
	}

	sort.Strings(exePaths)

	return exePaths, nil
}
