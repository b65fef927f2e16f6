// Package resolve generates per-version tables of module-relative
// offsets by resolving a signature catalog against snapshots of each
// build of the target executable.
package resolve

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"gitlab.com/stephen-fox/memkit/signature"
)

// Failure records why a signature could not be resolved.
type Failure struct {
	Name string
	Err  error
}

func (o Failure) Error() string {
	return fmt.Sprintf("%s: %s", o.Name, o.Err)
}

func (o Failure) Unwrap() error {
	return o.Err
}

// Result holds the outcome of resolving a catalog against one module.
type Result struct {
	// Offsets maps signature names to module-relative offsets.
	Offsets map[string]uint64

	// Failures lists the signatures that could not be resolved,
	// sorted by name.
	Failures []Failure
}

// Found returns the names of the resolved signatures, sorted.
func (o *Result) Found() []string {
	names := make([]string, 0, len(o.Offsets))
	for name := range o.Offsets {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

type scanSlot struct {
	offset uint64
	err    error
}

// Scan resolves every signature in catalog against data, the
// snapshot of a module. Signatures are resolved independently
// and concurrently, and a signature that cannot be resolved is
// recorded as a Failure without affecting the others.
//
// An error is only returned if ctx is done before the scan completes.
func Scan(ctx context.Context, data []byte, catalog signature.Catalog, options ...Option) (*Result, error) {
	config := newConfig(options)

	slots := make([]scanSlot, len(catalog))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.parallelism)

	for i, sig := range catalog {
		g.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err
			}

			offset, err := sig.Resolve(data)
			slots[i] = scanSlot{
				offset: offset,
				err:    err,
			}

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Offsets: make(map[string]uint64, len(catalog)),
	}

	for i, slot := range slots {
		if slot.err != nil {
			result.Failures = append(result.Failures, Failure{
				Name: catalog[i].Name,
				Err:  slot.err,
			})
			continue
		}

		result.Offsets[catalog[i].Name] = slot.offset
	}

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Name < result.Failures[j].Name
	})

	return result, nil
}

// Option customizes Scan and Resolver.
type Option func(*config)

type config struct {
	parallelism int
}

// WithParallelism limits the number of concurrent operations.
func WithParallelism(n int) Option {
	return func(c *config) {
		c.parallelism = n
	}
}

func newConfig(options []Option) config {
	c := config{
		parallelism: runtime.GOMAXPROCS(0),
	}

	for _, option := range options {
		option(&c)
	}

	if c.parallelism <= 0 {
		c.parallelism = 1
	}

	return c
}
