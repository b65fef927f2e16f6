package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gitlab.com/stephen-fox/memkit/process"
	"gitlab.com/stephen-fox/memkit/signature"
	"gitlab.com/stephen-fox/memkit/version"
)

func testCatalog(t *testing.T) signature.Catalog {
	var catalog signature.Catalog

	for name, str := range map[string]string{
		"GameDataMan": "48 8B 05 ?? ?? ?? ?? 48 85 C0 74 05",
		"WorldChrMan": "48 8B 0D ?? ?? ?? ?? 48 85 C9 74 5E",
		"FieldArea":   "48 8B 3D ?? ?? ?? ?? 48 85 FF 0F 84",
		"Missing":     "DE AD BE EF ?? ?? ?? ??",
	} {
		sig, err := signature.New(name, str)
		if err != nil {
			t.Fatal(err)
		}

		catalog = append(catalog, sig)
	}

	return catalog
}

// testModule places the GameDataMan and WorldChrMan instructions in
// a module, with a WorldChrMan offset that depends on shift. The
// FieldArea instruction points past the end of the module.
func testModule(shift int32) []byte {
	data := make([]byte, 0x1000)

	copy(data[0x100:], []byte{0x48, 0x8B, 0x05, 0x50, 0x00, 0x00, 0x00, 0x48, 0x85, 0xC0, 0x74, 0x05})

	at := 0x200 + int(shift)
	copy(data[at:], []byte{0x48, 0x8B, 0x0D, 0x00, 0x01, 0x00, 0x00, 0x48, 0x85, 0xC9, 0x74, 0x5E})

	copy(data[0x300:], []byte{0x48, 0x8B, 0x3D, 0x00, 0x10, 0x00, 0x00, 0x48, 0x85, 0xFF, 0x0F, 0x84})

	return data
}

func TestScan(t *testing.T) {
	result, err := Scan(context.Background(), testModule(0), testCatalog(t), WithParallelism(2))
	if err != nil {
		t.Fatal(err)
	}

	exp := map[string]uint64{
		"GameDataMan": 0x157,
		"WorldChrMan": 0x307,
	}

	if diff := cmp.Diff(exp, result.Offsets); diff != "" {
		t.Fatalf("offsets mismatch (-want +got):\n%s", diff)
	}

	if len(result.Failures) != 2 {
		t.Fatalf("expected 2 failures - got %v", result.Failures)
	}

	if result.Failures[0].Name != "FieldArea" || !errors.Is(result.Failures[0], signature.ErrOperandOverflow) {
		t.Fatalf("expected FieldArea to overflow - got %v", result.Failures[0])
	}

	if result.Failures[1].Name != "Missing" || !errors.Is(result.Failures[1], signature.ErrPatternNotFound) {
		t.Fatalf("expected Missing to not be found - got %v", result.Failures[1])
	}

	if diff := cmp.Diff([]string{"GameDataMan", "WorldChrMan"}, result.Found()); diff != "" {
		t.Fatalf("found mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_Idempotent(t *testing.T) {
	data := testModule(0)
	catalog := testCatalog(t)

	first, err := Scan(context.Background(), data, catalog)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		again, err := Scan(context.Background(), data, catalog, WithParallelism(i))
		if err != nil {
			t.Fatal(err)
		}

		if diff := cmp.Diff(first.Offsets, again.Offsets); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestScan_Canceled(t *testing.T) {
	ctx, cancelFn := context.WithCancel(context.Background())
	cancelFn()

	_, err := Scan(ctx, testModule(0), testCatalog(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled - got %v", err)
	}
}

func fakeResolver(t *testing.T, versions map[string]version.Version, shifts map[string]int32) *Resolver {
	return NewResolver(testCatalog(t),
		WithVersionDetector(func(exePath string) (version.Version, error) {
			v, hasIt := versions[exePath]
			if !hasIt {
				return 0, version.ErrUnsupported
			}
			return v, nil
		}),
		WithAcquirer(func(_ context.Context, exePath string) (*process.ModuleSnapshot, error) {
			shift, hasIt := shifts[exePath]
			if !hasIt {
				return nil, process.ErrProcessCreate
			}
			return &process.ModuleSnapshot{
				Name: filepath.Base(exePath),
				Path: exePath,
				Base: 0x140000000,
				Data: testModule(shift),
			}, nil
		}))
}

func TestResolver_Resolve(t *testing.T) {
	r := fakeResolver(t,
		map[string]version.Version{
			"1.03.0/eldenring.exe": version.V1_03_0,
			"1.02.0/eldenring.exe": version.V1_02_0,
			"broken/eldenring.exe": version.V1_02_1,
		},
		map[string]int32{
			"1.02.0/eldenring.exe": 0,
			"1.03.0/eldenring.exe": 0x10,
		})

	reports, err := r.Resolve(context.Background(), []string{
		"1.03.0/eldenring.exe",
		"unknown/eldenring.exe",
		"1.02.0/eldenring.exe",
		"broken/eldenring.exe",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(reports) != 4 {
		t.Fatalf("expected 4 reports - got %d", len(reports))
	}

	if !errors.Is(reports[0].Err, version.ErrUnsupported) {
		t.Fatalf("expected the unknown executable to be first - got %+v", reports[0])
	}

	if reports[1].Version != version.V1_02_0 || reports[1].Err != nil {
		t.Fatalf("expected 1.02.0 to succeed - got %+v", reports[1])
	}

	if reports[2].Version != version.V1_02_1 || !errors.Is(reports[2].Err, process.ErrProcessCreate) {
		t.Fatalf("expected 1.02.1 to fail acquisition - got %+v", reports[2])
	}

	if reports[3].Version != version.V1_03_0 || reports[3].Err != nil {
		t.Fatalf("expected 1.03.0 to succeed - got %+v", reports[3])
	}

	table := Table(reports)

	if diff := cmp.Diff([]string{"1.02.0", "1.03.0"}, table.Contexts()); diff != "" {
		t.Fatalf("contexts mismatch (-want +got):\n%s", diff)
	}

	addr, err := table.AddressInContext("WorldChrMan", "1.03.0")
	if err != nil {
		t.Fatal(err)
	}

	if addr != 0x317 {
		t.Fatalf("expected 0x317 - got 0x%x", addr)
	}

	_, err = table.AddressInContext("Missing", "1.02.0")
	if err == nil {
		t.Fatal("expected missing signature to be absent from the table")
	}
}

func TestResolver_DuplicateVersion(t *testing.T) {
	r := fakeResolver(t,
		map[string]version.Version{
			"a/eldenring.exe": version.V1_02_3,
			"b/eldenring.exe": version.V1_02_3,
		},
		map[string]int32{
			"a/eldenring.exe": 0,
			"b/eldenring.exe": 0,
		})

	reports, err := r.Resolve(context.Background(), []string{"a/eldenring.exe", "b/eldenring.exe"})
	if err != nil {
		t.Fatal(err)
	}

	if reports[0].Err != nil || !errors.Is(reports[1].Err, ErrDuplicateVersion) {
		t.Fatalf("expected the second executable to be a duplicate - got %v, %v",
			reports[0].Err, reports[1].Err)
	}
}

func TestPatchPaths(t *testing.T) {
	dir := t.TempDir()

	for _, patch := range []string{"1.03.0", "1.02.0", "empty"} {
		err := os.MkdirAll(filepath.Join(dir, patch, "Game"), 0o700)
		if err != nil {
			t.Fatal(err)
		}

		if patch == "empty" {
			continue
		}

		err = os.WriteFile(filepath.Join(dir, patch, DefaultExeRelPath), []byte("MZ"), 0o600)
		if err != nil {
			t.Fatal(err)
		}
	}

	err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600)
	if err != nil {
		t.Fatal(err)
	}

	paths, err := PatchPaths(dir, DefaultExeRelPath)
	if err != nil {
		t.Fatal(err)
	}

	exp := []string{
		filepath.Join(dir, "1.02.0", DefaultExeRelPath),
		filepath.Join(dir, "1.03.0", DefaultExeRelPath),
	}

	if diff := cmp.Diff(exp, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	_, err = PatchPaths(filepath.Join(dir, "nope"), DefaultExeRelPath)
	if err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}

func ExampleScan() {
	sig, err := signature.New("GameDataMan", "48 8B 05 ?? ?? ?? ?? 48 85 C0")
	if err != nil {
		panic(err)
	}

	module := make([]byte, 0x200)
	copy(module[0x100:], []byte{0x48, 0x8B, 0x05, 0x50, 0x00, 0x00, 0x00, 0x48, 0x85, 0xC0})

	result, err := Scan(context.Background(), module, signature.Catalog{sig})
	if err != nil {
		panic(err)
	}

	fmt.Printf("GameDataMan: 0x%x\n", result.Offsets["GameDataMan"])
	fmt.Println(len(result.Failures))

	// Output:
	// GameDataMan: 0x157
	// 0
}
