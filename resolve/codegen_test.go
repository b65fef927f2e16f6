package resolve

import (
	"bytes"
	"strings"
	"testing"

	"gitlab.com/stephen-fox/memkit/memory"
	"gitlab.com/stephen-fox/memkit/signature"
	"gitlab.com/stephen-fox/memkit/version"
)

func TestGenerate(t *testing.T) {
	catalog := testCatalog(t)

	table := memory.NewAddressTable(version.V1_02_0.String()).
		AddSymbolInContext("GameDataMan", 0x3c4a8b8, "1.02.0").
		AddSymbolInContext("WorldChrMan", 0x3c080e8, "1.02.0").
		AddSymbolInContext("GameDataMan", 0x3c4aab8, "1.03.2").
		AddSymbolInContext("FieldArea", 0, "1.03.2").
		AddSymbolInContext("GameDataMan", 0x1, "9.99.9")

	buf := bytes.NewBuffer(nil)

	err := Generate(buf, GenerateConfig{
		Catalog: catalog,
		Table:   table,
	})
	if err != nil {
		t.Fatal(err)
	}

	src := buf.String()

	for _, exp := range []string{
		"// Code generated by memkit codegen. DO NOT EDIT.",
		"package baseaddr",
		"\tWorldChrMan uintptr\n",
		"\tMissing     uintptr\n",
		"func (o BaseAddresses) WithModuleBaseAddr(base uintptr) BaseAddresses {",
		"\t\tGameDataMan: rebase(o.GameDataMan, base),\n",
		"\tcase \"FieldArea\":\n\t\taddr = o.FieldArea\n",
		"var BaseAddresses1_02_0 = BaseAddresses{\n\tGameDataMan: 0x3c4a8b8,\n\tWorldChrMan: 0x3c080e8,\n}",
		"var BaseAddresses1_03_2 = BaseAddresses{\n\tGameDataMan: 0x3c4aab8,\n}",
		"\tversion.V1_02_0: BaseAddresses1_02_0,\n",
		"\tversion.V1_03_2: BaseAddresses1_03_2,\n",
	} {
		if !strings.Contains(src, exp) {
			t.Fatalf("generated code does not contain %q:\n%s", exp, src)
		}
	}

	if strings.Contains(src, "0x1,") || strings.Contains(src, "1_02_1") {
		t.Fatalf("generated code contains unexpected versions:\n%s", src)
	}

	again := bytes.NewBuffer(nil)

	err = Generate(again, GenerateConfig{
		Catalog: catalog,
		Table:   table,
	})
	if err != nil {
		t.Fatal(err)
	}

	if again.String() != src {
		t.Fatal("generating twice produced different code")
	}
}

func TestGenerate_NoVersions(t *testing.T) {
	buf := bytes.NewBuffer(nil)

	err := Generate(buf, GenerateConfig{
		Catalog: testCatalog(t),
		Table:   memory.NewAddressTable(version.V1_02_0.String()),
	})
	if err != nil {
		t.Fatal(err)
	}

	src := buf.String()

	if !strings.Contains(src, "\nvar byVersion = map[version.Version]BaseAddresses{}\n") {
		t.Fatalf("expected an empty version map:\n%s", src)
	}

	if strings.Contains(src, "var BaseAddresses1_") {
		t.Fatalf("expected no version tables:\n%s", src)
	}
}

func TestGenerate_NilTable(t *testing.T) {
	err := Generate(bytes.NewBuffer(nil), GenerateConfig{
		Catalog: signature.Catalog{},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}
