package resolve

import (
	"bytes"
	"go/format"
	"io"
	"text/template"

	"github.com/pkg/errors"

	"gitlab.com/stephen-fox/memkit/memory"
	"gitlab.com/stephen-fox/memkit/signature"
	"gitlab.com/stephen-fox/memkit/version"
)

const (
	// DefaultPackage is the name of the package holding the
	// generated tables.
	DefaultPackage = "baseaddr"

	versionImportPath = "gitlab.com/stephen-fox/memkit/version"
)

const baseAddressesTemplate = `// Code generated by memkit codegen. DO NOT EDIT.

package {{ .Package }}

import (
	"{{ .VersionImport }}"
)

// BaseAddresses holds the module-relative offset of every signature
// for one build. A zero offset means that the signature was not found.
type BaseAddresses struct {
{{- range .Names }}
	{{ . }} uintptr
{{- end }}
}

// WithModuleBaseAddr returns a copy of the table with base added
// to every offset that was found.
func (o BaseAddresses) WithModuleBaseAddr(base uintptr) BaseAddresses {
	return BaseAddresses{
{{- range .Names }}
		{{ . }}: rebase(o.{{ . }}, base),
{{- end }}
	}
}

// Lookup returns the address of the named signature. The bool is
// false if the name is unknown or if the signature was not found.
func (o BaseAddresses) Lookup(name string) (uintptr, bool) {
	var addr uintptr

	switch name {
{{- range .Names }}
	case "{{ . }}":
		addr = o.{{ . }}
{{- end }}
	default:
		return 0, false
	}

	return addr, addr != 0
}

// Names returns the name of every signature, sorted.
func Names() []string {
	return []string{
{{- range .Names }}
		"{{ . }}",
{{- end }}
	}
}
{{ range .Versions }}
// BaseAddresses{{ .Ident }} holds the offsets for version {{ .Version }}.
var BaseAddresses{{ .Ident }} = BaseAddresses{
{{- range .Offsets }}
	{{ .Name }}: {{ printf "0x%x" .Offset }},
{{- end }}
}
{{ end }}
{{ if .Versions -}}
var byVersion = map[version.Version]BaseAddresses{
{{- range .Versions }}
	version.V{{ .Ident }}: BaseAddresses{{ .Ident }},
{{- end }}
}
{{- else -}}
var byVersion = map[version.Version]BaseAddresses{}
{{- end }}
`

type codegenData struct {
	Package       string
	VersionImport string
	Names         []string
	Versions      []codegenVersion
}

type codegenVersion struct {
	Ident   string
	Version string
	Offsets []codegenOffset
}

type codegenOffset struct {
	Name   string
	Offset uintptr
}

// GenerateConfig configures Generate.
type GenerateConfig struct {
	// Package is the name of the generated package.
	// DefaultPackage is used if empty.
	Package string

	// Catalog determines the fields of the generated struct.
	Catalog signature.Catalog

	// Table holds one context per version, named by the
	// version's string form. Refer to Table.
	Table *memory.AddressTable
}

// Generate writes the Go source of the compiled-in offset tables
// to w. Every known version with a context in the table gets one
// table. Signatures missing from a version, or with a zero offset,
// are omitted from that version's table. An empty address table
// produces code with no tables, for which baseaddr.For always fails.
func Generate(w io.Writer, config GenerateConfig) error {
	data := codegenData{
		Package:       config.Package,
		VersionImport: versionImportPath,
		Names:         config.Catalog.Names(),
	}

	if data.Package == "" {
		data.Package = DefaultPackage
	}

	if config.Table == nil {
		return errors.New("address table is nil")
	}

	for _, v := range version.Known() {
		if !config.Table.HasContext(v.String()) {
			continue
		}

		cv := codegenVersion{
			Ident:   v.Ident(),
			Version: v.String(),
		}

		for _, name := range data.Names {
			offset, err := config.Table.AddressInContext(name, v.String())
			if err != nil || offset == 0 {
				continue
			}

			cv.Offsets = append(cv.Offsets, codegenOffset{
				Name:   name,
				Offset: offset,
			})
		}

		data.Versions = append(data.Versions, cv)
	}

	tmpl, err := template.New("base_addresses").Parse(baseAddressesTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	var tplOut bytes.Buffer

	err = tmpl.Execute(&tplOut, data)
	if err != nil {
		return errors.Wrap(err, "failed to execute template")
	}

	formatted, err := format.Source(tplOut.Bytes())
	if err != nil {
		return errors.Wrapf(err, "failed to format generated code:\n%s", tplOut.String())
	}

	_, err = w.Write(formatted)
	if err != nil {
		return errors.Wrap(err, "failed to write generated code")
	}

	return nil
}
