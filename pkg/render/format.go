// File: pkg/render/format.go

// Package render turns one file into an output fragment. Each supported
// output format is a Format; the orchestrator picks one per run with Lookup.
package render

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned by Strict for names no Format answers to.
var ErrUnknownFormat = errors.New("unknown output format")

// Markers delimit file content in structured-text output.
type Markers struct {
	Start string
	End   string
}

// DefaultMarkers returns the standard start and end markers.
func DefaultMarkers() Markers {
	return Markers{Start: "=== Start of", End: "=== End of"}
}

// File is the input to a Format.
type File struct {
	RelPath string
	Content string
	Meta    Metadata
}

// Format renders headers, the directory tree and per-file fragments for one
// output format. Implementations are stateless; rendering the same File twice
// yields identical bytes.
type Format interface {
	Name() string
	Ext() string
	Header(m Markers) []byte
	// AttachTree returns header extended with the directory tree.
	AttachTree(header []byte, tree []string) ([]byte, error)
	Fragment(f File, m Markers, fields MetadataFields) ([]byte, error)
	// Footer seals an output file. It may be empty.
	Footer() []byte
}

var formats = map[string]Format{
	"markdown": markdownFormat{},
	"html":     htmlFormat{},
	"json":     jsonFormat{},
}

// Names lists the accepted format names.
func Names() []string {
	return []string{"markdown", "html", "json"}
}

// Lookup returns the Format registered under name. Unknown or empty names
// fall back to markdown.
func Lookup(name string) Format {
	f, err := Strict(name)
	if err != nil {
		return formats["markdown"]
	}
	return f
}

// Strict is Lookup without the fallback.
func Strict(name string) (Format, error) {
	f, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f, nil
}

const treeTitle = "ASCII Tree of the Project Directory"
