// File: pkg/compile/config.go
package compile

import (
	"github.com/drengskapur/projcompile/pkg/filter"
	"github.com/drengskapur/projcompile/pkg/render"
)

// DefaultOutput is the output name used when none is given.
const DefaultOutput = "project_files.md"

// Options holds the configuration of a compilation run.
type Options struct {
	Root     string                // Directory to compile.
	Output   string                // Output name; its extension is replaced by the format's.
	Format   string                // markdown, html or json. Unknown names fall back to markdown.
	Filter   filter.Config         // File selection rules.
	Markers  render.Markers        // Start and end markers for structured-text output.
	Metadata render.MetadataFields // Metadata keys to render.
	Limit    int64                 // Maximum bytes per output file; 0 disables rollover.
	Workers  int                   // Render workers; <= 0 uses runtime.NumCPU().
	Tokens   TokenCounter          // Token counter for the report; nil counts words.
	Progress func()                // Called once per finished file, if set.
}

// DefaultOptions returns Options with every default applied.
func DefaultOptions(root string) Options {
	return Options{
		Root:     root,
		Output:   DefaultOutput,
		Format:   "markdown",
		Filter:   filter.Config{ExcludeDirs: append([]string{}, filter.DefaultExcludeDirs...)},
		Markers:  render.DefaultMarkers(),
		Metadata: render.AllMetadata(),
	}
}

// OutputFile describes one generated output document.
type OutputFile struct {
	Path   string
	Size   int64
	Tokens int
}

// Result summarizes a compilation run.
type Result struct {
	Outputs      []OutputFile
	TotalSize    int64
	TotalTokens  int
	FilesWritten int // Fragments appended to an output file.
	FilesFailed  int // Candidates that could not be rendered or written.
	Skipped      int // Files rejected as binary.
}

// Candidates are the files selected for a run, split by content type.
type Candidates struct {
	Regular []string // Absolute paths of text files, in traversal order.
	Binary  []string // Absolute paths of files rejected as binary.
}
