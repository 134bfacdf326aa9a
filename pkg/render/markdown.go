// File: pkg/render/markdown.go

package render

import (
	"fmt"
	"strings"
)

type markdownFormat struct{}

func (markdownFormat) Name() string { return "markdown" }
func (markdownFormat) Ext() string  { return ".md" }

func (markdownFormat) Header(m Markers) []byte {
	var b strings.Builder
	b.WriteString("# Project Files Compilation\n\n")
	b.WriteString("This document contains the concatenated contents of project files.\n\n")
	b.WriteString("## Structure Explanation\n\n")
	b.WriteString("- **File Contents**: Each file's content is enclosed between markers indicating the start and end of the file.\n\n")
	b.WriteString("Markers:\n")
	fmt.Fprintf(&b, "- `%s relative/path/to/file %s`: Indicates the beginning of a file's content.\n", m.Start, m.Start)
	fmt.Fprintf(&b, "- `%s relative/path/to/file %s`: Indicates the end of a file's content.\n\n", m.End, m.End)
	b.WriteString("Additional Information:\n")
	for _, d := range metadataDescriptions {
		fmt.Fprintf(&b, "- **%s**: %s\n", d.key, d.text)
	}
	b.WriteString("\n---\n\n")
	return []byte(b.String())
}

func (markdownFormat) AttachTree(header []byte, tree []string) ([]byte, error) {
	var b strings.Builder
	b.Write(header)
	b.WriteString("## " + treeTitle + "\n\n")
	b.WriteString("```\n")
	b.WriteString(strings.Join(tree, "\n"))
	b.WriteString("\n```\n\n")
	return []byte(b.String()), nil
}

func (markdownFormat) Fragment(f File, m Markers, fields MetadataFields) ([]byte, error) {
	lines := make([]string, 0, 5)
	for _, p := range f.Meta.Pairs(fields) {
		lines = append(lines, p.Key+": "+p.Value)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s %s\n", m.Start, f.RelPath, m.Start)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(f.Content)
	fmt.Fprintf(&b, "\n%s %s %s\n", m.End, f.RelPath, m.End)
	return []byte(b.String()), nil
}

func (markdownFormat) Footer() []byte { return nil }
