// File: pkg/render/html.go

package render

import (
	"fmt"
	"html"
	"strings"
)

type htmlFormat struct{}

func (htmlFormat) Name() string { return "html" }
func (htmlFormat) Ext() string  { return ".html" }

func (htmlFormat) Header(m Markers) []byte {
	var b strings.Builder
	b.WriteString("<html>\n<head>\n    <title>Project Files Compilation</title>\n</head>\n<body>\n")
	b.WriteString("<h1>Project Files Compilation</h1>\n")
	b.WriteString("<p>This document contains the concatenated contents of project files.</p>\n\n")
	b.WriteString("<h2>Structure Explanation</h2>\n<ul>\n")
	b.WriteString("    <li><strong>File Contents</strong>: Each file's content is displayed below its heading.</li>\n</ul>\n\n")
	b.WriteString("<p>Markers:</p>\n<ul>\n")
	fmt.Fprintf(&b, "    <li><code>%s relative/path/to/file %s</code>: Indicates the beginning of a file's content.</li>\n",
		html.EscapeString(m.Start), html.EscapeString(m.Start))
	fmt.Fprintf(&b, "    <li><code>%s relative/path/to/file %s</code>: Indicates the end of a file's content.</li>\n",
		html.EscapeString(m.End), html.EscapeString(m.End))
	b.WriteString("</ul>\n\n<p>Additional Information:</p>\n<ul>\n")
	for _, d := range metadataDescriptions {
		fmt.Fprintf(&b, "    <li><strong>%s</strong>: %s</li>\n", d.key, d.text)
	}
	b.WriteString("</ul>\n\n<hr>\n")
	return []byte(b.String())
}

func (htmlFormat) AttachTree(header []byte, tree []string) ([]byte, error) {
	var b strings.Builder
	b.Write(header)
	b.WriteString("<h2>" + treeTitle + "</h2>\n<pre>\n")
	b.WriteString(html.EscapeString(strings.Join(tree, "\n")))
	b.WriteString("\n</pre>\n")
	return []byte(b.String()), nil
}

// Fragment renders the path as a heading and the escaped content in a pre
// block. Metadata is not part of the markup output.
func (htmlFormat) Fragment(f File, _ Markers, _ MetadataFields) ([]byte, error) {
	return []byte(fmt.Sprintf("<h2>%s</h2>\n<pre>\n%s\n</pre>\n",
		html.EscapeString(f.RelPath), html.EscapeString(f.Content))), nil
}

func (htmlFormat) Footer() []byte {
	return []byte("</body>\n</html>\n")
}
