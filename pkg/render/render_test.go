package render

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFile() File {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	return File{
		RelPath: "src/main.go",
		Content: "package main\n\nfunc main() { println(\"<héllo>\") }",
		Meta: Metadata{
			Size:        42,
			ModTime:     ts,
			CreateTime:  ts,
			Permissions: "-rw-r--r--",
			Owner:       "alice",
		},
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		want string
		ext  string
	}{
		{"markdown", "markdown", ".md"},
		{"HTML", "html", ".html"},
		{" json ", "json", ".json"},
		{"", "markdown", ".md"},
		{"yaml", "markdown", ".md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Lookup(tt.name)
			assert.Equal(t, tt.want, f.Name())
			assert.Equal(t, tt.ext, f.Ext())
		})
	}
}

func TestStrictUnknown(t *testing.T) {
	_, err := Strict("yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestMarkdownFragment(t *testing.T) {
	got, err := Lookup("markdown").Fragment(sampleFile(), DefaultMarkers(), AllMetadata())
	require.NoError(t, err)

	want := "\n=== Start of src/main.go === Start of\n" +
		"File Size: 42 bytes\n" +
		"Last Modified: Tue Mar  5 14:07:09 2024\n" +
		"Creation Time: Tue Mar  5 14:07:09 2024\n" +
		"Permissions: -rw-r--r--\n" +
		"Owner: alice\n\n" +
		"package main\n\nfunc main() { println(\"<héllo>\") }\n" +
		"=== End of src/main.go === End of\n"
	assert.Equal(t, want, string(got))
}

func TestMarkdownFragmentWithoutMetadata(t *testing.T) {
	f := sampleFile()
	f.Content = "x"
	got, err := Lookup("markdown").Fragment(f, Markers{Start: "<<", End: ">>"}, NoMetadata())
	require.NoError(t, err)
	assert.Equal(t, "\n<< src/main.go <<\n\n\nx\n>> src/main.go >>\n", string(got))
}

func TestMarkdownFragmentSelectedKeys(t *testing.T) {
	got, err := Lookup("markdown").Fragment(sampleFile(), DefaultMarkers(), MetadataFields{Size: true, Owner: true})
	require.NoError(t, err)
	assert.Contains(t, string(got), "File Size: 42 bytes\nOwner: alice\n\n")
	assert.NotContains(t, string(got), "Permissions")
}

func TestHTMLFragmentEscapes(t *testing.T) {
	f := sampleFile()
	f.RelPath = "a&b.html"
	f.Content = "<script>alert(1)</script>"
	got, err := Lookup("html").Fragment(f, DefaultMarkers(), AllMetadata())
	require.NoError(t, err)
	assert.Equal(t, "<h2>a&amp;b.html</h2>\n<pre>\n&lt;script&gt;alert(1)&lt;/script&gt;\n</pre>\n", string(got))
}

func TestHTMLDocumentIsClosed(t *testing.T) {
	h := Lookup("html")
	header, err := h.AttachTree(h.Header(DefaultMarkers()), []string{"proj/", "    <a>.txt"})
	require.NoError(t, err)

	doc := string(header) + string(h.Footer())
	assert.True(t, strings.HasPrefix(doc, "<html>"))
	assert.True(t, strings.HasSuffix(doc, "</html>\n"))
	assert.Contains(t, doc, "<h2>ASCII Tree of the Project Directory</h2>\n<pre>\nproj/\n    &lt;a&gt;.txt\n</pre>\n")
}

func TestMarkdownHeaderAndTree(t *testing.T) {
	md := Lookup("markdown")
	header := md.Header(Markers{Start: "BEGIN", End: "FINISH"})
	assert.Contains(t, string(header), "`BEGIN relative/path/to/file BEGIN`")
	assert.Contains(t, string(header), "`FINISH relative/path/to/file FINISH`")

	withTree, err := md.AttachTree(header, []string{"proj/", "    a.txt"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(withTree), string(header)))
	assert.True(t, strings.HasSuffix(string(withTree), "## ASCII Tree of the Project Directory\n\n```\nproj/\n    a.txt\n```\n\n"))
}

func TestJSONFragmentIsOneLine(t *testing.T) {
	got, err := Lookup("json").Fragment(sampleFile(), DefaultMarkers(), AllMetadata())
	require.NoError(t, err)

	line := string(got)
	assert.Equal(t, 1, strings.Count(line, "\n"))
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "<héllo>", "non-ASCII and markup must not be escaped")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(got, &rec))
	assert.Equal(t, "src/main.go", rec["file"])
	meta := rec["metadata"].(map[string]any)
	assert.Equal(t, "42 bytes", meta[KeySize])
	assert.Equal(t, "alice", meta[KeyOwner])
	assert.Len(t, meta, 5)
}

func TestJSONFragmentHonoursFields(t *testing.T) {
	got, err := Lookup("json").Fragment(sampleFile(), DefaultMarkers(), NoMetadata())
	require.NoError(t, err)

	var rec jsonRecord
	require.NoError(t, json.Unmarshal(got, &rec))
	assert.Empty(t, rec.Metadata)
}

func TestJSONAttachTree(t *testing.T) {
	j := Lookup("json")
	header := j.Header(DefaultMarkers())
	assert.Equal(t, 1, strings.Count(string(header), "\n"))

	withTree, err := j.AttachTree(header, []string{"proj/", "    a.txt"})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(withTree), "\n"))

	var h jsonHeader
	require.NoError(t, json.Unmarshal(withTree, &h))
	assert.Equal(t, []string{"proj/", "    a.txt"}, h.Tree)
	assert.Equal(t, "Project Files Compilation", h.Description)
	assert.Len(t, h.StructureExplanation.Additional, 5)
}

func TestJSONAttachTreeRejectsGarbage(t *testing.T) {
	_, err := Lookup("json").AttachTree([]byte("not json"), []string{"x/"})
	assert.Error(t, err)
}

func TestFragmentsAreIdempotent(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			f := Lookup(name)
			first, err := f.Fragment(sampleFile(), DefaultMarkers(), AllMetadata())
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				again, err := f.Fragment(sampleFile(), DefaultMarkers(), AllMetadata())
				require.NoError(t, err)
				assert.Equal(t, first, again)
			}
		})
	}
}

func TestStat(t *testing.T) {
	p := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(p, []byte("hello"), 0o640))

	m, err := Stat(p)
	require.NoError(t, err)
	assert.EqualValues(t, 5, m.Size)
	assert.False(t, m.ModTime.IsZero())
	assert.False(t, m.CreateTime.IsZero())
	assert.True(t, strings.HasPrefix(m.Permissions, "-"))

	// Two stats of the same file must resolve the owner identically.
	again, err := Stat(p)
	require.NoError(t, err)
	assert.Equal(t, m.Owner, again.Owner)
}

func TestStatMissing(t *testing.T) {
	_, err := Stat(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
