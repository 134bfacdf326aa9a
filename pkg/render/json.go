// File: pkg/render/json.go

package render

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type jsonFormat struct{}

type jsonHeader struct {
	Description          string          `json:"description"`
	Details              string          `json:"details"`
	StructureExplanation jsonExplanation `json:"structure_explanation"`
	Tree                 []string        `json:"tree,omitempty"`
}

type jsonExplanation struct {
	Markers    []string `json:"Markers"`
	Additional []string `json:"Additional Information"`
}

type jsonRecord struct {
	File     string            `json:"file"`
	Metadata map[string]string `json:"metadata"`
	Content  string            `json:"content"`
}

func (jsonFormat) Name() string { return "json" }
func (jsonFormat) Ext() string  { return ".json" }

// Header is a single JSON line so that the output stays valid JSON Lines.
func (jsonFormat) Header(m Markers) []byte {
	h := jsonHeader{
		Description: "Project Files Compilation",
		Details:     "This document contains the concatenated contents of project files.",
		StructureExplanation: jsonExplanation{
			Markers: []string{
				fmt.Sprintf("%s relative/path/to/file %s: Indicates the beginning of a file's content.", m.Start, m.Start),
				fmt.Sprintf("%s relative/path/to/file %s: Indicates the end of a file's content.", m.End, m.End),
			},
		},
	}
	for _, d := range metadataDescriptions {
		h.StructureExplanation.Additional = append(h.StructureExplanation.Additional, d.key+": "+d.text)
	}
	line, err := encodeLine(h)
	if err != nil {
		// jsonHeader holds only strings.
		panic(err)
	}
	return line
}

// AttachTree decodes the header line, sets its tree field and encodes it
// again. It runs before any record is written.
func (jsonFormat) AttachTree(header []byte, tree []string) ([]byte, error) {
	var h jsonHeader
	if err := json.Unmarshal(bytes.TrimSpace(header), &h); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	h.Tree = append([]string{}, tree...)
	return encodeLine(h)
}

func (jsonFormat) Fragment(f File, _ Markers, fields MetadataFields) ([]byte, error) {
	rec := jsonRecord{
		File:     f.RelPath,
		Metadata: make(map[string]string, 5),
		Content:  f.Content,
	}
	for _, p := range f.Meta.Pairs(fields) {
		rec.Metadata[p.Key] = p.Value
	}
	line, err := encodeLine(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record for %s: %w", f.RelPath, err)
	}
	return line, nil
}

func (jsonFormat) Footer() []byte { return nil }

// encodeLine writes v as one compact line without HTML escaping.
func encodeLine(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
