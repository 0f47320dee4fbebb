// Package jsonfmt normalizes pack JSON files, falling back to raw bytes when they do not parse.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Indent is the indentation used for pretty output.
const Indent = "  "

// Document is either a structured JSON value or raw bytes that failed to parse.
type Document struct {
	raw        []byte
	structured bool
}

// Parse classifies data. It never fails: unparseable input becomes a raw document.
func Parse(data []byte) Document {
	return Document{raw: data, structured: json.Valid(data)}
}

// Structured reports whether the document parsed as JSON.
func (d Document) Structured() bool {
	return d.structured
}

// Minified returns the compact form of a structured document, or the raw bytes.
func (d Document) Minified() []byte {
	if !d.structured {
		return d.raw
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, d.raw); err != nil {
		return d.raw
	}

	return buf.Bytes()
}

// Pretty returns the indented form of a structured document, or the raw bytes.
func (d Document) Pretty() []byte {
	if !d.structured {
		return d.raw
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, d.raw, "", Indent); err != nil {
		return d.raw
	}

	return bytes.TrimSpace(buf.Bytes())
}

// Applies reports whether normalization is attempted for a path.
func Applies(rel string) bool {
	return strings.HasSuffix(rel, ".json")
}
