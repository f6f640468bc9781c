// Package export renders stored memories into portable formats.
package export

import (
	"github.com/echoes-os/echoes/internal/memory"
)

// ExportData is passed to every Exporter.
type ExportData struct {
	Stats     memory.Stats
	Documents []memory.Document
	Chunks    []memory.Chunk
}

// Exporter renders ExportData to a string in a specific format.
type Exporter interface {
	Export(data ExportData) (string, error)
}

// registry maps format names to Exporter implementations.
var registry = map[string]Exporter{
	"markdown": &MarkdownExporter{},
	"json":     &JSONExporter{},
}

// Get returns the Exporter registered under name, and whether it was found.
func Get(name string) (Exporter, bool) {
	e, ok := registry[name]
	return e, ok
}

// ValidFormats returns the list of supported export format names.
func ValidFormats() []string {
	formats := make([]string, 0, len(registry))
	for k := range registry {
		formats = append(formats, k)
	}
	return formats
}

// groupChunksByDocument indexes chunks under their source document ID,
// preserving chunk order within each document.
func groupChunksByDocument(chunks []memory.Chunk) map[string][]memory.Chunk {
	groups := make(map[string][]memory.Chunk)
	for _, c := range chunks {
		groups[c.ContentID] = append(groups[c.ContentID], c)
	}
	return groups
}
