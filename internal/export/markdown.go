package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/echoes-os/echoes/internal/memory"
)

// MarkdownExporter renders the memory store as readable markdown.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(data ExportData) (string, error) {
	var b strings.Builder
	b.WriteString("# Echoes — Memory Export\n\n")

	fmt.Fprintf(&b, "| Documents | %d |\n", data.Stats.Documents)
	fmt.Fprintf(&b, "| Chunks | %d |\n", data.Stats.Chunks)
	if !data.Stats.LastIngest.IsZero() {
		fmt.Fprintf(&b, "| Last ingest | %s |\n", data.Stats.LastIngest.Format("2006-01-02 15:04"))
	}
	b.WriteString("\n")

	byDoc := groupChunksByDocument(data.Chunks)
	for _, doc := range sortedDocuments(data.Documents) {
		title := doc.Title
		if title == "" {
			title = doc.ID
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		if doc.SourceRef != "" {
			fmt.Fprintf(&b, "Source: %s\n", doc.SourceRef)
		}
		fmt.Fprintf(&b, "Type: %s · Ingested: %s\n\n", doc.ContentType, doc.CreatedAt.Format("2006-01-02"))

		for _, c := range byDoc[doc.ID] {
			b.WriteString(c.Content)
			b.WriteString("\n\n")
		}
	}

	return b.String(), nil
}

func sortedDocuments(docs []memory.Document) []memory.Document {
	out := make([]memory.Document, len(docs))
	copy(out, docs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
