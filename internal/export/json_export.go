package export

import (
	"encoding/json"

	"github.com/echoes-os/echoes/internal/memory"
)

// JSONExporter renders ExportData as structured JSON.
type JSONExporter struct{}

type jsonOutput struct {
	Stats     jsonStats      `json:"stats"`
	Documents []jsonDocument `json:"documents"`
}

type jsonStats struct {
	Documents  int            `json:"documents"`
	Chunks     int            `json:"chunks"`
	ByType     map[string]int `json:"by_type,omitempty"`
	LastIngest string         `json:"last_ingest,omitempty"`
}

type jsonDocument struct {
	ID          string      `json:"id"`
	Title       string      `json:"title,omitempty"`
	SourceRef   string      `json:"source_ref,omitempty"`
	ContentType string      `json:"content_type"`
	CreatedAt   string      `json:"created_at"`
	Chunks      []jsonChunk `json:"chunks"`
}

type jsonChunk struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`
	Content string `json:"content"`
}

func (e *JSONExporter) Export(data ExportData) (string, error) {
	out := jsonOutput{
		Stats: jsonStats{
			Documents: data.Stats.Documents,
			Chunks:    data.Stats.Chunks,
			ByType:    typeCounts(data.Stats.ByType),
		},
		Documents: []jsonDocument{},
	}
	if !data.Stats.LastIngest.IsZero() {
		out.Stats.LastIngest = data.Stats.LastIngest.Format("2006-01-02T15:04:05Z")
	}

	byDoc := groupChunksByDocument(data.Chunks)
	for _, doc := range sortedDocuments(data.Documents) {
		jd := jsonDocument{
			ID:          doc.ID,
			Title:       doc.Title,
			SourceRef:   doc.SourceRef,
			ContentType: string(doc.ContentType),
			CreatedAt:   doc.CreatedAt.Format("2006-01-02T15:04:05Z"),
			Chunks:      []jsonChunk{},
		}
		for _, c := range byDoc[doc.ID] {
			jd.Chunks = append(jd.Chunks, jsonChunk{ID: c.ID, Index: c.ChunkIndex, Content: c.Content})
		}
		out.Documents = append(out.Documents, jd)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

func typeCounts(byType map[memory.ContentType]int) map[string]int {
	if len(byType) == 0 {
		return nil
	}
	out := make(map[string]int, len(byType))
	for k, v := range byType {
		out[string(k)] = v
	}
	return out
}
