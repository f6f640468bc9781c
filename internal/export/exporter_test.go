package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/echoes-os/echoes/internal/memory"
)

func sampleExportData() ExportData {
	ingested := time.Date(2026, 8, 20, 11, 0, 0, 0, time.UTC)
	return ExportData{
		Stats: memory.Stats{
			Documents:  2,
			Chunks:     3,
			ByType:     map[memory.ContentType]int{memory.TypeText: 2, memory.TypeURL: 1},
			LastIngest: ingested,
		},
		Documents: []memory.Document{
			{ID: "doc2", Title: "Scraped Essay", SourceRef: "https://example.com/essay", ContentType: memory.TypeURL, ChunkCount: 1, CreatedAt: ingested},
			{ID: "doc1", Title: "Burnout Thread", ContentType: memory.TypeText, ChunkCount: 2, CreatedAt: ingested.Add(-time.Hour)},
		},
		Chunks: []memory.Chunk{
			{ID: "doc1_chunk_0", Content: "Boundaries matter.", ContentID: "doc1", ChunkIndex: 0, ContentType: memory.TypeText},
			{ID: "doc1_chunk_1", Content: "Rest is productive.", ContentID: "doc1", ChunkIndex: 1, ContentType: memory.TypeText},
			{ID: "doc2_chunk_0", Content: "Sustainable routines win.", ContentID: "doc2", ChunkIndex: 0, ContentType: memory.TypeURL},
		},
	}
}

func TestGet_ValidFormats(t *testing.T) {
	for _, name := range ValidFormats() {
		if _, ok := Get(name); !ok {
			t.Errorf("format %q listed but not registered", name)
		}
	}
	if _, ok := Get("yaml"); ok {
		t.Error("unknown format resolved")
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := (&MarkdownExporter{}).Export(sampleExportData())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, want := range []string{
		"# Echoes — Memory Export",
		"## Burnout Thread",
		"## Scraped Essay",
		"Boundaries matter.",
		"Sustainable routines win.",
		"https://example.com/essay",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	// Older document renders first.
	if strings.Index(out, "Burnout Thread") > strings.Index(out, "Scraped Essay") {
		t.Error("documents not in ingestion order")
	}
}

func TestJSONExport(t *testing.T) {
	out, err := (&JSONExporter{}).Export(sampleExportData())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var parsed jsonOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.Stats.Chunks != 3 || parsed.Stats.Documents != 2 {
		t.Errorf("stats: %+v", parsed.Stats)
	}
	if len(parsed.Documents) != 2 {
		t.Fatalf("got %d documents, want 2", len(parsed.Documents))
	}
	if parsed.Documents[0].ID != "doc1" {
		t.Errorf("first document %q, want the oldest", parsed.Documents[0].ID)
	}
	if len(parsed.Documents[0].Chunks) != 2 {
		t.Errorf("doc1 has %d chunks, want 2", len(parsed.Documents[0].Chunks))
	}
	if parsed.Stats.ByType["text"] != 2 {
		t.Errorf("by_type: %v", parsed.Stats.ByType)
	}
}

func TestJSONExport_EmptyStore(t *testing.T) {
	out, err := (&JSONExporter{}).Export(ExportData{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var parsed jsonOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed.Documents == nil {
		t.Error("documents should marshal as an empty array, not null")
	}
}
