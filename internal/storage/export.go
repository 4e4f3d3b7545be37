package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pworld/internal/scenario"
)

type ExportData struct {
	Run     RunMetadata       `json:"run"`
	Samples []scenario.Sample `json:"samples"`
}

// ExportJSON writes the run metadata and every sample as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, samples []scenario.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Samples: samples})
}
