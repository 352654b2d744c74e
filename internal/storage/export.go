package storage

import (
	"encoding/json"
	"io"
)

// ExportData is the JSON shape emitted by the export-json command.
type ExportData struct {
	ID             string             `json:"id"`
	Model          string             `json:"model"`
	Representation string             `json:"representation"`
	Dt             float64            `json:"dt"`
	Duration       float64            `json:"duration"`
	Samples        int                `json:"samples"`
	Times          []float64          `json:"times"`
	States         [][]float64        `json:"states"`
	Metrics        map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, states [][]float64, times []float64) error {
	data := ExportData{
		ID:             meta.ID,
		Model:          meta.Model,
		Representation: meta.Representation,
		Dt:             meta.Dt,
		Duration:       meta.Duration,
		Samples:        len(states),
		Times:          times,
		States:         states,
		Metrics:        meta.Metrics,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
