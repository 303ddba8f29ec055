package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"scrub/internal/types"
)

// visualDetection is the JSON shape emitted by external frame classifiers.
type visualDetection struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// loadVisualDetections reads a classifier output file and normalizes it
// into detections tagged with the visual source.
func loadVisualDetections(path string) ([]types.Detection, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read visual detections: %w", err)
	}
	var raw []visualDetection
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse visual detections %s: %w", path, err)
	}
	out := make([]types.Detection, 0, len(raw))
	for _, v := range raw {
		label := v.Label
		if label == "" {
			label = "visual"
		}
		out = append(out, types.Detection{
			Start:  v.Start,
			End:    v.End,
			Label:  label,
			Source: types.SourceVisual,
		})
	}
	return out, nil
}
