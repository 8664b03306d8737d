package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fbettag/router-stats/internal/router"
)

// Snapshot is everything collected during one run.
type Snapshot struct {
	Firmware router.Firmware `json:"firmware"`
	Status   router.Status   `json:"status"`
	MeshData []MeshDevice    `json:"mesh_data"`
	Devices  []SmartDevice   `json:"devices"`
}

// WriteFile stores the snapshot as indented JSON, replacing any existing file.
func (s *Snapshot) WriteFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot loads a snapshot written by WriteFile.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return &s, nil
}
