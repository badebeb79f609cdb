package indexer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Summary is the companion record written next to the snapshot once a run
// completes. Downstream consumers read it to decide whether the snapshot is
// fresh without opening the database.
type Summary struct {
	LastSaved      string       `json:"lastSaved"`
	SavedBy        string       `json:"savedBy"`
	IndexerVersion string       `json:"indexerVersion"`
	Elapsed        float64      `json:"elapsed"` // wall-clock seconds
	Stats          SummaryStats `json:"stats"`
}

// SummaryStats carries the final run counters.
type SummaryStats struct {
	Files    int `json:"files"`
	Symbols  int `json:"symbols"`
	Includes int `json:"includes"`
	Nodes    int `json:"dt_nodes"`
}

// WriteSummary writes meta.json into the directory containing the snapshot
// at dbPath.
func WriteSummary(dbPath, version string, stats *Statistics) error {
	summary := Summary{
		LastSaved:      time.Now().Format(time.RFC3339),
		SavedBy:        currentUser(),
		IndexerVersion: version,
		Elapsed:        stats.Duration.Seconds(),
		Stats: SummaryStats{
			Files:    stats.FilesIndexed,
			Symbols:  stats.Symbols,
			Includes: stats.Includes,
			Nodes:    stats.Nodes,
		},
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	metaPath := filepath.Join(filepath.Dir(dbPath), "meta.json")
	return os.WriteFile(metaPath, data, 0o644)
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "unknown"
}
