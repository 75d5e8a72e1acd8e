package identity

import (
	"encoding/gob"
	"fmt"
	"os"
)

// SaveSnapshot serializes a resolution to a gob file so serving processes
// can start without re-running the batch.
func SaveSnapshot(res *Resolution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(res); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot deserializes a resolution written by SaveSnapshot.
func LoadSnapshot(path string) (*Resolution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var res Resolution
	if err := gob.NewDecoder(f).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &res, nil
}
