package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/ecomm-insights/internal/utils"
	"github.com/google/uuid"
)

const manifestFileName = "manifest.json"

// Manifest records how a dataset folder was generated.
type Manifest struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Seed        uint64         `json:"seed"`
	Params      map[string]any `json:"params"`
	Counts      map[string]int `json:"counts"`
	Catalog     string         `json:"catalog,omitempty"`
}

// NewManifest stamps a fresh run id and the dataset row counts.
func NewManifest(seed uint64, params map[string]any, ds *Dataset) *Manifest {
	return &Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Seed:        seed,
		Params:      params,
		Counts:      ds.Counts(),
	}
}

// LoadManifest reads manifest.json from dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Save writes manifest.json into dir using atomic write.
func (m *Manifest) Save(dir string) error {
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(dir, manifestFileName), data)
}
