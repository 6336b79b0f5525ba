package cart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FilePersistence stores the cart blob as a JSON file under
// <dir>/<session>/todecor_cart.json. Concurrent sessions never share a file;
// two writers for the same session are last-write-wins, matching the
// single-slot contract.
type FilePersistence struct {
	path string
}

func NewFilePersistence(dir, sessionID string) *FilePersistence {
	return &FilePersistence{path: filepath.Join(dir, sessionID, StorageKey+".json")}
}

func (f *FilePersistence) Load() ([]Line, error) {
	blob, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	var lines []Line
	if err := json.Unmarshal(blob, &lines); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return lines, nil
}

func (f *FilePersistence) Save(lines []Line) error {
	blob, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode %s: %w", StorageKey, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", f.path, err)
	}
	if err := os.WriteFile(f.path, blob, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}
