package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/marketlens/backend/internal/domain"
)

// Store persists the most recent raw batch as a JSON document so a later session can
// re-run the analysis without re-fetching. The saved form is the exact structural
// shape of the batch: loading it back must round-trip through the normalizer
// identically to a freshly fetched batch.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store writing to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save writes the batch, creating intermediate directories as needed. The file is
// written atomically via a temp-file rename so a crashed write never corrupts an
// existing snapshot.
func (s *Store) Save(batch []domain.RawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode batch: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("snapshot: rename into place: %w", err)
	}

	log.Printf("[SNAPSHOT] saved %d records to %s", len(batch), s.path)
	return nil
}

// Load reads the persisted batch back. A missing file is ErrNoSnapshot; a file whose
// top level is not an array of objects is ErrMalformedBatch.
func (s *Store) Load() ([]domain.RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNoSnapshot
		}
		return nil, fmt.Errorf("snapshot: read %q: %w", s.path, err)
	}

	batch, err := DecodeBatch(data)
	if err != nil {
		return nil, err
	}

	log.Printf("[SNAPSHOT] loaded %d records from %s", len(batch), s.path)
	return batch, nil
}

// DecodeBatch parses a JSON document that must be an array of record objects. Any
// other top-level shape is the single fatal input condition, ErrMalformedBatch. The
// leading token is checked explicitly because a top-level null would otherwise
// unmarshal into a nil slice without error.
func DecodeBatch(data []byte) ([]domain.RawRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedBatch, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: top-level value is not an array", domain.ErrMalformedBatch)
	}

	var batch []domain.RawRecord
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedBatch, err)
	}
	return batch, nil
}
