package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store owns the durable snapshot. Every worker goes through the same
// Store; the mutex covers both the in-memory snapshot and the file write,
// so concurrent per-symbol updates cannot corrupt each other's sections.
type Store struct {
	path string

	mu   sync.Mutex
	snap Snapshot
}

// Open reads the snapshot at path, falling back to an empty snapshot when
// the file is absent, unreadable or from an incompatible schema version.
// The durable file is a cache of exchange-side truth, so starting fresh is
// always safe.
func Open(path string) (*Store, bool) {
	st := &Store{path: path, snap: NewSnapshot()}

	data, err := os.ReadFile(path)
	if err != nil {
		return st, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return st, false
	}
	if snap.Version != CurrentVersion {
		return st, false
	}
	st.snap = snap
	return st, true
}

// Asset returns the persisted record for symbol, if any.
func (s *Store) Asset(symbol string) (AssetRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.snap.Assets[symbol]
	return rec, ok
}

// Totals returns a copy of the aggregate block.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Totals
}

// PutAsset replaces the record for symbol and rewrites the file.
func (s *Store) PutAsset(symbol string, rec AssetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Assets[symbol] = rec
	return s.write()
}

// AddTotals folds a trade into the aggregate block and rewrites the file.
func (s *Store) AddTotals(gain float64, buys, sells int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Totals.GanhosAcumulados += gain
	s.snap.Totals.TotalCompras += buys
	s.snap.Totals.TotalVendas += sells
	return s.write()
}

// Save rewrites the file from the current in-memory snapshot.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

// write serializes the snapshot to a temp file and renames it over the
// target, so a crash mid-write never leaves a truncated state file.
// Callers must hold s.mu.
func (s *Store) write() error {
	data, err := json.MarshalIndent(&s.snap, "", "    ")
	if err != nil {
		return fmt.Errorf("state: marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("state: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("state: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("state: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("state: replace state file: %w", err)
	}
	return nil
}
