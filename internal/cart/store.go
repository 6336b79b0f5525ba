package cart

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StorageKey is the fixed slot name the serialized cart lives under. Adapters
// namespace it per session but never change the key itself.
const StorageKey = "todecor_cart"

// Line is one product+size+color selection. Price is snapshotted when the
// line is added and is never refreshed from the catalog. The merge key is
// (ProductID, Size); ID exists only so single lines can be updated or removed.
type Line struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	ImageURL  string          `json:"image_url"`
}

// Persistence stores the serialized cart under StorageKey.
type Persistence interface {
	Load() ([]Line, error)
	Save(lines []Line) error
}

// Store owns the session's cart lines. It is an explicit per-session object
// with an injected persistence port, not a package-level singleton. Every
// mutation is written through before the method returns, and writes are gated
// until the initial Load has completed so an early mutation cannot clobber a
// previously persisted cart with an empty one.
type Store struct {
	mu      sync.Mutex
	persist Persistence
	logger  *log.Logger
	lines   []Line
	loaded  bool
}

// NewStore loads the persisted cart and returns a ready store. A load failure
// (missing or corrupt blob) is logged and treated as an empty cart; it never
// blocks the session.
func NewStore(persist Persistence, logger *log.Logger) *Store {
	s := &Store{persist: persist, logger: logger}
	lines, err := persist.Load()
	if err != nil {
		if logger != nil {
			logger.Printf("cart: load failed, starting empty: %v", err)
		}
		lines = nil
	}
	s.lines = lines
	s.loaded = true
	return s
}

// Add merges the line into the cart. A line with the same (ProductID, Size)
// absorbs the incoming quantity and keeps its own price; otherwise the line
// is appended. An empty ID gets a fresh one. Add never fails.
func (s *Store) Add(line Line) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	for i := range s.lines {
		if s.lines[i].ProductID == line.ProductID && s.lines[i].Size == line.Size {
			s.lines[i].Quantity += line.Quantity
			s.save()
			return
		}
	}
	s.lines = append(s.lines, line)
	s.save()
}

// Remove deletes the line with the given id. Unknown ids are a no-op.
func (s *Store) Remove(lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(lineID)
}

// SetQuantity replaces a line's quantity. A quantity of zero or less removes
// the line; the store never holds a line with quantity < 1. Unknown ids are
// a no-op.
func (s *Store) SetQuantity(lineID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(lineID)
		return
	}
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i].Quantity = quantity
			s.save()
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.save()
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) removeLocked(lineID string) {
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.save()
			return
		}
	}
}

// save writes through to the persistence port. Callers hold s.mu. A write
// failure is logged and swallowed; the in-memory cart stays authoritative
// for the session.
func (s *Store) save() {
	if !s.loaded {
		return
	}
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	if err := s.persist.Save(lines); err != nil && s.logger != nil {
		s.logger.Printf("cart: save failed: %v", err)
	}
}
