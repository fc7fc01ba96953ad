package cart

import (
	"context"
	"log"
	"time"

	"solemart/models"
)

// Persister is the durable-storage port for a session's cart. The line
// slice is stored verbatim as a JSON array keyed by session.
type Persister interface {
	Save(ctx context.Context, sessionID string, lines []models.CartLine) error
	Load(ctx context.Context, sessionID string) ([]models.CartLine, error)
}

// Store holds one session's in-progress selection. It is single-writer from
// the owning session's perspective; every mutation writes through to the
// persister, and persistence failures are logged but never fail the
// in-memory operation.
type Store struct {
	sessionID string
	lines     []models.CartLine
	persister Persister
}

// Open loads the session's persisted cart. A load failure yields an empty
// cart rather than an error; the session can still shop.
func Open(ctx context.Context, sessionID string, p Persister) *Store {
	lines, err := p.Load(ctx, sessionID)
	if err != nil {
		log.Printf("cart: load failed for session %s: %v", sessionID, err)
		lines = nil
	}
	return &Store{sessionID: sessionID, lines: lines, persister: p}
}

// AddLine increments quantity when a line with the same (productId, size)
// exists, otherwise inserts a new selected line. A zero size falls back to
// the product's default size.
func (s *Store) AddLine(ctx context.Context, product *models.Product, quantity, size int) {
	if quantity < 1 {
		quantity = 1
	}
	if size == 0 {
		size = product.DefaultSize()
	}

	for i := range s.lines {
		if s.lines[i].ProductID == product.ProductID && s.lines[i].Size == size {
			s.lines[i].Quantity += quantity
			s.persist(ctx)
			return
		}
	}

	s.lines = append(s.lines, models.CartLine{
		ProductID: product.ProductID,
		Name:      product.Name,
		Brand:     product.Brand,
		Price:     product.Price,
		Image:     product.Image,
		Size:      size,
		Quantity:  quantity,
		Selected:  true,
		AddedAt:   time.Now(),
	})
	s.persist(ctx)
}

// RemoveLine deletes the matching line. Removing an absent line is a no-op.
func (s *Store) RemoveLine(ctx context.Context, productID string, size int) {
	kept := s.lines[:0]
	for _, line := range s.lines {
		if !(line.ProductID == productID && line.Size == size) {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	s.persist(ctx)
}

// UpdateQuantity sets the line's quantity; zero or negative removes it.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, size, quantity int) {
	if quantity <= 0 {
		s.RemoveLine(ctx, productID, size)
		return
	}
	for i := range s.lines {
		if s.lines[i].ProductID == productID && s.lines[i].Size == size {
			s.lines[i].Quantity = quantity
			break
		}
	}
	s.persist(ctx)
}

// ToggleSelect flips the matching line's selection flag.
func (s *Store) ToggleSelect(ctx context.Context, productID string, size int) {
	for i := range s.lines {
		if s.lines[i].ProductID == productID && s.lines[i].Size == size {
			s.lines[i].Selected = !s.lines[i].Selected
			break
		}
	}
	s.persist(ctx)
}

// ToggleSelectAll selects every line when any line is unselected, and
// deselects every line when all are already selected.
func (s *Store) ToggleSelectAll(ctx context.Context) {
	all := len(s.lines) > 0
	for _, line := range s.lines {
		if !line.Selected {
			all = false
			break
		}
	}
	for i := range s.lines {
		s.lines[i].Selected = !all
	}
	s.persist(ctx)
}

// Totals returns the item count and price total, either over every line or
// over the selected lines only.
func (s *Store) Totals(selectedOnly bool) (count int, total float64) {
	for _, line := range s.lines {
		if selectedOnly && !line.Selected {
			continue
		}
		count += line.Quantity
		total += line.Price * float64(line.Quantity)
	}
	return count, total
}

// Lines returns a copy of every cart line.
func (s *Store) Lines() []models.CartLine {
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// SelectedLines returns a copy of the selected lines only.
func (s *Store) SelectedLines() []models.CartLine {
	var out []models.CartLine
	for _, line := range s.lines {
		if line.Selected {
			out = append(out, line)
		}
	}
	return out
}

// RemoveSelected drops every selected line, leaving unselected lines
// untouched. Checkout calls this after an order is created.
func (s *Store) RemoveSelected(ctx context.Context) {
	kept := s.lines[:0]
	for _, line := range s.lines {
		if !line.Selected {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) {
	if err := s.persister.Save(ctx, s.sessionID, s.Lines()); err != nil {
		log.Printf("cart: persist failed for session %s: %v", s.sessionID, err)
	}
}
