package cart

import (
	"context"
	"errors"
	"testing"

	"solemart/models"
)

func testProduct(id string, price float64) *models.Product {
	return &models.Product{
		ProductID: id,
		Name:      "Runner " + id,
		Brand:     "Nakiri",
		Price:     price,
		Sizes:     []int{40, 41, 42},
		Image:     "/static/productpic/" + id + ".jpg",
	}
}

func TestAddLineMergesSameProductAndSize(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, "sess1", NewMemoryPersister())

	p := testProduct("p1", 20000)
	s.AddLine(ctx, p, 1, 41)
	s.AddLine(ctx, p, 2, 41)
	s.AddLine(ctx, p, 1, 42)

	lines := s.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Size != 41 || lines[0].Quantity != 3 {
		t.Errorf("expected size 41 quantity 3, got size %d quantity %d", lines[0].Size, lines[0].Quantity)
	}
	if lines[1].Size != 42 || lines[1].Quantity != 1 {
		t.Errorf("expected size 42 quantity 1, got size %d quantity %d", lines[1].Size, lines[1].Quantity)
	}
	for _, line := range lines {
		if !line.Selected {
			t.Errorf("new line %s/%d should start selected", line.ProductID, line.Size)
		}
	}
}

func TestAddLineDefaults(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, "sess1", NewMemoryPersister())

	// zero size falls back to the first catalog size, quantity below one
	// becomes one
	s.AddLine(ctx, testProduct("p1", 20000), 0, 0)

	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Size != 40 {
		t.Errorf("expected default size 40, got %d", lines[0].Size)
	}
	if lines[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", lines[0].Quantity)
	}
}

func TestRemoveLine(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, "sess1", NewMemoryPersister())
	s.AddLine(ctx, testProduct("p1", 20000), 1, 41)
	s.AddLine(ctx, testProduct("p2", 15000), 1, 40)

	s.RemoveLine(ctx, "p1", 41)
	if len(s.Lines()) != 1 {
		t.Fatalf("expected 1 line after remove, got %d", len(s.Lines()))
	}

	// removing a line that is not there is a no-op
	s.RemoveLine(ctx, "p1", 41)
	s.RemoveLine(ctx, "p2", 99)
	if len(s.Lines()) != 1 {
		t.Fatalf("expected 1 line after no-op removes, got %d", len(s.Lines()))
	}
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, "sess1", NewMemoryPersister())
	s.AddLine(ctx, testProduct("p1", 20000), 1, 41)

	s.UpdateQuantity(ctx, "p1", 41, 5)
	if got := s.Lines()[0].Quantity; got != 5 {
		t.Errorf("expected quantity 5, got %d", got)
	}

	s.UpdateQuantity(ctx, "p1", 41, 0)
	if len(s.Lines()) != 0 {
		t.Errorf("zero quantity should remove the line, got %d lines", len(s.Lines()))
	}
}

func TestToggleSelectAll(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, "sess1", NewMemoryPersister())
	s.AddLine(ctx, testProduct("p1", 20000), 1, 41)
	s.AddLine(ctx, testProduct("p2", 15000), 1, 40)
	s.ToggleSelect(ctx, "p2", 40) // now p1 selected, p2 not

	// any unselected line means select everything
	s.ToggleSelectAll(ctx)
	for _, line := range s.Lines() {
		if !line.Selected {
			t.Fatalf("expected all lines selected, %s/%d is not", line.ProductID, line.Size)
		}
	}

	// everything selected means deselect everything
	s.ToggleSelectAll(ctx)
	for _, line := range s.Lines() {
		if line.Selected {
			t.Fatalf("expected all lines deselected, %s/%d is not", line.ProductID, line.Size)
		}
	}
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, "sess1", NewMemoryPersister())
	s.AddLine(ctx, testProduct("p1", 20000), 2, 41)
	s.AddLine(ctx, testProduct("p2", 15000), 1, 40)
	s.ToggleSelect(ctx, "p2", 40)

	count, total := s.Totals(false)
	if count != 3 || total != 55000 {
		t.Errorf("full totals: expected count 3 total 55000, got %d / %v", count, total)
	}

	count, total = s.Totals(true)
	if count != 2 || total != 40000 {
		t.Errorf("selected totals: expected count 2 total 40000, got %d / %v", count, total)
	}
}

func TestRemoveSelectedKeepsUnselected(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, "sess1", NewMemoryPersister())
	s.AddLine(ctx, testProduct("p1", 20000), 1, 41)
	s.AddLine(ctx, testProduct("p2", 15000), 1, 40)
	s.ToggleSelect(ctx, "p2", 40)

	s.RemoveSelected(ctx)

	lines := s.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 remaining line, got %d", len(lines))
	}
	if lines[0].ProductID != "p2" {
		t.Errorf("expected unselected p2 to survive, got %s", lines[0].ProductID)
	}
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()

	s := Open(ctx, "sess1", p)
	s.AddLine(ctx, testProduct("p1", 20000), 2, 41)
	s.ToggleSelect(ctx, "p1", 41)

	reopened := Open(ctx, "sess1", p)
	lines := reopened.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected reopened cart to hold 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 || lines[0].Selected {
		t.Errorf("reopened line lost state: quantity %d selected %v", lines[0].Quantity, lines[0].Selected)
	}

	// a different session sees nothing
	other := Open(ctx, "sess2", p)
	if len(other.Lines()) != 0 {
		t.Errorf("expected empty cart for other session, got %d lines", len(other.Lines()))
	}
}

type failingPersister struct{}

func (failingPersister) Save(ctx context.Context, sessionID string, lines []models.CartLine) error {
	return errors.New("backend down")
}

func (failingPersister) Load(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	return nil, errors.New("backend down")
}

func TestPersistFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, "sess1", failingPersister{})

	s.AddLine(ctx, testProduct("p1", 20000), 1, 41)
	s.UpdateQuantity(ctx, "p1", 41, 3)

	lines := s.Lines()
	if len(lines) != 1 || lines[0].Quantity != 3 {
		t.Fatalf("cart should keep working in memory when persistence fails, got %+v", lines)
	}
}
