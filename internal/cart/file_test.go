package cart

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFilePersistence_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := NewFilePersistence(dir, "sess-1")

	loaded, err := p.Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatal("missing file must load as empty cart")
	}

	in := []Line{
		{ID: "l1", ProductID: "p1", Name: "Vase", Price: price("100"), Quantity: 2, Size: "M"},
		{ID: "l2", ProductID: "p2", Name: "Lamp", Price: price("45.50"), Quantity: 1},
	}
	if err := p.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err = p.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].ID != "l1" || loaded[1].ID != "l2" {
		t.Fatalf("unexpected lines %+v", loaded)
	}
	if !loaded[1].Price.Equal(price("45.50")) {
		t.Fatalf("price mismatch after round trip: %s", loaded[1].Price)
	}
}

func TestFilePersistence_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sess-1", StorageKey+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("garbage{{"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewFilePersistence(dir, "sess-1")
	if _, err := p.Load(); err == nil {
		t.Fatal("expected decode error from corrupt file")
	}

	// The store converts that error into an empty, working cart.
	s := NewStore(p, nil)
	if len(s.Lines()) != 0 {
		t.Fatal("corrupt file must yield empty cart")
	}
}

func TestFilePersistence_SessionsAreIsolated(t *testing.T) {
	dir := t.TempDir()
	a := NewFilePersistence(dir, "sess-a")
	b := NewFilePersistence(dir, "sess-b")

	if err := a.Save([]Line{{ID: "l1", ProductID: "p1", Quantity: 1, Price: price("10")}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Fatal("sessions must not share cart slots")
	}
}
