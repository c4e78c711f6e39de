package adapters

import (
	"context"
	"errors"
	"testing"

	"fatture/internal/core"
	"fatture/internal/remote/memory"
	"fatture/internal/store"
)

func TestCategoriesAdapter_CreateAndGet(t *testing.T) {
	s := store.New(memory.New())
	cats := Categories(s)
	ctx := context.Background()

	created, err := cats.Create(ctx, core.ItemCategory{Name: "Travel", Color: "#4ECDC4"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created category has empty id")
	}

	got, err := cats.Get(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Travel" || got.Color != "#4ECDC4" {
		t.Fatalf("get returned %+v", got)
	}
	if len(cats.Data()) != 1 {
		t.Fatalf("adapter sees %d categories, want 1", len(cats.Data()))
	}
}

func TestAdapterDerivesFromLatestSnapshot(t *testing.T) {
	s := store.New(memory.New())
	customers := Customers(s)
	ctx := context.Background()

	if len(customers.Data()) != 0 {
		t.Fatal("fresh adapter should see an empty collection")
	}

	// Mutate through the store directly; the adapter holds no cache and
	// must observe the change.
	if _, err := s.CreateCustomer(ctx, core.Customer{Name: "Acme", Email: "a@b.it"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(customers.Data()) != 1 {
		t.Fatal("adapter did not observe the store mutation")
	}
}

func TestAdapterRefreshAndLoading(t *testing.T) {
	backend := memory.New()
	ctx := context.Background()
	if _, err := backend.Insert(ctx, string(store.Expenses), map[string]any{"description": "Taxi"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := store.New(backend)
	expenses := Expenses(s)

	if err := expenses.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if expenses.IsLoading() {
		t.Error("loading flag still set after refresh resolved")
	}
	if len(expenses.Data()) != 1 {
		t.Fatalf("adapter sees %d expenses, want 1", len(expenses.Data()))
	}
}

func TestAdapterDeleteSurfacesConstraint(t *testing.T) {
	s := store.New(memory.New())
	cats := Categories(s)
	items := Items(s)
	ctx := context.Background()

	cat, err := cats.Create(ctx, core.ItemCategory{Name: "Travel"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := items.Create(ctx, core.Item{Name: "Ticket", CategoryID: cat.ID, UnitPrice: core.Money{Cents: 500}}); err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := cats.Delete(ctx, cat.ID); err == nil {
		t.Fatal("constrained delete did not surface an error")
	}
	if len(cats.Data()) != 1 {
		t.Fatal("rejected delete mutated the collection seen by the adapter")
	}
}

func TestAdapterGetMissing(t *testing.T) {
	s := store.New(memory.New())
	if _, err := Invoices(s).Get("mem:404"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}
