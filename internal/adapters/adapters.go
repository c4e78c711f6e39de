// Package adapters narrows the full store snapshot to the slice of state
// and actions one feature area needs. Adapters hold no state of their
// own; every read is a fresh derivation from the store, so a consumer
// holding an adapter always observes the latest snapshot.
package adapters

import (
	"context"

	"fatture/internal/core"
	"fatture/internal/store"
)

// Adapter exposes one collection's data, loading state, and actions.
// The zero value is not usable; build one with the feature constructors.
type Adapter[T any] struct {
	collection store.Collection
	s          *store.Store
	data       func(store.Snapshot) []T
	create     func(context.Context, T) (T, error)
	update     func(context.Context, string, store.Patch) (T, error)
	remove     func(context.Context, string) error
	refresh    func(context.Context) error
	lookup     func(string) (T, error)
}

// Data returns the collection from the current snapshot.
func (a *Adapter[T]) Data() []T { return a.data(a.s.Snapshot()) }

// IsLoading reports whether a fetch for this collection is outstanding.
func (a *Adapter[T]) IsLoading() bool { return a.s.IsLoading(a.collection) }

// Err returns the collection's recorded fetch error, or "".
func (a *Adapter[T]) Err() string { return a.s.Err(a.collection) }

// Refresh re-fetches the collection from the remote service.
func (a *Adapter[T]) Refresh(ctx context.Context) error { return a.refresh(ctx) }

// Create inserts a record and returns the server's representation.
func (a *Adapter[T]) Create(ctx context.Context, v T) (T, error) { return a.create(ctx, v) }

// Update patches a record by identifier.
func (a *Adapter[T]) Update(ctx context.Context, id string, patch store.Patch) (T, error) {
	return a.update(ctx, id, patch)
}

// Delete removes a record by identifier.
func (a *Adapter[T]) Delete(ctx context.Context, id string) error { return a.remove(ctx, id) }

// Get looks the record up in memory; it never fetches.
func (a *Adapter[T]) Get(id string) (T, error) { return a.lookup(id) }

func Customers(s *store.Store) *Adapter[core.Customer] {
	return &Adapter[core.Customer]{
		collection: store.Customers,
		s:          s,
		data:       func(snap store.Snapshot) []core.Customer { return snap.Customers },
		create:     s.CreateCustomer,
		update:     s.UpdateCustomer,
		remove:     s.DeleteCustomer,
		refresh:    s.FetchCustomers,
		lookup:     s.Customer,
	}
}

func Invoices(s *store.Store) *Adapter[core.Invoice] {
	return &Adapter[core.Invoice]{
		collection: store.Invoices,
		s:          s,
		data:       func(snap store.Snapshot) []core.Invoice { return snap.Invoices },
		create:     s.CreateInvoice,
		update:     s.UpdateInvoice,
		remove:     s.DeleteInvoice,
		refresh:    s.FetchInvoices,
		lookup:     s.Invoice,
	}
}

func Categories(s *store.Store) *Adapter[core.ItemCategory] {
	return &Adapter[core.ItemCategory]{
		collection: store.Categories,
		s:          s,
		data:       func(snap store.Snapshot) []core.ItemCategory { return snap.Categories },
		create:     s.CreateCategory,
		update:     s.UpdateCategory,
		remove:     s.DeleteCategory,
		refresh:    s.FetchCategories,
		lookup:     s.Category,
	}
}

func Items(s *store.Store) *Adapter[core.Item] {
	return &Adapter[core.Item]{
		collection: store.Items,
		s:          s,
		data:       func(snap store.Snapshot) []core.Item { return snap.Items },
		create:     s.CreateItem,
		update:     s.UpdateItem,
		remove:     s.DeleteItem,
		refresh:    s.FetchItems,
		lookup:     s.Item,
	}
}

func Accounts(s *store.Store) *Adapter[core.Account] {
	return &Adapter[core.Account]{
		collection: store.Accounts,
		s:          s,
		data:       func(snap store.Snapshot) []core.Account { return snap.Accounts },
		create:     s.CreateAccount,
		update:     s.UpdateAccount,
		remove:     s.DeleteAccount,
		refresh:    s.FetchAccounts,
		lookup:     s.Account,
	}
}

func Expenses(s *store.Store) *Adapter[core.Expense] {
	return &Adapter[core.Expense]{
		collection: store.Expenses,
		s:          s,
		data:       func(snap store.Snapshot) []core.Expense { return snap.Expenses },
		create:     s.CreateExpense,
		update:     s.UpdateExpense,
		remove:     s.DeleteExpense,
		refresh:    s.FetchExpenses,
		lookup:     s.Expense,
	}
}

func Payments(s *store.Store) *Adapter[core.Payment] {
	return &Adapter[core.Payment]{
		collection: store.Payments,
		s:          s,
		data:       func(snap store.Snapshot) []core.Payment { return snap.Payments },
		create:     s.CreatePayment,
		update:     s.UpdatePayment,
		remove:     s.DeletePayment,
		refresh:    s.FetchPayments,
		lookup:     s.Payment,
	}
}

func Receipts(s *store.Store) *Adapter[core.Receipt] {
	return &Adapter[core.Receipt]{
		collection: store.Receipts,
		s:          s,
		data:       func(snap store.Snapshot) []core.Receipt { return snap.Receipts },
		create:     s.CreateReceipt,
		update:     s.UpdateReceipt,
		remove:     s.DeleteReceipt,
		refresh:    s.FetchReceipts,
		lookup:     s.Receipt,
	}
}
