// Package store is the single source of truth for all domain collections
// within one running session. It mirrors the remote data service into
// memory, tracks per-collection loading and error state, and republishes
// every state change to subscribers through the broker.
//
// The store is the sole writer of its collections. Consumers read
// snapshots and mutate only through the exposed operations, which
// serializes logical writes through one chokepoint.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"fatture/internal/core"
	"fatture/internal/remote"
)

// Collection names match the remote service's table names.
type Collection string

const (
	Customers  Collection = "customers"
	Invoices   Collection = "invoices"
	Categories Collection = "item_categories"
	Items      Collection = "items"
	Accounts   Collection = "accounts"
	Expenses   Collection = "expenses"
	Payments   Collection = "payments"
	Receipts   Collection = "receipts"
)

// Patch is a partial update payload, column name to new value.
type Patch map[string]any

// Mutation ops reported to the change publisher.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ErrNotFound is returned by lookups against the in-memory collections.
// Lookups never fall back to a network fetch.
var ErrNotFound = errors.New("record not found in store")

// ChangePublisher is notified after every successful mutation. Publish
// failures are logged and never fail the mutation itself.
type ChangePublisher interface {
	PublishChange(ctx context.Context, collection, op, id string) error
}

// Snapshot is the complete store state at a point in time, as delivered
// to subscribers. Slices are copies; subscribers must treat them as
// read-only.
type Snapshot struct {
	Customers  []core.Customer
	Invoices   []core.Invoice
	Categories []core.ItemCategory
	Items      []core.Item
	Accounts   []core.Account
	Expenses   []core.Expense
	Payments   []core.Payment
	Receipts   []core.Receipt

	Loading map[Collection]bool
	Errors  map[Collection]string
}

// IsLoading reports whether a fetch for the collection is outstanding.
func (s Snapshot) IsLoading(c Collection) bool { return s.Loading[c] }

// Err returns the last fetch error recorded for the collection, or "".
func (s Snapshot) Err(c Collection) string { return s.Errors[c] }

type Store struct {
	svc       remote.Service
	broker    *Broker
	publisher ChangePublisher
	flight    singleflight.Group

	mu         sync.Mutex
	customers  []core.Customer
	invoices   []core.Invoice
	categories []core.ItemCategory
	items      []core.Item
	accounts   []core.Account
	expenses   []core.Expense
	payments   []core.Payment
	receipts   []core.Receipt
	loading    map[Collection]bool
	errs       map[Collection]string
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithPublisher wires a change publisher notified after successful
// mutations.
func WithPublisher(p ChangePublisher) Option {
	return func(s *Store) { s.publisher = p }
}

func New(svc remote.Service, opts ...Option) *Store {
	s := &Store{
		svc:     svc,
		broker:  NewBroker(),
		loading: make(map[Collection]bool),
		errs:    make(map[Collection]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a callback invoked with the current snapshot after
// every state change. It returns an idempotent unsubscribe function.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	return s.broker.Subscribe(fn)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Customers:  append([]core.Customer(nil), s.customers...),
		Invoices:   append([]core.Invoice(nil), s.invoices...),
		Categories: append([]core.ItemCategory(nil), s.categories...),
		Items:      append([]core.Item(nil), s.items...),
		Accounts:   append([]core.Account(nil), s.accounts...),
		Expenses:   append([]core.Expense(nil), s.expenses...),
		Payments:   append([]core.Payment(nil), s.payments...),
		Receipts:   append([]core.Receipt(nil), s.receipts...),
		Loading:    make(map[Collection]bool, len(s.loading)),
		Errors:     make(map[Collection]string, len(s.errs)),
	}
	for c, v := range s.loading {
		snap.Loading[c] = v
	}
	for c, v := range s.errs {
		snap.Errors[c] = v
	}
	return snap
}

// IsLoading reports whether a fetch for the collection is outstanding.
func (s *Store) IsLoading(c Collection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[c]
}

// Err returns the last fetch error recorded for the collection, or "".
func (s *Store) Err(c Collection) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs[c]
}

// notify publishes the current snapshot to all subscribers. Never call
// with the state lock held: subscribers run synchronously and may read
// the store back.
func (s *Store) notify() {
	s.broker.Publish(s.Snapshot())
}

func (s *Store) beginFetch(c Collection) {
	s.mu.Lock()
	s.loading[c] = true
	s.mu.Unlock()
	s.notify()
}

func (s *Store) finishFetch(c Collection, err error) {
	s.mu.Lock()
	s.loading[c] = false
	if err != nil {
		s.errs[c] = err.Error()
	} else {
		delete(s.errs, c)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) publishChange(ctx context.Context, c Collection, op, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, string(c), op, id); err != nil {
		// The mutation already succeeded; a lost change event must not fail it.
		slog.ErrorContext(ctx, "Failed to publish change event",
			"collection", c, "op", op, "id", id, "error", err)
	}
}

// fetchCollection replaces the collection with the remote rows. Concurrent
// fetches of the same collection are coalesced onto one remote call; on
// failure prior data is left intact and the error is recorded.
func fetchCollection[T any](ctx context.Context, s *Store, c Collection, slice func(*Store) *[]T) error {
	_, err, _ := s.flight.Do(string(c), func() (any, error) {
		s.beginFetch(c)
		rows, err := s.svc.Select(ctx, string(c), nil)
		if err != nil {
			s.finishFetch(c, err)
			return nil, err
		}
		data := make([]T, 0, len(rows))
		for _, raw := range rows {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				err = fmt.Errorf("decode %s row: %w", c, err)
				s.finishFetch(c, err)
				return nil, err
			}
			data = append(data, v)
		}
		s.mu.Lock()
		*slice(s) = data
		s.mu.Unlock()
		s.finishFetch(c, nil)
		return nil, nil
	})
	return err
}

type record interface {
	RecordID() string
}

// createRecord validates the payload, inserts it, and appends the
// server's authoritative row to the collection. A failed insert leaves
// the collection untouched.
func createRecord[T record](ctx context.Context, s *Store, c Collection, payload T, slice func(*Store) *[]T) (T, error) {
	var zero T
	if v, ok := any(payload).(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			// Subscribers hear about every completed mutation, rejected
			// ones included, so views can drop pending UI state.
			s.notify()
			return zero, err
		}
	}
	raw, err := s.svc.Insert(ctx, string(c), payload)
	if err != nil {
		s.notify()
		return zero, err
	}
	var created T
	if err := json.Unmarshal(raw, &created); err != nil {
		return zero, fmt.Errorf("decode created %s row: %w", c, err)
	}

	s.mu.Lock()
	replaceOrAppend(slice(s), created)
	s.mu.Unlock()
	s.notify()
	s.publishChange(ctx, c, OpCreate, created.RecordID())
	return created, nil
}

// updateRecord patches the remote row and replaces the in-memory record
// by identifier with the server's representation.
func updateRecord[T record](ctx context.Context, s *Store, c Collection, id string, patch Patch, slice func(*Store) *[]T) (T, error) {
	var zero T
	raw, err := s.svc.Update(ctx, string(c), id, patch)
	if err != nil {
		s.notify()
		return zero, err
	}
	var updated T
	if err := json.Unmarshal(raw, &updated); err != nil {
		return zero, fmt.Errorf("decode updated %s row: %w", c, err)
	}

	s.mu.Lock()
	replaceOrAppend(slice(s), updated)
	s.mu.Unlock()
	s.notify()
	s.publishChange(ctx, c, OpUpdate, id)
	return updated, nil
}

// deleteRecord removes the remote row, then the in-memory record. The
// collection is unchanged when the remote delete is rejected.
func deleteRecord[T record](ctx context.Context, s *Store, c Collection, id string, slice func(*Store) *[]T) error {
	if err := s.svc.Delete(ctx, string(c), id); err != nil {
		s.notify()
		return err
	}
	s.mu.Lock()
	items := slice(s)
	for i := range *items {
		if (*items)[i].RecordID() == id {
			*items = append((*items)[:i], (*items)[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.notify()
	s.publishChange(ctx, c, OpDelete, id)
	return nil
}

// getRecord is a pure in-memory lookup; it never issues a network call.
func getRecord[T record](s *Store, id string, slice func(*Store) *[]T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range *slice(s) {
		if v.RecordID() == id {
			return v, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

// replaceOrAppend keeps the invariant that a collection never holds two
// records with the same identifier.
func replaceOrAppend[T record](items *[]T, v T) {
	for i := range *items {
		if (*items)[i].RecordID() == v.RecordID() {
			(*items)[i] = v
			return
		}
	}
	*items = append(*items, v)
}
