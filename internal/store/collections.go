package store

import (
	"context"

	"fatture/internal/core"
)

// Typed operations, uniform per collection. Every mutation goes through
// the remote service first; the in-memory collection is patched from the
// service's authoritative response.

func customersSlice(s *Store) *[]core.Customer      { return &s.customers }
func invoicesSlice(s *Store) *[]core.Invoice        { return &s.invoices }
func categoriesSlice(s *Store) *[]core.ItemCategory { return &s.categories }
func itemsSlice(s *Store) *[]core.Item              { return &s.items }
func accountsSlice(s *Store) *[]core.Account        { return &s.accounts }
func expensesSlice(s *Store) *[]core.Expense        { return &s.expenses }
func paymentsSlice(s *Store) *[]core.Payment        { return &s.payments }
func receiptsSlice(s *Store) *[]core.Receipt        { return &s.receipts }

// Customers

func (s *Store) FetchCustomers(ctx context.Context) error {
	return fetchCollection(ctx, s, Customers, customersSlice)
}

func (s *Store) CreateCustomer(ctx context.Context, c core.Customer) (core.Customer, error) {
	return createRecord(ctx, s, Customers, c, customersSlice)
}

func (s *Store) UpdateCustomer(ctx context.Context, id string, patch Patch) (core.Customer, error) {
	return updateRecord(ctx, s, Customers, id, patch, customersSlice)
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, Customers, id, customersSlice)
}

func (s *Store) Customer(id string) (core.Customer, error) {
	return getRecord(s, id, customersSlice)
}

// Invoices

func (s *Store) FetchInvoices(ctx context.Context) error {
	return fetchCollection(ctx, s, Invoices, invoicesSlice)
}

func (s *Store) CreateInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error) {
	return createRecord(ctx, s, Invoices, inv, invoicesSlice)
}

func (s *Store) UpdateInvoice(ctx context.Context, id string, patch Patch) (core.Invoice, error) {
	return updateRecord(ctx, s, Invoices, id, patch, invoicesSlice)
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, Invoices, id, invoicesSlice)
}

func (s *Store) Invoice(id string) (core.Invoice, error) {
	return getRecord(s, id, invoicesSlice)
}

// InvoiceBalance derives the open balance from the invoice total and the
// payments currently in memory.
func (s *Store) InvoiceBalance(id string) (core.Money, error) {
	inv, err := s.Invoice(id)
	if err != nil {
		return core.Money{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return inv.Balance(s.payments), nil
}

// Item categories

func (s *Store) FetchCategories(ctx context.Context) error {
	return fetchCollection(ctx, s, Categories, categoriesSlice)
}

func (s *Store) CreateCategory(ctx context.Context, c core.ItemCategory) (core.ItemCategory, error) {
	return createRecord(ctx, s, Categories, c, categoriesSlice)
}

func (s *Store) UpdateCategory(ctx context.Context, id string, patch Patch) (core.ItemCategory, error) {
	return updateRecord(ctx, s, Categories, id, patch, categoriesSlice)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, Categories, id, categoriesSlice)
}

func (s *Store) Category(id string) (core.ItemCategory, error) {
	return getRecord(s, id, categoriesSlice)
}

// Items

func (s *Store) FetchItems(ctx context.Context) error {
	return fetchCollection(ctx, s, Items, itemsSlice)
}

func (s *Store) CreateItem(ctx context.Context, i core.Item) (core.Item, error) {
	return createRecord(ctx, s, Items, i, itemsSlice)
}

func (s *Store) UpdateItem(ctx context.Context, id string, patch Patch) (core.Item, error) {
	return updateRecord(ctx, s, Items, id, patch, itemsSlice)
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, Items, id, itemsSlice)
}

func (s *Store) Item(id string) (core.Item, error) {
	return getRecord(s, id, itemsSlice)
}

// Accounts

func (s *Store) FetchAccounts(ctx context.Context) error {
	return fetchCollection(ctx, s, Accounts, accountsSlice)
}

func (s *Store) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	return createRecord(ctx, s, Accounts, a, accountsSlice)
}

func (s *Store) UpdateAccount(ctx context.Context, id string, patch Patch) (core.Account, error) {
	return updateRecord(ctx, s, Accounts, id, patch, accountsSlice)
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, Accounts, id, accountsSlice)
}

func (s *Store) Account(id string) (core.Account, error) {
	return getRecord(s, id, accountsSlice)
}

// Expenses

func (s *Store) FetchExpenses(ctx context.Context) error {
	return fetchCollection(ctx, s, Expenses, expensesSlice)
}

func (s *Store) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	return createRecord(ctx, s, Expenses, e, expensesSlice)
}

func (s *Store) UpdateExpense(ctx context.Context, id string, patch Patch) (core.Expense, error) {
	return updateRecord(ctx, s, Expenses, id, patch, expensesSlice)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, Expenses, id, expensesSlice)
}

func (s *Store) Expense(id string) (core.Expense, error) {
	return getRecord(s, id, expensesSlice)
}

// Payments

func (s *Store) FetchPayments(ctx context.Context) error {
	return fetchCollection(ctx, s, Payments, paymentsSlice)
}

func (s *Store) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	return createRecord(ctx, s, Payments, p, paymentsSlice)
}

func (s *Store) UpdatePayment(ctx context.Context, id string, patch Patch) (core.Payment, error) {
	return updateRecord(ctx, s, Payments, id, patch, paymentsSlice)
}

func (s *Store) DeletePayment(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, Payments, id, paymentsSlice)
}

func (s *Store) Payment(id string) (core.Payment, error) {
	return getRecord(s, id, paymentsSlice)
}

// Receipts

func (s *Store) FetchReceipts(ctx context.Context) error {
	return fetchCollection(ctx, s, Receipts, receiptsSlice)
}

func (s *Store) CreateReceipt(ctx context.Context, r core.Receipt) (core.Receipt, error) {
	return createRecord(ctx, s, Receipts, r, receiptsSlice)
}

func (s *Store) UpdateReceipt(ctx context.Context, id string, patch Patch) (core.Receipt, error) {
	return updateRecord(ctx, s, Receipts, id, patch, receiptsSlice)
}

func (s *Store) DeleteReceipt(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, Receipts, id, receiptsSlice)
}

func (s *Store) Receipt(id string) (core.Receipt, error) {
	return getRecord(s, id, receiptsSlice)
}
