package core

import (
	"errors"
	"strings"
	"time"
)

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpensePaid     ExpenseStatus = "paid"
	ExpenseRejected ExpenseStatus = "rejected"
)

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodDebitCard    PaymentMethod = "debit_card"
	MethodOther        PaymentMethod = "other"
)

type (
	InvoiceStatus string
	ExpenseStatus string
	PaymentMethod string

	// Record carries the row fields the remote service assigns on insert.
	// Embedding it gives every entity its identity and timestamps.
	Record struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	Customer struct {
		Record
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone,omitempty"`
		Address string `json:"address,omitempty"`
	}

	InvoiceItem struct {
		Description string `json:"description"`
		Quantity    int64  `json:"quantity"`
		UnitPrice   Money  `json:"unit_price_cents"`
	}

	Invoice struct {
		Record
		CustomerID string        `json:"customer_id"`
		Number     string        `json:"number"`
		Status     InvoiceStatus `json:"status"`
		IssuedOn   time.Time     `json:"issued_on"`
		DueOn      time.Time     `json:"due_on"`
		Items      []InvoiceItem `json:"items,omitempty"`
		Total      Money         `json:"total_cents"`
	}

	ItemCategory struct {
		Record
		Name  string `json:"name"`
		Color string `json:"color,omitempty"`
	}

	Item struct {
		Record
		CategoryID  string `json:"category_id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		UnitPrice   Money  `json:"unit_price_cents"`
	}

	Account struct {
		Record
		Name    string `json:"name"`
		Balance Money  `json:"balance_cents"`
	}

	Expense struct {
		Record
		CategoryID  string        `json:"category_id"`
		AccountID   string        `json:"account_id"`
		CustomerID  string        `json:"customer_id,omitempty"`
		Description string        `json:"description"`
		Amount      Money         `json:"amount_cents"`
		Status      ExpenseStatus `json:"status"`
		Method      PaymentMethod `json:"payment_method"`
		SpentOn     time.Time     `json:"spent_on"`
	}

	Payment struct {
		Record
		InvoiceID string        `json:"invoice_id"`
		Amount    Money         `json:"amount_cents"`
		Method    PaymentMethod `json:"payment_method"`
		PaidOn    time.Time     `json:"paid_on"`
	}

	Receipt struct {
		Record
		InvoiceID string `json:"invoice_id"`
		Number    string `json:"number"`
		Note      string `json:"note,omitempty"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrMissingCustomer  = errors.New("missing customer reference")
	ErrMissingCategory  = errors.New("missing category reference")
	ErrMissingAccount   = errors.New("missing account reference")
	ErrMissingInvoice   = errors.New("missing invoice reference")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidMethod    = errors.New("invalid payment method")
)

// RecordID returns the server-assigned identifier.
func (r Record) RecordID() string { return r.ID }

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

func (s ExpenseStatus) Valid() bool {
	switch s {
	case ExpensePending, ExpenseApproved, ExpensePaid, ExpenseRejected:
		return true
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCreditCard, MethodDebitCard, MethodOther:
		return true
	}
	return false
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	email := strings.TrimSpace(c.Email)
	if email == "" || !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

func (i Invoice) Validate() error {
	if strings.TrimSpace(i.CustomerID) == "" {
		return ErrMissingCustomer
	}
	if !i.Status.Valid() {
		return ErrInvalidStatus
	}
	for _, it := range i.Items {
		if strings.TrimSpace(it.Description) == "" {
			return ErrEmptyDescription
		}
		if it.Quantity <= 0 || it.UnitPrice.Cents <= 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}

// ItemsTotal sums the line items. The stored Total is authoritative once the
// remote service has accepted the row; this is for building payloads.
func (i Invoice) ItemsTotal() Money {
	var cents int64
	for _, it := range i.Items {
		cents += it.Quantity * it.UnitPrice.Cents
	}
	return Money{Cents: cents}
}

// Balance returns the total minus the given applied payments.
func (i Invoice) Balance(payments []Payment) Money {
	remaining := i.Total.Cents
	for _, p := range payments {
		if p.InvoiceID == i.ID {
			remaining -= p.Amount.Cents
		}
	}
	return Money{Cents: remaining}
}

func (c ItemCategory) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(i.CategoryID) == "" {
		return ErrMissingCategory
	}
	if i.UnitPrice.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		return ErrMissingCategory
	}
	if strings.TrimSpace(e.AccountID) == "" {
		return ErrMissingAccount
	}
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	if !e.Method.Valid() {
		return ErrInvalidMethod
	}
	return nil
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.InvoiceID) == "" {
		return ErrMissingInvoice
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if !p.Method.Valid() {
		return ErrInvalidMethod
	}
	return nil
}

func (r Receipt) Validate() error {
	if strings.TrimSpace(r.InvoiceID) == "" {
		return ErrMissingInvoice
	}
	if strings.TrimSpace(r.Number) == "" {
		return ErrEmptyName
	}
	return nil
}
