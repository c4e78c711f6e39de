package core

import (
	"errors"
	"testing"
	"time"
)

func TestCustomer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		c       Customer
		wantErr error
	}{
		{"valid", Customer{Name: "Acme Srl", Email: "billing@acme.it"}, nil},
		{"empty name", Customer{Email: "a@b.it"}, ErrEmptyName},
		{"empty email", Customer{Name: "Acme"}, ErrInvalidEmail},
		{"no at sign", Customer{Name: "Acme", Email: "acme.it"}, ErrInvalidEmail},
		{"leading at", Customer{Name: "Acme", Email: "@acme.it"}, ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvoice_Validate(t *testing.T) {
	valid := Invoice{
		CustomerID: "cust-1",
		Status:     InvoiceDraft,
		Items: []InvoiceItem{
			{Description: "Consulting", Quantity: 2, UnitPrice: Money{Cents: 5000}},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid invoice rejected: %v", err)
	}

	noCustomer := valid
	noCustomer.CustomerID = " "
	if err := noCustomer.Validate(); !errors.Is(err, ErrMissingCustomer) {
		t.Fatalf("expected ErrMissingCustomer, got %v", err)
	}

	badStatus := valid
	badStatus.Status = "open"
	if err := badStatus.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	badItem := valid
	badItem.Items = []InvoiceItem{{Description: "x", Quantity: 0, UnitPrice: Money{Cents: 100}}}
	if err := badItem.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestInvoice_ItemsTotal(t *testing.T) {
	inv := Invoice{Items: []InvoiceItem{
		{Description: "a", Quantity: 2, UnitPrice: Money{Cents: 1500}},
		{Description: "b", Quantity: 1, UnitPrice: Money{Cents: 990}},
	}}
	if got := inv.ItemsTotal().Cents; got != 3990 {
		t.Fatalf("ItemsTotal = %d, want 3990", got)
	}
}

func TestInvoice_Balance(t *testing.T) {
	inv := Invoice{Record: Record{ID: "inv-1"}, Total: Money{Cents: 10000}}
	payments := []Payment{
		{InvoiceID: "inv-1", Amount: Money{Cents: 4000}},
		{InvoiceID: "inv-2", Amount: Money{Cents: 9999}}, // other invoice, ignored
		{InvoiceID: "inv-1", Amount: Money{Cents: 1000}},
	}
	if got := inv.Balance(payments).Cents; got != 5000 {
		t.Fatalf("Balance = %d, want 5000", got)
	}
}

func TestExpense_Validate(t *testing.T) {
	valid := Expense{
		CategoryID:  "cat-1",
		AccountID:   "acc-1",
		Description: "Train tickets",
		Amount:      Money{Cents: 2350},
		Status:      ExpensePending,
		Method:      MethodCreditCard,
		SpentOn:     time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{"empty description", func(e *Expense) { e.Description = "  " }, ErrEmptyDescription},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"missing category", func(e *Expense) { e.CategoryID = "" }, ErrMissingCategory},
		{"missing account", func(e *Expense) { e.AccountID = "" }, ErrMissingAccount},
		{"bad status", func(e *Expense) { e.Status = "open" }, ErrInvalidStatus},
		{"bad method", func(e *Expense) { e.Method = "barter" }, ErrInvalidMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPayment_Validate(t *testing.T) {
	p := Payment{InvoiceID: "inv-1", Amount: Money{Cents: 100}, Method: MethodCash}
	if err := p.Validate(); err != nil {
		t.Fatalf("valid payment rejected: %v", err)
	}
	p.InvoiceID = ""
	if err := p.Validate(); !errors.Is(err, ErrMissingInvoice) {
		t.Fatalf("expected ErrMissingInvoice, got %v", err)
	}
}

func TestStatusEnums(t *testing.T) {
	if InvoiceStatus("archived").Valid() {
		t.Error("unknown invoice status accepted")
	}
	if !ExpenseApproved.Valid() {
		t.Error("approved expense status rejected")
	}
	if PaymentMethod("").Valid() {
		t.Error("empty payment method accepted")
	}
}
