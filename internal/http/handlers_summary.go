package http

import (
	"net/http"
)

// AccountSummary aggregates an account's balance with its spending.
type AccountSummary struct {
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	BalanceCents int64  `json:"balance_cents"`
	SpentCents   int64  `json:"spent_cents"`
	ExpenseCount int    `json:"expense_count"`
}

const summaryCacheKey = "accounts"

// handleAccountSummary derives per-account spending totals, cached briefly.
func (s *Server) handleAccountSummary(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.summaryCache.Get(summaryCacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	ctx := r.Context()
	if err := s.store.FetchAccounts(ctx); err != nil {
		writeError(w, r, "accounts", "summary", err)
		return
	}
	if err := s.store.FetchExpenses(ctx); err != nil {
		writeError(w, r, "expenses", "summary", err)
		return
	}

	snap := s.store.Snapshot()

	summaries := make([]AccountSummary, 0, len(snap.Accounts))
	for _, acc := range snap.Accounts {
		summary := AccountSummary{
			AccountID:    acc.ID,
			Name:         acc.Name,
			BalanceCents: acc.Balance.Cents,
		}
		for _, exp := range snap.Expenses {
			if exp.AccountID == acc.ID {
				summary.SpentCents += exp.Amount.Cents
				summary.ExpenseCount++
			}
		}
		summaries = append(summaries, summary)
	}

	s.summaryCache.Set(summaryCacheKey, summaries)
	writeJSON(w, http.StatusOK, summaries)
}

// handleInvoiceBalance reports the open balance for one invoice.
func (s *Server) handleInvoiceBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.store.FetchInvoices(ctx); err != nil {
		writeError(w, r, "invoices", "balance", err)
		return
	}
	if err := s.store.FetchPayments(ctx); err != nil {
		writeError(w, r, "payments", "balance", err)
		return
	}

	id := r.PathValue("id")
	balance, err := s.store.InvoiceBalance(id)
	if err != nil {
		writeError(w, r, "invoices", "balance", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invoice_id":    id,
		"balance_cents": balance.Cents,
	})
}
