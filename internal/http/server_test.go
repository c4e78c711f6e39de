package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"fatture/internal/core"
	"fatture/internal/remote/memory"
	"fatture/internal/store"
	"fatture/internal/version"
)

func newTestServer(t *testing.T) (*httptest.Server, *Server) {
	t.Helper()

	st := store.New(memory.New())
	stampPath := filepath.Join(t.TempDir(), "version.json")
	srv := NewServer("127.0.0.1:0", st, stampPath)
	ts := httptest.NewServer(srv.Server.Handler)
	t.Cleanup(ts.Close)
	return ts, srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestCategoryLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/item_categories", map[string]any{
		"name":  "Travel",
		"color": "#4ECDC4",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	created := decode[core.ItemCategory](t, resp)
	if created.ID == "" {
		t.Fatal("created category has no id")
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/item_categories", nil)
	list := decode[[]core.ItemCategory](t, resp)
	if len(list) != 1 || list[0].Name != "Travel" {
		t.Fatalf("list = %+v, want one Travel category", list)
	}

	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/item_categories/"+created.ID, map[string]any{
		"name": "Trips",
	})
	updated := decode[core.ItemCategory](t, resp)
	if updated.Name != "Trips" {
		t.Fatalf("updated name = %q, want Trips", updated.Name)
	}

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/item_categories/"+created.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/item_categories/"+created.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/customers", map[string]any{
		"name":  "Acme",
		"email": "not-an-email",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDeleteReferencedInvoiceConflicts(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/customers", map[string]any{
		"name":  "Acme",
		"email": "billing@acme.test",
	})
	customer := decode[core.Customer](t, resp)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/invoices", map[string]any{
		"customer_id": customer.ID,
		"number":      "INV-001",
		"status":      "sent",
		"total_cents": 5000,
	})
	invoice := decode[core.Invoice](t, resp)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/payments", map[string]any{
		"invoice_id":     invoice.ID,
		"amount_cents":   2000,
		"payment_method": "bank_transfer",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("payment status = %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/invoices/"+invoice.ID, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("delete status = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, ts.URL+fmt.Sprintf("/api/invoices/%s/balance", invoice.ID), nil)
	balance := decode[map[string]any](t, resp)
	if got := balance["balance_cents"].(float64); got != 3000 {
		t.Fatalf("balance = %v, want 3000", got)
	}
}

func TestAccountSummaryIsCached(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/accounts", map[string]any{
		"name": "Main",
	})
	account := decode[core.Account](t, resp)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/item_categories", map[string]any{
		"name": "Office",
	})
	category := decode[core.ItemCategory](t, resp)

	newExpense := func(desc string) map[string]any {
		return map[string]any{
			"category_id":    category.ID,
			"account_id":     account.ID,
			"description":    desc,
			"amount_cents":   1500,
			"status":         "approved",
			"payment_method": "credit_card",
			"spent_on":       time.Now().UTC().Format(time.RFC3339),
		}
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/expenses", newExpense("chairs"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expense status = %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/summary/accounts", nil)
	first := decode[[]AccountSummary](t, resp)
	if len(first) != 1 || first[0].SpentCents != 1500 {
		t.Fatalf("summary = %+v, want one account with 1500 spent", first)
	}

	// A second expense lands inside the cache window and must not show up.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/expenses", newExpense("desks"))
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/summary/accounts", nil)
	second := decode[[]AccountSummary](t, resp)
	if second[0].SpentCents != 1500 {
		t.Fatalf("cached summary spent = %d, want 1500", second[0].SpentCents)
	}
}

func TestHealthAndVersion(t *testing.T) {
	ts, srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil)
	health := decode[map[string]any](t, resp)
	if health["status"] != "ok" {
		t.Fatalf("health status = %v, want ok", health["status"])
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/version", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("version without stamp status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()

	stamp := version.NewStamp("1.2.3", "test", time.Now())
	if err := stamp.Write(srv.versionPath, ""); err != nil {
		t.Fatalf("write stamp: %v", err)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/version", nil)
	got := decode[version.Stamp](t, resp)
	if got.Version != "1.2.3" || got.Environment != "test" {
		t.Fatalf("stamp = %+v, want version 1.2.3 env test", got)
	}
}

func TestCreateAcceptsDecimalAmountStrings(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/accounts", map[string]any{
		"name":          "Main",
		"balance_cents": "100.50",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	account := decode[core.Account](t, resp)
	if account.Balance.Cents != 10050 {
		t.Fatalf("balance = %d cents, want 10050", account.Balance.Cents)
	}
}
