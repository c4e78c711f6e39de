// Package worker turns change events into export ledger rows.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"fatture/internal/events"
	"fatture/internal/export"
	"fatture/internal/remote"
)

// ExportWorker handles change messages by reading the affected row from
// the data service and appending an audit row to the ledger.
type ExportWorker struct {
	svc    remote.Service
	ledger export.LedgerWriter
}

func NewExportWorker(svc remote.Service, ledger export.LedgerWriter) *ExportWorker {
	return &ExportWorker{svc: svc, ledger: ledger}
}

// HandleChange processes a single change message. Deleted rows cannot be
// fetched back, so their ledger row carries only the coordinates.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *events.ChangeMessage) error {
	slog.InfoContext(ctx, "Processing change event",
		"collection", msg.Collection,
		"op", msg.Op,
		"id", msg.ID)

	row := export.Row{
		Collection: msg.Collection,
		Op:         msg.Op,
		ID:         msg.ID,
		ChangedAt:  msg.Timestamp,
	}

	if msg.Op != "delete" {
		summary, cents, err := w.describeRow(ctx, msg.Collection, msg.ID)
		if err != nil {
			return fmt.Errorf("describe %s(%s): %w", msg.Collection, msg.ID, err)
		}
		row.Summary = summary
		row.AmountCents = cents
	}

	if err := w.ledger.Append(ctx, row); err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}
	return nil
}

// describeRow fetches the row and extracts a human summary plus the
// amount column the collection carries, if any.
func (w *ExportWorker) describeRow(ctx context.Context, collection, id string) (string, int64, error) {
	rows, err := w.svc.Select(ctx, collection, remote.Filter{"id": id})
	if err != nil {
		return "", 0, fmt.Errorf("select row: %w", err)
	}
	if len(rows) == 0 {
		// The row changed and was deleted before we got to it; export
		// what we know rather than requeueing forever.
		return "(row no longer exists)", 0, nil
	}

	var row map[string]any
	if err := json.Unmarshal(rows[0], &row); err != nil {
		return "", 0, fmt.Errorf("decode row: %w", err)
	}
	return summarize(row), amountOf(row), nil
}

func summarize(row map[string]any) string {
	for _, key := range []string{"description", "name", "number"} {
		if v, ok := row[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func amountOf(row map[string]any) int64 {
	for _, key := range []string{"amount_cents", "total_cents", "balance_cents", "unit_price_cents"} {
		if v, ok := row[key].(float64); ok {
			return int64(v)
		}
	}
	return 0
}
