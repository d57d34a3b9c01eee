package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"bookly/backend/internal/domain"
	"bookly/backend/internal/store"
)

func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	databaseURL := os.Getenv("BOOKLY_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set BOOKLY_TEST_DATABASE_URL to run postgres integration tests")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s, ctx
}

func TestRecordSaleFloorsStockAtZero(t *testing.T) {
	s, ctx := newTestStore(t)

	stamp := time.Now().UnixNano()
	id := fmt.Sprintf("prod-it-floor-%d", stamp)
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	})

	if _, err := s.CreateProduct(ctx, domain.Product{
		ID:             id,
		Name:           fmt.Sprintf("Mug IT %d", stamp),
		PriceCents:     1500,
		CostPriceCents: 400,
		Stock:          3,
	}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	updated, err := s.RecordSale(ctx, id, 10)
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if updated.Stock != 0 {
		t.Fatalf("expected stock floored at 0, got %d", updated.Stock)
	}
	if updated.TotalSales != 10 {
		t.Fatalf("expected total sales 10, got %d", updated.TotalSales)
	}

	if _, err := s.RecordSale(ctx, id, 0); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected quantity below one to be rejected, got %v", err)
	}
}

func TestUpsertCustomerOnSaleAccumulates(t *testing.T) {
	s, ctx := newTestStore(t)

	stamp := time.Now().UnixNano()
	handle := fmt.Sprintf("@upsert_it_%d", stamp)
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM customers WHERE handle_key = $1`, domain.NormalizeHandle(handle))
	})

	first, inserted, err := s.UpsertCustomerOnSale(ctx, handle, 2000, domain.SourceWhatsApp)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !inserted {
		t.Fatal("expected first upsert to report an insert")
	}
	if first.OrderCount != 1 || first.LTVCents != 2000 {
		t.Fatalf("unexpected first upsert state: count=%d ltv=%d", first.OrderCount, first.LTVCents)
	}

	second, inserted, err := s.UpsertCustomerOnSale(ctx, "  "+handle[1:]+"  ", 500, domain.SourceInstagram)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if inserted {
		t.Fatal("expected second upsert to hit the existing row")
	}
	if second.ID != first.ID {
		t.Fatalf("expected same customer, got %s and %s", first.ID, second.ID)
	}
	if second.OrderCount != 2 || second.LTVCents != 2500 {
		t.Fatalf("unexpected accumulated state: count=%d ltv=%d", second.OrderCount, second.LTVCents)
	}
}

func TestAppendTransactionsReadsBackNewestBatchFirst(t *testing.T) {
	s, ctx := newTestStore(t)

	stamp := time.Now().UnixNano()
	ids := []string{
		fmt.Sprintf("tx-it-a-%d", stamp),
		fmt.Sprintf("tx-it-b-%d", stamp),
		fmt.Sprintf("tx-it-c-%d", stamp),
	}
	t.Cleanup(func() {
		for _, id := range ids {
			_, _ = s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
		}
	})

	now := time.Now().UTC()
	first := []domain.Transaction{
		{ID: ids[0], ProductName: "Old", Quantity: 1, TotalCents: 100, Timestamp: now, Status: domain.TxStatusConfirmed},
	}
	if err := s.AppendTransactions(ctx, first); err != nil {
		t.Fatalf("append first batch: %v", err)
	}
	second := []domain.Transaction{
		{ID: ids[1], ProductName: "New A", Quantity: 1, TotalCents: 200, Timestamp: now, Status: domain.TxStatusConfirmed},
		{ID: ids[2], ProductName: "New B", Quantity: 2, TotalCents: 300, Timestamp: now, Status: domain.TxStatusConfirmed},
	}
	if err := s.AppendTransactions(ctx, second); err != nil {
		t.Fatalf("append second batch: %v", err)
	}

	all, err := s.ListTransactions(ctx, true)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	positions := make(map[string]int, len(ids))
	for i, tx := range all {
		positions[tx.ID] = i
	}
	for _, id := range ids {
		if _, ok := positions[id]; !ok {
			t.Fatalf("transaction %s missing from listing", id)
		}
	}
	if !(positions[ids[1]] < positions[ids[2]] && positions[ids[2]] < positions[ids[0]]) {
		t.Fatalf("expected order [%s %s %s], got positions %v", ids[1], ids[2], ids[0], positions)
	}
}

func TestEditTransactionPreservesFrozenFields(t *testing.T) {
	s, ctx := newTestStore(t)

	stamp := time.Now().UnixNano()
	id := fmt.Sprintf("tx-it-edit-%d", stamp)
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	})

	committed := time.Now().Add(-time.Hour).UTC().Truncate(time.Microsecond)
	if err := s.AppendTransactions(ctx, []domain.Transaction{{
		ID:             id,
		ProductName:    "Edit IT",
		Quantity:       2,
		TotalCents:     3000,
		CostTotalCents: 800,
		Timestamp:      committed,
		Status:         domain.TxStatusConfirmed,
	}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	newTotal := int64(3500)
	newStatus := domain.TxStatusPaid
	edited, err := s.EditTransaction(ctx, id, domain.TransactionEditRequest{
		TotalCents:        &newTotal,
		Status:            &newStatus,
		ChangeDescription: "price correction",
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	if edited.ID != id {
		t.Fatalf("id changed to %s", edited.ID)
	}
	if !edited.Timestamp.Equal(committed) {
		t.Fatalf("timestamp changed from %v to %v", committed, edited.Timestamp)
	}
	if edited.CostTotalCents != 800 {
		t.Fatalf("cost total changed to %d", edited.CostTotalCents)
	}
	if edited.TotalCents != 3500 || edited.Status != domain.TxStatusPaid {
		t.Fatalf("edit not applied: total=%d status=%s", edited.TotalCents, edited.Status)
	}
	if len(edited.EditHistory) != 1 || edited.EditHistory[0].Description != "price correction" {
		t.Fatalf("expected one edit log entry, got %+v", edited.EditHistory)
	}

	if _, err := s.EditTransaction(ctx, id, domain.TransactionEditRequest{}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected empty change description to be rejected, got %v", err)
	}

	bad := domain.TxStatusCancelled
	if _, err := s.EditTransaction(ctx, id, domain.TransactionEditRequest{
		Status:            &bad,
		ChangeDescription: "bad transition",
	}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected paid to cancelled transition to be rejected, got %v", err)
	}

	reloaded, err := s.GetTransactionByID(ctx, id)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.EditHistory) != 1 {
		t.Fatalf("rejected edits must not append history, got %d entries", len(reloaded.EditHistory))
	}
}
