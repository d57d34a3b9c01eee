package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookly/backend/internal/domain"
	"bookly/backend/internal/store"
)

func TestRecordSaleFloorsStockAtZero(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateProduct(ctx, domain.Product{Name: "Mug", PriceCents: 1500, CostPriceCents: 400, Stock: 3})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	updated, err := s.RecordSale(ctx, created.ID, 10)
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if updated.Stock != 0 {
		t.Fatalf("expected stock floored at 0, got %d", updated.Stock)
	}
	if updated.TotalSales != 10 {
		t.Fatalf("expected total sales 10, got %d", updated.TotalSales)
	}
}

func TestRecordSaleRejectsNonPositiveQuantity(t *testing.T) {
	s := NewSeeded()
	if _, err := s.RecordSale(context.Background(), "1", 0); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFindProductByNameSubstring(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	p, err := s.FindProductByName(ctx, "mug")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.Name != "Ceramic Coffee Mug" {
		t.Fatalf("expected mug match, got %q", p.Name)
	}

	if _, err := s.FindProductByName(ctx, "typewriter"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertCustomerOnSale(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, created, err := s.UpsertCustomerOnSale(ctx, "@ada", 1500, domain.SourceInstagram)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatalf("expected first upsert to create")
	}
	if first.OrderCount != 1 || first.LTVCents != 1500 {
		t.Fatalf("unexpected new customer %+v", first)
	}
	if first.Channel != domain.SourceInstagram {
		t.Fatalf("expected channel %q, got %q", domain.SourceInstagram, first.Channel)
	}

	// Handle lookup is case-insensitive and tolerates a missing @.
	second, created, err := s.UpsertCustomerOnSale(ctx, "Ada", 500, domain.SourceWhatsApp)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatalf("expected existing customer, got a new one")
	}
	if second.OrderCount != 2 || second.LTVCents != 2000 {
		t.Fatalf("unexpected updated customer %+v", second)
	}
	if second.LastActive != "Just now" {
		t.Fatalf("expected LastActive refresh, got %q", second.LastActive)
	}

	all, _ := s.ListCustomers(ctx)
	if len(all) != 1 {
		t.Fatalf("expected a single customer, got %d", len(all))
	}
}

func TestMergeCustomers(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, _, err := s.UpsertCustomerOnSale(ctx, "@ada", 1000, domain.SourceWhatsApp); err != nil {
		t.Fatalf("seed ada: %v", err)
	}
	if _, _, err := s.UpsertCustomerOnSale(ctx, "@ada_l", 2000, domain.SourceInstagram); err != nil {
		t.Fatalf("seed ada_l: %v", err)
	}
	if err := s.AppendTransactions(ctx, []domain.Transaction{{ID: "t1", CustomerHandle: "@ada_l", Quantity: 1}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	merged, err := s.MergeCustomers(ctx, "@ada_l", "@ada")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged.OrderCount != 2 || merged.LTVCents != 3000 {
		t.Fatalf("unexpected merged customer %+v", merged)
	}

	all, _ := s.ListCustomers(ctx)
	if len(all) != 1 {
		t.Fatalf("expected source customer removed, got %d customers", len(all))
	}

	tx, err := s.GetTransactionByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if tx.CustomerHandle != "@ada" {
		t.Fatalf("expected ledger repointed to @ada, got %q", tx.CustomerHandle)
	}
}

func TestAppendTransactionsPrepends(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.AppendTransactions(ctx, []domain.Transaction{{ID: "old", Quantity: 1}}); err != nil {
		t.Fatalf("append old: %v", err)
	}
	if err := s.AppendTransactions(ctx, []domain.Transaction{{ID: "new-a", Quantity: 1}, {ID: "new-b", Quantity: 1}}); err != nil {
		t.Fatalf("append batch: %v", err)
	}

	list, _ := s.ListTransactions(ctx, false)
	if len(list) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(list))
	}
	if list[0].ID != "new-a" || list[1].ID != "new-b" || list[2].ID != "old" {
		t.Fatalf("unexpected ledger order: %s, %s, %s", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestListTransactionsSkipsArchived(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.AppendTransactions(ctx, []domain.Transaction{{ID: "a", Quantity: 1}, {ID: "b", Quantity: 1}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.SetTransactionArchived(ctx, "b", true); err != nil {
		t.Fatalf("archive: %v", err)
	}

	visible, _ := s.ListTransactions(ctx, false)
	if len(visible) != 1 || visible[0].ID != "a" {
		t.Fatalf("expected only the active transaction, got %+v", visible)
	}
	all, _ := s.ListTransactions(ctx, true)
	if len(all) != 2 {
		t.Fatalf("expected archived included, got %d", len(all))
	}
}

func TestUpdateTransactionStatusTransitions(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.AppendTransactions(ctx, []domain.Transaction{{ID: "t1", Quantity: 1, Status: domain.TxStatusConfirmed}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := s.UpdateTransactionStatus(ctx, "t1", domain.TxStatusPaid); err != nil {
		t.Fatalf("confirmed -> paid: %v", err)
	}
	if _, err := s.UpdateTransactionStatus(ctx, "t1", domain.TxStatusUnpaid); err != nil {
		t.Fatalf("paid -> unpaid: %v", err)
	}
	if _, err := s.UpdateTransactionStatus(ctx, "t1", domain.TxStatusCancelled); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected unpaid -> cancelled rejected, got %v", err)
	}
}

func TestEditTransactionAppendsHistoryAndProtectsFrozenFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	stamp := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seed := domain.Transaction{
		ID:             "t1",
		Quantity:       3,
		TotalCents:     4700,
		CostTotalCents: 1200,
		Timestamp:      stamp,
		Status:         domain.TxStatusConfirmed,
	}
	if err := s.AppendTransactions(ctx, []domain.Transaction{seed}); err != nil {
		t.Fatalf("append: %v", err)
	}

	total := int64(5000)
	qty := 4
	edited, err := s.EditTransaction(ctx, "t1", domain.TransactionEditRequest{
		TotalCents:        &total,
		Quantity:          &qty,
		ChangeDescription: "Update: Total 47 -> 50, Qty 3 -> 4",
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.TotalCents != 5000 || edited.Quantity != 4 {
		t.Fatalf("edit not applied: %+v", edited)
	}
	if len(edited.EditHistory) != 1 {
		t.Fatalf("expected exactly one history entry, got %d", len(edited.EditHistory))
	}
	if edited.ID != "t1" || !edited.Timestamp.Equal(stamp) || edited.CostTotalCents != 1200 {
		t.Fatalf("frozen fields changed: %+v", edited)
	}

	if _, err := s.EditTransaction(ctx, "t1", domain.TransactionEditRequest{TotalCents: &total}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected empty change description rejected, got %v", err)
	}
}

func TestNotificationsLimitAndClear(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.CreateNotification(ctx, domain.Notification{Title: "Sale", Type: domain.NotificationSuccess}); err != nil {
			t.Fatalf("create notification: %v", err)
		}
	}

	limited, _ := s.ListNotifications(ctx, 3)
	if len(limited) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(limited))
	}

	if err := s.ClearNotifications(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	remaining, _ := s.ListNotifications(ctx, 0)
	if len(remaining) != 0 {
		t.Fatalf("expected empty after clear, got %d", len(remaining))
	}
}
