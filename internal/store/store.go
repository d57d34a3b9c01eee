package store

import (
	"context"
	"errors"

	"bookly/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

// Repository owns all session state: the product catalog, the customer
// directory, the transaction ledger, expenses, the business profile and
// the notification feed. The reconciliation engine mutates catalog and
// directory entries only through RecordSale and UpsertCustomerOnSale.
type Repository interface {
	// Catalog.
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	// FindProductByName returns the first catalog entry whose name contains
	// the query, case-insensitively, in catalog order.
	FindProductByName(ctx context.Context, query string) (*domain.Product, error)
	FirstProduct(ctx context.Context) (*domain.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error)
	RecordSale(ctx context.Context, id string, quantity int) (*domain.Product, error)

	// Directory.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	FindCustomerByHandle(ctx context.Context, handle string) (*domain.Customer, error)
	// UpsertCustomerOnSale applies the create-or-update rule for a
	// committed sale and reports whether a new customer was created.
	UpsertCustomerOnSale(ctx context.Context, handle string, orderValueCents int64, channel string) (*domain.Customer, bool, error)
	MergeCustomers(ctx context.Context, fromHandle string, toHandle string) (*domain.Customer, error)

	// Ledger.
	ListTransactions(ctx context.Context, includeArchived bool) ([]domain.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error)
	AppendTransactions(ctx context.Context, transactions []domain.Transaction) error
	SetTransactionArchived(ctx context.Context, id string, archived bool) (*domain.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id string, status string) (*domain.Transaction, error)
	EditTransaction(ctx context.Context, id string, req domain.TransactionEditRequest) (*domain.Transaction, error)

	// Expenses.
	CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	ListExpenses(ctx context.Context) ([]domain.Expense, error)

	// Business profile (wallet included).
	GetProfile(ctx context.Context) (*domain.BusinessProfile, error)
	SaveProfile(ctx context.Context, profile domain.BusinessProfile) error

	// Notifications.
	CreateNotification(ctx context.Context, notification domain.Notification) error
	ListNotifications(ctx context.Context, limit int) ([]domain.Notification, error)
	ClearNotifications(ctx context.Context) error
}
