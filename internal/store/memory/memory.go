package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bookly/backend/internal/domain"
	"bookly/backend/internal/store"
	"bookly/backend/internal/xid"
)

// Store is the session-scoped in-memory repository. Ordering matters:
// products, customers, transactions, expenses and notifications are all
// kept most-recent-first, matching what the views render.
type Store struct {
	mu            sync.RWMutex
	products      []domain.Product
	customers     []domain.Customer
	transactions  []domain.Transaction
	expenses      []domain.Expense
	notifications []domain.Notification
	profile       domain.BusinessProfile
}

func New() *Store {
	return &Store{
		products:      make([]domain.Product, 0, 32),
		customers:     make([]domain.Customer, 0, 32),
		transactions:  make([]domain.Transaction, 0, 128),
		expenses:      make([]domain.Expense, 0, 32),
		notifications: make([]domain.Notification, 0, 32),
		profile:       DefaultProfile(),
	}
}

// NewSeeded returns a store pre-loaded with the demo catalog and customer
// directory a fresh session starts with.
func NewSeeded() *Store {
	s := New()
	s.products = []domain.Product{
		{ID: "1", Name: "Vintage Denim Jacket", PriceCents: 4500, CostPriceCents: 2000, Stock: 12, TotalSales: 5, Category: "Fashion"},
		{ID: "2", Name: "Ceramic Coffee Mug", PriceCents: 1500, CostPriceCents: 400, Stock: 45, TotalSales: 2, Category: "Home"},
		{ID: "3", Name: "Wireless Headphones", PriceCents: 8900, CostPriceCents: 4000, Stock: 8, TotalSales: 15, Category: "Electronics"},
	}
	s.customers = []domain.Customer{
		{ID: "c1", Handle: "@unwana", Name: "Unwana M.", OrderCount: 3, LTVCents: 13500, Channel: domain.SourceWhatsApp, LastActive: "2 hours ago"},
		{ID: "c2", Handle: "@jess_c", Name: "Jessica Chen", OrderCount: 1, LTVCents: 1500, Channel: domain.SourceInstagram, LastActive: "1 day ago"},
	}
	return s
}

func DefaultProfile() domain.BusinessProfile {
	return domain.BusinessProfile{
		Name:                 "My Business",
		Currency:             "USD",
		DefaultSalesSource:   domain.SourceWhatsApp,
		VIPThreshold:         5,
		StockThreshold:       5,
		NotificationsEnabled: true,
	}
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Name == "" || product.PriceCents < 0 || product.CostPriceCents < 0 || product.Stock < 0 {
		return nil, store.ErrInvalidInput
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	for _, p := range s.products {
		if p.ID == product.ID {
			return nil, store.ErrConflict
		}
	}
	product.TotalSales = 0
	s.products = append([]domain.Product{product}, s.products...)
	created := product
	return &created, nil
}

func (s *Store) GetProductByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindProductByName(_ context.Context, query string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, store.ErrNotFound
	}
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			found := p
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FirstProduct(_ context.Context) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.products) == 0 {
		return nil, store.ErrNotFound
	}
	first := s.products[0]
	return &first, nil
}

func (s *Store) AdjustStock(_ context.Context, id string, delta int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID != id {
			continue
		}
		p.Stock += delta
		if p.Stock < 0 {
			p.Stock = 0
		}
		s.products[i] = p
		updated := p
		return &updated, nil
	}
	return nil, store.ErrNotFound
}

// RecordSale decrements stock (floored at zero) and bumps the cumulative
// sales counter. Oversell is permitted down to zero, never rejected.
func (s *Store) RecordSale(_ context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity < 1 {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID != id {
			continue
		}
		p.Stock -= quantity
		if p.Stock < 0 {
			p.Stock = 0
		}
		p.TotalSales += quantity
		s.products[i] = p
		updated := p
		return &updated, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Customer, len(s.customers))
	copy(out, s.customers)
	return out, nil
}

func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.NormalizeHandle(customer.Handle)
	if key == "" {
		return nil, store.ErrInvalidInput
	}
	if s.indexByHandle(key) >= 0 {
		return nil, store.ErrConflict
	}
	if customer.ID == "" {
		customer.ID = xid.New("cust")
	}
	if customer.Name == "" {
		customer.Name = domain.DisplayNameFromHandle(customer.Handle)
	}
	if customer.LastActive == "" {
		customer.LastActive = "New"
	}
	s.customers = append([]domain.Customer{customer}, s.customers...)
	created := customer
	return &created, nil
}

func (s *Store) FindCustomerByHandle(_ context.Context, handle string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexByHandle(domain.NormalizeHandle(handle))
	if idx < 0 {
		return nil, store.ErrNotFound
	}
	found := s.customers[idx]
	return &found, nil
}

func (s *Store) UpsertCustomerOnSale(_ context.Context, handle string, orderValueCents int64, channel string) (*domain.Customer, bool, error) {
	key := domain.NormalizeHandle(handle)
	if key == "" {
		return nil, false, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexByHandle(key); idx >= 0 {
		c := s.customers[idx]
		c.OrderCount++
		c.LTVCents += orderValueCents
		c.LastActive = "Just now"
		s.customers[idx] = c
		updated := c
		return &updated, false, nil
	}

	created := domain.Customer{
		ID:         xid.New("cust"),
		Handle:     strings.TrimSpace(handle),
		Name:       domain.DisplayNameFromHandle(handle),
		OrderCount: 1,
		LTVCents:   orderValueCents,
		Channel:    channel,
		LastActive: "Just now",
	}
	s.customers = append([]domain.Customer{created}, s.customers...)
	return &created, true, nil
}

func (s *Store) MergeCustomers(_ context.Context, fromHandle string, toHandle string) (*domain.Customer, error) {
	fromKey := domain.NormalizeHandle(fromHandle)
	toKey := domain.NormalizeHandle(toHandle)
	if fromKey == "" || toKey == "" || fromKey == toKey {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fromIdx := s.indexByHandle(fromKey)
	toIdx := s.indexByHandle(toKey)
	if fromIdx < 0 || toIdx < 0 {
		return nil, store.ErrNotFound
	}

	from := s.customers[fromIdx]
	to := s.customers[toIdx]
	to.OrderCount += from.OrderCount
	to.LTVCents += from.LTVCents
	s.customers[toIdx] = to

	for i, t := range s.transactions {
		if domain.NormalizeHandle(t.CustomerHandle) == fromKey {
			t.CustomerHandle = to.Handle
			s.transactions[i] = t
		}
	}

	s.customers = append(s.customers[:fromIdx], s.customers[fromIdx+1:]...)
	merged := to
	return &merged, nil
}

func (s *Store) ListTransactions(_ context.Context, includeArchived bool) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if t.IsArchived && !includeArchived {
			continue
		}
		out = append(out, cloneTransaction(t))
	}
	return out, nil
}

func (s *Store) GetTransactionByID(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.transactions {
		if t.ID == id {
			found := cloneTransaction(t)
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

// AppendTransactions prepends a commit batch, preserving in-batch order,
// so the ledger stays most-recent-first.
func (s *Store) AppendTransactions(_ context.Context, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range transactions {
		if t.ID == "" || t.Quantity < 1 {
			return store.ErrInvalidInput
		}
	}
	batch := make([]domain.Transaction, len(transactions))
	for i, t := range transactions {
		batch[i] = cloneTransaction(t)
	}
	s.transactions = append(batch, s.transactions...)
	return nil
}

func (s *Store) SetTransactionArchived(_ context.Context, id string, archived bool) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transactions {
		if t.ID != id {
			continue
		}
		t.IsArchived = archived
		s.transactions[i] = t
		updated := cloneTransaction(t)
		return &updated, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateTransactionStatus(_ context.Context, id string, status string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transactions {
		if t.ID != id {
			continue
		}
		if !domain.CanTransitionStatus(t.Status, status) {
			return nil, fmt.Errorf("%w: status %s -> %s", store.ErrInvalidInput, t.Status, status)
		}
		t.Status = status
		s.transactions[i] = t
		updated := cloneTransaction(t)
		return &updated, nil
	}
	return nil, store.ErrNotFound
}

// EditTransaction applies the editable fields and appends the change
// description to the edit history. id, timestamp and cost total are never
// touched.
func (s *Store) EditTransaction(_ context.Context, id string, req domain.TransactionEditRequest) (*domain.Transaction, error) {
	if strings.TrimSpace(req.ChangeDescription) == "" {
		return nil, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transactions {
		if t.ID != id {
			continue
		}
		if req.TotalCents != nil {
			if *req.TotalCents < 0 {
				return nil, store.ErrInvalidInput
			}
			t.TotalCents = *req.TotalCents
		}
		if req.Quantity != nil {
			if *req.Quantity < 1 {
				return nil, store.ErrInvalidInput
			}
			t.Quantity = *req.Quantity
		}
		if req.Source != nil {
			t.Source = *req.Source
		}
		if req.Status != nil {
			if !domain.CanTransitionStatus(t.Status, *req.Status) {
				return nil, fmt.Errorf("%w: status %s -> %s", store.ErrInvalidInput, t.Status, *req.Status)
			}
			t.Status = *req.Status
		}
		t.EditHistory = append(t.EditHistory, domain.EditLog{
			Timestamp:   time.Now().UTC(),
			Description: req.ChangeDescription,
		})
		s.transactions[i] = t
		updated := cloneTransaction(t)
		return &updated, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.AmountCents <= 0 {
		return nil, store.ErrInvalidInput
	}
	if expense.ID == "" {
		expense.ID = xid.New("exp")
	}
	if expense.Timestamp.IsZero() {
		expense.Timestamp = time.Now().UTC()
	}
	s.expenses = append([]domain.Expense{expense}, s.expenses...)
	created := expense
	return &created, nil
}

func (s *Store) ListExpenses(_ context.Context) ([]domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out, nil
}

func (s *Store) GetProfile(_ context.Context) (*domain.BusinessProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile := s.profile
	if profile.Wallet != nil {
		wallet := *profile.Wallet
		wallet.Transactions = append([]domain.WalletTransaction(nil), profile.Wallet.Transactions...)
		profile.Wallet = &wallet
	}
	return &profile, nil
}

func (s *Store) SaveProfile(_ context.Context, profile domain.BusinessProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = profile
	return nil
}

func (s *Store) CreateNotification(_ context.Context, notification domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notification.ID == "" {
		notification.ID = xid.New("notif")
	}
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now().UTC()
	}
	s.notifications = append([]domain.Notification{notification}, s.notifications...)
	return nil
}

func (s *Store) ListNotifications(_ context.Context, limit int) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 || limit > len(s.notifications) {
		limit = len(s.notifications)
	}
	out := make([]domain.Notification, limit)
	copy(out, s.notifications[:limit])
	return out, nil
}

func (s *Store) ClearNotifications(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = s.notifications[:0]
	return nil
}

// indexByHandle expects a normalized key and the lock held.
func (s *Store) indexByHandle(key string) int {
	if key == "" {
		return -1
	}
	for i, c := range s.customers {
		if domain.NormalizeHandle(c.Handle) == key {
			return i
		}
	}
	return -1
}

func cloneTransaction(t domain.Transaction) domain.Transaction {
	out := t
	out.EditHistory = append([]domain.EditLog(nil), t.EditHistory...)
	out.Items = append([]domain.OrderLine(nil), t.Items...)
	return out
}
