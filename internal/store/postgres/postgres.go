package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"bookly/backend/internal/domain"
	"bookly/backend/internal/store"
	"bookly/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price_cents BIGINT NOT NULL,
			cost_price_cents BIGINT NOT NULL,
			stock INT NOT NULL,
			total_sales INT NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			stock_threshold INT NOT NULL DEFAULT 0,
			variants JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			handle TEXT NOT NULL,
			handle_key TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			order_count INT NOT NULL DEFAULT 0,
			ltv_cents BIGINT NOT NULL DEFAULT 0,
			channel TEXT NOT NULL DEFAULT '',
			last_active TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			seq BIGSERIAL,
			customer_handle TEXT NOT NULL DEFAULT '',
			product_id TEXT NOT NULL DEFAULT '',
			product_name TEXT NOT NULL DEFAULT '',
			quantity INT NOT NULL,
			total_cents BIGINT NOT NULL,
			cost_total_cents BIGINT NOT NULL DEFAULT 0,
			delivery_fee_cents BIGINT NOT NULL DEFAULT 0,
			fee_cents BIGINT NOT NULL DEFAULT 0,
			ts TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			payment_method TEXT NOT NULL DEFAULT '',
			is_archived BOOLEAN NOT NULL DEFAULT false,
			edit_history JSONB NOT NULL DEFAULT '[]',
			items JSONB NOT NULL DEFAULT '[]',
			variant TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id TEXT PRIMARY KEY,
			amount_cents BIGINT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			ts TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS business_profile (
			id INT PRIMARY KEY DEFAULT 1,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (id = 1)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT 'info',
			ts TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price_cents, cost_price_cents, stock, total_sales, category, description, stock_threshold, variants
		FROM products
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.Name == "" || product.PriceCents < 0 || product.CostPriceCents < 0 || product.Stock < 0 {
		return nil, store.ErrInvalidInput
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	product.TotalSales = 0

	variantsJSON, err := json.Marshal(emptyIfNilVariants(product.Variants))
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, price_cents, cost_price_cents, stock, total_sales, category, description, stock_threshold, variants)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, product.ID, product.Name, product.PriceCents, product.CostPriceCents, product.Stock,
		product.TotalSales, product.Category, product.Description, product.StockThreshold, variantsJSON)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := product
	return &created, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, price_cents, cost_price_cents, stock, total_sales, category, description, stock_threshold, variants
		FROM products
		WHERE id = $1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindProductByName returns the newest product whose name contains the
// query, case-insensitively, matching the session catalog's scan order.
func (s *Store) FindProductByName(ctx context.Context, query string) (*domain.Product, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, store.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, price_cents, cost_price_cents, stock, total_sales, category, description, stock_threshold, variants
		FROM products
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT 1
	`, q)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) FirstProduct(ctx context.Context) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, price_cents, cost_price_cents, stock, total_sales, category, description, stock_threshold, variants
		FROM products
		ORDER BY created_at DESC
		LIMIT 1
	`)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = GREATEST(stock + $2, 0)
		WHERE id = $1
		RETURNING id, name, price_cents, cost_price_cents, stock, total_sales, category, description, stock_threshold, variants
	`, id, delta)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) RecordSale(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	if quantity < 1 {
		return nil, store.ErrInvalidInput
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = GREATEST(stock - $2, 0), total_sales = total_sales + $2
		WHERE id = $1
		RETURNING id, name, price_cents, cost_price_cents, stock, total_sales, category, description, stock_threshold, variants
	`, id, quantity)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, handle, name, order_count, ltv_cents, channel, last_active, address
		FROM customers
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, 64)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Handle, &c.Name, &c.OrderCount, &c.LTVCents, &c.Channel, &c.LastActive, &c.Address); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	key := domain.NormalizeHandle(customer.Handle)
	if key == "" {
		return nil, store.ErrInvalidInput
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, handle, handle_key, name, order_count, ltv_cents, channel, last_active, address)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, customer.ID, strings.TrimSpace(customer.Handle), key, customer.Name,
		customer.OrderCount, customer.LTVCents, customer.Channel, customer.LastActive, customer.Address)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := customer
	return &created, nil
}

func (s *Store) FindCustomerByHandle(ctx context.Context, handle string) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, handle, name, order_count, ltv_cents, channel, last_active, address
		FROM customers
		WHERE handle_key = $1
	`, domain.NormalizeHandle(handle)).Scan(&c.ID, &c.Handle, &c.Name, &c.OrderCount, &c.LTVCents, &c.Channel, &c.LastActive, &c.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) UpsertCustomerOnSale(ctx context.Context, handle string, orderValueCents int64, channel string) (*domain.Customer, bool, error) {
	key := domain.NormalizeHandle(handle)
	if key == "" {
		return nil, false, store.ErrInvalidInput
	}

	var c domain.Customer
	var inserted bool
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO customers (id, handle, handle_key, name, order_count, ltv_cents, channel, last_active)
		VALUES ($1,$2,$3,$4,1,$5,$6,'Just now')
		ON CONFLICT (handle_key) DO UPDATE
		SET order_count = customers.order_count + 1,
			ltv_cents = customers.ltv_cents + EXCLUDED.ltv_cents,
			last_active = 'Just now'
		RETURNING id, handle, name, order_count, ltv_cents, channel, last_active, address, (xmax = 0)
	`, xid.New("cust"), strings.TrimSpace(handle), key, domain.DisplayNameFromHandle(handle),
		orderValueCents, channel).Scan(
		&c.ID, &c.Handle, &c.Name, &c.OrderCount, &c.LTVCents, &c.Channel, &c.LastActive, &c.Address, &inserted)
	if err != nil {
		return nil, false, err
	}
	return &c, inserted, nil
}

func (s *Store) MergeCustomers(ctx context.Context, fromHandle string, toHandle string) (*domain.Customer, error) {
	fromKey := domain.NormalizeHandle(fromHandle)
	toKey := domain.NormalizeHandle(toHandle)
	if fromKey == "" || toKey == "" || fromKey == toKey {
		return nil, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var from domain.Customer
	err = tx.QueryRowContext(ctx, `
		SELECT id, handle, order_count, ltv_cents FROM customers WHERE handle_key = $1 FOR UPDATE
	`, fromKey).Scan(&from.ID, &from.Handle, &from.OrderCount, &from.LTVCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	var merged domain.Customer
	err = tx.QueryRowContext(ctx, `
		UPDATE customers
		SET order_count = order_count + $2, ltv_cents = ltv_cents + $3
		WHERE handle_key = $1
		RETURNING id, handle, name, order_count, ltv_cents, channel, last_active, address
	`, toKey, from.OrderCount, from.LTVCents).Scan(
		&merged.ID, &merged.Handle, &merged.Name, &merged.OrderCount, &merged.LTVCents, &merged.Channel, &merged.LastActive, &merged.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE transactions SET customer_handle = $2
		WHERE lower(trim(customer_handle)) IN ($1, ltrim($1, '@'))
	`, fromKey, merged.Handle); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE handle_key = $1`, fromKey); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *Store) ListTransactions(ctx context.Context, includeArchived bool) ([]domain.Transaction, error) {
	query := `
		SELECT id, customer_handle, product_id, product_name, quantity, total_cents, cost_total_cents,
			delivery_fee_cents, fee_cents, ts, status, source, payment_method, is_archived,
			edit_history, items, variant, address
		FROM transactions
	`
	if !includeArchived {
		query += ` WHERE is_archived = false`
	}
	query += ` ORDER BY seq DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, 128)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *Store) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, customer_handle, product_id, product_name, quantity, total_cents, cost_total_cents,
			delivery_fee_cents, fee_cents, ts, status, source, payment_method, is_archived,
			edit_history, items, variant, address
		FROM transactions
		WHERE id = $1
	`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// AppendTransactions inserts a commit batch in reverse order so the last
// inserted row carries the highest sequence and the batch reads back in
// its original order, newest batch first.
func (s *Store) AppendTransactions(ctx context.Context, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}
	for _, t := range transactions {
		if t.ID == "" || t.Quantity < 1 {
			return store.ErrInvalidInput
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i := len(transactions) - 1; i >= 0; i-- {
		t := transactions[i]
		historyJSON, err := json.Marshal(emptyIfNilHistory(t.EditHistory))
		if err != nil {
			return err
		}
		itemsJSON, err := json.Marshal(emptyIfNilItems(t.Items))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (id, customer_handle, product_id, product_name, quantity, total_cents,
				cost_total_cents, delivery_fee_cents, fee_cents, ts, status, source, payment_method,
				is_archived, edit_history, items, variant, address)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		`, t.ID, t.CustomerHandle, t.ProductID, t.ProductName, t.Quantity, t.TotalCents,
			t.CostTotalCents, t.DeliveryCents, t.FeeCents, t.Timestamp, t.Status, t.Source,
			t.PaymentMethod, t.IsArchived, historyJSON, itemsJSON, t.Variant, t.Address)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrConflict
			}
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) SetTransactionArchived(ctx context.Context, id string, archived bool) (*domain.Transaction, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET is_archived = $2 WHERE id = $1
	`, id, archived)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetTransactionByID(ctx, id)
}

func (s *Store) UpdateTransactionStatus(ctx context.Context, id string, status string) (*domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM transactions WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if !domain.CanTransitionStatus(current, status) {
		return nil, fmt.Errorf("%w: status %s -> %s", store.ErrInvalidInput, current, status)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE transactions SET status = $2 WHERE id = $1`, id, status); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetTransactionByID(ctx, id)
}

func (s *Store) EditTransaction(ctx context.Context, id string, req domain.TransactionEditRequest) (*domain.Transaction, error) {
	if strings.TrimSpace(req.ChangeDescription) == "" {
		return nil, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT id, customer_handle, product_id, product_name, quantity, total_cents, cost_total_cents,
			delivery_fee_cents, fee_cents, ts, status, source, payment_method, is_archived,
			edit_history, items, variant, address
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`, id)
	current, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	if req.TotalCents != nil {
		if *req.TotalCents < 0 {
			return nil, store.ErrInvalidInput
		}
		current.TotalCents = *req.TotalCents
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, store.ErrInvalidInput
		}
		current.Quantity = *req.Quantity
	}
	if req.Source != nil {
		current.Source = *req.Source
	}
	if req.Status != nil {
		if !domain.CanTransitionStatus(current.Status, *req.Status) {
			return nil, fmt.Errorf("%w: status %s -> %s", store.ErrInvalidInput, current.Status, *req.Status)
		}
		current.Status = *req.Status
	}
	current.EditHistory = append(current.EditHistory, domain.EditLog{
		Timestamp:   time.Now().UTC(),
		Description: req.ChangeDescription,
	})

	historyJSON, err := json.Marshal(current.EditHistory)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET quantity = $2, total_cents = $3, source = $4, status = $5, edit_history = $6
		WHERE id = $1
	`, id, current.Quantity, current.TotalCents, current.Source, current.Status, historyJSON)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	updated := current
	return &updated, nil
}

func (s *Store) CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	if expense.AmountCents <= 0 {
		return nil, store.ErrInvalidInput
	}
	if expense.ID == "" {
		expense.ID = xid.New("exp")
	}
	if expense.Timestamp.IsZero() {
		expense.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, amount_cents, category, description, ts)
		VALUES ($1,$2,$3,$4,$5)
	`, expense.ID, expense.AmountCents, expense.Category, expense.Description, expense.Timestamp)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := expense
	return &created, nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount_cents, category, description, ts
		FROM expenses
		ORDER BY ts DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0, 32)
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.AmountCents, &e.Category, &e.Description, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) GetProfile(ctx context.Context) (*domain.BusinessProfile, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM business_profile WHERE id = 1`).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	var profile domain.BusinessProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Store) SaveProfile(ctx context.Context, profile domain.BusinessProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO business_profile (id, data, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, raw)
	return err
}

func (s *Store) CreateNotification(ctx context.Context, notification domain.Notification) error {
	if notification.ID == "" {
		notification.ID = xid.New("notif")
	}
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, title, message, type, ts)
		VALUES ($1,$2,$3,$4,$5)
	`, notification.ID, notification.Title, notification.Message, notification.Type, notification.Timestamp)
	return err
}

func (s *Store) ListNotifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, message, type, ts
		FROM notifications
		ORDER BY ts DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0, limit)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &n.Timestamp); err != nil {
			return nil, err
		}
		n.Timestamp = n.Timestamp.UTC()
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *Store) ClearNotifications(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notifications`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var variantsRaw []byte
	err := row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.CostPriceCents, &p.Stock, &p.TotalSales,
		&p.Category, &p.Description, &p.StockThreshold, &variantsRaw)
	if err != nil {
		return domain.Product{}, err
	}
	if len(variantsRaw) > 0 {
		if err := json.Unmarshal(variantsRaw, &p.Variants); err != nil {
			return domain.Product{}, err
		}
	}
	if len(p.Variants) == 0 {
		p.Variants = nil
	}
	return p, nil
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var t domain.Transaction
	var historyRaw, itemsRaw []byte
	err := row.Scan(&t.ID, &t.CustomerHandle, &t.ProductID, &t.ProductName, &t.Quantity,
		&t.TotalCents, &t.CostTotalCents, &t.DeliveryCents, &t.FeeCents, &t.Timestamp,
		&t.Status, &t.Source, &t.PaymentMethod, &t.IsArchived, &historyRaw, &itemsRaw,
		&t.Variant, &t.Address)
	if err != nil {
		return domain.Transaction{}, err
	}
	t.Timestamp = t.Timestamp.UTC()
	if len(historyRaw) > 0 {
		if err := json.Unmarshal(historyRaw, &t.EditHistory); err != nil {
			return domain.Transaction{}, err
		}
	}
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &t.Items); err != nil {
			return domain.Transaction{}, err
		}
	}
	if len(t.EditHistory) == 0 {
		t.EditHistory = nil
	}
	if len(t.Items) == 0 {
		t.Items = nil
	}
	return t, nil
}

func emptyIfNilVariants(v []domain.ProductVariant) []domain.ProductVariant {
	if v == nil {
		return []domain.ProductVariant{}
	}
	return v
}

func emptyIfNilHistory(h []domain.EditLog) []domain.EditLog {
	if h == nil {
		return []domain.EditLog{}
	}
	return h
}

func emptyIfNilItems(items []domain.OrderLine) []domain.OrderLine {
	if items == nil {
		return []domain.OrderLine{}
	}
	return items
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
