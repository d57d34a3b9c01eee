package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"bookly/backend/internal/cache"
	"bookly/backend/internal/domain"
	"bookly/backend/internal/extraction"
	"bookly/backend/internal/store"
	"bookly/backend/internal/xid"
)

// walletFeePermille is the processing fee charged on wallet payments,
// expressed in tenths of a percent. 25 means 2.5%.
const walletFeePermille = 25

type Service struct {
	repo          store.Repository
	extractor     extraction.Extractor
	extractCache  cache.ExtractionCache
	extractTTL    time.Duration
	defaultSource string
}

func New(repo store.Repository, extractor extraction.Extractor, extractCache cache.ExtractionCache, extractTTL time.Duration, defaultSource string) *Service {
	if extractor == nil {
		extractor = extraction.Disabled{}
	}
	if extractCache == nil {
		extractCache = cache.NoopExtractionCache{}
	}
	if extractTTL <= 0 {
		extractTTL = 15 * time.Minute
	}
	if defaultSource == "" {
		defaultSource = domain.SourceWhatsApp
	}

	return &Service{
		repo:          repo,
		extractor:     extractor,
		extractCache:  extractCache,
		extractTTL:    extractTTL,
		defaultSource: defaultSource,
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if req.Name == "" || req.PriceCents < 0 || req.CostPriceCents < 0 || req.Stock < 0 {
		return domain.Product{}, store.ErrInvalidInput
	}

	variants := make([]domain.ProductVariant, 0, len(req.Variants))
	for _, v := range req.Variants {
		v.Name = strings.TrimSpace(v.Name)
		if v.Name == "" {
			continue
		}
		if v.ID == "" {
			v.ID = xid.New("var")
		}
		variants = append(variants, v)
	}
	if len(variants) == 0 {
		variants = nil
	}

	created, err := s.repo.CreateProduct(ctx, domain.Product{
		Name:           req.Name,
		PriceCents:     req.PriceCents,
		CostPriceCents: req.CostPriceCents,
		Stock:          req.Stock,
		Category:       req.Category,
		Description:    strings.TrimSpace(req.Description),
		Variants:       variants,
	})
	if err != nil {
		return domain.Product{}, err
	}
	return *created, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) AdjustStock(ctx context.Context, productID string, delta int) (domain.Product, error) {
	if productID == "" || delta == 0 {
		return domain.Product{}, store.ErrInvalidInput
	}
	updated, err := s.repo.AdjustStock(ctx, productID, delta)
	if err != nil {
		return domain.Product{}, err
	}
	return *updated, nil
}

// LowStockProducts lists catalog entries at or below their restock
// threshold, per-product threshold first, profile threshold otherwise.
func (s *Service) LowStockProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	profile := s.profileOrDefault(ctx)

	low := make([]domain.Product, 0, len(products))
	for _, p := range products {
		threshold := p.StockThreshold
		if threshold == 0 {
			threshold = profile.StockThreshold
		}
		if threshold > 0 && p.Stock <= threshold {
			low = append(low, p)
		}
	}
	return low, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	handle := strings.TrimSpace(req.Handle)
	if domain.NormalizeHandle(handle) == "" {
		return domain.Customer{}, store.ErrInvalidInput
	}
	created, err := s.repo.CreateCustomer(ctx, domain.Customer{
		Handle:  handle,
		Name:    strings.TrimSpace(req.Name),
		Channel: strings.TrimSpace(req.Channel),
		Address: strings.TrimSpace(req.Address),
	})
	if err != nil {
		return domain.Customer{}, err
	}
	return *created, nil
}

func (s *Service) GetCustomer(ctx context.Context, handle string) (domain.Customer, error) {
	customer, err := s.repo.FindCustomerByHandle(ctx, handle)
	if err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

func (s *Service) MergeCustomers(ctx context.Context, req domain.MergeCustomersRequest) (domain.Customer, error) {
	merged, err := s.repo.MergeCustomers(ctx, req.FromHandle, req.ToHandle)
	if err != nil {
		return domain.Customer{}, err
	}
	return *merged, nil
}

// Extract runs the configured extractor over raw chat input, caching the
// parsed payload so re-submissions of the same capture are free.
func (s *Service) Extract(ctx context.Context, input extraction.Input) (*extraction.Payload, error) {
	if strings.TrimSpace(input.Text) == "" && input.ImageBase64 == "" {
		return nil, store.ErrInvalidInput
	}

	key := extractionCacheKey(input)
	if cached, ok, err := s.extractCache.Get(ctx, key); err != nil {
		log.Printf("[service] WARN: extraction cache get failed: %v", err)
	} else if ok {
		return cached, nil
	}

	catalog, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := s.extractor.Extract(ctx, input, catalog)
	if err != nil {
		return nil, err
	}

	if err := s.extractCache.Set(ctx, key, payload, s.extractTTL); err != nil {
		log.Printf("[service] WARN: extraction cache set failed: %v", err)
	}
	return payload, nil
}

// CommitSale turns a normalized sale intent into committed ledger
// transactions. Each customer block is priced line by line, catalog stock
// and the customer directory are updated, and the whole batch is
// prepended to the ledger sharing one timestamp.
func (s *Service) CommitSale(ctx context.Context, intent domain.SaleIntent) (domain.CommitResult, error) {
	if len(intent.Blocks) == 0 {
		return domain.CommitResult{}, fmt.Errorf("%w: sale intent has no customer blocks", store.ErrInvalidInput)
	}

	profile := s.profileOrDefault(ctx)
	batchTime := time.Now().UTC()

	var result domain.CommitResult
	for _, block := range intent.Blocks {
		transactions, warnings, err := s.commitBlock(ctx, block, profile, batchTime, false)
		if err != nil {
			return domain.CommitResult{}, err
		}
		result.Transactions = append(result.Transactions, transactions...)
		result.Warnings = append(result.Warnings, warnings...)
		result.LinesLogged += len(transactions)

		if domain.NormalizeHandle(block.Handle) != "" {
			source := resolveSource(block.Platform, profile.DefaultSalesSource, s.defaultSource)
			customer, created, err := s.repo.UpsertCustomerOnSale(ctx, block.Handle, block.OrderTotalCents, source)
			if err != nil {
				return domain.CommitResult{}, err
			}
			if created {
				s.notify(ctx, profile, domain.Notification{
					Title:   "New customer",
					Message: fmt.Sprintf("%s is now in your directory", customer.Handle),
					Type:    domain.NotificationInfo,
				})
			}
		}
	}

	if err := s.repo.AppendTransactions(ctx, result.Transactions); err != nil {
		return domain.CommitResult{}, err
	}
	if len(result.Transactions) > 0 {
		result.InvoiceTransactionID = result.Transactions[0].ID
	}

	if result.LinesLogged > 0 {
		s.notify(ctx, profile, domain.Notification{
			Title:   "Order finalized",
			Message: fmt.Sprintf("%d items logged", result.LinesLogged),
			Type:    domain.NotificationSuccess,
		})
	}

	return result, nil
}

// PreviewSale prices a sale intent without committing anything, so the
// caller can show totals and match warnings before confirmation.
func (s *Service) PreviewSale(ctx context.Context, intent domain.SaleIntent) (domain.CommitResult, error) {
	if len(intent.Blocks) == 0 {
		return domain.CommitResult{}, fmt.Errorf("%w: sale intent has no customer blocks", store.ErrInvalidInput)
	}

	profile := s.profileOrDefault(ctx)
	batchTime := time.Now().UTC()

	var result domain.CommitResult
	for _, block := range intent.Blocks {
		transactions, warnings, err := s.commitBlock(ctx, block, profile, batchTime, true)
		if err != nil {
			return domain.CommitResult{}, err
		}
		result.Transactions = append(result.Transactions, transactions...)
		result.Warnings = append(result.Warnings, warnings...)
		result.LinesLogged += len(transactions)
	}
	if len(result.Transactions) > 0 {
		result.InvoiceTransactionID = result.Transactions[0].ID
	}
	return result, nil
}

// ManualSale wraps a single hand-entered line into a one-block intent and
// commits it through the same engine as extracted sales.
func (s *Service) ManualSale(ctx context.Context, req domain.ManualSaleRequest) (domain.CommitResult, error) {
	req.ProductName = strings.TrimSpace(req.ProductName)
	if req.ProductName == "" || req.UnitPriceCents < 0 {
		return domain.CommitResult{}, store.ErrInvalidInput
	}
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	handle := strings.TrimSpace(req.CustomerHandle)
	if handle != "" && !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}

	unitPrice := req.UnitPriceCents
	intent := domain.SaleIntent{
		Confidence: "high",
		Blocks: []domain.CustomerBlock{
			{
				Handle:          handle,
				Platform:        strings.TrimSpace(req.Source),
				PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
				OrderTotalCents: unitPrice * int64(qty),
				Lines: []domain.SaleLine{
					{ProductName: req.ProductName, Quantity: qty, UnitPriceCents: &unitPrice},
				},
			},
		},
	}
	return s.CommitSale(ctx, intent)
}

func (s *Service) ListTransactions(ctx context.Context, includeArchived bool) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx, includeArchived)
}

func (s *Service) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	tx, err := s.repo.GetTransactionByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	return *tx, nil
}

func (s *Service) SetTransactionArchived(ctx context.Context, id string, archived bool) (domain.Transaction, error) {
	tx, err := s.repo.SetTransactionArchived(ctx, id, archived)
	if err != nil {
		return domain.Transaction{}, err
	}
	return *tx, nil
}

func (s *Service) UpdateTransactionStatus(ctx context.Context, id string, status string) (domain.Transaction, error) {
	tx, err := s.repo.UpdateTransactionStatus(ctx, id, status)
	if err != nil {
		return domain.Transaction{}, err
	}
	return *tx, nil
}

func (s *Service) EditTransaction(ctx context.Context, id string, req domain.TransactionEditRequest) (domain.Transaction, error) {
	tx, err := s.repo.EditTransaction(ctx, id, req)
	if err != nil {
		return domain.Transaction{}, err
	}
	return *tx, nil
}

func (s *Service) CreateExpense(ctx context.Context, req domain.ExpenseCreateRequest) (domain.Expense, error) {
	created, err := s.repo.CreateExpense(ctx, domain.Expense{
		AmountCents: req.AmountCents,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Timestamp:   time.Now().UTC(),
	})
	if err != nil {
		return domain.Expense{}, err
	}
	return *created, nil
}

func (s *Service) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	return s.repo.ListExpenses(ctx)
}

func (s *Service) GetProfile(ctx context.Context) (domain.BusinessProfile, error) {
	return s.profileOrDefault(ctx), nil
}

func (s *Service) UpdateProfile(ctx context.Context, profile domain.BusinessProfile) (domain.BusinessProfile, error) {
	if strings.TrimSpace(profile.Currency) == "" {
		return domain.BusinessProfile{}, store.ErrInvalidInput
	}
	if profile.DefaultSalesSource == "" {
		profile.DefaultSalesSource = s.defaultSource
	}
	if !domain.IsKnownSource(profile.DefaultSalesSource) && !containsString(profile.ActivePlatforms, profile.DefaultSalesSource) {
		return domain.BusinessProfile{}, fmt.Errorf("%w: unknown sales source %q", store.ErrInvalidInput, profile.DefaultSalesSource)
	}
	if profile.VIPThreshold < 0 || profile.StockThreshold < 0 {
		return domain.BusinessProfile{}, store.ErrInvalidInput
	}
	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return domain.BusinessProfile{}, err
	}
	return profile, nil
}

// WalletTransfer debits the business wallet and books the transfer as an
// expense so it shows up in profit figures.
func (s *Service) WalletTransfer(ctx context.Context, req domain.WalletTransferRequest) (domain.WalletProfile, error) {
	if req.AmountCents <= 0 || strings.TrimSpace(req.Recipient) == "" {
		return domain.WalletProfile{}, store.ErrInvalidInput
	}

	profile := s.profileOrDefault(ctx)
	if profile.Wallet == nil || !profile.Wallet.Enabled {
		return domain.WalletProfile{}, fmt.Errorf("%w: wallet is not enabled", store.ErrInvalidInput)
	}
	if profile.Wallet.BalanceCents < req.AmountCents {
		return domain.WalletProfile{}, fmt.Errorf("%w: insufficient wallet balance", store.ErrInvalidInput)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Transfers"
	}

	profile.Wallet.BalanceCents -= req.AmountCents
	profile.Wallet.Transactions = append([]domain.WalletTransaction{{
		ID:          xid.New("wtx"),
		AmountCents: req.AmountCents,
		Type:        domain.WalletTxDebit,
		Description: strings.TrimSpace(req.Description),
		Timestamp:   time.Now().UTC(),
		Reference:   xid.New("ref"),
		Status:      "completed",
		Category:    category,
		Recipient:   strings.TrimSpace(req.Recipient),
	}}, profile.Wallet.Transactions...)

	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return domain.WalletProfile{}, err
	}

	if _, err := s.repo.CreateExpense(ctx, domain.Expense{
		AmountCents: req.AmountCents,
		Category:    category,
		Description: fmt.Sprintf("Transfer to %s", strings.TrimSpace(req.Recipient)),
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		log.Printf("[service] WARN: failed to book wallet transfer expense: %v", err)
	}

	return *profile.Wallet, nil
}

func (s *Service) ListNotifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	return s.repo.ListNotifications(ctx, limit)
}

func (s *Service) ClearNotifications(ctx context.Context) error {
	return s.repo.ClearNotifications(ctx)
}

// DashboardSummary aggregates the visible ledger into revenue, cost,
// profit and per-channel figures. Cancelled and archived transactions do
// not count.
func (s *Service) DashboardSummary(ctx context.Context) (domain.DashboardSummary, error) {
	transactions, err := s.repo.ListTransactions(ctx, false)
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	expenses, err := s.repo.ListExpenses(ctx)
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	var summary domain.DashboardSummary
	channels := make(map[string]*domain.ChannelRevenue)
	productUnits := make(map[string]int)
	for _, t := range transactions {
		if t.Status == domain.TxStatusCancelled {
			continue
		}
		summary.RevenueCents += t.TotalCents
		summary.CostOfGoodsCents += t.CostTotalCents
		summary.Orders++
		if t.ProductID != domain.PlaceholderProductID && t.ProductName != "" {
			productUnits[t.ProductName] += t.Quantity
		}
		ch, ok := channels[t.Source]
		if !ok {
			ch = &domain.ChannelRevenue{Source: t.Source}
			channels[t.Source] = ch
		}
		ch.Orders++
		ch.RevenueCents += t.TotalCents
	}
	for _, e := range expenses {
		summary.ExpenseCents += e.AmountCents
	}
	summary.ProfitCents = summary.RevenueCents - summary.CostOfGoodsCents - summary.ExpenseCents

	for name, units := range productUnits {
		if units > summary.TopProductUnits || (units == summary.TopProductUnits && name < summary.TopProductName) {
			summary.TopProductName = name
			summary.TopProductUnits = units
		}
	}

	summary.Channels = make([]domain.ChannelRevenue, 0, len(channels))
	for _, ch := range channels {
		summary.Channels = append(summary.Channels, *ch)
	}
	sort.Slice(summary.Channels, func(i, j int) bool {
		return summary.Channels[i].RevenueCents > summary.Channels[j].RevenueCents
	})

	return summary, nil
}

// commitBlock prices one customer block. The delivery fee lands on the
// first line only. When dryRun is set no stock or counters move.
func (s *Service) commitBlock(ctx context.Context, block domain.CustomerBlock, profile domain.BusinessProfile, batchTime time.Time, dryRun bool) ([]domain.Transaction, []domain.MatchWarning, error) {
	source := resolveSource(block.Platform, profile.DefaultSalesSource, s.defaultSource)
	paymentMethod := block.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentCashTransfer
	}
	chargeWalletFee := paymentMethod == domain.PaymentWallet

	transactions := make([]domain.Transaction, 0, len(block.Lines))
	var warnings []domain.MatchWarning
	for i, line := range block.Lines {
		match, err := s.matchProduct(ctx, line.ProductName)
		if err != nil {
			return nil, nil, err
		}
		product := match.product

		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}

		basePriceCents := product.PriceCents
		if line.UnitPriceCents != nil {
			basePriceCents = *line.UnitPriceCents
		}
		subtotalCents := basePriceCents * int64(qty)

		var feeCents int64
		if chargeWalletFee {
			feeCents = roundedFee(subtotalCents)
		}

		var deliveryCents int64
		if i == 0 {
			deliveryCents = block.DeliveryFeeCents
		}

		tx := domain.Transaction{
			ID:             xid.New("txn"),
			CustomerHandle: strings.TrimSpace(block.Handle),
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       qty,
			TotalCents:     subtotalCents + feeCents + deliveryCents,
			CostTotalCents: product.CostPriceCents * int64(qty),
			DeliveryCents:  deliveryCents,
			FeeCents:       feeCents,
			Timestamp:      batchTime,
			Status:         domain.TxStatusConfirmed,
			Source:         source,
			PaymentMethod:  paymentMethod,
			Variant:        line.Variant,
			Address:        block.Address,
		}
		if match.placeholder {
			tx.ProductName = strings.TrimSpace(line.ProductName)
		}
		transactions = append(transactions, tx)

		if warning := matchWarning(line.ProductName, match); warning != nil {
			warnings = append(warnings, *warning)
		}

		if !match.placeholder && !dryRun {
			updated, err := s.repo.RecordSale(ctx, product.ID, qty)
			if err != nil {
				return nil, nil, err
			}
			s.checkLowStock(ctx, profile, *updated)
		}
	}

	// Multi-line blocks carry the full order detail on the first
	// transaction so an invoice can be rendered from it alone.
	if len(block.Lines) > 1 {
		items := make([]domain.OrderLine, 0, len(block.Lines))
		for idx, line := range block.Lines {
			t := transactions[idx]
			items = append(items, domain.OrderLine{
				ProductName:    t.ProductName,
				Quantity:       t.Quantity,
				UnitPriceCents: unitPriceOf(t),
				Variant:        line.Variant,
			})
		}
		transactions[0].Items = items
	}

	return transactions, warnings, nil
}

type productMatch struct {
	product     domain.Product
	fallback    bool
	placeholder bool
}

// matchProduct finds the catalog product for a stated name: first by
// case-insensitive substring, then the newest catalog product, then a
// zero-priced placeholder that never touches the catalog.
func (s *Service) matchProduct(ctx context.Context, name string) (productMatch, error) {
	if strings.TrimSpace(name) != "" {
		product, err := s.repo.FindProductByName(ctx, name)
		if err == nil {
			return productMatch{product: *product}, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return productMatch{}, err
		}
	}

	product, err := s.repo.FirstProduct(ctx)
	if err == nil {
		return productMatch{product: *product, fallback: true}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return productMatch{}, err
	}

	return productMatch{
		product:     domain.Product{ID: domain.PlaceholderProductID, Name: strings.TrimSpace(name)},
		placeholder: true,
	}, nil
}

func (s *Service) checkLowStock(ctx context.Context, profile domain.BusinessProfile, product domain.Product) {
	threshold := product.StockThreshold
	if threshold == 0 {
		threshold = profile.StockThreshold
	}
	if threshold <= 0 || product.Stock > threshold {
		return
	}
	s.notify(ctx, profile, domain.Notification{
		Title:   "Low stock",
		Message: fmt.Sprintf("%s is down to %d units", product.Name, product.Stock),
		Type:    domain.NotificationWarning,
	})
}

func (s *Service) notify(ctx context.Context, profile domain.BusinessProfile, notification domain.Notification) {
	if !profile.NotificationsEnabled {
		return
	}
	if err := s.repo.CreateNotification(ctx, notification); err != nil {
		log.Printf("[service] WARN: failed to create notification %q: %v", notification.Title, err)
	}
}

func (s *Service) profileOrDefault(ctx context.Context) domain.BusinessProfile {
	profile, err := s.repo.GetProfile(ctx)
	if err == nil {
		return *profile
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("[service] WARN: failed to load profile, using defaults: %v", err)
	}
	return domain.BusinessProfile{
		Currency:             "USD",
		DefaultSalesSource:   s.defaultSource,
		VIPThreshold:         5,
		StockThreshold:       5,
		NotificationsEnabled: true,
	}
}

func resolveSource(platform string, profileDefault string, fallback string) string {
	if platform != "" {
		return platform
	}
	if profileDefault != "" {
		return profileDefault
	}
	return fallback
}

// roundedFee applies the wallet fee with half-up rounding on cents.
func roundedFee(subtotalCents int64) int64 {
	return (subtotalCents*walletFeePermille + 500) / 1000
}

func matchWarning(requested string, match productMatch) *domain.MatchWarning {
	requested = strings.TrimSpace(requested)
	if match.placeholder {
		return &domain.MatchWarning{RequestedName: requested, Placeholder: true}
	}
	if !match.fallback {
		return nil
	}
	return &domain.MatchWarning{
		RequestedName: requested,
		MatchedName:   match.product.Name,
		MatchedID:     match.product.ID,
		Confidence:    nameSimilarity(requested, match.product.Name),
	}
}

// nameSimilarity scores how close the stated name is to the matched
// product name, 1 meaning identical.
func nameSimilarity(requested string, matched string) float64 {
	a := strings.ToLower(strings.TrimSpace(requested))
	b := strings.ToLower(strings.TrimSpace(matched))
	if a == "" || b == "" {
		return 0
	}
	if a == b || strings.Contains(b, a) && len(a)*2 >= len(b) {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func unitPriceOf(t domain.Transaction) int64 {
	if t.Quantity < 1 {
		return 0
	}
	return (t.TotalCents - t.FeeCents - t.DeliveryCents) / int64(t.Quantity)
}

func extractionCacheKey(input extraction.Input) string {
	sum := sha256.Sum256([]byte(input.Text + "\x00" + input.ImageBase64))
	return "extract:" + hex.EncodeToString(sum[:])
}
