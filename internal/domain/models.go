package domain

import "time"

type ProductVariant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// Product stock and variant stocks are tracked independently; variant
// stocks are not reconciled against the aggregate.
type Product struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	PriceCents     int64            `json:"price_cents"`
	CostPriceCents int64            `json:"cost_price_cents"`
	Stock          int              `json:"stock"`
	TotalSales     int              `json:"total_sales"`
	Category       string           `json:"category"`
	Description    string           `json:"description,omitempty"`
	StockThreshold int              `json:"stock_threshold,omitempty"`
	Variants       []ProductVariant `json:"variants,omitempty"`
}

type ProductCreateRequest struct {
	Name           string           `json:"name"`
	PriceCents     int64            `json:"price_cents"`
	CostPriceCents int64            `json:"cost_price_cents"`
	Stock          int              `json:"stock"`
	Category       string           `json:"category"`
	Description    string           `json:"description,omitempty"`
	Variants       []ProductVariant `json:"variants,omitempty"`
}

type StockAdjustRequest struct {
	Delta int `json:"delta"`
}

type Customer struct {
	ID         string `json:"id"`
	Handle     string `json:"handle"`
	Name       string `json:"name"`
	OrderCount int    `json:"order_count"`
	LTVCents   int64  `json:"ltv_cents"`
	Channel    string `json:"channel"`
	LastActive string `json:"last_active"`
	Address    string `json:"address,omitempty"`
}

type CustomerCreateRequest struct {
	Handle  string `json:"handle"`
	Name    string `json:"name"`
	Channel string `json:"channel"`
	Address string `json:"address,omitempty"`
}

type MergeCustomersRequest struct {
	FromHandle string `json:"from_handle"`
	ToHandle   string `json:"to_handle"`
}

type EditLog struct {
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// OrderLine is the invoice-facing line detail carried on a transaction so
// renderers never have to re-derive unit prices.
type OrderLine struct {
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Variant        string `json:"variant,omitempty"`
}

type Transaction struct {
	ID             string      `json:"id"`
	CustomerHandle string      `json:"customer_handle"`
	ProductID      string      `json:"product_id"`
	ProductName    string      `json:"product_name"`
	Quantity       int         `json:"quantity"`
	TotalCents     int64       `json:"total_cents"`
	CostTotalCents int64       `json:"cost_total_cents"`
	DeliveryCents  int64       `json:"delivery_fee_cents"`
	FeeCents       int64       `json:"fee_cents"`
	Timestamp      time.Time   `json:"timestamp"`
	Status         string      `json:"status"`
	Source         string      `json:"source"`
	PaymentMethod  string      `json:"payment_method"`
	IsArchived     bool        `json:"is_archived"`
	EditHistory    []EditLog   `json:"edit_history"`
	Items          []OrderLine `json:"items,omitempty"`
	Variant        string      `json:"variant,omitempty"`
	Address        string      `json:"address,omitempty"`
}

// TransactionEditRequest carries the editable subset of a transaction.
// id, timestamp and cost total are immutable after creation.
type TransactionEditRequest struct {
	TotalCents        *int64  `json:"total_cents,omitempty"`
	Quantity          *int    `json:"quantity,omitempty"`
	Source            *string `json:"source,omitempty"`
	Status            *string `json:"status,omitempty"`
	ChangeDescription string  `json:"change_description"`
}

type Expense struct {
	ID          string    `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type ExpenseCreateRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type WalletTransaction struct {
	ID          string    `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	Category    string    `json:"category,omitempty"`
	Recipient   string    `json:"recipient,omitempty"`
}

type WalletProfile struct {
	ID            string              `json:"id"`
	Enabled       bool                `json:"enabled"`
	BalanceCents  int64               `json:"balance_cents"`
	Currency      string              `json:"currency"`
	AccountName   string              `json:"account_name"`
	AccountNumber string              `json:"account_number"`
	BankName      string              `json:"bank_name"`
	Transactions  []WalletTransaction `json:"transactions"`
}

type WalletTransferRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Recipient   string `json:"recipient"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type BusinessProfile struct {
	Name                 string         `json:"name"`
	Email                string         `json:"email"`
	Phone                string         `json:"phone"`
	Currency             string         `json:"currency"`
	ReceiptFooter        string         `json:"receipt_footer"`
	DefaultSalesSource   string         `json:"default_sales_source"`
	VIPThreshold         int            `json:"vip_threshold"`
	StockThreshold       int            `json:"stock_threshold"`
	NotificationsEnabled bool           `json:"notifications_enabled"`
	ActivePlatforms      []string       `json:"active_platforms,omitempty"`
	Wallet               *WalletProfile `json:"wallet,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleLine is one normalized order line inside a customer block. A nil
// UnitPriceCents means "not stated"; a present value always overrides the
// catalog price, including an explicit zero.
type SaleLine struct {
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents *int64 `json:"unit_price_cents,omitempty"`
	Variant        string `json:"variant,omitempty"`
}

// CustomerBlock is one customer's sub-order within a possibly
// multi-customer sale intent.
type CustomerBlock struct {
	Handle           string     `json:"handle"`
	Platform         string     `json:"platform,omitempty"`
	PaymentMethod    string     `json:"payment_method,omitempty"`
	DeliveryFeeCents int64      `json:"delivery_fee_cents"`
	OrderTotalCents  int64      `json:"order_total_cents"`
	Address          string     `json:"address,omitempty"`
	Lines            []SaleLine `json:"lines"`
}

// SaleIntent is the strict internal shape every sale path (extracted or
// manual) is normalized into before reconciliation.
type SaleIntent struct {
	Confidence string          `json:"confidence"`
	Blocks     []CustomerBlock `json:"blocks"`
}

type ManualSaleRequest struct {
	CustomerHandle string `json:"customer_handle"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Source         string `json:"source"`
	PaymentMethod  string `json:"payment_method"`
}

// MatchWarning reports a line whose product match needed a fallback, so
// upstream can surface it without blocking the committed sale.
type MatchWarning struct {
	RequestedName string  `json:"requested_name"`
	MatchedName   string  `json:"matched_name"`
	MatchedID     string  `json:"matched_id"`
	Confidence    float64 `json:"confidence"`
	Placeholder   bool    `json:"placeholder"`
}

type CommitResult struct {
	Transactions         []Transaction  `json:"transactions"`
	InvoiceTransactionID string         `json:"invoice_transaction_id,omitempty"`
	LinesLogged          int            `json:"lines_logged"`
	Warnings             []MatchWarning `json:"warnings,omitempty"`
}

type ChannelRevenue struct {
	Source       string `json:"source"`
	Orders       int    `json:"orders"`
	RevenueCents int64  `json:"revenue_cents"`
}

type DashboardSummary struct {
	RevenueCents     int64            `json:"revenue_cents"`
	CostOfGoodsCents int64            `json:"cost_of_goods_cents"`
	ProfitCents      int64            `json:"profit_cents"`
	ExpenseCents     int64            `json:"expense_cents"`
	Orders           int              `json:"orders"`
	TopProductName   string           `json:"top_product_name,omitempty"`
	TopProductUnits  int              `json:"top_product_units,omitempty"`
	Channels         []ChannelRevenue `json:"channels"`
}

const (
	SourceWhatsApp  = "WhatsApp"
	SourceInstagram = "Instagram"
	SourceFacebook  = "Facebook"
	SourceWalkIn    = "Walk-in"
	SourcePhoneCall = "Phone Call"
	SourceOther     = "Other"
)

const (
	PaymentWallet       = "Bookly Wallet"
	PaymentCashTransfer = "Cash/Transfer"
)

const (
	TxStatusConfirmed = "confirmed"
	TxStatusPaid      = "paid"
	TxStatusUnpaid    = "unpaid"
	TxStatusCancelled = "cancelled"
)

// PlaceholderProductID marks the synthetic zero-priced product used when
// the catalog has no match at all. Sales against it never touch the
// catalog.
const PlaceholderProductID = "temp"

const (
	WalletTxCredit = "credit"
	WalletTxDebit  = "debit"
)

const (
	NotificationSuccess = "success"
	NotificationInfo    = "info"
	NotificationWarning = "warning"
)
