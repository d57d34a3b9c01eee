// Package extraction turns loosely structured chat captures into sale
// intents the commit engine accepts. The raw payload mirrors what the
// upstream extraction model emits: money as decimal units, optional
// fields everywhere, one customer block per buyer in the conversation.
package extraction

import (
	"fmt"
	"math"
	"strings"

	"bookly/backend/internal/domain"
)

const (
	IntentSale    = "sale"
	IntentProduct = "product"
	IntentExpense = "expense"
	IntentInquiry = "inquiry"
)

type Payload struct {
	Intent           string            `json:"intent"`
	Confidence       string            `json:"confidence"`
	SuggestedActions []string          `json:"suggestedActions,omitempty"`
	OrderType        string            `json:"orderType,omitempty"`
	Customers        []PayloadCustomer `json:"customers,omitempty"`

	// Flat single-order shape emitted by older extraction versions:
	// one customer, one delivery fee, one payment method.
	CustomerName  string        `json:"customerName,omitempty"`
	OrderItems    []PayloadItem `json:"orderItems,omitempty"`
	Total         *float64      `json:"total,omitempty"`
	DeliveryFee   float64       `json:"deliveryFee,omitempty"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Platform      string        `json:"platform,omitempty"`

	// Product intent fields.
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	CostPrice float64 `json:"costPrice,omitempty"`
	Stock     int     `json:"stock,omitempty"`
	Category  string  `json:"category,omitempty"`

	// Expense intent fields.
	Amount      float64 `json:"amount,omitempty"`
	Description string  `json:"description,omitempty"`
}

type PayloadCustomer struct {
	Handle        string        `json:"handle,omitempty"`
	Platform      string        `json:"platform,omitempty"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	DeliveryFee   float64       `json:"deliveryFee,omitempty"`
	Items         []PayloadItem `json:"items,omitempty"`
	OrderTotal    *float64      `json:"orderTotal,omitempty"`
	Address       string        `json:"address,omitempty"`
}

type PayloadItem struct {
	ProductName string   `json:"productName"`
	Quantity    int      `json:"quantity,omitempty"`
	Variant     string   `json:"variant,omitempty"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
}

// NormalizeSale converts a raw sale payload into the strict intent the
// commit engine consumes. Money moves to integer cents, quantities are
// coerced to at least one, and a missing order total is recomputed from
// the stated line prices.
func NormalizeSale(p Payload) (domain.SaleIntent, error) {
	if p.Intent != IntentSale {
		return domain.SaleIntent{}, fmt.Errorf("payload intent %q is not a sale", p.Intent)
	}
	if len(p.Customers) == 0 {
		if len(p.OrderItems) == 0 {
			return domain.SaleIntent{}, fmt.Errorf("sale payload has no customer blocks")
		}
		p.Customers = []PayloadCustomer{{
			Handle:        p.CustomerName,
			Platform:      p.Platform,
			PaymentMethod: p.PaymentMethod,
			DeliveryFee:   p.DeliveryFee,
			Items:         p.OrderItems,
			OrderTotal:    p.Total,
		}}
	}

	intent := domain.SaleIntent{
		Confidence: p.Confidence,
		Blocks:     make([]domain.CustomerBlock, 0, len(p.Customers)),
	}
	for _, c := range p.Customers {
		block := domain.CustomerBlock{
			Handle:           strings.TrimSpace(c.Handle),
			Platform:         strings.TrimSpace(c.Platform),
			PaymentMethod:    strings.TrimSpace(c.PaymentMethod),
			DeliveryFeeCents: toCents(c.DeliveryFee),
			Address:          strings.TrimSpace(c.Address),
			Lines:            make([]domain.SaleLine, 0, len(c.Items)),
		}

		var statedSumCents int64
		for _, item := range c.Items {
			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}
			line := domain.SaleLine{
				ProductName: strings.TrimSpace(item.ProductName),
				Quantity:    qty,
				Variant:     strings.TrimSpace(item.Variant),
			}
			if item.UnitPrice != nil {
				cents := toCents(*item.UnitPrice)
				line.UnitPriceCents = &cents
				statedSumCents += cents * int64(qty)
			}
			block.Lines = append(block.Lines, line)
		}

		if c.OrderTotal != nil {
			block.OrderTotalCents = toCents(*c.OrderTotal)
		} else {
			block.OrderTotalCents = statedSumCents
		}

		intent.Blocks = append(intent.Blocks, block)
	}
	return intent, nil
}

// ProductRequest maps a product intent onto a catalog create request.
func ProductRequest(p Payload) (domain.ProductCreateRequest, error) {
	if p.Intent != IntentProduct {
		return domain.ProductCreateRequest{}, fmt.Errorf("payload intent %q is not a product", p.Intent)
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.ProductCreateRequest{}, fmt.Errorf("product payload has no name")
	}
	return domain.ProductCreateRequest{
		Name:           strings.TrimSpace(p.Name),
		PriceCents:     toCents(p.Price),
		CostPriceCents: toCents(p.CostPrice),
		Stock:          p.Stock,
		Category:       strings.TrimSpace(p.Category),
	}, nil
}

// ExpenseRequest maps an expense intent onto an expense create request.
func ExpenseRequest(p Payload) (domain.ExpenseCreateRequest, error) {
	if p.Intent != IntentExpense {
		return domain.ExpenseCreateRequest{}, fmt.Errorf("payload intent %q is not an expense", p.Intent)
	}
	if p.Amount <= 0 {
		return domain.ExpenseCreateRequest{}, fmt.Errorf("expense payload has no positive amount")
	}
	return domain.ExpenseCreateRequest{
		AmountCents: toCents(p.Amount),
		Category:    strings.TrimSpace(p.Category),
		Description: strings.TrimSpace(p.Description),
	}, nil
}

func toCents(units float64) int64 {
	return int64(math.Round(units * 100))
}
