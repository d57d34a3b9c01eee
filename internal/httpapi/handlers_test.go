package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookly/backend/internal/domain"
	"bookly/backend/internal/service"
	"bookly/backend/internal/store/memory"
)

func newTestRouter() http.Handler {
	svc := service.New(memory.NewSeeded(), nil, nil, 0, "")
	return New(svc).Router("*")
}

func doJSON(t *testing.T, router http.Handler, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestRouter(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductEndpoints(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", domain.ProductCreateRequest{
		Name:           "Canvas Tote",
		PriceCents:     1999,
		CostPriceCents: 750,
		Stock:          20,
		Category:       "Fashion",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/products/"+created.ID+"/stock", domain.StockAdjustRequest{Delta: -5})
	require.Equal(t, http.StatusOK, rec.Code)
	var adjusted domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &adjusted))
	assert.Equal(t, 15, adjusted.Stock)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/customers/@unwana", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	// Seeded catalog plus the one just created, newest first.
	require.Len(t, products, 4)
	assert.Equal(t, "Canvas Tote", products[0].Name)
}

func TestProductValidation(t *testing.T) {
	rec := doJSON(t, newTestRouter(), http.MethodPost, "/api/v1/products", domain.ProductCreateRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommitSaleFlow(t *testing.T) {
	router := newTestRouter()

	intent := domain.SaleIntent{
		Confidence: "high",
		Blocks: []domain.CustomerBlock{
			{
				Handle:           "@newbuyer",
				Platform:         domain.SourceInstagram,
				DeliveryFeeCents: 200,
				OrderTotalCents:  4700,
				Lines:            []domain.SaleLine{{ProductName: "mug", Quantity: 3}},
			},
		},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/sales/commit", intent)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result domain.CommitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, int64(4700), result.Transactions[0].TotalCents)
	assert.Equal(t, result.Transactions[0].ID, result.InvoiceTransactionID)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ledger []domain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ledger))
	require.Len(t, ledger, 1)

	id := ledger[0].ID

	// confirmed -> paid, then archive, then edit.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/transactions/"+id+"/status", map[string]string{"status": domain.TxStatusPaid})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/transactions/"+id+"/status", map[string]string{"status": domain.TxStatusConfirmed})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	total := int64(5000)
	rec = doJSON(t, router, http.MethodPatch, "/api/v1/transactions/"+id, domain.TransactionEditRequest{
		TotalCents:        &total,
		ChangeDescription: "Update: Total 47 -> 50",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var edited domain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &edited))
	assert.Len(t, edited.EditHistory, 1)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/transactions/"+id+"/archive", map[string]bool{"archived": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ledger))
	assert.Len(t, ledger, 0)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/transactions?include_archived=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ledger))
	assert.Len(t, ledger, 1)
}

func TestCommitSaleAcceptsRawExtractionPayload(t *testing.T) {
	router := newTestRouter()

	payload := map[string]any{
		"intent":     "sale",
		"confidence": "high",
		"customers": []map[string]any{
			{
				"handle":      "@ada",
				"deliveryFee": 2,
				"items": []map[string]any{
					{"productName": "mug", "quantity": 3},
				},
				"orderTotal": 47,
			},
		},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/sales/commit", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result domain.CommitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, int64(4700), result.Transactions[0].TotalCents)
	assert.Equal(t, int64(200), result.Transactions[0].DeliveryCents)
}

func TestManualSaleEndpoint(t *testing.T) {
	rec := doJSON(t, newTestRouter(), http.MethodPost, "/api/v1/sales/manual", domain.ManualSaleRequest{
		CustomerHandle: "ada",
		ProductName:    "mug",
		Quantity:       2,
		UnitPriceCents: 1500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var result domain.CommitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "@ada", result.Transactions[0].CustomerHandle)
	assert.Equal(t, int64(3000), result.Transactions[0].TotalCents)
}

func TestMergeCustomersEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/customers", domain.CustomerCreateRequest{Handle: "@unwana_m"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/customers/merge", domain.MergeCustomersRequest{
		FromHandle: "@unwana_m",
		ToHandle:   "@unwana",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var merged domain.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &merged))
	assert.Equal(t, "@unwana", merged.Handle)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/customers/merge", domain.MergeCustomersRequest{
		FromHandle: "@missing",
		ToHandle:   "@unwana",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExtractUnavailableWithoutEndpoint(t *testing.T) {
	rec := doJSON(t, newTestRouter(), http.MethodPost, "/api/v1/extract", map[string]string{"text": "3 mugs for @ada"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBadJSONRejected(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/commit", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactionNotFound(t *testing.T) {
	rec := doJSON(t, newTestRouter(), http.MethodGet, "/api/v1/transactions/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardSummaryEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/sales/manual", domain.ManualSaleRequest{
		ProductName:    "mug",
		Quantity:       2,
		UnitPriceCents: 1500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(3000), summary.RevenueCents)
	assert.Equal(t, 1, summary.Orders)
}
