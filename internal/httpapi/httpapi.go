package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bookly/backend/internal/domain"
	"bookly/backend/internal/extraction"
	"bookly/backend/internal/service"
	"bookly/backend/internal/store"
)

type Server struct {
	svc *service.Service
}

func New(svc *service.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Router(allowedOrigin string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{allowedOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Post("/", s.handleCreateProduct)
			r.Get("/low-stock", s.handleLowStockProducts)
			r.Get("/{id}", s.handleGetProduct)
			r.Post("/{id}/stock", s.handleAdjustStock)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", s.handleListCustomers)
			r.Post("/", s.handleCreateCustomer)
			r.Post("/merge", s.handleMergeCustomers)
			r.Get("/{handle}", s.handleGetCustomer)
		})

		r.Route("/sales", func(r chi.Router) {
			r.Post("/commit", s.handleCommitSale)
			r.Post("/preview", s.handlePreviewSale)
			r.Post("/manual", s.handleManualSale)
		})

		r.Post("/extract", s.handleExtract)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Get("/{id}", s.handleGetTransaction)
			r.Post("/{id}/archive", s.handleArchiveTransaction)
			r.Post("/{id}/status", s.handleUpdateTransactionStatus)
			r.Patch("/{id}", s.handleEditTransaction)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleCreateExpense)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.Put("/", s.handleUpdateProfile)
		})

		r.Post("/wallet/transfer", s.handleWalletTransfer)
		r.Get("/dashboard/summary", s.handleDashboardSummary)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", s.handleListNotifications)
			r.Delete("/", s.handleClearNotifications)
		})
	})

	return router
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.svc.ListProducts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := s.svc.CreateProduct(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleLowStockProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.svc.LowStockProducts(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	var req domain.StockAdjustRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := s.svc.AdjustStock(r.Context(), chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.svc.ListCustomers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := s.svc.CreateCustomer(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := s.svc.GetCustomer(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) handleMergeCustomers(w http.ResponseWriter, r *http.Request) {
	var req domain.MergeCustomersRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	merged, err := s.svc.MergeCustomers(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, merged)
}

func (s *Server) handleCommitSale(w http.ResponseWriter, r *http.Request) {
	intent, ok := decodeSaleIntent(w, r)
	if !ok {
		return
	}
	result, err := s.svc.CommitSale(r.Context(), intent)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handlePreviewSale(w http.ResponseWriter, r *http.Request) {
	intent, ok := decodeSaleIntent(w, r)
	if !ok {
		return
	}
	result, err := s.svc.PreviewSale(r.Context(), intent)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeSaleIntent accepts either an already-normalized sale intent or a
// raw extraction payload, distinguished by the payload's intent tag.
func decodeSaleIntent(w http.ResponseWriter, r *http.Request) (domain.SaleIntent, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return domain.SaleIntent{}, false
	}

	var probe struct {
		Intent string `json:"intent"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return domain.SaleIntent{}, false
	}

	if probe.Intent != "" {
		var payload extraction.Payload
		if err := json.Unmarshal(raw, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return domain.SaleIntent{}, false
		}
		intent, err := extraction.NormalizeSale(payload)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return domain.SaleIntent{}, false
		}
		return intent, true
	}

	var intent domain.SaleIntent
	if err := json.Unmarshal(raw, &intent); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return domain.SaleIntent{}, false
	}
	return intent, true
}

func (s *Server) handleManualSale(w http.ResponseWriter, r *http.Request) {
	var req domain.ManualSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := s.svc.ManualSale(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var input extraction.Input
	if !decodeJSON(w, r, &input) {
		return
	}
	payload, err := s.svc.Extract(r.Context(), input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "true"
	transactions, err := s.svc.ListTransactions(r.Context(), includeArchived)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.svc.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleArchiveTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Archived bool `json:"archived"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := s.svc.SetTransactionArchived(r.Context(), chi.URLParam(r, "id"), req.Archived)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := s.svc.UpdateTransactionStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	var req domain.TransactionEditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tx, err := s.svc.EditTransaction(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.ListExpenses(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req domain.ExpenseCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	created, err := s.svc.CreateExpense(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.svc.GetProfile(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.BusinessProfile
	if !decodeJSON(w, r, &profile) {
		return
	}
	updated, err := s.svc.UpdateProfile(r.Context(), profile)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleWalletTransfer(w http.ResponseWriter, r *http.Request) {
	var req domain.WalletTransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	wallet, err := s.svc.WalletTransfer(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.DashboardSummary(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.svc.ListNotifications(r.Context(), 50)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ClearNotifications(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, extraction.ErrDisabled):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	// For 5xx responses, return a generic message to avoid leaking internal
	// implementation details (stack traces, SQL errors, file paths, etc.).
	// 4xx responses are user-facing so we return the original error message.
	msg := err.Error()
	if status >= 500 {
		log.Printf("internal error (status %d): %v", status, err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
