package api

import (
	"net/http"
	"time"

	"merchant-data-gateway/internal/application"
	"merchant-data-gateway/internal/domain"
	"merchant-data-gateway/internal/infrastructure/metrics"
	"merchant-data-gateway/internal/infrastructure/middleware"

	"github.com/rs/zerolog"
)

// DataHandler serves the API-key-authenticated proxy routes over merchant
// data. Each route reshapes the upstream response to the public schema and
// never leaks upstream error detail to callers.
type DataHandler struct {
	data    *application.DataService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(data *application.DataService, m *metrics.Metrics, logger zerolog.Logger) *DataHandler {
	return &DataHandler{
		data:    data,
		metrics: m,
		logger:  logger,
	}
}

type dataResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

type dataError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// GetOrders handles GET /data/orders
func (h *DataHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromContext(r.Context())
	opts := application.OrderOptionsFromQuery(r.URL.Query())

	start := time.Now()
	orders, err := h.data.GetOrders(r.Context(), session, opts)
	elapsed := time.Since(start)

	if err != nil {
		h.metrics.ObserveProxy("orders", http.StatusInternalServerError, elapsed)
		middleware.WriteJSON(w, http.StatusInternalServerError, dataError{Error: "Failed to fetch orders data"})
		return
	}

	h.metrics.ObserveProxy("orders", http.StatusOK, elapsed)
	middleware.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Count: len(orders), Data: orders})
}

// GetCustomers handles GET /data/customers
func (h *DataHandler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromContext(r.Context())
	opts := application.CustomerOptionsFromQuery(r.URL.Query())

	start := time.Now()
	customers, err := h.data.GetCustomers(r.Context(), session, opts)
	elapsed := time.Since(start)

	if err != nil {
		h.metrics.ObserveProxy("customers", http.StatusInternalServerError, elapsed)
		middleware.WriteJSON(w, http.StatusInternalServerError, dataError{Error: "Failed to fetch customers data"})
		return
	}

	h.metrics.ObserveProxy("customers", http.StatusOK, elapsed)
	middleware.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Count: len(customers), Data: customers})
}

// GetInventory handles GET /data/inventory
func (h *DataHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromContext(r.Context())
	opts := application.ProductOptionsFromQuery(r.URL.Query())

	start := time.Now()
	products, err := h.data.GetInventory(r.Context(), session, opts)
	elapsed := time.Since(start)

	if err != nil {
		h.metrics.ObserveProxy("inventory", http.StatusInternalServerError, elapsed)
		middleware.WriteJSON(w, http.StatusInternalServerError, dataError{Error: "Failed to fetch inventory data"})
		return
	}

	h.metrics.ObserveProxy("inventory", http.StatusOK, elapsed)
	middleware.WriteJSON(w, http.StatusOK, dataResponse{Success: true, Count: len(products), Data: products})
}
