package handler

import (
	"net/http"

	"bloodbank-inventory/internal/usecase"
	"bloodbank-inventory/pkg/response"
)

type StockHandler struct {
	stockUsecase usecase.StockUsecase
}

func NewStockHandler(stockUsecase usecase.StockUsecase) *StockHandler {
	return &StockHandler{
		stockUsecase: stockUsecase,
	}
}

func (h *StockHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stockUsecase.GetStockSummary(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get stock summary")
		return
	}

	response.Success(w, http.StatusOK, "Stock summary retrieved successfully", summary)
}

func (h *StockHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stockUsecase.ReconcileAll(r.Context())
	if err != nil {
		writeError(w, err, "Failed to reconcile stock")
		return
	}

	response.Success(w, http.StatusOK, "Stock reconciled successfully", summary)
}
