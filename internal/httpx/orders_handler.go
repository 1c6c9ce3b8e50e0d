package httpx

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
	"github.com/maxruizg/Kaak-ecommerce/internal/orders"
)

type OrdersHandler struct {
	repo orders.Repository
}

func NewOrdersHandler(repo orders.Repository) *OrdersHandler {
	return &OrdersHandler{repo: repo}
}

type OrderResponseDTO struct {
	Order    *domain.Order          `json:"order"`
	Bookings []domain.RentalBooking `json:"bookings,omitempty"`
}

// GetByNumber serves the order confirmation page.
func (h *OrdersHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	order, bookings, err := h.repo.GetOrderByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order_not_found", "order not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "order_lookup_failed", "could not load order")
		return
	}

	respondJSON(w, http.StatusOK, OrderResponseDTO{Order: order, Bookings: bookings})
}
