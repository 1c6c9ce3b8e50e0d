package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/maxruizg/Kaak-ecommerce/internal/catalog"
	"github.com/maxruizg/Kaak-ecommerce/internal/checkout"
	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
	"github.com/maxruizg/Kaak-ecommerce/internal/session"
)

type CheckoutHandler struct {
	store   session.Store
	catalog catalog.Repository
	service *checkout.Service
}

func NewCheckoutHandler(store session.Store, repo catalog.Repository, service *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{store: store, catalog: repo, service: service}
}

// Submit runs checkout for the session's cart. Lines whose product left
// the catalog since they were added are dropped before submission rather
// than failing the whole checkout.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub checkout.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.store.Load(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_load_failed", "could not load cart")
		return
	}

	c, dropped, err := h.dropStaleLines(r, c)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not verify cart items")
		return
	}
	if dropped > 0 {
		if err := h.store.Save(w, r, c); err != nil {
			respondError(w, http.StatusInternalServerError, "cart_save_failed", "could not save cart")
			return
		}
	}

	conf, fieldErrs, err := h.service.Submit(r.Context(), c, sub)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
			return
		}
		respondError(w, http.StatusInternalServerError, "checkout_failed", "could not complete checkout")
		return
	}
	if fieldErrs != nil {
		respondJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: fieldErrs})
		return
	}

	if err := h.store.Clear(w, r); err != nil {
		// The order exists; losing the clear only leaves a stale cart.
		log.Printf("[%s] failed to clear cart after order %s: %v", getRequestID(r.Context()), conf.OrderNumber, err)
	}

	respondJSON(w, http.StatusCreated, conf)
}

func (h *CheckoutHandler) dropStaleLines(r *http.Request, c domain.Cart) (domain.Cart, int, error) {
	kept := make([]domain.CartItem, 0, len(c.Items))
	dropped := 0
	for _, item := range c.Items {
		_, err := h.catalog.GetProductByID(r.Context(), item.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			log.Printf("[%s] dropping stale cart line %s/%s: product gone from catalog", getRequestID(r.Context()), item.ProductID, item.VariantID)
			dropped++
			continue
		}
		if err != nil {
			return c, 0, err
		}
		kept = append(kept, item)
	}
	if dropped == 0 {
		return c, 0, nil
	}
	return domain.Cart{Items: kept}, dropped, nil
}
