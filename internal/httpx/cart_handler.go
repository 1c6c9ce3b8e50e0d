package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/maxruizg/Kaak-ecommerce/internal/cart"
	"github.com/maxruizg/Kaak-ecommerce/internal/catalog"
	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
	"github.com/maxruizg/Kaak-ecommerce/internal/session"
)

type CartHandler struct {
	store   session.Store
	catalog catalog.Repository
}

func NewCartHandler(store session.Store, repo catalog.Repository) *CartHandler {
	return &CartHandler{store: store, catalog: repo}
}

// AddItemRequestDTO carries no price: the unit price is always resolved
// from the catalog so a client cannot set its own.
type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items     []domain.CartItem `json:"items"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	ItemCount int               `json:"itemCount"`
}

func cartResponse(c domain.Cart) CartResponseDTO {
	totals := cart.Totals(c)
	items := c.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponseDTO{
		Items:     items,
		Subtotal:  totals.Subtotal,
		ItemCount: totals.ItemCount,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Load(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_load_failed", "could not load cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	item, err := h.buildLine(r, req)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		if errors.Is(err, errNotRentable) {
			respondError(w, http.StatusBadRequest, "not_rentable", "product is not available for rental")
			return
		}
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not resolve product")
		return
	}

	c, err := h.store.Load(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_load_failed", "could not load cart")
		return
	}

	c = cart.AddItem(c, *item)
	if err := h.saveCart(w, r, c); err != nil {
		return
	}
	respondJSON(w, http.StatusCreated, cartResponse(c))
}

var errNotRentable = errors.New("product is not rentable")

// buildLine resolves the catalog product into a cart line. The rental
// variant charges 30% of the purchase price per event.
func (h *CartHandler) buildLine(r *http.Request, req AddItemRequestDTO) (*domain.CartItem, error) {
	product, err := h.catalog.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		return nil, err
	}

	item := domain.CartItem{
		ProductID: product.ID,
		VariantID: req.VariantID,
		Name:      product.Name,
		UnitPrice: product.PurchasePrice(),
		Quantity:  req.Quantity,
		Image:     product.MainImage(),
	}

	if req.VariantID == domain.RentalVariantID {
		if !product.IsRentable {
			return nil, errNotRentable
		}
		item.UnitPrice = product.RentalPrice()
		item.VariantName = domain.RentalVariantName
		item.IsRental = true
	}

	return &item, nil
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	variantID := r.URL.Query().Get("variantId")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	c, err := h.store.Load(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_load_failed", "could not load cart")
		return
	}

	c = cart.UpdateQuantity(c, productID, variantID, req.Quantity)
	if err := h.saveCart(w, r, c); err != nil {
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	variantID := r.URL.Query().Get("variantId")

	c, err := h.store.Load(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_load_failed", "could not load cart")
		return
	}

	c = cart.RemoveItem(c, productID, variantID)
	if err := h.saveCart(w, r, c); err != nil {
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(w, r); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_clear_failed", "could not clear cart")
		return
	}
	respondJSON(w, http.StatusOK, cartResponse(domain.Cart{}))
}

func (h *CartHandler) saveCart(w http.ResponseWriter, r *http.Request, c domain.Cart) error {
	err := h.store.Save(w, r, c)
	if err == nil {
		return nil
	}
	if errors.Is(err, session.ErrCartTooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, "cart_too_large", "cart exceeds the maximum size")
	} else {
		respondError(w, http.StatusInternalServerError, "cart_save_failed", "could not save cart")
	}
	return err
}
