package httpx

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/maxruizg/Kaak-ecommerce/internal/catalog"
	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
)

type ProductHandler struct {
	catalog catalog.Repository
}

func NewProductHandler(repo catalog.Repository) *ProductHandler {
	return &ProductHandler{catalog: repo}
}

// ProductDTO adds the derived rental price to the catalog record.
type ProductDTO struct {
	domain.Product
	RentalPrice *decimal.Decimal `json:"rentalPrice,omitempty"`
}

func productDTO(p domain.Product) ProductDTO {
	dto := ProductDTO{Product: p}
	if p.IsRentable {
		rental := p.RentalPrice()
		dto.RentalPrice = &rental
	}
	return dto
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not list products")
		return
	}

	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = productDTO(p)
	}
	respondJSON(w, http.StatusOK, dtos)
}

func (h *ProductHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.catalog.GetProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "could not load product")
		return
	}
	respondJSON(w, http.StatusOK, productDTO(*product))
}
