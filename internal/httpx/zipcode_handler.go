package httpx

import (
	"errors"
	"net/http"

	"github.com/maxruizg/Kaak-ecommerce/internal/zipcode"
)

// Zip code data changes a handful of times a year, so successful lookups
// are cacheable for a day.
const zipCacheControl = "public, max-age=86400"

type ZipCodeHandler struct {
	lookup zipcode.LookupFunc
}

func NewZipCodeHandler(lookup zipcode.LookupFunc) *ZipCodeHandler {
	return &ZipCodeHandler{lookup: lookup}
}

func (h *ZipCodeHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("zip_code")

	result, err := h.lookup(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, zipcode.ErrInvalidCode):
			respondError(w, http.StatusBadRequest, "invalid_zip_code", "zip_code must be exactly 5 digits")
		case errors.Is(err, zipcode.ErrNotFound):
			respondError(w, http.StatusNotFound, "zip_code_not_found", "no colonies found for this zip code")
		default:
			respondError(w, http.StatusBadGateway, "zip_service_unavailable", "zip code service is unavailable")
		}
		return
	}

	w.Header().Set("Cache-Control", zipCacheControl)
	respondJSON(w, http.StatusOK, result)
}
