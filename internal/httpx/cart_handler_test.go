package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxruizg/Kaak-ecommerce/internal/catalog"
	"github.com/maxruizg/Kaak-ecommerce/internal/checkout"
	"github.com/maxruizg/Kaak-ecommerce/internal/orders"
	"github.com/maxruizg/Kaak-ecommerce/internal/payment"
	"github.com/maxruizg/Kaak-ecommerce/internal/session"
)

// testEnv wires the full router against in-memory collaborators and
// keeps cookies between requests like a browser.
type testEnv struct {
	router   http.Handler
	repo     *orders.MemoryRepository
	products *catalog.MemoryStore
	cookies  []*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := session.NewCookieStore("test-secret", false)
	products := catalog.NewSeededStore()
	repo := orders.NewMemoryRepository()
	service := checkout.NewService(payment.NewStubGateway(nil), repo)

	router := NewRouter(Handlers{
		Cart:     NewCartHandler(store, products),
		ZipCode:  NewZipCodeHandler(staticZipLookup),
		Checkout: NewCheckoutHandler(store, products, service),
		Orders:   NewOrdersHandler(repo),
		Products: NewProductHandler(products),
	}, 5*time.Second)

	return &testEnv{router: router, repo: repo, products: products}
}

func (e *testEnv) removeFromCatalog(t *testing.T, id string) {
	t.Helper()
	e.products.Remove(id)
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)

	for _, c := range recorder.Result().Cookies() {
		e.setCookie(c)
	}
	return recorder
}

func (e *testEnv) setCookie(c *http.Cookie) {
	for i, existing := range e.cookies {
		if existing.Name == c.Name {
			if c.MaxAge < 0 {
				e.cookies = append(e.cookies[:i], e.cookies[i+1:]...)
			} else {
				e.cookies[i] = c
			}
			return
		}
	}
	if c.MaxAge >= 0 {
		e.cookies = append(e.cookies, c)
	}
}

func decodeCart(t *testing.T, recorder *httptest.ResponseRecorder) CartResponseDTO {
	t.Helper()
	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func TestCartAPI_GetEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, "GET", "/api/v1/cart/", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	resp := decodeCart(t, recorder)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.ItemCount)
	assert.True(t, resp.Subtotal.IsZero())
}

func TestCartAPI_AddItemUsesCatalogPrice(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{
		ProductID: "prod-colibri",
		Quantity:  2,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	resp := decodeCart(t, recorder)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Colibrí", resp.Items[0].Name)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(12000)))
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(24000)))
	assert.Equal(t, 2, resp.ItemCount)
}

func TestCartAPI_AddItemMergesDuplicateLines(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri", Quantity: 2})
	recorder := env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri", Quantity: 1})
	require.Equal(t, http.StatusCreated, recorder.Code)

	resp := decodeCart(t, recorder)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
}

func TestCartAPI_RentalVariantPricing(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{
		ProductID: "prod-colibri",
		VariantID: "rental",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	resp := decodeCart(t, recorder)
	require.Len(t, resp.Items, 1)
	item := resp.Items[0]
	assert.True(t, item.IsRental)
	assert.Equal(t, "Renta", item.VariantName)
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(3600)))
	assert.Equal(t, 1, item.Quantity)
}

func TestCartAPI_RentalVariantKeepsSeparateLine(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri", Quantity: 1})
	recorder := env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri", VariantID: "rental"})

	resp := decodeCart(t, recorder)
	assert.Len(t, resp.Items, 2)
}

func TestCartAPI_RentalRejectedForAccessory(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{
		ProductID: "prod-funda",
		VariantID: "rental",
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "not_rentable", resp.Code)
}

func TestCartAPI_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-missing"})
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCartAPI_UpdateQuantityIsAbsolute(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri", Quantity: 2})
	recorder := env.do(t, "PUT", "/api/v1/cart/items/prod-colibri", UpdateQuantityRequestDTO{Quantity: 5})
	require.Equal(t, http.StatusOK, recorder.Code)

	resp := decodeCart(t, recorder)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
}

func TestCartAPI_ZeroQuantityRemovesLine(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri"})
	recorder := env.do(t, "PUT", "/api/v1/cart/items/prod-colibri", UpdateQuantityRequestDTO{Quantity: 0})
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Empty(t, decodeCart(t, recorder).Items)
}

func TestCartAPI_RemoveItemByVariant(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri"})
	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri", VariantID: "rental"})

	recorder := env.do(t, "DELETE", "/api/v1/cart/items/prod-colibri?variantId=rental", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	resp := decodeCart(t, recorder)
	require.Len(t, resp.Items, 1)
	assert.False(t, resp.Items[0].IsRental)
}

func TestCartAPI_ClearCart(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri", Quantity: 3})
	recorder := env.do(t, "DELETE", "/api/v1/cart/", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	followUp := env.do(t, "GET", "/api/v1/cart/", nil)
	assert.Empty(t, decodeCart(t, followUp).Items)
}
