package httpx

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxruizg/Kaak-ecommerce/internal/checkout"
)

func validCheckoutBody() checkout.Submission {
	return checkout.Submission{
		Contact: checkout.ContactForm{
			FirstName: "Ana",
			LastName:  "Poot",
			Email:     "ana@example.com",
			Phone:     "9991234567",
		},
		Shipping: checkout.ShippingForm{
			Street:     "Calle 60",
			Number:     "491",
			Colony:     "Centro",
			City:       "Mérida",
			State:      "YUC",
			PostalCode: "97000",
		},
		Rental: checkout.RentalForm{
			EventDate:    "2026-12-12",
			EventAddress: "Hacienda Teya, Mérida",
			GuestCount:   40,
		},
	}
}

func TestCheckoutAPI_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, "POST", "/api/v1/checkout", validCheckoutBody())
	require.Equal(t, http.StatusConflict, recorder.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "empty_cart", resp.Code)
}

func TestCheckoutAPI_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri"})

	body := validCheckoutBody()
	body.Contact.Email = "nope"
	body.Shipping.PostalCode = "123"

	recorder := env.do(t, "POST", "/api/v1/checkout", body)
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "postalCode")

	// The cart survives a rejected submission.
	followUp := env.do(t, "GET", "/api/v1/cart/", nil)
	assert.Len(t, decodeCart(t, followUp).Items, 1)
}

func TestCheckoutAPI_SuccessCreatesOrderAndClearsCart(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri", Quantity: 2})

	recorder := env.do(t, "POST", "/api/v1/checkout", validCheckoutBody())
	require.Equal(t, http.StatusCreated, recorder.Code)

	var conf checkout.Confirmation
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &conf))
	assert.Equal(t, "KAAK-2026-000001", conf.OrderNumber)
	assert.Equal(t, 2, conf.ItemCount)

	// Cart is empty afterwards.
	followUp := env.do(t, "GET", "/api/v1/cart/", nil)
	assert.Empty(t, decodeCart(t, followUp).Items)

	// The confirmation page can load the order.
	orderResp := env.do(t, "GET", "/api/v1/orders/"+conf.OrderNumber, nil)
	require.Equal(t, http.StatusOK, orderResp.Code)

	var dto OrderResponseDTO
	require.NoError(t, json.Unmarshal(orderResp.Body.Bytes(), &dto))
	assert.Equal(t, "ana@example.com", dto.Order.CustomerEmail)
	require.Len(t, dto.Order.Items, 1)
}

func TestCheckoutAPI_RentalCartCreatesBooking(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-aguila", VariantID: "rental"})

	recorder := env.do(t, "POST", "/api/v1/checkout", validCheckoutBody())
	require.Equal(t, http.StatusCreated, recorder.Code)

	var conf checkout.Confirmation
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &conf))
	require.Len(t, conf.BookingNumbers, 1)
	assert.Equal(t, "RNT-2026-000001", conf.BookingNumbers[0])

	orderResp := env.do(t, "GET", "/api/v1/orders/"+conf.OrderNumber, nil)
	var dto OrderResponseDTO
	require.NoError(t, json.Unmarshal(orderResp.Body.Bytes(), &dto))
	require.Len(t, dto.Bookings, 1)
	assert.Equal(t, "prod-aguila", dto.Bookings[0].ProductID)
}

func TestCheckoutAPI_StaleLineIsDropped(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri"})
	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-jaguar"})

	// The jaguar leaves the catalog between add and checkout.
	env.removeFromCatalog(t, "prod-jaguar")

	recorder := env.do(t, "POST", "/api/v1/checkout", validCheckoutBody())
	require.Equal(t, http.StatusCreated, recorder.Code)

	var conf checkout.Confirmation
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &conf))
	assert.Equal(t, 1, conf.ItemCount)

	orderResp := env.do(t, "GET", "/api/v1/orders/"+conf.OrderNumber, nil)
	var dto OrderResponseDTO
	require.NoError(t, json.Unmarshal(orderResp.Body.Bytes(), &dto))
	require.Len(t, dto.Order.Items, 1)
	assert.Equal(t, "prod-colibri", dto.Order.Items[0].ProductID)
}

func TestCheckoutAPI_AllLinesStaleIsEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-jaguar"})
	env.removeFromCatalog(t, "prod-jaguar")

	recorder := env.do(t, "POST", "/api/v1/checkout", validCheckoutBody())
	require.Equal(t, http.StatusConflict, recorder.Code)
}

func TestCheckoutAPI_DoubleSubmitCreatesTwoOrders(t *testing.T) {
	env := newTestEnv(t)
	body := validCheckoutBody()

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri"})
	first := env.do(t, "POST", "/api/v1/checkout", body)
	require.Equal(t, http.StatusCreated, first.Code)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "prod-colibri"})
	second := env.do(t, "POST", "/api/v1/checkout", body)
	require.Equal(t, http.StatusCreated, second.Code)

	var firstConf, secondConf checkout.Confirmation
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstConf))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondConf))
	assert.NotEqual(t, firstConf.OrderNumber, secondConf.OrderNumber)
}

func TestOrdersAPI_UnknownNumber(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, "GET", "/api/v1/orders/KAAK-2026-999999", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
