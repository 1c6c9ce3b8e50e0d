package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validContact() ContactForm {
	return ContactForm{
		FirstName: "Ana",
		LastName:  "Poot",
		Email:     "ana@example.com",
		Phone:     "+52 999 123 4567",
	}
}

func validShipping() ShippingForm {
	return ShippingForm{
		Street:     "Calle 60",
		Number:     "491",
		Colony:     "Centro",
		City:       "Mérida",
		State:      "YUC",
		PostalCode: "97000",
	}
}

func validRental() RentalForm {
	return RentalForm{
		EventDate:    "2026-12-12",
		EventAddress: "Hacienda Teya, Mérida",
		GuestCount:   40,
	}
}

func TestValidateContact_Valid(t *testing.T) {
	assert.Empty(t, ValidateContact(validContact()))
}

func TestValidateContact_CollectsAllFieldErrors(t *testing.T) {
	errs := ValidateContact(ContactForm{})

	assert.Len(t, errs, 4)
	assert.Equal(t, "El nombre es requerido", errs["firstName"])
	assert.Equal(t, "El apellido es requerido", errs["lastName"])
	assert.Equal(t, "El correo electrónico es requerido", errs["email"])
	assert.Equal(t, "El teléfono es requerido", errs["phone"])
}

func TestValidateContact_FirstRuleWinsPerField(t *testing.T) {
	form := validContact()
	form.Email = "not-an-email"
	form.Phone = "999 123"

	errs := ValidateContact(form)
	assert.Equal(t, "El correo electrónico no es válido", errs["email"])
	assert.Equal(t, "El teléfono debe tener al menos 10 dígitos", errs["phone"])
}

func TestValidateContact_PhoneCountsOnlyDigits(t *testing.T) {
	form := validContact()
	form.Phone = "(999) 123-4567"
	assert.Empty(t, ValidateContact(form))

	form.Phone = "(999) 123-456"
	assert.Contains(t, ValidateContact(form), "phone")
}

func TestValidateShipping_Valid(t *testing.T) {
	assert.Empty(t, ValidateShipping(validShipping()))

	withRefs := validShipping()
	withRefs.References = "Portón negro, entre 57 y 59"
	assert.Empty(t, ValidateShipping(withRefs))
}

func TestValidateShipping_InvalidStateAndPostalCode(t *testing.T) {
	form := validShipping()
	form.State = "XX"
	form.PostalCode = "9700"

	errs := ValidateShipping(form)
	assert.Equal(t, "Selecciona un estado válido", errs["state"])
	assert.Equal(t, "El código postal debe tener 5 dígitos", errs["postalCode"])
}

func TestValidateRental_Valid(t *testing.T) {
	assert.Empty(t, ValidateRental(validRental()))
}

func TestValidateRental_MissingAndMalformed(t *testing.T) {
	errs := ValidateRental(RentalForm{})
	assert.Equal(t, "La fecha del evento es requerida", errs["eventDate"])
	assert.Equal(t, "La dirección del evento es requerida", errs["eventAddress"])
	assert.Equal(t, "El número de invitados debe ser mayor a 0", errs["guestCount"])

	form := validRental()
	form.EventDate = "12/12/2026"
	assert.Equal(t, "La fecha del evento no es válida", ValidateRental(form)["eventDate"])
}

func TestFieldErrors_MergeKeepsFirstMessage(t *testing.T) {
	first := FieldErrors{"email": "a"}
	merged := first.Merge(FieldErrors{"email": "b", "phone": "c"})

	assert.Equal(t, "a", merged["email"])
	assert.Equal(t, "c", merged["phone"])
}
