// Package checkout validates the multi-part checkout form and turns a
// cart into an order with its rental bookings.
package checkout

import (
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/maxruizg/Kaak-ecommerce/internal/zipcode"
)

// FormErrorKey carries the single form-level error used when payment or
// persistence fails; every other key is a field name.
const FormErrorKey = "_form"

// EventDateLayout is the wire format of the rental event date.
const EventDateLayout = "2006-01-02"

// FieldErrors maps a field name to its first failing rule's message.
type FieldErrors map[string]string

// Merge copies other's entries into e, keeping existing entries on
// key collisions.
func (e FieldErrors) Merge(other FieldErrors) FieldErrors {
	for field, msg := range other {
		if _, exists := e[field]; !exists {
			e[field] = msg
		}
	}
	return e
}

// ContactForm is the buyer's identity group.
type ContactForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ShippingForm is the delivery address group.
type ShippingForm struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Colony     string `json:"colony"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	References string `json:"references"`
}

// RentalForm is the event group, required only when the cart holds a
// rental line.
type RentalForm struct {
	EventDate    string `json:"eventDate"`
	EventAddress string `json:"eventAddress"`
	GuestCount   int    `json:"guestCount"`
}

// ValidateContact checks the contact group. One message per field,
// first failing rule wins.
func ValidateContact(f ContactForm) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.FirstName) == "" {
		errs["firstName"] = "El nombre es requerido"
	}
	if strings.TrimSpace(f.LastName) == "" {
		errs["lastName"] = "El apellido es requerido"
	}

	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "El correo electrónico es requerido"
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs["email"] = "El correo electrónico no es válido"
	}

	if strings.TrimSpace(f.Phone) == "" {
		errs["phone"] = "El teléfono es requerido"
	} else if digitCount(f.Phone) < 10 {
		errs["phone"] = "El teléfono debe tener al menos 10 dígitos"
	}

	return errs
}

// ValidateShipping checks the delivery address group. References is
// optional.
func ValidateShipping(f ShippingForm) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.Street) == "" {
		errs["street"] = "La calle es requerida"
	}
	if strings.TrimSpace(f.Number) == "" {
		errs["number"] = "El número es requerido"
	}
	if strings.TrimSpace(f.Colony) == "" {
		errs["colony"] = "La colonia es requerida"
	}
	if strings.TrimSpace(f.City) == "" {
		errs["city"] = "La ciudad es requerida"
	}

	if strings.TrimSpace(f.State) == "" {
		errs["state"] = "El estado es requerido"
	} else if !zipcode.ValidStateCode(f.State) {
		errs["state"] = "Selecciona un estado válido"
	}

	if strings.TrimSpace(f.PostalCode) == "" {
		errs["postalCode"] = "El código postal es requerido"
	} else if !zipcode.ValidPostalCode(f.PostalCode) {
		errs["postalCode"] = "El código postal debe tener 5 dígitos"
	}

	return errs
}

// ValidateRental checks the event group.
func ValidateRental(f RentalForm) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.EventDate) == "" {
		errs["eventDate"] = "La fecha del evento es requerida"
	} else if _, err := time.Parse(EventDateLayout, f.EventDate); err != nil {
		errs["eventDate"] = "La fecha del evento no es válida"
	}

	if strings.TrimSpace(f.EventAddress) == "" {
		errs["eventAddress"] = "La dirección del evento es requerida"
	}

	if f.GuestCount <= 0 {
		errs["guestCount"] = "El número de invitados debe ser mayor a 0"
	}

	return errs
}

func digitCount(s string) int {
	count := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			count++
		}
	}
	return count
}
