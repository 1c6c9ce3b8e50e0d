package domain

import "github.com/shopspring/decimal"

// CartItem is a single line in a cart. Lines are unique per
// (ProductID, VariantID) pair; adding the same pair again merges quantities.
type CartItem struct {
	ProductID   string          `json:"product_id"`
	VariantID   string          `json:"variant_id,omitempty"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Image       string          `json:"image,omitempty"`
	VariantName string          `json:"variant_name,omitempty"`
	IsRental    bool            `json:"is_rental,omitempty"`
}

// SameLine reports whether the item occupies the same cart line as the
// given (productID, variantID) pair.
func (i CartItem) SameLine(productID, variantID string) bool {
	return i.ProductID == productID && i.VariantID == variantID
}

// LineTotal is UnitPrice × Quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered list of line items owned by one browser session.
// It is a plain value: every mutation takes a cart in and returns a new one.
type Cart struct {
	Items []CartItem `json:"items"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// HasRentalItems reports whether any line is a rental. The checkout form
// requires event details exactly when this is true.
func (c Cart) HasRentalItems() bool {
	for _, item := range c.Items {
		if item.IsRental {
			return true
		}
	}
	return false
}

// RentalItems returns the rental lines, in cart order.
func (c Cart) RentalItems() []CartItem {
	var rentals []CartItem
	for _, item := range c.Items {
		if item.IsRental {
			rentals = append(rentals, item)
		}
	}
	return rentals
}

// CartTotals holds the derived totals of a cart.
type CartTotals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}
