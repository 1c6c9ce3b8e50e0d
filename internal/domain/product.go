package domain

import "github.com/shopspring/decimal"

// RentalVariantID marks the rental line of a rentable product; the
// purchase line carries an empty variant id.
const (
	RentalVariantID   = "rental"
	RentalVariantName = "Renta"
)

// rentalRate is the fraction of the purchase price charged per event.
var rentalRate = decimal.NewFromFloat(0.3)

// Product is one catalog entry, either a grill barrel or an accessory.
// Prices are whole MXN pesos.
type Product struct {
	ID          string   `bson:"_id" json:"id"`
	Slug        string   `bson:"slug" json:"slug"`
	Name        string   `bson:"name" json:"name"`
	Description string   `bson:"description" json:"description"`
	Price       float64  `bson:"price" json:"price"`
	Category    string   `bson:"category" json:"category"`
	Images      []string `bson:"images" json:"images"`
	IsRentable  bool     `bson:"is_rentable" json:"isRentable"`
	InStock     bool     `bson:"in_stock" json:"inStock"`
}

// PurchasePrice is the sale price as an exact decimal.
func (p Product) PurchasePrice() decimal.Decimal {
	return decimal.NewFromFloat(p.Price)
}

// RentalPrice is the per-event rate for rentable products, 30% of the
// purchase price rounded to whole pesos.
func (p Product) RentalPrice() decimal.Decimal {
	return p.PurchasePrice().Mul(rentalRate).Round(0)
}

// MainImage returns the first image, or "" when the product has none.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
