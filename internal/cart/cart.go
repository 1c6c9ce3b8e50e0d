// Package cart implements the cart mutation rules. Every operation takes a
// cart value and returns the updated value; persistence is the session
// store's job, so these functions stay pure and trivially testable.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/maxruizg/Kaak-ecommerce/internal/domain"
)

// AddItem appends the item, or increments the quantity of the existing line
// with the same (productID, variantID) pair.
func AddItem(c domain.Cart, item domain.CartItem) domain.Cart {
	for i := range c.Items {
		if c.Items[i].SameLine(item.ProductID, item.VariantID) {
			items := cloneItems(c.Items)
			items[i].Quantity += item.Quantity
			return domain.Cart{Items: items}
		}
	}

	items := cloneItems(c.Items)
	items = append(items, item)
	return domain.Cart{Items: items}
}

// UpdateQuantity sets the quantity of the matching line to the given value
// (absolute, not incremental). A quantity of zero or less removes the line.
// No-op when no line matches.
func UpdateQuantity(c domain.Cart, productID, variantID string, quantity int) domain.Cart {
	for i := range c.Items {
		if !c.Items[i].SameLine(productID, variantID) {
			continue
		}
		items := cloneItems(c.Items)
		if quantity <= 0 {
			items = append(items[:i], items[i+1:]...)
		} else {
			items[i].Quantity = quantity
		}
		return domain.Cart{Items: items}
	}
	return c
}

// RemoveItem deletes the matching line entirely.
func RemoveItem(c domain.Cart, productID, variantID string) domain.Cart {
	return UpdateQuantity(c, productID, variantID, 0)
}

// Clear empties the cart. Called once after a successful checkout.
func Clear(domain.Cart) domain.Cart {
	return domain.Cart{}
}

// Totals computes the subtotal and item count. Pure; the empty cart yields
// a zero subtotal and zero count.
func Totals(c domain.Cart) domain.CartTotals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.LineTotal())
		count += item.Quantity
	}
	return domain.CartTotals{Subtotal: subtotal, ItemCount: count}
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
