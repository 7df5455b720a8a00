// Package cart holds the in-memory line-item logic for a session's cart.
// All operations are pure: they return a fresh slice and never mutate their
// input, so persistence stays the caller's read-modify-write problem.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrItemNotFound indicates the referenced product id is not in the cart.
var ErrItemNotFound = errors.New("item not found in cart")

// LineItem is one product entry within a cart or order.
type LineItem struct {
	ProductID  string  `json:"id" dynamodbav:"id"`
	Quantity   int     `json:"cantidad" dynamodbav:"cantidad"`
	UnitPrice  float64 `json:"precio" dynamodbav:"precio"`
	Name       string  `json:"nombre,omitempty" dynamodbav:"nombre,omitempty"`
	Image      string  `json:"imagen,omitempty" dynamodbav:"imagen,omitempty"`
	Electronic bool    `json:"electronico,omitempty" dynamodbav:"electronico,omitempty"`
	Category   string  `json:"categoria,omitempty" dynamodbav:"categoria,omitempty"`
}

// Merge folds incoming items into the cart. An item matching an existing
// product id accumulates its quantity in place; unmatched items append at the
// end in their incoming order.
func Merge(items, incoming []LineItem) []LineItem {
	merged := make([]LineItem, len(items))
	copy(merged, items)

	for _, in := range incoming {
		idx := indexOf(merged, in.ProductID)
		if idx < 0 {
			merged = append(merged, in)
			continue
		}
		merged[idx].Quantity += in.Quantity
	}
	return merged
}

// SetQuantity overwrites the quantity of the item with the given product id.
// Zero is a valid quantity; a caller may zero out a line without removing it.
func SetQuantity(items []LineItem, productID string, quantity int) ([]LineItem, error) {
	idx := indexOf(items, productID)
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	updated := make([]LineItem, len(items))
	copy(updated, items)
	updated[idx].Quantity = quantity
	return updated, nil
}

// RemoveItem drops the item with the given product id, preserving the order
// of the remaining items.
func RemoveItem(items []LineItem, productID string) ([]LineItem, error) {
	idx := indexOf(items, productID)
	if idx < 0 {
		return nil, ErrItemNotFound
	}

	updated := make([]LineItem, 0, len(items)-1)
	updated = append(updated, items[:idx]...)
	updated = append(updated, items[idx+1:]...)
	return updated, nil
}

// Total computes the cart total as Σ(quantity × unit price). Zero-valued
// quantities or prices simply contribute nothing.
func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total
}

func indexOf(items []LineItem, productID string) int {
	for i, it := range items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
