// Package stock implements the clinic medication stock ledger: pure
// operations over a clinic's ordered stock list. Persistence and low-stock
// notification dispatch are the caller's responsibility.
package stock

import (
	"errors"
	"strings"

	"github.com/ruralcare/health-api/internal/model"
)

var (
	// ErrDuplicateItem is returned by Add when an item with the same name
	// (case-insensitive) already exists in the clinic's stock list.
	ErrDuplicateItem = errors.New("stock item already exists")

	// ErrItemNotFound is returned when no case-insensitive name match exists.
	ErrItemNotFound = errors.New("stock item not found")
)

// DispenseResult is the post-dispense item snapshot. IsLow holds only while
// the item is still in stock; exhaustion (OutOfStock) is a distinct condition.
type DispenseResult struct {
	Item       model.StockItem
	IsLow      bool
	OutOfStock bool
}

func findIndex(items []model.StockItem, name string) int {
	for i := range items {
		if strings.EqualFold(items[i].Name, name) {
			return i
		}
	}
	return -1
}

// Add appends a new item to the stock list. A zero or negative quantity
// forces the item out of stock regardless of the requested flag. Existing
// items are never reordered.
func Add(items []model.StockItem, name, category string, quantity, lowThreshold int, inStock bool) ([]model.StockItem, error) {
	if findIndex(items, name) >= 0 {
		return items, ErrDuplicateItem
	}
	if quantity <= 0 {
		inStock = false
	}
	item := model.StockItem{
		Name:         name,
		Category:     category,
		InStock:      inStock,
		Quantity:     max(0, quantity),
		LowThreshold: max(0, lowThreshold),
	}
	return append(items, item), nil
}

// SetAvailability flips the in-stock flag unconditionally. Callers may mark a
// zero-quantity item in stock, e.g. pending restock; consumers must treat
// quantity zero as out of stock regardless of the flag.
func SetAvailability(items []model.StockItem, name string, inStock bool) (model.StockItem, error) {
	i := findIndex(items, name)
	if i < 0 {
		return model.StockItem{}, ErrItemNotFound
	}
	items[i].InStock = inStock
	return items[i], nil
}

// Dispense decrements an item's quantity by amount (minimum 1), flooring at
// zero. An exhausted item is forced out of stock.
func Dispense(items []model.StockItem, name string, amount int) (DispenseResult, error) {
	i := findIndex(items, name)
	if i < 0 {
		return DispenseResult{}, ErrItemNotFound
	}
	amount = max(1, amount)

	items[i].Quantity = max(0, items[i].Quantity-amount)
	if items[i].Quantity == 0 {
		items[i].InStock = false
	}

	return DispenseResult{
		Item:       items[i],
		IsLow:      items[i].IsLow(),
		OutOfStock: !items[i].InStock,
	}, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
