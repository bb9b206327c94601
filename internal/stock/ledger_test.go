package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruralcare/health-api/internal/model"
)

func TestAdd(t *testing.T) {
	items, err := Add(nil, "Paracetamol", "painkiller", 10, 2, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Paracetamol", items[0].Name)
	assert.True(t, items[0].InStock)
	assert.Equal(t, 10, items[0].Quantity)

	// Case-insensitive duplicate
	_, err = Add(items, "PARACETAMOL", "painkiller", 5, 1, true)
	assert.ErrorIs(t, err, ErrDuplicateItem)

	// Appends without reordering
	items, err = Add(items, "Amoxicillin", "antibiotic", 20, 5, true)
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol", items[0].Name)
	assert.Equal(t, "Amoxicillin", items[1].Name)
}

func TestAddZeroQuantityForcesOutOfStock(t *testing.T) {
	items, err := Add(nil, "Insulin", "chronic", 0, 3, true)
	require.NoError(t, err)
	assert.False(t, items[0].InStock)

	items, err = Add(items, "Metformin", "chronic", -4, 3, true)
	require.NoError(t, err)
	assert.False(t, items[1].InStock)
	assert.Equal(t, 0, items[1].Quantity)
}

func TestSetAvailability(t *testing.T) {
	items, _ := Add(nil, "Paracetamol", "painkiller", 0, 2, false)

	// Zero-quantity item can be flagged in stock intentionally
	item, err := SetAvailability(items, "paracetamol", true)
	require.NoError(t, err)
	assert.True(t, item.InStock)
	assert.True(t, items[0].InStock)

	_, err = SetAvailability(items, "Ibuprofen", true)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDispense(t *testing.T) {
	items, _ := Add(nil, "Paracetamol", "painkiller", 10, 2, true)

	res, err := Dispense(items, "Paracetamol", 9)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Item.Quantity)
	assert.True(t, res.Item.InStock)
	assert.True(t, res.IsLow)
	assert.False(t, res.OutOfStock)

	// Exhaustion: quantity floors at 0, item drops out of stock, and the
	// low-stock condition no longer holds
	res, err = Dispense(items, "Paracetamol", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Item.Quantity)
	assert.False(t, res.Item.InStock)
	assert.False(t, res.IsLow)
	assert.True(t, res.OutOfStock)
}

func TestDispenseClampsAmount(t *testing.T) {
	items, _ := Add(nil, "Paracetamol", "painkiller", 10, 2, true)

	// Zero and negative amounts dispense one unit
	res, err := Dispense(items, "Paracetamol", 0)
	require.NoError(t, err)
	assert.Equal(t, 9, res.Item.Quantity)

	res, err = Dispense(items, "Paracetamol", -3)
	require.NoError(t, err)
	assert.Equal(t, 8, res.Item.Quantity)
}

func TestDispenseNotFound(t *testing.T) {
	_, err := Dispense(nil, "Paracetamol", 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestIsLowRequiresInStock(t *testing.T) {
	item := model.StockItem{Name: "Insulin", InStock: false, Quantity: 1, LowThreshold: 2}
	assert.False(t, item.IsLow())

	item.InStock = true
	assert.True(t, item.IsLow())
}
