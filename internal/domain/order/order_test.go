package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(VariantPurchasing, 1251, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), "Maria", SupplierInfo{
		CompanyName: "Distribuidora Alfa Ltda",
		CNPJ:        "12.345.678/0001-90",
	})
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("starts in the variant open state", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Equal(t, StatusOpen, o.Status)
		assert.Nil(t, o.ClosedAt)
		assert.True(t, o.TotalAmount.IsZero())
	})

	t.Run("tenders variant starts pending", func(t *testing.T) {
		o, err := NewOrder(VariantTenders, 1, time.Now(), "Ana", SupplierInfo{CompanyName: "Beta"})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, o.Status)
	})

	t.Run("rejects non-positive number", func(t *testing.T) {
		_, err := NewOrder(VariantPurchasing, 0, time.Now(), "Maria", SupplierInfo{CompanyName: "Alfa"})
		assert.Error(t, err)
	})

	t.Run("rejects empty responsible", func(t *testing.T) {
		_, err := NewOrder(VariantPurchasing, 1, time.Now(), "", SupplierInfo{CompanyName: "Alfa"})
		assert.Error(t, err)
	})

	t.Run("rejects empty supplier name", func(t *testing.T) {
		_, err := NewOrder(VariantPurchasing, 1, time.Now(), "Maria", SupplierInfo{})
		assert.Error(t, err)
	})
}

func TestOrderAddItem(t *testing.T) {
	o := newTestOrder(t)

	first := o.AddItem()
	second := o.AddItem()

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.Equal(t, "1", first.Quantity.String())
	assert.Equal(t, DefaultUnit, first.Unit)
	assert.True(t, first.LineTotal.IsZero())
}

func TestOrderRemoveItemRenumbers(t *testing.T) {
	o := newTestOrder(t)
	o.AddItem()
	o.AddItem()
	o.AddItem()
	o.Items[0].Update("parafuso", decimal.NewFromInt(10), "CX", decimal.NewFromFloat(2.50), "", "")
	o.Items[1].Update("porca", decimal.NewFromInt(5), "CX", decimal.NewFromFloat(1.00), "", "")
	o.Items[2].Update("arruela", decimal.NewFromInt(2), "CX", decimal.NewFromFloat(0.75), "", "")
	o.RecalculateTotals()

	require.NoError(t, o.RemoveItem(2))

	require.Len(t, o.Items, 2)
	assert.Equal(t, 1, o.Items[0].Position)
	assert.Equal(t, 2, o.Items[1].Position)
	assert.Equal(t, "parafuso", o.Items[0].Description)
	assert.Equal(t, "arruela", o.Items[1].Description)
	assert.Equal(t, "26.50", o.TotalAmount.StringFixed(2))

	t.Run("positions stay contiguous after repeated removals", func(t *testing.T) {
		require.NoError(t, o.RemoveItem(1))
		require.Len(t, o.Items, 1)
		assert.Equal(t, 1, o.Items[0].Position)
	})

	t.Run("out of range position fails", func(t *testing.T) {
		assert.Error(t, o.RemoveItem(0))
		assert.Error(t, o.RemoveItem(99))
	})
}

func TestItemUpdate(t *testing.T) {
	o := newTestOrder(t)
	item := o.AddItem()

	t.Run("derives line total rounded half up", func(t *testing.T) {
		item.Update("cabo 3m", decimal.NewFromFloat(2.5), "PC", decimal.NewFromFloat(4.05), "", "")
		assert.Equal(t, "10.13", item.LineTotal.StringFixed(2))
	})

	t.Run("zero quantity keeps a zero line total", func(t *testing.T) {
		item.Update("cabo 3m", decimal.Zero, "PC", decimal.NewFromFloat(4.05), "", "")
		assert.Equal(t, "0", item.Quantity.String())
		assert.Equal(t, "0.00", item.LineTotal.StringFixed(2))
	})

	t.Run("negative quantity is clamped to zero", func(t *testing.T) {
		item.Update("cabo 3m", decimal.NewFromInt(-3), "PC", decimal.NewFromFloat(4.05), "", "")
		assert.True(t, item.Quantity.IsZero())
	})

	t.Run("empty unit falls back to default", func(t *testing.T) {
		item.Update("cabo 3m", decimal.NewFromInt(1), "", decimal.Zero, "", "")
		assert.Equal(t, DefaultUnit, item.Unit)
	})

	t.Run("mutations through the returned line reach the aggregate", func(t *testing.T) {
		item.Update("cabo 3m", decimal.NewFromInt(2), "PC", decimal.NewFromFloat(4.05), "", "")
		o.RecalculateTotals()
		assert.Equal(t, "cabo 3m", o.Items[0].Description)
		assert.Equal(t, "8.10", o.TotalAmount.StringFixed(2))
	})
}

func TestOrderRecalculateTotals(t *testing.T) {
	o := newTestOrder(t)
	o.AddItem()
	o.AddItem()
	o.Items[0].Update("item a", decimal.NewFromInt(3), "UN", decimal.NewFromFloat(10.10), "", "")
	o.Items[1].Update("item b", decimal.NewFromFloat(1.5), "KG", decimal.NewFromFloat(7.33), "", "")
	o.RecalculateTotals()

	// 30.30 + 11.00 (10.995 rounded half up)
	assert.Equal(t, "41.30", o.TotalAmount.StringFixed(2))
}

func TestOrderReplaceItems(t *testing.T) {
	o := newTestOrder(t)
	o.AddItem()

	items := []Item{
		{Description: "novo item", Quantity: decimal.NewFromInt(4), Unit: "UN", UnitPrice: decimal.NewFromFloat(2.25)},
		{Description: "outro item", Quantity: decimal.NewFromInt(1), Unit: "CX", UnitPrice: decimal.NewFromFloat(99.90)},
	}
	o.ReplaceItems(items)

	require.Len(t, o.Items, 2)
	assert.Equal(t, 1, o.Items[0].Position)
	assert.Equal(t, 2, o.Items[1].Position)
	assert.Equal(t, o.ID, o.Items[0].OrderID)
	assert.NotEqual(t, o.Items[0].ID, o.Items[1].ID)
	assert.Equal(t, "108.90", o.TotalAmount.StringFixed(2))
}

func TestOrderToggleStatus(t *testing.T) {
	t.Run("round trip restores open state", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.ToggleStatus(VariantPurchasing))
		assert.Equal(t, StatusClosed, o.Status)
		require.NotNil(t, o.ClosedAt)

		require.NoError(t, o.ToggleStatus(VariantPurchasing))
		assert.Equal(t, StatusOpen, o.Status)
		assert.Nil(t, o.ClosedAt)
	})

	t.Run("rejects status outside the variant vocabulary", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Error(t, o.SetStatus(VariantPurchasing, StatusIssued))
	})

	t.Run("setting the current status is a no-op", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.SetStatus(VariantPurchasing, StatusOpen))
		assert.Nil(t, o.ClosedAt)
	})

	t.Run("tenders vocabulary toggles pendente and emitida", func(t *testing.T) {
		o, err := NewOrder(VariantTenders, 7, time.Now(), "Ana", SupplierInfo{CompanyName: "Beta"})
		require.NoError(t, err)

		require.NoError(t, o.ToggleStatus(VariantTenders))
		assert.Equal(t, StatusIssued, o.Status)
		require.NoError(t, o.ToggleStatus(VariantTenders))
		assert.Equal(t, StatusPending, o.Status)
	})
}

func TestVariant(t *testing.T) {
	assert.True(t, VariantPurchasing.RequiresDeliveryFields())
	assert.False(t, VariantTenders.RequiresDeliveryFields())
	assert.True(t, VariantPurchasing.ValidStatus(StatusOpen))
	assert.False(t, VariantPurchasing.ValidStatus(StatusPending))

	_, ok := VariantPurchasing.Toggle(StatusPending)
	assert.False(t, ok)
}
