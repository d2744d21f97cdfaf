package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestAdd_NewItemDefaultsQtyToOne(t *testing.T) {
	c, err := New("u1", nil, now)
	require.NoError(t, err)

	require.NoError(t, c.Add(Item{ProductID: "p1", Name: "Biryani tray", Price: 100}, now))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Qty)
	assert.Equal(t, "p1", c.Items[0].ProductID)
}

func TestAdd_ExistingProductSumsQty(t *testing.T) {
	c, err := New("u1", []Item{{ProductID: "p1", Qty: 2}}, now)
	require.NoError(t, err)

	require.NoError(t, c.Add(Item{ProductID: "p1", Qty: 3}, now))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Qty)
}

func TestAdd_DistinctProductAppends(t *testing.T) {
	c, err := New("u1", []Item{{ProductID: "p1", Qty: 1}}, now)
	require.NoError(t, err)

	require.NoError(t, c.Add(Item{ProductID: "p2", Qty: 4}, now))

	require.Len(t, c.Items, 2)
	assert.Equal(t, "p2", c.Items[1].ProductID)
	assert.Equal(t, 4, c.Items[1].Qty)
}

func TestSetQty(t *testing.T) {
	c, err := New("u1", []Item{{ProductID: "p1", Qty: 2}}, now)
	require.NoError(t, err)

	require.NoError(t, c.SetQty("p1", 7, now))
	assert.Equal(t, 7, c.Items[0].Qty)

	// qty <= 0 removes the line item
	require.NoError(t, c.SetQty("p1", 0, now))
	assert.Empty(t, c.Items)

	// unknown product with positive qty is rejected
	assert.ErrorIs(t, c.SetQty("missing", 1, now), ErrInvalidCart)
}

func TestRemove(t *testing.T) {
	c, err := New("u1", []Item{{ProductID: "p1", Qty: 1}, {ProductID: "p2", Qty: 2}}, now)
	require.NoError(t, err)

	require.NoError(t, c.Remove("p1", now))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].ProductID)

	// removing an absent product is a no-op
	require.NoError(t, c.Remove("p1", now))
	assert.Len(t, c.Items, 1)
}

func TestTotalQty(t *testing.T) {
	c, err := New("u1", []Item{{ProductID: "p1", Qty: 2}, {ProductID: "p2", Qty: 3}}, now)
	require.NoError(t, err)
	assert.Equal(t, 5, c.TotalQty())

	var nilCart *Cart
	assert.Equal(t, 0, nilCart.TotalQty())
}

func TestMerge_CoalescesByProductID(t *testing.T) {
	dst := []Item{{ProductID: "p1", Qty: 2}, {ProductID: "p2", Qty: 1}}
	src := []Item{{ProductID: "p2", Qty: 4}, {ProductID: "p3", Qty: 1}}

	out := Merge(dst, src)

	require.Len(t, out, 3)
	assert.Equal(t, 2, out[0].Qty)
	assert.Equal(t, 5, out[1].Qty)
	assert.Equal(t, "p3", out[2].ProductID)
}

func TestNormalizeItems(t *testing.T) {
	in := []Item{
		{ProductID: "  p1 ", Qty: 0},
		{ProductID: "", Qty: 3},
		{ProductID: "p1", Qty: 2},
	}

	out := NormalizeItems(in)

	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ProductID)
	assert.Equal(t, 3, out[0].Qty) // 1 (defaulted) + 2
}
