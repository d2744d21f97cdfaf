package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "caterhub/internal/domain/cart"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestComputeTotals_RoundHalfUp(t *testing.T) {
	totals := ComputeTotals([]cartdom.Item{
		{ProductID: "p1", Price: 100, Qty: 2},
		{ProductID: "p2", Price: 50, Qty: 1},
	})

	// 5% of 250 is 12.5; the tie must round up, not to even.
	assert.Equal(t, 250.0, totals.Subtotal)
	assert.Equal(t, 13.0, totals.Tax)
	assert.Equal(t, 263.0, totals.Total)
}

func TestComputeTotals_EmptyAndDefaultQty(t *testing.T) {
	assert.Equal(t, Totals{}, ComputeTotals(nil))

	totals := ComputeTotals([]cartdom.Item{{ProductID: "p1", Price: 40}})
	assert.Equal(t, 40.0, totals.Subtotal) // qty defaults to 1
	assert.Equal(t, 2.0, totals.Tax)
}

func TestStatusMachine(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusPreparing, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusPreparing, StatusDelivered, true},
		{StatusPreparing, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}

	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := New(
		"buyer-1", "Ayesha", "seller-1", "Spice Route",
		SnapshotItems([]cartdom.Item{{ProductID: "p1", Price: 100, Qty: 2}}),
		210,
		DeliveryAddress{Address: "12 Mall Rd", City: "Lahore", State: "PB", Postal: "54000"},
		"ring the bell",
		PaymentCard,
		now,
	)
	require.NoError(t, err)
	return o
}

func TestTransition_TerminalStatesRejectEverything(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Transition(StatusConfirmed, now))
	require.NoError(t, o.Transition(StatusPreparing, now))
	require.NoError(t, o.Transition(StatusDelivered, now))

	for _, next := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusCancelled} {
		assert.ErrorIs(t, o.Transition(next, now), ErrInvalidTransition)
	}
	assert.Equal(t, StatusDelivered, o.Status)
}

func TestTransition_UnknownStatusRejected(t *testing.T) {
	o := newTestOrder(t)
	assert.ErrorIs(t, o.Transition(Status("Shipped"), now), ErrInvalidStatus)
}

func TestRateItem(t *testing.T) {
	o := newTestOrder(t)

	// not delivered yet
	assert.ErrorIs(t, o.RateItem("p1", 5, now), ErrNotDeliveredYet)

	require.NoError(t, o.Transition(StatusConfirmed, now))
	require.NoError(t, o.Transition(StatusPreparing, now))
	require.NoError(t, o.Transition(StatusDelivered, now))

	assert.ErrorIs(t, o.RateItem("p1", 0, now), ErrInvalidRatingValue)
	assert.ErrorIs(t, o.RateItem("p1", 6, now), ErrInvalidRatingValue)
	assert.ErrorIs(t, o.RateItem("nope", 4, now), ErrLineItemNotFound)

	require.NoError(t, o.RateItem("p1", 4, now))
	require.NotNil(t, o.Items[0].RatingUser)
	assert.Equal(t, 4, *o.Items[0].RatingUser)

	// at most one rating per line item
	assert.ErrorIs(t, o.RateItem("p1", 5, now), ErrAlreadyRated)
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", "n", "s", "sn", SnapshotItems([]cartdom.Item{{ProductID: "p", Qty: 1}}), 0, DeliveryAddress{}, "", PaymentCash, now)
	assert.ErrorIs(t, err, ErrInvalidBuyerID)

	_, err = New("b", "n", "s", "sn", nil, 0, DeliveryAddress{}, "", PaymentCash, now)
	assert.ErrorIs(t, err, ErrItemsRequired)

	_, err = New("b", "n", "s", "sn", SnapshotItems([]cartdom.Item{{ProductID: "p", Qty: 1}}), 0, DeliveryAddress{}, "", PaymentMethod("bitcoin"), now)
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestParsePaymentMethod(t *testing.T) {
	for _, s := range []string{"card", "UPI", " cash "} {
		_, err := ParsePaymentMethod(s)
		assert.NoError(t, err, s)
	}
	_, err := ParsePaymentMethod("cheque")
	assert.ErrorIs(t, err, ErrInvalidPayment)
}
