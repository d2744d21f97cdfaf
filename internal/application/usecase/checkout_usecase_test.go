package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "caterhub/internal/domain/cart"
	orderdom "caterhub/internal/domain/order"
)

func newCheckoutFixture() (*CheckoutUsecase, *fakeOrderRepo, *fakeCartRepo) {
	cartRepo := newFakeCartRepo()
	cartUC := NewCartUsecaseWithClock(cartRepo, newFakeGuestStore(), nil, fixedClock{t: testNow})
	orders := newFakeOrderRepo()
	uc := NewCheckoutUsecaseWithClock(orders, cartUC, fixedClock{t: testNow})
	return uc, orders, cartRepo
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		BuyerID:   "buyer-1",
		BuyerName: "Asha",
		DeliveryAddress: orderdom.DeliveryAddress{
			Address: "12 Gandhi Rd",
			City:    "Pune",
			State:   "MH",
			Postal:  "411001",
		},
		PaymentMethod: "card",
	}
}

func TestPlaceOrderComputesTotalsAndClearsCart(t *testing.T) {
	uc, orders, cartRepo := newCheckoutFixture()
	ctx := context.Background()

	cartRepo.carts["buyer-1"] = []cartdom.Item{
		{ProductID: "p1", Name: "Veg Thali", Price: 100, Qty: 2, SellerID: "seller-1", SellerName: "Spice Hub"},
		{ProductID: "p2", Name: "Lassi", Price: 50, Qty: 1, SellerID: "seller-1", SellerName: "Spice Hub"},
	}

	res, err := uc.PlaceOrder(ctx, checkoutInput())
	require.NoError(t, err)

	assert.Equal(t, 250.0, res.Totals.Subtotal)
	assert.Equal(t, 13.0, res.Totals.Tax) // 12.5 rounds half-up
	assert.Equal(t, 263.0, res.Totals.Total)

	require.NotEmpty(t, res.OrderID)
	stored := orders.orders[res.OrderID]
	require.NotNil(t, stored)
	assert.Equal(t, orderdom.StatusPending, stored.Status)
	assert.Equal(t, "seller-1", stored.SellerID)
	assert.Equal(t, "Spice Hub", stored.SellerName)
	assert.Len(t, stored.Items, 2)

	// cart is cleared only after the order write stuck
	assert.Empty(t, cartRepo.carts["buyer-1"])
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	uc, orders, _ := newCheckoutFixture()

	_, err := uc.PlaceOrder(context.Background(), checkoutInput())
	assert.ErrorIs(t, err, ErrCheckoutEmptyCart)
	assert.Empty(t, orders.orders)
}

func TestPlaceOrderRejectsUnknownPaymentMethod(t *testing.T) {
	uc, _, cartRepo := newCheckoutFixture()
	cartRepo.carts["buyer-1"] = []cartdom.Item{{ProductID: "p1", Price: 10, Qty: 1}}

	in := checkoutInput()
	in.PaymentMethod = "cheque"
	_, err := uc.PlaceOrder(context.Background(), in)
	assert.ErrorIs(t, err, orderdom.ErrInvalidPayment)
}

func TestPlaceOrderKeepsCartWhenCreateFails(t *testing.T) {
	uc, orders, cartRepo := newCheckoutFixture()
	cartRepo.carts["buyer-1"] = []cartdom.Item{{ProductID: "p1", Price: 10, Qty: 1}}
	orders.failCreate = true

	_, err := uc.PlaceOrder(context.Background(), checkoutInput())
	require.Error(t, err)
	assert.Len(t, cartRepo.carts["buyer-1"], 1)
}

func TestPlaceOrderFallsBackToUnknownSeller(t *testing.T) {
	uc, orders, cartRepo := newCheckoutFixture()
	cartRepo.carts["buyer-1"] = []cartdom.Item{{ProductID: "p1", Price: 10, Qty: 1}}

	res, err := uc.PlaceOrder(context.Background(), checkoutInput())
	require.NoError(t, err)
	assert.Equal(t, "unknown", orders.orders[res.OrderID].SellerID)
	assert.Equal(t, "Unknown seller", orders.orders[res.OrderID].SellerName)
}

func TestPlaceOrderRequiresBuyer(t *testing.T) {
	uc, _, _ := newCheckoutFixture()
	in := checkoutInput()
	in.BuyerID = " "
	_, err := uc.PlaceOrder(context.Background(), in)
	assert.ErrorIs(t, err, ErrCheckoutInvalidBuyer)
}
