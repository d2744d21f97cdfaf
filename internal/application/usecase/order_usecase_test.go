package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderdom "caterhub/internal/domain/order"
	userdom "caterhub/internal/domain/user"
)

func seedOrder(t *testing.T, orders *fakeOrderRepo, buyerID, sellerID string) string {
	t.Helper()
	o, err := orderdom.New(
		buyerID, "Buyer", sellerID, "Seller",
		[]orderdom.Item{{ProductID: "p1", Name: "Thali", Price: 100, Qty: 1}},
		105,
		orderdom.DeliveryAddress{Address: "12 Gandhi Rd", City: "Pune"},
		"",
		orderdom.PaymentCash,
		testNow,
	)
	require.NoError(t, err)
	id, err := orders.Create(context.Background(), o)
	require.NoError(t, err)
	return id
}

func TestOrderUpdateStatusBySeller(t *testing.T) {
	orders := newFakeOrderRepo()
	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	uc := NewOrderUsecaseWithClock(orders, users, mailer, fixedClock{t: testNow})

	users.users["buyer-1"] = &userdom.Profile{UID: "buyer-1", Email: "b@example.com", Name: "Buyer"}
	id := seedOrder(t, orders, "buyer-1", "seller-1")

	o, err := uc.UpdateStatus(context.Background(), id, "seller-1", userdom.RoleSeller, orderdom.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusConfirmed, o.Status)
	assert.Equal(t, orderdom.StatusConfirmed, orders.orders[id].Status)

	// buyer is notified, best-effort
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "order-status", mailer.sent[0].kind)
	assert.Equal(t, "b@example.com", mailer.sent[0].to)
}

func TestOrderUpdateStatusForbiddenForOtherSeller(t *testing.T) {
	orders := newFakeOrderRepo()
	uc := NewOrderUsecaseWithClock(orders, newFakeUserRepo(), nil, fixedClock{t: testNow})
	id := seedOrder(t, orders, "buyer-1", "seller-1")

	_, err := uc.UpdateStatus(context.Background(), id, "seller-2", userdom.RoleSeller, orderdom.StatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderForbidden)
}

func TestOrderUpdateStatusAdminOverridesOwnership(t *testing.T) {
	orders := newFakeOrderRepo()
	uc := NewOrderUsecaseWithClock(orders, newFakeUserRepo(), nil, fixedClock{t: testNow})
	id := seedOrder(t, orders, "buyer-1", "seller-1")

	_, err := uc.UpdateStatus(context.Background(), id, "admin-1", userdom.RoleAdmin, orderdom.StatusCancelled)
	assert.NoError(t, err)
}

func TestOrderUpdateStatusRejectsIllegalTransition(t *testing.T) {
	orders := newFakeOrderRepo()
	uc := NewOrderUsecaseWithClock(orders, newFakeUserRepo(), nil, fixedClock{t: testNow})
	id := seedOrder(t, orders, "buyer-1", "seller-1")

	_, err := uc.UpdateStatus(context.Background(), id, "seller-1", userdom.RoleSeller, orderdom.StatusDelivered)
	assert.ErrorIs(t, err, orderdom.ErrInvalidTransition)
	assert.Equal(t, orderdom.StatusPending, orders.orders[id].Status)
}

func TestOrderMailFailureDoesNotFailUpdate(t *testing.T) {
	orders := newFakeOrderRepo()
	users := newFakeUserRepo()
	users.users["buyer-1"] = &userdom.Profile{UID: "buyer-1", Email: "b@example.com"}
	uc := NewOrderUsecaseWithClock(orders, users, &fakeMailer{fail: true}, fixedClock{t: testNow})
	id := seedOrder(t, orders, "buyer-1", "seller-1")

	_, err := uc.UpdateStatus(context.Background(), id, "seller-1", userdom.RoleSeller, orderdom.StatusConfirmed)
	assert.NoError(t, err)
}

func TestOrderGetNotFound(t *testing.T) {
	uc := NewOrderUsecaseWithClock(newFakeOrderRepo(), newFakeUserRepo(), nil, fixedClock{t: testNow})
	_, err := uc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderListDegradesToEmpty(t *testing.T) {
	uc := NewOrderUsecaseWithClock(newFakeOrderRepo(), newFakeUserRepo(), nil, fixedClock{t: testNow})

	assert.Empty(t, uc.ListForBuyer(context.Background(), ""))
	assert.Empty(t, uc.ListForSeller(context.Background(), "seller-1"))
}
