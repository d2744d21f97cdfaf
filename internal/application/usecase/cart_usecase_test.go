package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caterhub/internal/application/notifier"
	cartdom "caterhub/internal/domain/cart"
)

func newCartFixture() (*CartUsecase, *fakeCartRepo, *fakeGuestStore, *notifier.CartBadge) {
	repo := newFakeCartRepo()
	guest := newFakeGuestStore()
	badge := notifier.NewCartBadge()
	uc := NewCartUsecaseWithClock(repo, guest, badge, fixedClock{t: testNow})
	return uc, repo, guest, badge
}

func TestCartGetDegradesToEmptyOnStorageFailure(t *testing.T) {
	uc, repo, _, _ := newCartFixture()
	repo.failGet = true

	items := uc.Get(context.Background(), "u1")
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCartAddItemDefaultsQtyAndPublishesBadge(t *testing.T) {
	uc, repo, _, badge := newCartFixture()

	err := uc.AddItem(context.Background(), "u1", cartdom.Item{ProductID: "p1", Name: "Biryani Tray", Price: 100})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.carts["u1"][0].Qty)
	assert.Equal(t, 1, badge.Count("u1"))
}

func TestCartAddItemRejectsMissingIDs(t *testing.T) {
	uc, _, _, _ := newCartFixture()

	assert.ErrorIs(t, uc.AddItem(context.Background(), "", cartdom.Item{ProductID: "p1"}), ErrCartInvalidArgument)
	assert.ErrorIs(t, uc.AddItem(context.Background(), "u1", cartdom.Item{}), ErrCartInvalidArgument)
}

func TestCartRemoveItemPublishesNegativeDelta(t *testing.T) {
	uc, _, _, badge := newCartFixture()
	ctx := context.Background()

	it := cartdom.Item{ProductID: "p1", Qty: 2, Price: 50}
	require.NoError(t, uc.AddItem(ctx, "u1", it))
	require.Equal(t, 2, badge.Count("u1"))

	require.NoError(t, uc.RemoveItem(ctx, "u1", it))
	assert.Equal(t, 0, badge.Count("u1"))
}

func TestCartClearEmptiesAndZeroesBadge(t *testing.T) {
	uc, repo, _, badge := newCartFixture()
	ctx := context.Background()

	require.NoError(t, uc.AddItem(ctx, "u1", cartdom.Item{ProductID: "p1", Qty: 3}))
	require.NoError(t, uc.Clear(ctx, "u1"))

	assert.Empty(t, repo.carts["u1"])
	assert.Equal(t, 0, badge.Count("u1"))
}

func TestGuestAddMergesByProductID(t *testing.T) {
	uc, _, _, _ := newCartFixture()

	uc.GuestAdd("s1", cartdom.Item{ProductID: "p1", Qty: 1, Price: 10})
	items := uc.GuestAdd("s1", cartdom.Item{ProductID: "p1", Qty: 2, Price: 10})

	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Qty)
}

func TestGuestOpsNoopWithoutSession(t *testing.T) {
	uc, _, guest, _ := newCartFixture()

	assert.Empty(t, uc.GuestAdd("", cartdom.Item{ProductID: "p1"}))
	assert.Empty(t, uc.GuestGet("  "))
	assert.Empty(t, guest.carts)
}

func TestReconcileGuestEmptyIsNoop(t *testing.T) {
	uc, repo, _, _ := newCartFixture()
	ctx := context.Background()

	remote := []cartdom.Item{{ProductID: "p1", Qty: 2, Price: 10}}
	repo.carts["u1"] = remote

	got, err := uc.Reconcile(ctx, "s1", "u1")
	require.NoError(t, err)
	assert.Equal(t, remote, got)
	assert.Equal(t, remote, repo.carts["u1"])
}

func TestReconcilePromotesGuestWhenRemoteEmpty(t *testing.T) {
	uc, repo, guest, badge := newCartFixture()
	ctx := context.Background()

	guest.Set("s1", []cartdom.Item{{ProductID: "p1", Qty: 2, Price: 10}})

	got, err := uc.Reconcile(ctx, "s1", "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Qty)
	assert.Equal(t, got, repo.carts["u1"])
	assert.Empty(t, guest.Get("s1"))
	assert.Equal(t, 2, badge.Count("u1"))
	assert.Equal(t, 0, badge.Count("guest:s1"))
}

func TestReconcileMergesWhenBothNonEmpty(t *testing.T) {
	uc, repo, guest, _ := newCartFixture()
	ctx := context.Background()

	repo.carts["u1"] = []cartdom.Item{
		{ProductID: "p1", Qty: 1, Price: 10},
		{ProductID: "p2", Qty: 1, Price: 20},
	}
	guest.Set("s1", []cartdom.Item{
		{ProductID: "p1", Qty: 2, Price: 10},
		{ProductID: "p3", Qty: 1, Price: 30},
	})

	got, err := uc.Reconcile(ctx, "s1", "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	byID := map[string]int{}
	for _, it := range got {
		byID[it.ProductID] = it.Qty
	}
	assert.Equal(t, 3, byID["p1"])
	assert.Equal(t, 1, byID["p2"])
	assert.Equal(t, 1, byID["p3"])
	assert.Empty(t, guest.Get("s1"))
}

func TestReconcileIsIdempotent(t *testing.T) {
	uc, repo, guest, _ := newCartFixture()
	ctx := context.Background()

	guest.Set("s1", []cartdom.Item{{ProductID: "p1", Qty: 2, Price: 10}})

	first, err := uc.Reconcile(ctx, "s1", "u1")
	require.NoError(t, err)

	// the guest store is cleared, so a second run must change nothing
	second, err := uc.Reconcile(ctx, "s1", "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, first, repo.carts["u1"])
}

func TestReconcileKeepsGuestCartWhenRemoteWriteFails(t *testing.T) {
	uc, repo, guest, _ := newCartFixture()
	ctx := context.Background()

	guest.Set("s1", []cartdom.Item{{ProductID: "p1", Qty: 2, Price: 10}})
	repo.failSet = true

	_, err := uc.Reconcile(ctx, "s1", "u1")
	require.Error(t, err)
	assert.Len(t, guest.Get("s1"), 1)
}

func TestReconcileRequiresUserID(t *testing.T) {
	uc, _, _, _ := newCartFixture()
	_, err := uc.Reconcile(context.Background(), "s1", " ")
	assert.ErrorIs(t, err, ErrCartInvalidArgument)
}
