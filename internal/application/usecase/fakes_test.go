package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	cartdom "caterhub/internal/domain/cart"
	orderdom "caterhub/internal/domain/order"
	productdom "caterhub/internal/domain/product"
	userdom "caterhub/internal/domain/user"
)

var errStorageUnavailable = errors.New("storage unavailable")

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// ----------------------------------------
// cart.Repository fake (remote cart)
// ----------------------------------------

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[string][]cartdom.Item

	failGet bool
	failSet bool
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string][]cartdom.Item{}}
}

func (r *fakeCartRepo) GetByUserID(_ context.Context, userID string) (*cartdom.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet {
		return nil, errStorageUnavailable
	}
	items := append([]cartdom.Item{}, r.carts[userID]...)
	return &cartdom.Cart{ID: userID, Items: items}, nil
}

func (r *fakeCartRepo) AddItem(_ context.Context, userID string, item cartdom.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSet {
		return errStorageUnavailable
	}
	// set-union: an identical element is not appended twice
	for _, it := range r.carts[userID] {
		if it == item {
			return nil
		}
	}
	r.carts[userID] = append(r.carts[userID], item)
	return nil
}

func (r *fakeCartRepo) RemoveItem(_ context.Context, userID string, item cartdom.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.carts[userID][:0]
	for _, it := range r.carts[userID] {
		if it != item {
			out = append(out, it)
		}
	}
	r.carts[userID] = out
	return nil
}

func (r *fakeCartRepo) SetItems(_ context.Context, userID string, items []cartdom.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSet {
		return errStorageUnavailable
	}
	r.carts[userID] = append([]cartdom.Item{}, items...)
	return nil
}

func (r *fakeCartRepo) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSet {
		return errStorageUnavailable
	}
	r.carts[userID] = []cartdom.Item{}
	return nil
}

// ----------------------------------------
// cart.GuestStore fake
// ----------------------------------------

type fakeGuestStore struct {
	mu    sync.Mutex
	carts map[string][]cartdom.Item
}

func newFakeGuestStore() *fakeGuestStore {
	return &fakeGuestStore{carts: map[string][]cartdom.Item{}}
}

func (s *fakeGuestStore) Get(sessionID string) []cartdom.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cartdom.Item{}, s.carts[sessionID]...)
}

func (s *fakeGuestStore) Set(sessionID string, items []cartdom.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = append([]cartdom.Item{}, items...)
}

func (s *fakeGuestStore) AddItem(sessionID string, item cartdom.Item) []cartdom.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := cartdom.Merge(s.carts[sessionID], []cartdom.Item{item})
	s.carts[sessionID] = items
	return append([]cartdom.Item{}, items...)
}

func (s *fakeGuestStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = []cartdom.Item{}
}

// ----------------------------------------
// order.Repository fake
// ----------------------------------------

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*orderdom.Order
	seq    int

	failCreate bool

	// productID -> applied rating values, recorded by RateItemTx
	ratings map[string][]int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*orderdom.Order{}, ratings: map[string][]int{}}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *orderdom.Order) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return "", errStorageUnavailable
	}
	r.seq++
	id := fmt.Sprintf("order-%d", r.seq)
	cp := *o
	cp.ID = id
	r.orders[id] = &cp
	return id, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = append([]orderdom.Item{}, o.Items...)
	return &cp, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status orderdom.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return errStorageUnavailable
	}
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) ListByBuyer(_ context.Context, buyerID string) ([]*orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*orderdom.Order{}
	for _, o := range r.orders {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListBySeller(_ context.Context, sellerID string) ([]*orderdom.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*orderdom.Order{}
	for _, o := range r.orders {
		if o.SellerID == sellerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) RateItemTx(_ context.Context, orderID, productID string, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return errStorageUnavailable
	}
	if err := o.RateItem(productID, value, testNow); err != nil {
		return err
	}
	r.ratings[productID] = append(r.ratings[productID], value)
	return nil
}

// ----------------------------------------
// user.Repository fake
// ----------------------------------------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*userdom.Profile

	failUpdate bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*userdom.Profile{}}
}

func (r *fakeUserRepo) GetByUID(_ context.Context, uid string) (*userdom.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.users[uid]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeUserRepo) Ensure(_ context.Context, p *userdom.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.users[p.UID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, uid string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate {
		return errStorageUnavailable
	}
	p, ok := r.users[uid]
	if !ok {
		return errStorageUnavailable
	}
	for k, v := range fields {
		switch k {
		case "role":
			p.Role = userdom.Role(v.(string))
		case "requestedRole":
			if v == nil {
				p.RequestedRole = ""
			} else {
				p.RequestedRole = v.(string)
			}
		case "isActive":
			p.IsActive = v.(bool)
		case "phone":
			p.Phone = v.(string)
		case "name":
			p.Name = v.(string)
		case "address":
			p.Address = v.(string)
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, uid)
	return nil
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]*userdom.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*userdom.Profile{}
	for _, p := range r.users {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeUserRepo) ListSellerRequests(_ context.Context) ([]*userdom.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*userdom.Profile{}
	for _, p := range r.users {
		if p.RequestedRole == string(userdom.RoleSeller) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ----------------------------------------
// product.Repository fake
// ----------------------------------------

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*productdom.Product
	seq      int

	failList bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*productdom.Product{}}
}

func (r *fakeProductRepo) Create(_ context.Context, p *productdom.Product) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("prod-%d", r.seq)
	cp := *p
	cp.ID = id
	r.products[id] = &cp
	return id, nil
}

func (r *fakeProductRepo) Update(_ context.Context, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errStorageUnavailable
	}
	if v, ok := fields["isActive"]; ok {
		p.IsActive = v.(bool)
	}
	if v, ok := fields["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := fields["price"]; ok {
		p.Price = v.(float64)
	}
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]*productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errStorageUnavailable
	}
	out := []*productdom.Product{}
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) ListBySeller(_ context.Context, sellerID string) ([]*productdom.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*productdom.Product{}
	for _, p := range r.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ----------------------------------------
// Mailer fake
// ----------------------------------------

type sentMail struct {
	kind string
	to   string
	ref  string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (m *fakeMailer) record(kind, to, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStorageUnavailable
	}
	m.sent = append(m.sent, sentMail{kind: kind, to: to, ref: ref})
	return nil
}

func (m *fakeMailer) SendSellerApproved(_ context.Context, to, _ string) error {
	return m.record("seller-approved", to, "")
}

func (m *fakeMailer) SendOrderStatus(_ context.Context, to, _ string, orderID string, status orderdom.Status) error {
	return m.record("order-status", to, orderID+":"+string(status))
}

func (m *fakeMailer) SendVerificationLink(_ context.Context, to, _ string, link string) error {
	return m.record("verification", to, link)
}

func (m *fakeMailer) SendPasswordResetLink(_ context.Context, to, link string) error {
	return m.record("password-reset", to, link)
}

// ----------------------------------------
// settings fakes
// ----------------------------------------

type fakeSettingsRepo struct {
	mu     sync.Mutex
	secret string
	fail   bool
}

func (r *fakeSettingsRepo) GetAdminSecret(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return "", errStorageUnavailable
	}
	return r.secret, nil
}

func (r *fakeSettingsRepo) SetAdminSecret(_ context.Context, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errStorageUnavailable
	}
	r.secret = secret
	return nil
}

type fakeSecretProvider struct {
	value string
	err   error
}

func (p *fakeSecretProvider) Access(_ context.Context, _ string) (string, error) {
	return p.value, p.err
}
