package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"todecor/internal/cart"
	"todecor/internal/domain"
	"todecor/internal/pricing"
)

type stubIdentity struct {
	user *domain.User
	err  error
}

func (s *stubIdentity) Current(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.err
}

type stubProfiles struct {
	profile    *domain.Profile
	getErr     error
	upsertErr  error
	upserted   []domain.Profile
	upsertGate chan struct{}
}

func (s *stubProfiles) GetByID(_ context.Context, _ string) (*domain.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.profile, nil
}

func (s *stubProfiles) Upsert(_ context.Context, p domain.Profile) error {
	if s.upsertGate != nil {
		<-s.upsertGate
	}
	s.upserted = append(s.upserted, p)
	return s.upsertErr
}

type stubOrders struct {
	createErr   error
	lineErrAt   int // fail AddLine on this 1-based call, 0 = never
	pendingErr  error
	created     []domain.Order
	lines       []domain.OrderLine
	pendingIDs  []string
	addLineCall int
}

func (s *stubOrders) CreateDraft(_ context.Context, o domain.Order) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	o.ID = "order-1"
	s.created = append(s.created, o)
	return &o, nil
}

func (s *stubOrders) AddLine(_ context.Context, l domain.OrderLine) error {
	s.addLineCall++
	if s.lineErrAt != 0 && s.addLineCall >= s.lineErrAt {
		return errors.New("insert order_items failed")
	}
	s.lines = append(s.lines, l)
	return nil
}

func (s *stubOrders) MarkPending(_ context.Context, orderID string) error {
	if s.pendingErr != nil {
		return s.pendingErr
	}
	s.pendingIDs = append(s.pendingIDs, orderID)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testStore(t *testing.T, lines ...cart.Line) *cart.Store {
	t.Helper()
	s := cart.NewStore(cart.NewMemoryPersistence(), nil)
	for _, l := range lines {
		s.Add(l)
	}
	return s
}

func validForm() Form {
	return Form{
		FirstName:     "Amira",
		LastName:      "Ben Salah",
		Email:         "amira@example.com",
		Phone:         "+216 20 000 000",
		Address:       "12 Rue des Oliviers",
		City:          "Tunis",
		PostalCode:    "1002",
		PaymentMethod: domain.PaymentTransfer,
	}
}

func newCheckout(id Identity, p ProfileStore, o OrderStore) *Checkout {
	return New(id, p, o, pricing.New(), nil)
}

func TestBegin_UnauthenticatedRedirects(t *testing.T) {
	c := newCheckout(&stubIdentity{err: errors.New("no session")}, &stubProfiles{}, &stubOrders{})
	_, err := c.Begin(context.Background(), "", testStore(t, cart.Line{ID: "l1", ProductID: "p1", Quantity: 1, Price: dec("10")}))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestBegin_EmptyCartNeverReachesForm(t *testing.T) {
	c := newCheckout(&stubIdentity{user: &domain.User{ID: "u1", Email: "amira@example.com"}}, &stubProfiles{}, &stubOrders{})
	_, err := c.Begin(context.Background(), "tok", testStore(t))
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestBegin_PrefillsFromProfile(t *testing.T) {
	profiles := &stubProfiles{profile: &domain.Profile{
		UserID: "u1", FirstName: "Amira", LastName: "Ben Salah",
		Phone: "123", Address: "Rue X", City: "Tunis", PostalCode: "1002",
	}}
	c := newCheckout(&stubIdentity{user: &domain.User{ID: "u1", Email: "amira@example.com"}}, profiles, &stubOrders{})

	form, err := c.Begin(context.Background(), "tok", testStore(t, cart.Line{ID: "l1", ProductID: "p1", Quantity: 1, Price: dec("10")}))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if form.FirstName != "Amira" || form.City != "Tunis" || form.Email != "amira@example.com" {
		t.Fatalf("expected profile prefill, got %+v", form)
	}
}

func TestBegin_NoProfilePrefillsEmailOnly(t *testing.T) {
	c := newCheckout(&stubIdentity{user: &domain.User{ID: "u1", Email: "amira@example.com"}}, &stubProfiles{getErr: domain.ErrNotFound}, &stubOrders{})

	form, err := c.Begin(context.Background(), "tok", testStore(t, cart.Line{ID: "l1", ProductID: "p1", Quantity: 1, Price: dec("10")}))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if form.Email != "amira@example.com" || form.FirstName != "" {
		t.Fatalf("expected email-only prefill, got %+v", form)
	}
}

func TestSubmit_Success(t *testing.T) {
	profiles := &stubProfiles{}
	orders := &stubOrders{}
	c := newCheckout(&stubIdentity{user: &domain.User{ID: "u1", Email: "amira@example.com"}}, profiles, orders)

	store := testStore(t,
		cart.Line{ID: "l1", ProductID: "p1", Quantity: 3, Price: dec("100"), Size: "M"},
		cart.Line{ID: "l2", ProductID: "p2", Quantity: 1, Price: dec("45.50"), Color: "blue"},
	)
	wantTotals := pricing.New().Totals(store.Lines())

	order, err := c.Submit(context.Background(), "tok", store, validForm())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(store.Lines()) != 0 {
		t.Fatal("cart must be cleared after a successful submission")
	}
	if c.State() != StateSucceeded || c.OrderID() != "order-1" {
		t.Fatalf("expected succeeded state with order id, got %s %q", c.State(), c.OrderID())
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if len(orders.pendingIDs) != 1 || orders.pendingIDs[0] != "order-1" {
		t.Fatalf("order must be flipped to pending, got %v", orders.pendingIDs)
	}
	if len(orders.lines) != 2 || orders.lines[0].ProductID != "p1" || orders.lines[1].ProductID != "p2" {
		t.Fatalf("order lines must be written in cart order, got %+v", orders.lines)
	}
	if got := order.TotalAmount.Add(order.VATAmount); !got.Equal(wantTotals.GrandTotal) {
		t.Fatalf("order total %s must equal engine grand total %s at submit time", got, wantTotals.GrandTotal)
	}
	if len(profiles.upserted) != 1 || profiles.upserted[0].UserID != "u1" {
		t.Fatalf("profile must be upserted, got %+v", profiles.upserted)
	}
	if order.OrderNumber == "" {
		t.Fatal("expected generated order number")
	}
}

func TestSubmit_SecondLineFailureLeavesDraftAndCart(t *testing.T) {
	orders := &stubOrders{lineErrAt: 2}
	c := newCheckout(&stubIdentity{user: &domain.User{ID: "u1", Email: "a@b.c"}}, &stubProfiles{}, orders)

	store := testStore(t,
		cart.Line{ID: "l1", ProductID: "p1", Quantity: 1, Price: dec("100")},
		cart.Line{ID: "l2", ProductID: "p2", Quantity: 2, Price: dec("50")},
	)

	_, err := c.Submit(context.Background(), "tok", store, validForm())
	if err == nil {
		t.Fatal("expected submission failure")
	}
	if c.State() != StateFailed {
		t.Fatalf("expected failed state, got %s", c.State())
	}
	// Header exists with exactly the one line that landed; no rollback.
	if len(orders.created) != 1 {
		t.Fatalf("expected 1 order header, got %d", len(orders.created))
	}
	if orders.created[0].Status != domain.OrderStatusDraft {
		t.Fatalf("failed order must stay draft, got %s", orders.created[0].Status)
	}
	if len(orders.lines) != 1 || orders.lines[0].ProductID != "p1" {
		t.Fatalf("expected exactly the first line persisted, got %+v", orders.lines)
	}
	if len(orders.pendingIDs) != 0 {
		t.Fatal("a failed order must never be flipped to pending")
	}
	// Cart untouched for the retry.
	if got := store.Lines(); len(got) != 2 {
		t.Fatalf("cart must keep both lines after failure, got %d", len(got))
	}
}

func TestSubmit_AuthLossRoutesToLogin(t *testing.T) {
	id := &stubIdentity{err: errors.New("token expired")}
	c := newCheckout(id, &stubProfiles{}, &stubOrders{})
	store := testStore(t, cart.Line{ID: "l1", ProductID: "p1", Quantity: 1, Price: dec("10")})

	_, err := c.Submit(context.Background(), "tok", store, validForm())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(store.Lines()) != 1 {
		t.Fatal("cart must survive an auth loss")
	}
}

func TestSubmit_MissingFieldRejected(t *testing.T) {
	c := newCheckout(&stubIdentity{user: &domain.User{ID: "u1"}}, &stubProfiles{}, &stubOrders{})
	store := testStore(t, cart.Line{ID: "l1", ProductID: "p1", Quantity: 1, Price: dec("10")})

	form := validForm()
	form.Phone = ""
	if _, err := c.Submit(context.Background(), "tok", store, form); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm, got %v", err)
	}
	if c.State() != StateFormEditing {
		t.Fatalf("validation failure returns to form editing, got %s", c.State())
	}
}

func TestSubmit_SecondSubmitWhileInFlightIsRejected(t *testing.T) {
	gate := make(chan struct{})
	profiles := &stubProfiles{upsertGate: gate}
	c := newCheckout(&stubIdentity{user: &domain.User{ID: "u1", Email: "a@b.c"}}, profiles, &stubOrders{})
	store := testStore(t, cart.Line{ID: "l1", ProductID: "p1", Quantity: 1, Price: dec("10")})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := c.Submit(context.Background(), "tok", store, validForm()); err != nil {
			t.Errorf("first submit: %v", err)
		}
	}()

	for c.State() != StateSubmitting {
		time.Sleep(time.Millisecond)
	}
	if _, err := c.Submit(context.Background(), "tok", store, validForm()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(gate)
	wg.Wait()
}

func TestSubmit_RetryAfterFailureSucceeds(t *testing.T) {
	orders := &stubOrders{lineErrAt: 1}
	c := newCheckout(&stubIdentity{user: &domain.User{ID: "u1", Email: "a@b.c"}}, &stubProfiles{}, orders)
	store := testStore(t, cart.Line{ID: "l1", ProductID: "p1", Quantity: 1, Price: dec("10")})

	if _, err := c.Submit(context.Background(), "tok", store, validForm()); err == nil {
		t.Fatal("expected first submit to fail")
	}

	orders.lineErrAt = 0
	if _, err := c.Submit(context.Background(), "tok", store, validForm()); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if c.State() != StateSucceeded {
		t.Fatalf("expected succeeded after retry, got %s", c.State())
	}
}

func TestBegin_AfterSuccessStartsNextOrder(t *testing.T) {
	orders := &stubOrders{}
	c := newCheckout(&stubIdentity{user: &domain.User{ID: "u1", Email: "a@b.c"}}, &stubProfiles{}, orders)
	store := testStore(t, cart.Line{ID: "l1", ProductID: "p1", Quantity: 1, Price: dec("10")})

	if _, err := c.Submit(context.Background(), "tok", store, validForm()); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// Same session, new purchase: re-entering checkout with a fresh cart
	// must leave the succeeded attempt behind.
	store.Add(cart.Line{ID: "l2", ProductID: "p2", Quantity: 2, Price: dec("25")})
	if _, err := c.Begin(context.Background(), "tok", store); err != nil {
		t.Fatalf("begin after success: %v", err)
	}
	if c.State() != StateFormEditing {
		t.Fatalf("expected form editing after re-entry, got %s", c.State())
	}
	if c.OrderID() != "" {
		t.Fatalf("expected the previous order id to be cleared, got %q", c.OrderID())
	}

	if _, err := c.Submit(context.Background(), "tok", store, validForm()); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if len(orders.created) != 2 {
		t.Fatalf("expected 2 orders created, got %d", len(orders.created))
	}
	if got := store.Lines(); len(got) != 0 {
		t.Fatalf("expected the cart cleared after the second order, got %+v", got)
	}
}

func TestBegin_AfterSuccessWithEmptyCartKeepsConfirmation(t *testing.T) {
	c := newCheckout(&stubIdentity{user: &domain.User{ID: "u1", Email: "a@b.c"}}, &stubProfiles{}, &stubOrders{})
	store := testStore(t, cart.Line{ID: "l1", ProductID: "p1", Quantity: 1, Price: dec("10")})

	if _, err := c.Submit(context.Background(), "tok", store, validForm()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// The confirmation page re-enters checkout with the cart already
	// cleared; that must not bounce to the catalog or drop the order id.
	if _, err := c.Begin(context.Background(), "tok", store); err != nil {
		t.Fatalf("begin on confirmation: %v", err)
	}
	if c.State() != StateSucceeded || c.OrderID() == "" {
		t.Fatalf("expected the succeeded attempt to survive, state=%s id=%q", c.State(), c.OrderID())
	}
}

func TestOrderNumber_SameMillisecondDistinct(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	first := orderNumber(at)
	if !strings.HasPrefix(first, "CMD-1700000000000-") {
		t.Fatalf("unexpected order number format: %s", first)
	}

	seen := map[string]bool{first: true}
	for i := 0; i < 32; i++ {
		n := orderNumber(at)
		if !seen[n] {
			return
		}
	}
	t.Fatal("expected order numbers at the same timestamp to differ")
}
