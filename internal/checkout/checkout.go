// Package checkout drives the transition from an anonymous, client-held cart
// to a server-persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"todecor/internal/cart"
	"todecor/internal/domain"
	"todecor/internal/pricing"
)

// State of a checkout session. Submission is serialized behind Submitting:
// a second submit while one is in flight is rejected, never raced.
type State string

const (
	StateFormEditing State = "form_editing"
	StateSubmitting  State = "submitting"
	StateSucceeded   State = "succeeded"
	StateFailed      State = "failed"
)

var (
	// ErrUnauthenticated routes the caller to login with a return path.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrEmptyCart routes the caller back to the catalog.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmitInFlight rejects a second submit while one is running.
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrCompleted rejects a submit on an already succeeded checkout.
	ErrCompleted = errors.New("checkout already completed")
	// ErrInvalidForm wraps required-field validation failures.
	ErrInvalidForm = errors.New("invalid form")
)

// Identity resolves the current authenticated user from a request token.
type Identity interface {
	Current(ctx context.Context, token string) (*domain.User, error)
}

// ProfileStore reads and upserts the saved customer profile.
type ProfileStore interface {
	GetByID(ctx context.Context, userID string) (*domain.Profile, error)
	Upsert(ctx context.Context, p domain.Profile) error
}

// OrderStore writes the order header and its lines. CreateDraft inserts the
// header in draft status; MarkPending flips it once every line has landed.
type OrderStore interface {
	CreateDraft(ctx context.Context, o domain.Order) (*domain.Order, error)
	AddLine(ctx context.Context, l domain.OrderLine) error
	MarkPending(ctx context.Context, orderID string) error
}

// Form carries the fields the customer edits on the checkout page.
type Form struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// Validate enforces required-field presence. It runs at submission time only;
// the form is otherwise free-edit.
func (f Form) Validate() error {
	switch {
	case f.FirstName == "":
		return errors.New("first name required")
	case f.LastName == "":
		return errors.New("last name required")
	case f.Email == "":
		return errors.New("email required")
	case f.Phone == "":
		return errors.New("phone required")
	case f.Address == "":
		return errors.New("address required")
	case f.City == "":
		return errors.New("city required")
	}
	if f.PaymentMethod != domain.PaymentTransfer && f.PaymentMethod != domain.PaymentCash {
		return fmt.Errorf("unsupported payment method %q", f.PaymentMethod)
	}
	return nil
}

// Checkout is a per-session orchestrator. It holds no cart state of its own;
// the cart store stays authoritative until the order is fully created.
type Checkout struct {
	identity Identity
	profiles ProfileStore
	orders   OrderStore
	engine   *pricing.Engine
	logger   *log.Logger
	now      func() time.Time

	mu      sync.Mutex
	state   State
	lastErr error
	orderID string
}

// New builds a checkout session in FormEditing.
func New(identity Identity, profiles ProfileStore, orders OrderStore, engine *pricing.Engine, logger *log.Logger) *Checkout {
	return &Checkout{
		identity: identity,
		profiles: profiles,
		orders:   orders,
		engine:   engine,
		logger:   logger,
		now:      time.Now,
		state:    StateFormEditing,
	}
}

// State reports the current state; LastErr the failure captured by it.
func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Checkout) LastErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// OrderID returns the created order's id once the checkout has succeeded.
func (c *Checkout) OrderID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderID
}

// Begin gates entry to the checkout page. It authenticates, enforces the
// non-empty-cart guard and returns the form prefilled from the saved profile,
// or from the identity's email alone when no profile exists yet. Succeeded is
// terminal for one checkout attempt only: entering the page again with a
// fresh non-empty cart starts the next attempt in FormEditing.
func (c *Checkout) Begin(ctx context.Context, token string, store *cart.Store) (Form, error) {
	user, err := c.identity.Current(ctx, token)
	if err != nil {
		return Form{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	lines := store.Lines()
	c.mu.Lock()
	if c.state == StateSucceeded && len(lines) > 0 {
		c.state = StateFormEditing
		c.orderID = ""
		c.lastErr = nil
	}
	state := c.state
	c.mu.Unlock()
	if len(lines) == 0 && state != StateSubmitting && state != StateSucceeded {
		return Form{}, ErrEmptyCart
	}

	form := Form{Email: user.Email, PaymentMethod: domain.PaymentTransfer}
	profile, err := c.profiles.GetByID(ctx, user.ID)
	switch {
	case err == nil && profile != nil:
		form.FirstName = profile.FirstName
		form.LastName = profile.LastName
		form.Phone = profile.Phone
		form.Address = profile.Address
		form.City = profile.City
		form.PostalCode = profile.PostalCode
	case errors.Is(err, domain.ErrNotFound):
		// first order: email prefill only
	default:
		if c.logger != nil {
			c.logger.Printf("checkout: profile load failed, prefilling email only: %v", err)
		}
	}
	return form, nil
}

// Submit runs the submission sequence: re-check identity, upsert the profile,
// create the draft order header with totals computed now, write one order
// line per cart line in cart order, flip the order to pending, then clear the
// cart. The first failing write aborts the rest; nothing already written is
// rolled back, the cart stays intact, and the checkout returns to FormEditing
// for a retry.
func (c *Checkout) Submit(ctx context.Context, token string, store *cart.Store, form Form) (*domain.Order, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StateSucceeded:
		c.mu.Unlock()
		return nil, ErrCompleted
	}
	c.state = StateSubmitting
	c.lastErr = nil
	c.mu.Unlock()

	user, err := c.identity.Current(ctx, token)
	if err != nil {
		c.setState(StateFormEditing, nil)
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	lines := store.Lines()
	if len(lines) == 0 {
		c.setState(StateFormEditing, nil)
		return nil, ErrEmptyCart
	}

	if err := form.Validate(); err != nil {
		c.setState(StateFormEditing, nil)
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	order, err := c.submit(ctx, user, lines, form)
	if err != nil {
		c.setState(StateFailed, err)
		return nil, err
	}

	// Only a fully created order clears the cart; a failed submission must
	// leave every line in place for the retry.
	store.Clear()

	c.mu.Lock()
	c.state = StateSucceeded
	c.orderID = order.ID
	c.mu.Unlock()
	return order, nil
}

func (c *Checkout) submit(ctx context.Context, user *domain.User, lines []cart.Line, form Form) (*domain.Order, error) {
	if err := c.profiles.Upsert(ctx, domain.Profile{
		UserID:     user.ID,
		Email:      form.Email,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Phone:      form.Phone,
		Address:    form.Address,
		City:       form.City,
		PostalCode: form.PostalCode,
	}); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	totals := c.engine.Totals(lines)
	order, err := c.orders.CreateDraft(ctx, domain.Order{
		UserID:             user.ID,
		OrderNumber:        orderNumber(c.now()),
		TotalAmount:        totals.Subtotal,
		VATAmount:          totals.Tax,
		Status:             domain.OrderStatusDraft,
		PaymentMethod:      form.PaymentMethod,
		DeliveryAddress:    form.Address,
		DeliveryCity:       form.City,
		DeliveryPostalCode: form.PostalCode,
		Notes:              form.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for _, l := range lines {
		if err := c.orders.AddLine(ctx, domain.OrderLine{
			OrderID:   order.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.Price,
			Size:      l.Size,
			Color:     l.Color,
		}); err != nil {
			return nil, fmt.Errorf("create order line for %s: %w", l.ProductID, err)
		}
	}

	if err := c.orders.MarkPending(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("finalize order: %w", err)
	}
	order.Status = domain.OrderStatusPending
	return order, nil
}

func (c *Checkout) setState(s State, err error) {
	c.mu.Lock()
	c.state = s
	c.lastErr = err
	c.mu.Unlock()
	if err != nil && c.logger != nil {
		c.logger.Printf("checkout: submission failed: %v", err)
	}
}

// orderNumber generates a human-readable, time-based order number. Submissions
// from different sessions can land in the same millisecond, and order_number
// is unique in the database, so a random suffix keeps concurrent checkouts
// from colliding.
func orderNumber(t time.Time) string {
	return fmt.Sprintf("CMD-%d-%04X", t.UnixMilli(), rand.Intn(0x10000))
}
