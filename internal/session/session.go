// Package session owns the per-visitor storefront state: one cart, and at
// most one in-progress checkout draft. Carts and drafts live only in
// memory; nothing here is persisted.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/arushkumarsingh/mellow/internal/cart"
	"github.com/arushkumarsingh/mellow/internal/checkout"
	"github.com/arushkumarsingh/mellow/internal/gateway"
)

var ErrNoCheckout = errors.New("no checkout in progress")

// Submitter is the slice of the gateway client the session needs.
type Submitter interface {
	Submit(ctx context.Context, payload gateway.OrderPayload) (gateway.Result, error)
}

// Outcome reports what a submission attempt did. FollowUp is true exactly
// once per successful submission; the UI uses it to raise the post-purchase
// prompt.
type Outcome struct {
	Succeeded   bool
	OrderID     string
	FieldErrors map[string]string
	FollowUp    bool

	// Payload is the order as submitted, captured before the cart is
	// cleared. Set only on success.
	Payload gateway.OrderPayload
}

// Session is single-owner, single-writer by construction: one visitor, one
// goroutine of intent. The mutex only guards against overlapping HTTP
// requests on the same session ID.
type Session struct {
	mu    sync.Mutex
	cart  *cart.Cart
	draft *checkout.Draft
}

func newSession() *Session {
	return &Session{cart: cart.New()}
}

// WithCart runs fn against the session's cart under the session lock.
func (s *Session) WithCart(fn func(c *cart.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart)
}

// BeginCheckout opens a fresh, empty draft. Re-entering checkout discards
// whatever was typed before.
func (s *Session) BeginCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = checkout.NewDraft()
}

// CancelCheckout discards the draft without side effects; the cart is
// untouched and no partial submission occurs. Cancelling with no draft open
// is a no-op.
func (s *Session) CancelCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

// SetField normalizes and validates one draft field, returning the value
// the form should display and the current error message for that field.
func (s *Session) SetField(field, raw string) (value, msg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return "", "", ErrNoCheckout
	}
	value, msg = s.draft.SetField(field, raw)
	return value, msg, nil
}

// Submit validates the whole draft and, if it is clean, hands the order to
// the gateway. Local failures and gateway field rejections both come back
// as per-field errors with the cart and draft intact for retry. Success
// clears the cart, closes the checkout, and raises the follow-up signal.
func (s *Session) Submit(ctx context.Context, submitter Submitter) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return Outcome{}, ErrNoCheckout
	}

	if !s.draft.ValidateAll() {
		return Outcome{FieldErrors: s.draft.FieldErrors()}, nil
	}

	payload := s.buildPayload()
	res, err := submitter.Submit(ctx, payload)
	if err != nil {
		// Transport failure: keep everything so the user can retry.
		return Outcome{}, err
	}

	if !res.Succeeded {
		s.draft.MergeRemoteErrors(res.FieldErrors)
		return Outcome{FieldErrors: s.draft.FieldErrors()}, nil
	}

	s.cart.Clear()
	s.draft = nil
	return Outcome{Succeeded: true, OrderID: payload.OrderID, FollowUp: true, Payload: payload}, nil
}

func (s *Session) buildPayload() gateway.OrderPayload {
	customer := make(map[string]string, len(checkout.RequiredFields))
	for _, field := range checkout.RequiredFields {
		customer[field] = s.draft.Values[field]
	}

	lines := s.cart.Lines()
	items := make([]gateway.OrderItem, 0, len(lines))
	for _, ln := range lines {
		items = append(items, gateway.OrderItem{
			ProductID: ln.Product.ID,
			Name:      ln.Product.Name,
			Quantity:  ln.Quantity,
			Price:     ln.Product.Price,
		})
	}

	return gateway.OrderPayload{
		OrderID:   uuid.NewString(),
		Customer:  customer,
		Items:     items,
		Subtotal:  s.cart.Subtotal(),
		Savings:   s.cart.TotalSavings(),
		ItemCount: s.cart.ItemCount(),
	}
}

// CheckoutOpen reports whether a draft is in progress.
func (s *Session) CheckoutOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft != nil
}

// Manager hands out sessions by ID. IDs are minted here so callers cannot
// invent colliding ones.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create mints a new session and returns its ID.
func (m *Manager) Create() string {
	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = newSession()
	m.mu.Unlock()
	return id
}

// Get returns the session for id, or false if the ID is unknown.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}
