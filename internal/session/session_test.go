package session

import (
	"context"
	"errors"
	"testing"

	"github.com/arushkumarsingh/mellow/internal/cart"
	"github.com/arushkumarsingh/mellow/internal/catalog"
	"github.com/arushkumarsingh/mellow/internal/checkout"
	"github.com/arushkumarsingh/mellow/internal/gateway"
)

type SubmitterMock struct {
	SubmitFunc  func(ctx context.Context, payload gateway.OrderPayload) (gateway.Result, error)
	submitCalls []gateway.OrderPayload
}

func (m *SubmitterMock) Submit(ctx context.Context, payload gateway.OrderPayload) (gateway.Result, error) {
	m.submitCalls = append(m.submitCalls, payload)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, payload)
	}
	return gateway.Result{Succeeded: true}, nil
}

func fillDraft(t *testing.T, s *Session) {
	t.Helper()
	fields := map[string]string{
		checkout.FieldName:    "Arjun Mehta",
		checkout.FieldMobile:  "9876543210",
		checkout.FieldAddress: "42 MG Road, Indiranagar",
		checkout.FieldCity:    "Bengaluru",
		checkout.FieldPincode: "560038",
		checkout.FieldState:   "Karnataka",
		checkout.FieldGender:  "male",
	}
	for field, value := range fields {
		if _, msg, err := s.SetField(field, value); err != nil || msg != "" {
			t.Fatalf("set %s: err=%v msg=%q", field, err, msg)
		}
	}
}

func sessionWithCart(t *testing.T) *Session {
	t.Helper()
	s := newSession()
	s.WithCart(func(c *cart.Cart) {
		c.Add(catalog.Product{ID: "tshirt-1", Name: "Ghost Buster Tshirt", Price: 699, OriginalPrice: 1399})
		c.Add(catalog.Product{ID: "tshirt-1", Name: "Ghost Buster Tshirt", Price: 699, OriginalPrice: 1399})
		c.Add(catalog.Product{ID: "tshirt-2", Name: "Music lover Tshirt", Price: 699, OriginalPrice: 1399})
	})
	return s
}

func TestSetFieldRequiresCheckout(t *testing.T) {
	s := newSession()
	if _, _, err := s.SetField(checkout.FieldName, "Arjun"); !errors.Is(err, ErrNoCheckout) {
		t.Fatalf("expected ErrNoCheckout, got %v", err)
	}
}

func TestSubmitRequiresCheckout(t *testing.T) {
	s := newSession()
	if _, err := s.Submit(context.Background(), &SubmitterMock{}); !errors.Is(err, ErrNoCheckout) {
		t.Fatalf("expected ErrNoCheckout, got %v", err)
	}
}

func TestSubmitBlocksOnLocalErrors(t *testing.T) {
	s := sessionWithCart(t)
	s.BeginCheckout()
	fillDraft(t, s)
	if _, msg, _ := s.SetField(checkout.FieldMobile, "1234567890"); msg == "" {
		t.Fatalf("expected mobile error")
	}

	submitter := &SubmitterMock{}
	out, err := s.Submit(context.Background(), submitter)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Succeeded || out.FollowUp {
		t.Fatalf("invalid draft submitted: %+v", out)
	}
	if out.FieldErrors[checkout.FieldMobile] == "" {
		t.Fatalf("missing mobile error: %+v", out.FieldErrors)
	}
	if len(submitter.submitCalls) != 0 {
		t.Fatalf("gateway called despite local errors")
	}
}

func TestSubmitSuccessClearsCartAndSignalsFollowUpOnce(t *testing.T) {
	s := sessionWithCart(t)
	s.BeginCheckout()
	fillDraft(t, s)

	submitter := &SubmitterMock{}
	out, err := s.Submit(context.Background(), submitter)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !out.Succeeded || !out.FollowUp {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.OrderID == "" {
		t.Fatalf("missing order id")
	}

	if len(submitter.submitCalls) != 1 {
		t.Fatalf("gateway called %d times", len(submitter.submitCalls))
	}
	payload := submitter.submitCalls[0]
	if payload.Subtotal != 2097 || payload.ItemCount != 3 || len(payload.Items) != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Customer[checkout.FieldName] != "Arjun Mehta" {
		t.Fatalf("unexpected customer: %+v", payload.Customer)
	}

	var empty bool
	s.WithCart(func(c *cart.Cart) { empty = c.IsEmpty() })
	if !empty {
		t.Fatalf("cart not cleared after success")
	}
	if s.CheckoutOpen() {
		t.Fatalf("checkout still open after success")
	}

	// A second submit on the closed checkout cannot re-raise the follow-up.
	if _, err := s.Submit(context.Background(), submitter); !errors.Is(err, ErrNoCheckout) {
		t.Fatalf("expected ErrNoCheckout after success, got %v", err)
	}
}

func TestSubmitMergesRemoteFieldErrors(t *testing.T) {
	s := sessionWithCart(t)
	s.BeginCheckout()
	fillDraft(t, s)

	submitter := &SubmitterMock{SubmitFunc: func(ctx context.Context, payload gateway.OrderPayload) (gateway.Result, error) {
		return gateway.Result{FieldErrors: map[string]string{checkout.FieldPincode: "Delivery not available for this pincode"}}, nil
	}}

	out, err := s.Submit(context.Background(), submitter)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Succeeded || out.FollowUp {
		t.Fatalf("rejected order reported success: %+v", out)
	}
	if out.FieldErrors[checkout.FieldPincode] != "Delivery not available for this pincode" {
		t.Fatalf("remote error not surfaced: %+v", out.FieldErrors)
	}

	// Rejection keeps the entered data and the cart for retry.
	var empty bool
	s.WithCart(func(c *cart.Cart) { empty = c.IsEmpty() })
	if empty {
		t.Fatalf("cart cleared on rejection")
	}
	if !s.CheckoutOpen() {
		t.Fatalf("checkout closed on rejection")
	}
}

func TestSubmitTransportErrorKeepsState(t *testing.T) {
	s := sessionWithCart(t)
	s.BeginCheckout()
	fillDraft(t, s)

	submitter := &SubmitterMock{SubmitFunc: func(ctx context.Context, payload gateway.OrderPayload) (gateway.Result, error) {
		return gateway.Result{}, errors.New("gateway unreachable")
	}}

	if _, err := s.Submit(context.Background(), submitter); err == nil {
		t.Fatalf("expected transport error")
	}
	if !s.CheckoutOpen() {
		t.Fatalf("checkout closed on transport error")
	}
	var empty bool
	s.WithCart(func(c *cart.Cart) { empty = c.IsEmpty() })
	if empty {
		t.Fatalf("cart cleared on transport error")
	}
}

func TestCancelCheckoutDiscardsDraftOnly(t *testing.T) {
	s := sessionWithCart(t)
	s.BeginCheckout()
	fillDraft(t, s)

	s.CancelCheckout()
	if s.CheckoutOpen() {
		t.Fatalf("draft survived cancel")
	}
	var count int
	s.WithCart(func(c *cart.Cart) { count = c.ItemCount() })
	if count != 3 {
		t.Fatalf("cancel touched the cart: %d items", count)
	}

	// Re-entering checkout starts from a clean draft.
	s.BeginCheckout()
	if _, msg, err := s.SetField(checkout.FieldName, ""); err != nil || msg == "" {
		t.Fatalf("expected required error on fresh draft, got err=%v msg=%q", err, msg)
	}
}

func TestManager(t *testing.T) {
	m := NewManager()

	id := m.Create()
	if id == "" {
		t.Fatalf("empty session id")
	}
	if _, ok := m.Get(id); !ok {
		t.Fatalf("created session not found")
	}
	if _, ok := m.Get("unknown"); ok {
		t.Fatalf("unknown id resolved")
	}

	if other := m.Create(); other == id {
		t.Fatalf("duplicate session ids")
	}
}
