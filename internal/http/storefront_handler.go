package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/arushkumarsingh/mellow/internal/cart"
	"github.com/arushkumarsingh/mellow/internal/catalog"
	"github.com/arushkumarsingh/mellow/internal/checkout"
	"github.com/arushkumarsingh/mellow/internal/events"
	"github.com/arushkumarsingh/mellow/internal/session"
)

// Free shipping banner threshold, same currency unit as product prices.
const freeShippingThreshold = 800

// OrderEventsPublisher emits the post-purchase follow-up event.
type OrderEventsPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev events.OrderPlaced) error
}

type StorefrontHandler struct {
	catalog   catalog.Repository
	sessions  *session.Manager
	submitter session.Submitter
	publisher OrderEventsPublisher
	logger    logrus.FieldLogger
}

func NewStorefrontHandler(
	repo catalog.Repository,
	sessions *session.Manager,
	submitter session.Submitter,
	publisher OrderEventsPublisher,
	logger logrus.FieldLogger,
) *StorefrontHandler {
	return &StorefrontHandler{
		catalog:   repo,
		sessions:  sessions,
		submitter: submitter,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *StorefrontHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}

func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("list products")
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *StorefrontHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": id})
}

// cartView is the cart as the UI displays it, totals derived on render.
type cartView struct {
	SessionID            string      `json:"sessionId"`
	Lines                []cart.Line `json:"lines"`
	Subtotal             int64       `json:"subtotal"`
	ItemCount            int         `json:"itemCount"`
	TotalSavings         int64       `json:"totalSavings"`
	FreeShippingEligible bool        `json:"freeShippingEligible"`
}

func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.resolveSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, id))
}

func (h *StorefrontHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	var body struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	product, err := h.catalog.Get(r.Context(), body.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.WithError(err).Error("load product")
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	sess.WithCart(func(c *cart.Cart) { c.Add(product) })
	writeJSON(w, http.StatusOK, viewOf(sess, id))
}

func (h *StorefrontHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	// Unknown product IDs are defined no-ops, never errors.
	productID := chi.URLParam(r, "productId")
	sess.WithCart(func(c *cart.Cart) { c.SetQuantity(productID, body.Quantity) })
	writeJSON(w, http.StatusOK, viewOf(sess, id))
}

func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	sess.WithCart(func(c *cart.Cart) { c.Remove(productID) })
	writeJSON(w, http.StatusOK, viewOf(sess, id))
}

func (h *StorefrontHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	sess.WithCart(func(c *cart.Cart) { c.Clear() })
	writeJSON(w, http.StatusOK, viewOf(sess, id))
}

func (h *StorefrontHandler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	var empty bool
	sess.WithCart(func(c *cart.Cart) { empty = c.IsEmpty() })
	if empty {
		writeError(w, http.StatusConflict, "cart is empty")
		return
	}

	sess.BeginCheckout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "checkout started"})
}

func (h *StorefrontHandler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	sess.CancelCheckout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "checkout cancelled"})
}

func (h *StorefrontHandler) SetField(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	var body struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Field == "" {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if !allowedFields[body.Field] {
		writeError(w, http.StatusBadRequest, "unknown field")
		return
	}

	value, msg, err := sess.SetField(body.Field, body.Value)
	if err != nil {
		writeError(w, http.StatusConflict, "no checkout in progress")
		return
	}

	// The normalized value goes back so the form can reflect it into the
	// input on every keystroke.
	writeJSON(w, http.StatusOK, map[string]string{
		"field": body.Field,
		"value": value,
		"error": msg,
	})
}

func (h *StorefrontHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.resolveSession(w, r)
	if !ok {
		return
	}

	out, err := sess.Submit(r.Context(), h.submitter)
	if err != nil {
		if errors.Is(err, session.ErrNoCheckout) {
			writeError(w, http.StatusConflict, "no checkout in progress")
			return
		}
		h.logger.WithError(err).Error("submit order")
		writeError(w, http.StatusBadGateway, "order submission failed, please retry")
		return
	}

	if !out.Succeeded {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": out.FieldErrors})
		return
	}

	// The order is already accepted; a broken broker must not undo that.
	// The follow-up prompt still reaches the user through the response.
	if err := h.publishOrderPlaced(r.Context(), id, out); err != nil {
		h.logger.WithError(err).WithField("orderId", out.OrderID).Error("publish OrderPlaced")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "placed",
		"orderId":  out.OrderID,
		"followUp": out.FollowUp,
	})
}

func (h *StorefrontHandler) publishOrderPlaced(ctx context.Context, sessionID string, out session.Outcome) error {
	ev := events.OrderPlaced{
		OrderID:   out.OrderID,
		SessionID: sessionID,
		Subtotal:  out.Payload.Subtotal,
	}
	for _, it := range out.Payload.Items {
		ev.Items = append(ev.Items, events.OrderItemEvent{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return h.publisher.PublishOrderPlaced(ctx, ev)
}

// resolveSession resolves {sessionId} or writes the error response itself.
func (h *StorefrontHandler) resolveSession(w http.ResponseWriter, r *http.Request) (*session.Session, string, bool) {
	id := chi.URLParam(r, "sessionId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sessionId")
		return nil, "", false
	}
	sess, ok := h.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, "", false
	}
	return sess, id, true
}

func viewOf(sess *session.Session, id string) cartView {
	var view cartView
	sess.WithCart(func(c *cart.Cart) {
		view = cartView{
			SessionID:            id,
			Lines:                c.Lines(),
			Subtotal:             c.Subtotal(),
			ItemCount:            c.ItemCount(),
			TotalSavings:         c.TotalSavings(),
			FreeShippingEligible: c.Subtotal() >= freeShippingThreshold,
		}
	})
	return view
}

// allowedFields guards the PATCH surface against typoed field names being
// silently accepted as valid.
var allowedFields = func() map[string]bool {
	m := make(map[string]bool, len(checkout.RequiredFields))
	for _, f := range checkout.RequiredFields {
		m[f] = true
	}
	return m
}()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
