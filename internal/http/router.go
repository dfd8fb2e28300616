package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *StorefrontHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", h.Health)

	r.Get("/api/products", h.ListProducts)
	r.Post("/api/sessions", h.CreateSession)

	r.Route("/api/cart/{sessionId}", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productId}", h.SetQuantity)
		r.Delete("/items/{productId}", h.RemoveItem)
	})

	r.Route("/api/checkout/{sessionId}", func(r chi.Router) {
		r.Post("/", h.BeginCheckout)
		r.Delete("/", h.CancelCheckout)
		r.Patch("/fields", h.SetField)
		r.Post("/submit", h.Submit)
	})

	return r
}
