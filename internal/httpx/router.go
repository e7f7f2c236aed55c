package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health)

	r.Route("/products", func(r chi.Router) {
		r.Post("/", handler.CreateProduct)
		r.Get("/", handler.ListProducts)
		r.Get("/search", handler.SearchProducts)
		r.Get("/{id}", handler.GetProduct)
		r.Patch("/{id}", handler.UpdateProduct)
		r.Delete("/{id}", handler.DeleteProduct)
		r.Post("/{id}/reviews", handler.CreateReview)
		r.Get("/{id}/reviews", handler.ListProductReviews)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", handler.CreateOrder)
		r.Get("/", handler.ListOrders)
		r.Get("/statistics", handler.OrderStatistics)
		r.Get("/{id}", handler.GetOrder)
		r.Patch("/{id}/status", handler.UpdateOrderStatus)
		r.Post("/{id}/cancel", handler.CancelOrder)
		r.Get("/{id}/payments", handler.ListOrderPayments)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddCartItem)
		r.Patch("/items/{itemID}", handler.UpdateCartItem)
		r.Delete("/items/{itemID}", handler.RemoveCartItem)
		r.Post("/checkout", handler.Checkout)
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Get("/", handler.GetWishlist)
		r.Post("/", handler.AddWishlistItem)
		r.Delete("/{productID}", handler.RemoveWishlistItem)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/{id}/refund", handler.RefundPayment)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.Post("/{id}/vote", handler.VoteReview)
		r.Delete("/{id}", handler.DeleteReview)
	})

	// Wrap the whole mux so every route gets a server span with the route
	// pattern as its name.
	return otelhttp.NewHandler(r, "ecommerce-core")
}
