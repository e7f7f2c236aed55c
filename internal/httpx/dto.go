package httpx

import (
	"time"

	"github.com/jcmexdev/ecommerce-core/internal/cart"
	"github.com/jcmexdev/ecommerce-core/internal/catalog"
	"github.com/jcmexdev/ecommerce-core/internal/ledger"
	"github.com/jcmexdev/ecommerce-core/internal/payment"
	"github.com/jcmexdev/ecommerce-core/internal/review"
	"github.com/jcmexdev/ecommerce-core/internal/wishlist"
)

// Monetary amounts travel as decimal strings, never floats, so values survive
// the round trip exactly. Timestamps are RFC3339.

type CreateProductRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
	Category      string `json:"category"`
}

type UpdateProductRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *string `json:"price"`
	StockQuantity *int    `json:"stock_quantity"`
	Category      *string `json:"category"`
}

type ProductResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
	InStock       bool   `json:"in_stock"`
	Category      string `json:"category"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type ProductListResponse struct {
	Count    int               `json:"count"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Results  []ProductResponse `json:"results"`
}

type CreateOrderRequest struct {
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	ShippingAddress string               `json:"shipping_address"`
	Items           []CreateOrderItemDTO `json:"items"`
}

type CreateOrderItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	ID              int64               `json:"id"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	ShippingAddress string              `json:"shipping_address"`
	Status          string              `json:"status"`
	TotalAmount     string              `json:"total_amount"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}

type OrderItemResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

type OrderListResponse struct {
	Count    int             `json:"count"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Results  []OrderResponse `json:"results"`
}

type AddCartItemRequest struct {
	CustomerEmail string `json:"customer_email"`
	ProductID     int64  `json:"product_id"`
	Quantity      int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	CustomerEmail string `json:"customer_email"`
	Quantity      int    `json:"quantity"`
}

type CartResponse struct {
	ID            int64              `json:"id"`
	CustomerEmail string             `json:"customer_email"`
	Items         []CartItemResponse `json:"items"`
	TotalItems    int                `json:"total_items"`
	Subtotal      string             `json:"subtotal"`
	UpdatedAt     string             `json:"updated_at"`
}

type CartItemResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

type CheckoutRequest struct {
	CustomerEmail   string `json:"customer_email"`
	CustomerName    string `json:"customer_name"`
	ShippingAddress string `json:"shipping_address"`
}

type CheckoutResponse struct {
	Order   OrderResponse    `json:"order"`
	Payment *PaymentResponse `json:"payment,omitempty"`
}

type AddWishlistItemRequest struct {
	CustomerEmail string `json:"customer_email"`
	ProductID     int64  `json:"product_id"`
	Notes         string `json:"notes"`
}

type WishlistItemResponse struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductPrice string `json:"product_price"`
	InStock      bool   `json:"in_stock"`
	Notes        string `json:"notes,omitempty"`
	AddedAt      string `json:"added_at"`
}

type WishlistResponse struct {
	Items   []WishlistItemResponse `json:"items"`
	Summary wishlist.Summary       `json:"summary"`
}

type CreateReviewRequest struct {
	CustomerEmail string `json:"customer_email"`
	Rating        int    `json:"rating"`
	Title         string `json:"title"`
	Comment       string `json:"comment"`
}

type VoteReviewRequest struct {
	CustomerEmail string `json:"customer_email"`
	Helpful       bool   `json:"helpful"`
}

type ReviewResponse struct {
	ID                 int64   `json:"id"`
	ProductID          int64   `json:"product_id"`
	CustomerEmail      string  `json:"customer_email"`
	Rating             int     `json:"rating"`
	Title              string  `json:"title"`
	Comment            string  `json:"comment"`
	IsVerifiedPurchase bool    `json:"is_verified_purchase"`
	HelpfulCount       int     `json:"helpful_count"`
	NotHelpfulCount    int     `json:"not_helpful_count"`
	HelpfulPercentage  float64 `json:"helpful_percentage"`
	CreatedAt          string  `json:"created_at"`
}

type RefundRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

type PaymentResponse struct {
	ID             int64  `json:"id"`
	OrderID        int64  `json:"order_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
	IntentID       string `json:"intent_id"`
	FailureMessage string `json:"failure_message,omitempty"`
	RefundAmount   string `json:"refund_amount"`
	CreatedAt      string `json:"created_at"`
}

type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

type RefundResponse struct {
	ID        int64  `json:"id"`
	PaymentID int64  `json:"payment_id"`
	Amount    string `json:"amount"`
	Reason    string `json:"reason,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func mapProductToResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.String(),
		StockQuantity: p.StockQuantity,
		InStock:       p.InStock(),
		Category:      p.Category,
		CreatedAt:     fmtTime(p.CreatedAt),
		UpdatedAt:     fmtTime(p.UpdatedAt),
	}
}

func mapProducts(products []*catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = mapProductToResponse(p)
	}
	return out
}

func mapOrderToResponse(o *ledger.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price.String(),
			Subtotal:    it.Subtotal.String(),
		}
	}
	return OrderResponse{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount.String(),
		Items:           items,
		CreatedAt:       fmtTime(o.CreatedAt),
		UpdatedAt:       fmtTime(o.UpdatedAt),
	}
}

func mapOrders(orders []*ledger.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrderToResponse(o)
	}
	return out
}

func mapCartToResponse(c *cart.Cart) CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i := range c.Items {
		items[i] = mapCartItemToResponse(&c.Items[i])
	}
	return CartResponse{
		ID:            c.ID,
		CustomerEmail: c.CustomerEmail,
		Items:         items,
		TotalItems:    c.TotalItems(),
		Subtotal:      c.Subtotal().String(),
		UpdatedAt:     fmtTime(c.UpdatedAt),
	}
}

func mapCartItemToResponse(it *cart.Item) CartItemResponse {
	return CartItemResponse{
		ID:          it.ID,
		ProductID:   it.ProductID,
		ProductName: it.ProductName,
		Price:       it.Price.String(),
		Quantity:    it.Quantity,
		Subtotal:    it.Subtotal().String(),
	}
}

func mapWishlistItems(items []*wishlist.Item) []WishlistItemResponse {
	out := make([]WishlistItemResponse, len(items))
	for i, it := range items {
		out[i] = WishlistItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductPrice: it.ProductPrice.String(),
			InStock:      it.InStock,
			Notes:        it.Notes,
			AddedAt:      fmtTime(it.AddedAt),
		}
	}
	return out
}

func mapReviewToResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:                 r.ID,
		ProductID:          r.ProductID,
		CustomerEmail:      r.CustomerEmail,
		Rating:             r.Rating,
		Title:              r.Title,
		Comment:            r.Comment,
		IsVerifiedPurchase: r.IsVerifiedPurchase,
		HelpfulCount:       r.HelpfulCount,
		NotHelpfulCount:    r.NotHelpfulCount,
		HelpfulPercentage:  r.HelpfulPercentage(),
		CreatedAt:          fmtTime(r.CreatedAt),
	}
}

func mapReviews(reviews []*review.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = mapReviewToResponse(r)
	}
	return out
}

func mapPaymentToResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		OrderID:        p.OrderID,
		Amount:         p.Amount.String(),
		Currency:       p.Currency,
		Status:         string(p.Status),
		IntentID:       p.IntentID,
		FailureMessage: p.FailureMessage,
		RefundAmount:   p.RefundAmount.String(),
		CreatedAt:      fmtTime(p.CreatedAt),
	}
}

func mapRefundToResponse(r *payment.Refund) RefundResponse {
	return RefundResponse{
		ID:        r.ID,
		PaymentID: r.PaymentID,
		Amount:    r.Amount.String(),
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: fmtTime(r.CreatedAt),
	}
}
