package response

import (
	"time"

	"order-upload/internal/data/entity"
)

// OrderResponse renders absent media fields as JSON null.
type OrderResponse struct {
	ID          int64              `json:"id"`
	OrderNumber string             `json:"orderNumber"`
	VideoURL    *string            `json:"videoUrl"`
	ImageURL    *string            `json:"imageUrl"`
	SongRequest *string            `json:"songRequest"`
	HasUploaded bool               `json:"hasUploaded"`
	State       entity.OrderStatus `json:"state"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func OrderToResponse(order *entity.Order) *OrderResponse {
	return &OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		VideoURL:    nullable(order.VideoURL),
		ImageURL:    nullable(order.ImageURL),
		SongRequest: nullable(order.SongRequest),
		HasUploaded: order.HasUploaded,
		State:       order.Status(),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func OrdersToResponse(orders []*entity.Order) []*OrderResponse {
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = OrderToResponse(o)
	}
	return out
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
