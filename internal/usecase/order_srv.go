package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"order-upload/internal/data/entity"
	"order-upload/internal/data/repository"
	"order-upload/internal/dto/request"
	"order-upload/internal/dto/response"
	"order-upload/pkg/metrics"
	"order-upload/pkg/utils"

	"go.uber.org/zap"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req *request.OrderNumberRequest) (*response.OrderResponse, error)
	GetOrder(ctx context.Context, orderNumber string) (*response.OrderResponse, error)
	// VerifyOrder is the customer pre-check before uploading. It needs no
	// session; knowing the order number is the only credential.
	VerifyOrder(ctx context.Context, req *request.OrderNumberRequest) (*response.OrderResponse, error)
	ListOrders(ctx context.Context, search string) ([]*response.OrderResponse, error)
	// UpdateOrder applies the one-time upload transition. Only the upload
	// flow calls it.
	UpdateOrder(ctx context.Context, orderNumber string, upload entity.OrderUpload) (*response.OrderResponse, error)
	DeleteOrder(ctx context.Context, orderNumber string) error
}

type orderService struct {
	orders repository.OrderRepository
	log    *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, log *zap.Logger) OrderService {
	return &orderService{
		orders: orders,
		log:    log.With(zap.String("service", "order")),
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req *request.OrderNumberRequest) (*response.OrderResponse, error) {
	if err := requireSeller(ctx); err != nil {
		return nil, err
	}

	req.OrderNumber = strings.TrimSpace(req.OrderNumber)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create order validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	order := &entity.Order{OrderNumber: req.OrderNumber}
	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: order %s already exists", ErrConflict, req.OrderNumber)
		}
		s.log.Error("Failed to create order", zap.Error(err), zap.String("order_number", req.OrderNumber))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersTotal.WithLabelValues("created").Inc()
	s.log.Info("Order created", zap.String("order_number", order.OrderNumber))

	return response.OrderToResponse(order), nil
}

func (s *orderService) GetOrder(ctx context.Context, orderNumber string) (*response.OrderResponse, error) {
	order, err := s.find(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return response.OrderToResponse(order), nil
}

func (s *orderService) VerifyOrder(ctx context.Context, req *request.OrderNumberRequest) (*response.OrderResponse, error) {
	req.OrderNumber = strings.TrimSpace(req.OrderNumber)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	order, err := s.find(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if order.HasUploaded {
		return nil, fmt.Errorf("%w: files for order %s were already uploaded", ErrConflict, order.OrderNumber)
	}

	return response.OrderToResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, search string) ([]*response.OrderResponse, error) {
	if err := requireSeller(ctx); err != nil {
		return nil, err
	}

	search = strings.TrimSpace(search)
	if len(search) > request.MaxOrderNumberLen {
		return nil, fmt.Errorf("%w: search term is too long", ErrValidation)
	}

	orders, err := s.orders.FindAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to list orders", zap.Error(err), zap.String("search", search))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return response.OrdersToResponse(orders), nil
}

func (s *orderService) UpdateOrder(ctx context.Context, orderNumber string, upload entity.OrderUpload) (*response.OrderResponse, error) {
	if upload.VideoURL == "" || upload.ImageURL == "" || upload.SongRequest == "" {
		return nil, fmt.Errorf("%w: video, image and song request are set together", ErrValidation)
	}

	order, err := s.orders.MarkUploaded(ctx, orderNumber, upload)
	if err != nil {
		s.log.Error("Failed to mark order uploaded", zap.Error(err), zap.String("order_number", orderNumber))
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if order == nil {
		// Nothing pending matched: either the order is gone or someone else won.
		if _, err := s.find(ctx, orderNumber); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: files for order %s were already uploaded", ErrConflict, orderNumber)
	}

	metrics.OrdersTotal.WithLabelValues("uploaded").Inc()
	s.log.Info("Order uploaded", zap.String("order_number", orderNumber))

	return response.OrderToResponse(order), nil
}

func (s *orderService) DeleteOrder(ctx context.Context, orderNumber string) error {
	if err := requireSeller(ctx); err != nil {
		return err
	}

	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return fmt.Errorf("%w: order number is required", ErrValidation)
	}

	deleted, err := s.orders.DeleteUploaded(ctx, orderNumber)
	if err != nil {
		s.log.Error("Failed to delete order", zap.Error(err), zap.String("order_number", orderNumber))
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !deleted {
		if _, err := s.find(ctx, orderNumber); err != nil {
			return err
		}
		return fmt.Errorf("%w: cannot delete order %s before files are uploaded", ErrConflict, orderNumber)
	}

	metrics.OrdersTotal.WithLabelValues("deleted").Inc()
	s.log.Info("Order deleted", zap.String("order_number", orderNumber))

	return nil
}

func (s *orderService) find(ctx context.Context, orderNumber string) (*entity.Order, error) {
	if orderNumber == "" {
		return nil, fmt.Errorf("%w: order number is required", ErrValidation)
	}

	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		s.log.Error("Failed to find order", zap.Error(err), zap.String("order_number", orderNumber))
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderNumber)
	}

	return order, nil
}

// requireSeller fails with ErrForbidden for anonymous and non-seller callers alike.
func requireSeller(ctx context.Context) error {
	if _, ok := utils.GetPrincipalFromContext(ctx); !ok {
		return fmt.Errorf("%w: login required", ErrForbidden)
	}
	if !utils.IsSellerFromContext(ctx) {
		return ErrForbidden
	}
	return nil
}
