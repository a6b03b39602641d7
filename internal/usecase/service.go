package usecase

import (
	"order-upload/internal/data/repository"
	"order-upload/pkg/storage"
	"order-upload/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	Order  OrderService
	Upload UploadService
}

func NewService(repo *repository.Repository, store storage.ObjectStore, config *utils.Config, log *zap.Logger) *Service {
	orders := NewOrderService(repo.Order, log)
	return &Service{
		Auth:   NewAuthService(repo.User, repo.Session, config.Session, log),
		Order:  orders,
		Upload: NewUploadService(orders, store, config.Upload, log),
	}
}
