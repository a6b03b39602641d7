package repository

import (
	"order-upload/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Order   OrderRepository
	Session SessionStore
}

// NewRepository wires the postgres repositories. The session store is passed
// in so the caller can choose postgres or redis.
func NewRepository(db database.PgxIface, sessions SessionStore, log *zap.Logger) *Repository {
	if sessions == nil {
		sessions = NewSessionRepository(db, log)
	}
	return &Repository{
		User:    NewUserRepository(db, log),
		Order:   NewOrderRepository(db, log),
		Session: sessions,
	}
}
