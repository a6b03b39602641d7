// Package memory holds map-backed repositories with the same contracts as
// the postgres ones. Services and the router are exercised against them in
// tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"order-upload/internal/data/entity"
	"order-upload/internal/data/repository"
)

var (
	_ repository.OrderRepository = (*OrderRepository)(nil)
	_ repository.UserRepository  = (*UserRepository)(nil)
	_ repository.SessionStore    = (*SessionStore)(nil)
)

// NewRepository bundles fresh in-memory repositories.
func NewRepository() *repository.Repository {
	return &repository.Repository{
		User:    NewUserRepository(),
		Order:   NewOrderRepository(),
		Session: NewSessionStore(),
	}
}

type OrderRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*entity.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{rows: make(map[string]*entity.Order)}
}

// Get returns a copy of the stored row.
func (m *OrderRepository) Get(orderNumber string) (entity.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[orderNumber]
	if !ok {
		return entity.Order{}, false
	}
	return *o, true
}

func (m *OrderRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *OrderRepository) Create(_ context.Context, order *entity.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[order.OrderNumber]; ok {
		return fmt.Errorf("create order %s: %w", order.OrderNumber, repository.ErrDuplicate)
	}
	m.nextID++
	now := time.Now()
	order.ID = m.nextID
	order.CreatedAt = now
	order.UpdatedAt = now
	cp := *order
	m.rows[order.OrderNumber] = &cp
	return nil
}

func (m *OrderRepository) FindByOrderNumber(_ context.Context, orderNumber string) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[orderNumber]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *OrderRepository) FindAll(_ context.Context, search string) ([]*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	needle := strings.ToLower(search)
	out := make([]*entity.Order, 0, len(m.rows))
	for _, o := range m.rows {
		if needle == "" || strings.Contains(strings.ToLower(o.OrderNumber), needle) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *OrderRepository) MarkUploaded(_ context.Context, orderNumber string, upload entity.OrderUpload) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[orderNumber]
	if !ok || o.HasUploaded {
		return nil, nil
	}
	o.VideoURL = upload.VideoURL
	o.ImageURL = upload.ImageURL
	o.SongRequest = upload.SongRequest
	o.HasUploaded = true
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, nil
}

func (m *OrderRepository) DeleteUploaded(_ context.Context, orderNumber string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[orderNumber]
	if !ok || !o.HasUploaded {
		return false, nil
	}
	delete(m.rows, orderNumber)
	return true, nil
}

type UserRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{rows: make(map[int64]*entity.User)}
}

func (m *UserRepository) Create(_ context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Username == user.Username {
			return fmt.Errorf("create user %s: %w", user.Username, repository.ErrDuplicate)
		}
	}
	m.nextID++
	now := time.Now()
	user.ID = m.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	m.rows[user.ID] = &cp
	return nil
}

func (m *UserRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *UserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type SessionStore struct {
	mu   sync.Mutex
	rows map[string]*entity.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{rows: make(map[string]*entity.Session)}
}

func (m *SessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// Expire moves a session's expiry into the past.
func (m *SessionStore) Expire(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[token]; ok {
		s.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

func (m *SessionStore) Create(_ context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.rows[session.Token.String()] = &cp
	return nil
}

func (m *SessionStore) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[token]
	if !ok || !s.Valid(time.Now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *SessionStore) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[token]
	if !ok || !s.Valid(time.Now()) {
		return repository.ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (m *SessionStore) CleanExpiredSessions(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for token, s := range m.rows {
		if !s.Valid(now) {
			delete(m.rows, token)
		}
	}
	return nil
}
