package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"order-upload/pkg/utils"
)

// memStore is an ObjectStore that keeps blobs in memory and can be told to
// fail puts whose key contains failOn.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failOn  string
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *memStore) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) (string, error) {
	if m.failOn != "" && strings.Contains(key, m.failOn) {
		return "", fmt.Errorf("put %s: service unavailable", key)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return "https://blobs.example.com/" + key, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func sellerCtx() context.Context {
	return utils.SetUserContext(context.Background(), utils.Principal{UserID: 1, Username: "seller", IsSeller: true})
}

func customerCtx() context.Context {
	return utils.SetUserContext(context.Background(), utils.Principal{UserID: 2, Username: "customer"})
}
