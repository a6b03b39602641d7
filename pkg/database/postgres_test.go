package database

import (
	"errors"
	"fmt"
	"testing"

	"order-upload/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		dsn := ConnString(utils.DatabaseConfig{
			Host: "db", Name: "orders", User: "app", Password: "secret",
		})
		assert.Equal(t, "user=app password=secret dbname=orders sslmode=disable host=db port=5432", dsn)
	})

	t.Run("explicit port and sslmode", func(t *testing.T) {
		dsn := ConnString(utils.DatabaseConfig{
			Host: "db", Port: "6432", Name: "orders", User: "app", Password: "p", SSLMode: "require",
		})
		assert.Equal(t, "user=app password=p dbname=orders sslmode=require host=db port=6432", dsn)
	})
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert order: %w", dup)))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}
