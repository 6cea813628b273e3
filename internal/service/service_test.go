package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Scribax/followers-shop/internal/mail"
	"github.com/Scribax/followers-shop/internal/notify"
	"github.com/Scribax/followers-shop/internal/repo"
)

type testEnv struct {
	DB      *gorm.DB
	Repo    *repo.GormRepo
	Bus     *notify.Bus
	Auth    *AuthService
	Orders  *OrderService
	Profile *ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(context.Background()))

	bus := notify.NewBus()

	return &testEnv{
		DB:   db,
		Repo: r,
		Bus:  bus,
		Auth: &AuthService{
			Repo:      r,
			Bus:       bus,
			Mail:      mail.NewClient("", "", "http://localhost:8080"),
			JWTSecret: []byte("test-jwt-secret"),
		},
		Orders:  &OrderService{Repo: r},
		Profile: &ProfileService{Repo: r},
	}
}
