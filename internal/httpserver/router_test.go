package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Scribax/followers-shop/internal/mail"
	"github.com/Scribax/followers-shop/internal/middleware"
	"github.com/Scribax/followers-shop/internal/notify"
	"github.com/Scribax/followers-shop/internal/payment"
	"github.com/Scribax/followers-shop/internal/repo"
	"github.com/Scribax/followers-shop/internal/service"
	"github.com/Scribax/followers-shop/internal/transport"
)

const testAdminEmail = "admin@example.com"

type serverEnv struct {
	Echo *echo.Echo
	Auth *service.AuthService
}

func newServer(t *testing.T) *serverEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(context.Background()))

	bus := notify.NewBus()
	auth := &service.AuthService{
		Repo:      r,
		Bus:       bus,
		Mail:      mail.NewClient("", "", "http://localhost:8080"),
		JWTSecret: []byte("test-jwt-secret"),
	}
	orders := &service.OrderService{Repo: r}
	profile := &service.ProfileService{Repo: r}
	guard := middleware.NewGuard(auth, testAdminEmail)

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:         &AuthHTTP{Svc: auth, Profile: profile, Orders: orders},
		OrderHandler:        &OrderHTTP{Svc: orders, Profile: profile},
		ProfileHandler:      &ProfileHTTP{Svc: profile},
		PaymentHandler:      &PaymentHTTP{Gateway: payment.NewClient(""), Orders: orders},
		NotificationHandler: &NotificationHTTP{Bus: bus},
		Guard:               guard,
	})

	return &serverEnv{Echo: e, Auth: auth}
}

func (s *serverEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns the session cookie the response set.
func (s *serverEnv) register(t *testing.T, email string) *http.Cookie {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/register", transport.RegisterRequest{
		Name:            "Test User",
		Email:           email,
		Password:        "Str0ng!pass",
		ConfirmPassword: "Str0ng!pass",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie in register response")
	return nil
}

func TestRouter_AuthAPI(t *testing.T) {
	srv := newServer(t)

	t.Run("register sets a session cookie", func(t *testing.T) {
		cookie := srv.register(t, "user1@example.com")
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("me returns the session user", func(t *testing.T) {
		cookie := srv.register(t, "user2@example.com")

		rec := srv.do(t, http.MethodGet, "/api/v1/auth/me", nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "user2@example.com")
		assert.NotContains(t, rec.Body.String(), "passwordHash")
	})

	t.Run("login with wrong password is 401", func(t *testing.T) {
		srv.register(t, "user3@example.com")

		rec := srv.do(t, http.MethodPost, "/api/v1/auth/login", transport.LoginRequest{
			Email:    "user3@example.com",
			Password: "Wr0ng!pass",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		cookie := srv.register(t, "user4@example.com")

		rec := srv.do(t, http.MethodPost, "/api/v1/auth/logout", nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = srv.do(t, http.MethodGet, "/api/v1/auth/me", nil, cookie)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRouter_PageGuards(t *testing.T) {
	srv := newServer(t)
	userCookie := srv.register(t, "plain@example.com")
	adminCookie := srv.register(t, testAdminEmail)

	t.Run("dashboard without session redirects to login", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/dashboard", nil, nil)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("dashboard with session renders", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/dashboard", nil, userCookie)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin page without session redirects to login", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/admin", nil, nil)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("admin page as non-admin redirects to dashboard", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/admin", nil, userCookie)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("admin page as admin renders", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/admin", nil, adminCookie)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("login page with session redirects to dashboard", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/auth/login", nil, userCookie)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("login page without session renders", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/auth/login", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_OrderAPI(t *testing.T) {
	srv := newServer(t)
	userCookie := srv.register(t, "buyer@example.com")
	adminCookie := srv.register(t, testAdminEmail)

	t.Run("orders require a session", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/orders", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	var orderID string
	t.Run("create order", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/orders", transport.CreateOrderRequest{
			PackageName: "Paquete Premium",
			Quantity:    1000,
			Price:       "19.99",
		}, userCookie)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Step   int    `json:"step"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, strings.HasPrefix(got.ID, "order_"))
		assert.Equal(t, "Pending", got.Status)
		assert.Equal(t, 0, got.Step)
		orderID = got.ID
	})

	t.Run("poll advances the order", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/poll", nil, userCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Processing")
	})

	t.Run("poll on an unknown id is 404", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/orders/order_missing/poll", nil, userCookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("admin listing rejects non-admins", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/admin/orders", nil, userCookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin can update, delete and restore", func(t *testing.T) {
		rec := srv.do(t, http.MethodPatch, "/api/v1/admin/orders/order_001", transport.UpdateOrderStatusRequest{
			Status: "Processing",
		}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"step":1`)

		rec = srv.do(t, http.MethodDelete, "/api/v1/admin/orders/order_001", nil, adminCookie)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = srv.do(t, http.MethodGet, "/api/v1/admin/orders", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "order_001")

		rec = srv.do(t, http.MethodPost, "/api/v1/admin/orders/restore", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "order_001")
	})

	t.Run("unknown status is 400", func(t *testing.T) {
		rec := srv.do(t, http.MethodPatch, "/api/v1/admin/orders/order_002", transport.UpdateOrderStatusRequest{
			Status: "Shipped",
		}, adminCookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_ProfileAPI(t *testing.T) {
	srv := newServer(t)
	cookie := srv.register(t, "profile@example.com")

	t.Run("set and fetch handle", func(t *testing.T) {
		rec := srv.do(t, http.MethodPut, "/api/v1/profile/ig-username", transport.SetIGUsernameRequest{
			Username: "abc.def_123",
		}, cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "@abc.def_123")

		rec = srv.do(t, http.MethodGet, "/api/v1/profile", nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "abc.def_123")
	})

	t.Run("invalid handle is 400", func(t *testing.T) {
		rec := srv.do(t, http.MethodPut, "/api/v1/profile/ig-username", transport.SetIGUsernameRequest{
			Username: "bad username!",
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("clear handle", func(t *testing.T) {
		rec := srv.do(t, http.MethodDelete, "/api/v1/profile/ig-username", nil, cookie)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRouter_Notifications(t *testing.T) {
	srv := newServer(t)
	srv.register(t, "notif@example.com")

	// Registration publishes a success notification.
	rec := srv.do(t, http.MethodGet, "/api/v1/notifications/current", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"show":true`)

	rec = srv.do(t, http.MethodDelete, "/api/v1/notifications/current", nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/notifications/current", nil, nil)
	assert.Contains(t, rec.Body.String(), `"show":false`)
}
