package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Scribax/followers-shop/internal/middleware"
)

// Page handlers are thin placeholders; the storefront UI lives elsewhere.
// They exist so the guard rules have real pages to protect.

func page(title string) echo.HandlerFunc {
	body := fmt.Sprintf("<!doctype html><html><head><title>%s - Social Boost</title></head><body><h1>%s</h1></body></html>", title, title)
	return func(c echo.Context) error {
		return c.HTML(http.StatusOK, body)
	}
}

func dashboardPage(c echo.Context) error {
	user := middleware.UserFromContext(c)
	body := fmt.Sprintf("<!doctype html><html><head><title>Dashboard - Social Boost</title></head><body><h1>Dashboard</h1><p>%s</p></body></html>", user.Email)
	return c.HTML(http.StatusOK, body)
}

func adminPage(c echo.Context) error {
	return c.HTML(http.StatusOK, "<!doctype html><html><head><title>Admin - Social Boost</title></head><body><h1>Admin</h1></body></html>")
}
