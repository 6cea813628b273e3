package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Scribax/followers-shop/internal/middleware"
)

type Deps struct {
	AuthHandler         *AuthHTTP
	OrderHandler        *OrderHTTP
	ProfileHandler      *ProfileHTTP
	PaymentHandler      *PaymentHTTP
	NotificationHandler *NotificationHTTP
	Guard               *middleware.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// Marketing pages, open to everyone.
	e.GET("/", page("Social Boost"))
	e.GET("/plans", page("Planes"))
	e.GET("/faq", page("FAQ"))
	e.GET("/contact", page("Contacto"))

	// Auth pages. Signed-in visitors get bounced to the dashboard.
	e.GET("/auth/login", page("Iniciar Sesión"), d.Guard.GuestOnly)
	e.GET("/auth/register", page("Registro"), d.Guard.GuestOnly)
	e.GET("/auth/forgot-password", page("Recuperar contraseña"))
	e.GET("/auth/reset-password/:token", page("Nueva contraseña"))

	e.GET("/dashboard", dashboardPage, d.Guard.RequireAuthPage)
	e.GET("/admin", adminPage, d.Guard.RequireAdminPage)

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	auth.POST("/reset-password/:token", d.AuthHandler.ResetPassword)
	auth.POST("/logout", d.AuthHandler.Logout, d.Guard.RequireAuth)
	auth.GET("/me", d.AuthHandler.Me, d.Guard.RequireAuth)

	api.GET("/notifications/current", d.NotificationHandler.Current)
	api.DELETE("/notifications/current", d.NotificationHandler.Hide)

	orders := api.Group("/orders", d.Guard.RequireAuth)
	orders.GET("", d.OrderHandler.ListOwn)
	orders.POST("", d.OrderHandler.Create)
	orders.GET("/current", d.OrderHandler.Current)
	orders.GET("/:id", d.OrderHandler.Get)
	orders.POST("/:id/poll", d.OrderHandler.PollStatus)
	orders.POST("/:id/current", d.OrderHandler.SetCurrent)

	payments := api.Group("/payments")
	payments.POST("/preference/:id", d.PaymentHandler.CreatePreference, d.Guard.RequireAuth)
	payments.POST("/webhook", d.PaymentHandler.Webhook)
	payments.GET("/status/:paymentId", d.PaymentHandler.Status, d.Guard.RequireAuth)

	profile := api.Group("/profile", d.Guard.RequireAuth)
	profile.GET("", d.ProfileHandler.Get)
	profile.PUT("/ig-username", d.ProfileHandler.SetIGUsername)
	profile.DELETE("/ig-username", d.ProfileHandler.ClearIGUsername)
	profile.PATCH("", d.ProfileHandler.Patch)

	admin := api.Group("/admin", d.Guard.RequireAdmin)
	admin.GET("/orders", d.OrderHandler.ListAll)
	admin.POST("/orders/search", d.OrderHandler.Search)
	admin.PATCH("/orders/:id", d.OrderHandler.UpdateStatus)
	admin.DELETE("/orders/:id", d.OrderHandler.Delete)
	admin.POST("/orders/restore", d.OrderHandler.Restore)
}
