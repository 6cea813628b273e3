package transport

import "time"

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type CreateOrderRequest struct {
	PackageName string `json:"packageName"`
	Quantity    uint   `json:"quantity"`
	Price       string `json:"price"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type SearchOrdersCriteria struct {
	Status     string     `json:"status"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	SearchTerm string     `json:"searchTerm"`
}

type SetIGUsernameRequest struct {
	Username string `json:"username"`
}

type ProfilePatch struct {
	TotalOrders    *int       `json:"totalOrders"`
	LastActivityAt *time.Time `json:"lastActivityAt"`
}
