package payment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Scribax/followers-shop/internal/models"
	"github.com/Scribax/followers-shop/pkg/logging"
)

// Client is a stub for the Mercado Pago gateway. Every call returns canned
// data; none of it touches the live API.
type Client struct {
	PublicKey string
}

func NewClient(publicKey string) *Client {
	return &Client{PublicKey: publicKey}
}

type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type Notification struct {
	ExternalReference string  `json:"external_reference"`
	PaymentID         string  `json:"payment_id"`
	TransactionAmount float64 `json:"transaction_amount"`
}

type ProcessedPayment struct {
	OrderID   string  `json:"orderId"`
	Status    string  `json:"status"`
	PaymentID string  `json:"paymentId"`
	Amount    float64 `json:"amount"`
}

type PaymentStatus struct {
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	PaymentMethodID   string  `json:"payment_method_id"`
	TransactionAmount float64 `json:"transaction_amount"`
}

func (c *Client) CreatePreference(ctx context.Context, order *models.Order) (*Preference, error) {
	l := logging.FromContext(ctx).With("svc", "payment.create_preference", "order_id", order.ID)
	l.Info("stub_call", "package", order.PackageName)

	id := fmt.Sprintf("pref_%08x", rand.Uint32())
	return &Preference{
		ID:               id,
		InitPoint:        "https://www.mercadopago.com.ar/checkout/v1/redirect?pref_id=" + id,
		SandboxInitPoint: "https://sandbox.mercadopago.com.ar/checkout/v1/redirect?pref_id=" + id,
	}, nil
}

func (c *Client) ProcessNotification(ctx context.Context, n Notification) (*ProcessedPayment, error) {
	l := logging.FromContext(ctx).With("svc", "payment.process_notification")
	l.Info("stub_call", "external_reference", n.ExternalReference)

	return &ProcessedPayment{
		OrderID:   n.ExternalReference,
		Status:    "approved",
		PaymentID: n.PaymentID,
		Amount:    n.TransactionAmount,
	}, nil
}

func (c *Client) GetPaymentStatus(ctx context.Context, paymentID string) (*PaymentStatus, error) {
	l := logging.FromContext(ctx).With("svc", "payment.get_payment_status", "payment_id", paymentID)
	l.Info("stub_call")

	return &PaymentStatus{
		Status:            "approved",
		StatusDetail:      "accredited",
		PaymentMethodID:   "credit_card",
		TransactionAmount: 100,
	}, nil
}
