package paymentControllers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/plutov/paypal/v4"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// PayPalVerifier is the slice of the PayPal client the webhook handler needs.
// Kept narrow so tests can stub the verification call.
type PayPalVerifier interface {
	VerifyWebhookSignature(ctx context.Context, httpReq *http.Request, webhookID string) (*paypal.VerifyWebhookResponse, error)
}

// Config carries provider credentials and clients. Built once at startup and
// injected into the handlers; nothing payment-related lives in package
// globals.
type Config struct {
	StripeClient        *client.API
	StripeWebhookSecret string
	PayPalVerifier      PayPalVerifier
	PayPalWebhookID     string
	// SiteURL is the frontend order-page prefix used for the success, cancel
	// and error redirects.
	SiteURL string
}

// LoadConfig reads provider credentials from the environment and builds the
// outbound clients with a bounded timeout, so a hanging provider can never
// hang a shopper past the deadline.
func LoadConfig() (Config, error) {
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	stripeWebhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	payPalClientID := os.Getenv("PAYPAL_CLIENT_ID")
	payPalSecret := os.Getenv("PAYPAL_CLIENT_SECRET")
	payPalWebhookID := os.Getenv("PAYPAL_WEBHOOK_ID")
	siteURL := os.Getenv("SITE_URL")

	if stripeKey == "" || stripeWebhookSecret == "" || payPalWebhookID == "" || siteURL == "" {
		return Config{}, fmt.Errorf("payment configuration missing")
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}

	sc := client.New(stripeKey, stripe.NewBackends(httpClient))

	apiBase := os.Getenv("PAYPAL_API_BASE")
	if apiBase == "" {
		apiBase = paypal.APIBaseLive
	}
	pp, err := paypal.NewClient(payPalClientID, payPalSecret, apiBase)
	if err != nil {
		return Config{}, fmt.Errorf("paypal client: %w", err)
	}
	pp.Client = httpClient

	return Config{
		StripeClient:        sc,
		StripeWebhookSecret: stripeWebhookSecret,
		PayPalVerifier:      pp,
		PayPalWebhookID:     payPalWebhookID,
		SiteURL:             siteURL,
	}, nil
}
