// internal/domain/payment/razorpay_service.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/food-delivery-backend/internal/config"
)

var (
	// ErrNotConfigured is returned when Razorpay credentials are missing.
	ErrNotConfigured = errors.New("razorpay credentials not configured")

	// ErrSignatureMismatch is returned when the payment signature does
	// not match the expected HMAC.
	ErrSignatureMismatch = errors.New("razorpay signature verification failed")
)

// RazorpayService talks to the Razorpay REST API. Amounts are in paise,
// which is also Razorpay's wire unit for INR.
type RazorpayService struct {
	config     *config.Config
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewRazorpayService creates a new Razorpay service
func NewRazorpayService(cfg *config.Config, logger *logrus.Logger) *RazorpayService {
	return &RazorpayService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Order is a Razorpay order as returned by the gateway.
type Order struct {
	ID        string                 `json:"id"`
	Entity    string                 `json:"entity"`
	Amount    int64                  `json:"amount"`
	Currency  string                 `json:"currency"`
	Receipt   string                 `json:"receipt"`
	Status    string                 `json:"status"`
	Notes     map[string]interface{} `json:"notes"`
	CreatedAt int64                  `json:"created_at"`
}

type createOrderPayload struct {
	Amount   int64                  `json:"amount"`
	Currency string                 `json:"currency"`
	Receipt  string                 `json:"receipt"`
	Notes    map[string]interface{} `json:"notes,omitempty"`
}

// InitiationResponse is returned to the client so it can open the
// Razorpay checkout widget.
type InitiationResponse struct {
	RazorpayOrderID string `json:"razorpay_order_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	KeyID           string `json:"key_id"`
}

// VerificationRequest carries the ids and signature posted back by the
// Razorpay checkout widget after a successful payment.
type VerificationRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// CreateOrder creates a gateway order for the given amount. The caller
// passes the cart total; the gateway order is created before the
// application order exists, so the receipt is a user-scoped tag.
func (r *RazorpayService) CreateOrder(ctx context.Context, amount int64, receipt string) (*InitiationResponse, error) {
	if r.config.External.Razorpay.KeyID == "" || r.config.External.Razorpay.KeySecret == "" {
		return nil, ErrNotConfigured
	}
	if amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount: %d", amount)
	}

	payload := createOrderPayload{
		Amount:   amount,
		Currency: "INR",
		Receipt:  receipt,
	}

	body, err := r.call(ctx, http.MethodPost, "/orders", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	var gatewayOrder Order
	if err := json.Unmarshal(body, &gatewayOrder); err != nil {
		return nil, fmt.Errorf("failed to parse razorpay order response: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"razorpay_order_id": gatewayOrder.ID,
		"amount":            gatewayOrder.Amount,
	}).Info("razorpay order created")

	return &InitiationResponse{
		RazorpayOrderID: gatewayOrder.ID,
		Amount:          gatewayOrder.Amount,
		Currency:        gatewayOrder.Currency,
		KeyID:           r.config.External.Razorpay.KeyID,
	}, nil
}

// Verify checks the checkout callback signature. Razorpay signs
// "<order_id>|<payment_id>" with the key secret using HMAC-SHA256.
func (r *RazorpayService) Verify(req *VerificationRequest) error {
	if r.config.External.Razorpay.KeySecret == "" {
		return ErrNotConfigured
	}

	mac := hmac.New(sha256.New, []byte(r.config.External.Razorpay.KeySecret))
	mac.Write([]byte(req.RazorpayOrderID + "|" + req.RazorpayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(req.RazorpaySignature)) {
		return ErrSignatureMismatch
	}
	return nil
}

func (r *RazorpayService) call(ctx context.Context, method, endpoint string, data interface{}) ([]byte, error) {
	var reqBody []byte
	if data != nil {
		var err error
		reqBody, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, r.config.External.Razorpay.BaseURL+endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.config.External.Razorpay.KeyID, r.config.External.Razorpay.KeySecret)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
