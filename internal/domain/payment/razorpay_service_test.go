package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/food-delivery-backend/internal/config"
)

func newTestService(keyID, keySecret, baseURL string) *RazorpayService {
	cfg := &config.Config{}
	cfg.External.Razorpay.KeyID = keyID
	cfg.External.Razorpay.KeySecret = keySecret
	cfg.External.Razorpay.BaseURL = baseURL

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRazorpayService(cfg, logger)
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify(t *testing.T) {
	svc := newTestService("key", "secret", "")

	req := &VerificationRequest{
		RazorpayOrderID:   "order_abc123",
		RazorpayPaymentID: "pay_xyz789",
		RazorpaySignature: sign("secret", "order_abc123", "pay_xyz789"),
	}
	assert.NoError(t, svc.Verify(req))
}

func TestVerify_BadSignature(t *testing.T) {
	svc := newTestService("key", "secret", "")

	req := &VerificationRequest{
		RazorpayOrderID:   "order_abc123",
		RazorpayPaymentID: "pay_xyz789",
		RazorpaySignature: sign("wrong-secret", "order_abc123", "pay_xyz789"),
	}
	assert.ErrorIs(t, svc.Verify(req), ErrSignatureMismatch)
}

func TestVerify_TamperedPaymentID(t *testing.T) {
	svc := newTestService("key", "secret", "")

	req := &VerificationRequest{
		RazorpayOrderID:   "order_abc123",
		RazorpayPaymentID: "pay_tampered",
		RazorpaySignature: sign("secret", "order_abc123", "pay_xyz789"),
	}
	assert.ErrorIs(t, svc.Verify(req), ErrSignatureMismatch)
}

func TestVerify_NotConfigured(t *testing.T) {
	svc := newTestService("", "", "")
	assert.ErrorIs(t, svc.Verify(&VerificationRequest{}), ErrNotConfigured)
}

func TestCreateOrder(t *testing.T) {
	var gotPayload createOrderPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		json.NewEncoder(w).Encode(Order{
			ID:       "order_abc123",
			Entity:   "order",
			Amount:   gotPayload.Amount,
			Currency: gotPayload.Currency,
			Receipt:  gotPayload.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	svc := newTestService("key", "secret", server.URL)

	got, err := svc.CreateOrder(context.Background(), 29500, "cart-1")
	require.NoError(t, err)

	assert.Equal(t, "order_abc123", got.RazorpayOrderID)
	assert.Equal(t, int64(29500), got.Amount)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, "key", got.KeyID)

	assert.Equal(t, int64(29500), gotPayload.Amount)
	assert.Equal(t, "cart-1", gotPayload.Receipt)
}

func TestCreateOrder_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"description":"Authentication failed"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := newTestService("key", "secret", server.URL)

	_, err := svc.CreateOrder(context.Background(), 29500, "cart-1")
	assert.Error(t, err)
}

func TestCreateOrder_NotConfigured(t *testing.T) {
	svc := newTestService("", "", "")

	_, err := svc.CreateOrder(context.Background(), 29500, "cart-1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateOrder_InvalidAmount(t *testing.T) {
	svc := newTestService("key", "secret", "")

	_, err := svc.CreateOrder(context.Background(), 0, "cart-1")
	assert.Error(t, err)
}
