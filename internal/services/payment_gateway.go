package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skytrip/flight-booking-backend/internal/config"
)

// gatewayEnvironmentURLs maps environment names to charge endpoint URLs
var gatewayEnvironmentURLs = map[string]string{
	"sandbox":    "https://app.sandbox.midtrans.com/snap/v1/transactions",
	"production": "https://app.midtrans.com/snap/v1/transactions",
}

// PaymentGatewayService talks to the payment gateway over HTTP and
// verifies its webhook signatures.
type PaymentGatewayService struct {
	config *config.PaymentConfig
	logger *logrus.Logger
	client *http.Client
}

// NewPaymentGatewayService creates a new PaymentGatewayService
func NewPaymentGatewayService(cfg *config.PaymentConfig, logger *logrus.Logger) *PaymentGatewayService {
	return &PaymentGatewayService{
		config: cfg,
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ChargeParams carries what the gateway needs to open a transaction
type ChargeParams struct {
	GatewayOrderID string
	GrossAmount    float64
	CustomerName   string
	CustomerEmail  string
}

// ChargeResponse is the gateway's answer to a charge request
type ChargeResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// chargeRequest is the wire format of a charge
type chargeRequest struct {
	TransactionDetails struct {
		OrderID     string  `json:"order_id"`
		GrossAmount float64 `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
	} `json:"customer_details"`
	Expiry struct {
		Unit     string `json:"unit"`
		Duration int    `json:"duration"`
	} `json:"expiry"`
}

// NewGatewayOrderID issues the order id the gateway will key this
// transaction by
func (s *PaymentGatewayService) NewGatewayOrderID() string {
	return fmt.Sprintf("ORDER-%s", uuid.New().String())
}

// IsConfigured returns true if the gateway credentials are present
func (s *PaymentGatewayService) IsConfigured() bool {
	return s.config.ServerKey != ""
}

// Charge opens a pending transaction at the gateway and returns its token.
// Without credentials (local development) a placeholder token is returned
// so the booking flow stays usable.
func (s *PaymentGatewayService) Charge(params *ChargeParams) (*ChargeResponse, error) {
	if !s.IsConfigured() {
		s.logger.Warn("Payment gateway not configured - issuing placeholder token")
		return &ChargeResponse{
			Token:       fmt.Sprintf("dev-%s", params.GatewayOrderID),
			RedirectURL: fmt.Sprintf("https://payment.invalid/pay/%s", params.GatewayOrderID),
		}, nil
	}

	request := &chargeRequest{}
	request.TransactionDetails.OrderID = params.GatewayOrderID
	request.TransactionDetails.GrossAmount = params.GrossAmount
	request.CustomerDetails.FirstName = params.CustomerName
	request.CustomerDetails.Email = params.CustomerEmail
	request.Expiry.Unit = "hour"
	request.Expiry.Duration = s.config.ExpiryHours

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge request: %w", err)
	}

	endpointURL := s.chargeURL()
	req, err := http.NewRequest(http.MethodPost, endpointURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.authHeader())

	s.logger.WithFields(logrus.Fields{
		"gateway_order_id": params.GatewayOrderID,
		"gross_amount":     params.GrossAmount,
		"endpoint":         endpointURL,
	}).Info("Charging payment gateway")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var chargeResp ChargeResponse
	if err := json.Unmarshal(body, &chargeResp); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if chargeResp.Token == "" {
		return nil, fmt.Errorf("payment gateway returned no token")
	}

	return &chargeResp, nil
}

// Cancel voids a pending transaction at the gateway. A 404 from the
// gateway is treated as already-cancelled.
func (s *PaymentGatewayService) Cancel(gatewayOrderID string) error {
	if !s.IsConfigured() {
		s.logger.WithField("gateway_order_id", gatewayOrderID).
			Warn("Payment gateway not configured - skipping cancel call")
		return nil
	}

	cancelURL := fmt.Sprintf("%s/%s/cancel", s.apiBaseURL(), gatewayOrderID)
	req, err := http.NewRequest(http.MethodPost, cancelURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build cancel request: %w", err)
	}
	req.Header.Set("Authorization", s.authHeader())

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to cancel at payment gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("payment gateway cancel returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Signature computes the webhook signature for the given fields:
// hex(sha512(order_id + status_code + gross_amount + serverKey)).
func (s *PaymentGatewayService) Signature(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + s.config.ServerKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks an inbound webhook's signature_key. This is the
// sole authentication of the webhook caller.
func (s *PaymentGatewayService) VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	expected := s.Signature(orderID, statusCode, grossAmount)
	return hmac.Equal([]byte(expected), []byte(signatureKey))
}

func (s *PaymentGatewayService) chargeURL() string {
	if s.config.ChargeURL != "" {
		return s.config.ChargeURL
	}
	if url, ok := gatewayEnvironmentURLs[s.config.Environment]; ok {
		return url
	}
	return gatewayEnvironmentURLs["sandbox"]
}

func (s *PaymentGatewayService) apiBaseURL() string {
	if s.config.Environment == "production" {
		return "https://api.midtrans.com/v2"
	}
	return "https://api.sandbox.midtrans.com/v2"
}

func (s *PaymentGatewayService) authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(s.config.ServerKey+":"))
}
