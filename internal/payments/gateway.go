package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ChargeResult is the gateway's answer to a charge or refund attempt
type ChargeResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// Gateway is the payment provider collaborator. The real provider lives
// outside this service; everything here talks to it through this interface.
type Gateway interface {
	Charge(ctx context.Context, amount int64, method string) (ChargeResult, error)
	Refund(ctx context.Context, transactionID string, amount int64) (ChargeResult, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
}

// HMACVerifier validates webhook payload signatures with a shared secret
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify checks a hex-encoded HMAC-SHA256 signature over the payload
func (v *HMACVerifier) Verify(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

// Sign produces the signature a webhook sender would attach. Used by tests
// and by the sandbox gateway.
func (v *HMACVerifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// SandboxGateway approves every charge and refund. It stands in for the real
// provider in development and tests.
type SandboxGateway struct {
	verifier *HMACVerifier
}

func NewSandboxGateway(webhookSecret string) *SandboxGateway {
	return &SandboxGateway{verifier: NewHMACVerifier(webhookSecret)}
}

func (g *SandboxGateway) Charge(ctx context.Context, amount int64, method string) (ChargeResult, error) {
	if amount <= 0 {
		return ChargeResult{Success: false, FailureReason: "amount must be positive"}, nil
	}
	return ChargeResult{
		Success:       true,
		TransactionID: newTransactionID(),
	}, nil
}

func (g *SandboxGateway) Refund(ctx context.Context, transactionID string, amount int64) (ChargeResult, error) {
	if amount <= 0 {
		return ChargeResult{Success: false, FailureReason: "amount must be positive"}, nil
	}
	return ChargeResult{
		Success:       true,
		TransactionID: newTransactionID(),
	}, nil
}

func (g *SandboxGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	return g.verifier.Verify(payload, signature)
}

// newTransactionID generates a gateway-style transaction reference
func newTransactionID() string {
	short := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", time.Now().Unix(), strings.ToUpper(short))
}
