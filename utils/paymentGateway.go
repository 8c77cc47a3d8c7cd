package utils

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"kaifacademy/config"
	"kaifacademy/services"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// NewPaymentGateway builds the gateway selected by PAYMENT_GATEWAY
func NewPaymentGateway(cfg *config.Config) services.PaymentGateway {
	if cfg.PaymentGateway == "http" && cfg.PaymentGatewayURL != "" {
		log.Printf("[PAYMENT] Using HTTP gateway at %s", cfg.PaymentGatewayURL)
		return NewHTTPGateway(cfg.PaymentGatewayURL, cfg.PaymentGatewayKey)
	}
	log.Printf("[PAYMENT] Using simulated gateway (%dms delay)", cfg.PaymentSimulatedDelay)
	return &SimulatedGateway{Delay: time.Duration(cfg.PaymentSimulatedDelay) * time.Millisecond}
}

// SimulatedGateway approves every charge after a fixed delay
type SimulatedGateway struct {
	Delay time.Duration
}

func (g *SimulatedGateway) Name() string { return "simulated" }

func (g *SimulatedGateway) Charge(ctx context.Context, req services.ChargeRequest) (*services.ChargeResult, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	ref := "SIM-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
	log.Printf("[PAYMENT] Simulated charge of %.2f %s for order %d approved (%s)", req.Amount, req.Currency, req.OrderID, ref)
	return &services.ChargeResult{Success: true, Reference: ref}, nil
}

// HTTPGateway posts charges as JSON to an external payment service
type HTTPGateway struct {
	client *resty.Client
}

type chargePayload struct {
	OrderID     uint    `json:"order_id"`
	UserID      uint    `json:"user_id"`
	CourseID    uint    `json:"course_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

type chargeResponse struct {
	Status    string `json:"status"` // success, failed
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTPGateway{client: client}
}

func (g *HTTPGateway) Name() string { return "http" }

func (g *HTTPGateway) Charge(ctx context.Context, req services.ChargeRequest) (*services.ChargeResult, error) {
	var body chargeResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", fmt.Sprintf("order-%d", req.OrderID)).
		SetBody(chargePayload{
			OrderID:     req.OrderID,
			UserID:      req.UserID,
			CourseID:    req.CourseID,
			Amount:      req.Amount,
			Currency:    req.Currency,
			Description: req.Description,
		}).
		SetResult(&body).
		SetError(&body).
		Post("/charges")
	if err != nil {
		return nil, fmt.Errorf("payment gateway request: %w", err)
	}
	if resp.StatusCode() >= 500 {
		return nil, fmt.Errorf("payment gateway status %d: %s", resp.StatusCode(), resp.String())
	}

	if resp.IsSuccess() && strings.EqualFold(body.Status, "success") {
		return &services.ChargeResult{Success: true, Reference: body.Reference}, nil
	}
	reason := body.Message
	if reason == "" {
		reason = fmt.Sprintf("payment declined (status %d)", resp.StatusCode())
	}
	return &services.ChargeResult{Success: false, Reference: body.Reference, FailureReason: reason}, nil
}
