package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mcpe-gateway-api/models"
	"mcpe-gateway-api/services/payment/mcpe"
	"mcpe-gateway-api/utils"
)

var ErrInvalidRequest = errors.New("invalid payment request")

type Config struct {
	// DefaultCurrency is used when a request carries no currency.
	DefaultCurrency string
	// PayoutSecret is the shared secret for payout digests. Payouts fail
	// without it.
	PayoutSecret string
}

type Service struct {
	gateway Gateway
	cfg     Config
	metrics *Metrics
	logger  zerolog.Logger
}

func NewPaymentService(gateway Gateway, cfg Config, metrics *Metrics, logger zerolog.Logger) *Service {
	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	return &Service{
		gateway: gateway,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With().Str("component", "payment").Logger(),
	}
}

// IsInputError reports whether err was caused by the request itself rather
// than by the gateway or the network.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest,
		mcpe.ErrMissingSecurityToken,
		mcpe.ErrMissingCurrency,
		mcpe.ErrInvalidAmount,
		mcpe.ErrMissingCard,
		mcpe.ErrDuplicateField,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Service) Authorize(ctx context.Context, req *models.ChargeRequest) (*models.TransactionResponse, error) {
	return s.charge(ctx, string(mcpe.ActionAuthorize), req, s.gateway.Authorize)
}

func (s *Service) Purchase(ctx context.Context, req *models.ChargeRequest) (*models.TransactionResponse, error) {
	return s.charge(ctx, string(mcpe.ActionPurchase), req, s.gateway.Purchase)
}

type chargeFunc func(ctx context.Context, amount int64, card mcpe.Card, opts mcpe.Options) (*mcpe.Response, error)

func (s *Service) charge(ctx context.Context, action string, req *models.ChargeRequest, fn chargeFunc) (*models.TransactionResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return s.reject(action, req.OrderID, err)
	}
	opts := mcpe.Options{
		Currency:       s.currency(req.Currency),
		OrderID:        req.OrderID,
		Description:    req.Description,
		Email:          req.Email,
		IP:             req.IP,
		BillingAddress: toAddress(req.BillingAddress),
		Address:        toAddress(req.Address),
	}

	s.logger.Info().
		Str("action", action).
		Str("order_id", req.OrderID).
		Str("card_last4", req.Card.Last4()).
		Int64("amount", amount).
		Str("currency", opts.Currency).
		Msg("processing card transaction")

	return s.run(action, req.OrderID, func() (*mcpe.Response, error) {
		return fn(ctx, amount, toCard(req.Card), opts)
	})
}

// Repeat charges the card stored against an earlier purchase.
func (s *Service) Repeat(ctx context.Context, req *models.RepeatRequest) (*models.TransactionResponse, error) {
	action := string(mcpe.ActionRepeat)
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return s.reject(action, req.OrderID, err)
	}
	opts := mcpe.Options{Currency: s.currency(req.Currency), OrderID: req.OrderID}

	return s.run(action, req.OrderID, func() (*mcpe.Response, error) {
		return s.gateway.Repeat(ctx, amount, req.TransactionID, req.SecurityToken, opts)
	})
}

func (s *Service) Refund(ctx context.Context, req *models.RefundRequest) (*models.TransactionResponse, error) {
	action := string(mcpe.ActionRefund)
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return s.reject(action, req.OrderID, err)
	}
	opts := mcpe.Options{
		Currency:    s.currency(req.Currency),
		OrderID:     req.OrderID,
		Description: req.Description,
	}

	return s.run(action, req.OrderID, func() (*mcpe.Response, error) {
		return s.gateway.Credit(ctx, amount, req.TransactionID, req.SecurityToken, opts)
	})
}

func (s *Service) Payout(ctx context.Context, req *models.PayoutRequest) (*models.TransactionResponse, error) {
	action := string(mcpe.ActionPayout)
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return s.reject(action, req.OrderID, err)
	}
	opts := mcpe.Options{
		Currency:    s.currency(req.Currency),
		OrderID:     req.OrderID,
		Description: req.Description,
		Email:       req.Email,
		Secret:      s.cfg.PayoutSecret,
	}

	s.logger.Info().
		Str("action", action).
		Str("order_id", req.OrderID).
		Str("card_last4", req.Card.Last4()).
		Int64("amount", amount).
		Msg("processing payout")

	return s.run(action, req.OrderID, func() (*mcpe.Response, error) {
		return s.gateway.Payout(ctx, amount, toCard(req.Card), opts)
	})
}

func (s *Service) Capture(ctx context.Context, req *models.CaptureRequest) (*models.TransactionResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return s.reject("capture", req.OrderID, err)
	}
	return s.run("capture", req.OrderID, func() (*mcpe.Response, error) {
		return s.gateway.Capture(ctx, amount, req.Authorization, mcpe.Options{OrderID: req.OrderID})
	})
}

func (s *Service) run(action, orderID string, call func() (*mcpe.Response, error)) (*models.TransactionResponse, error) {
	start := time.Now()
	resp, err := call()
	elapsed := time.Since(start)

	if err != nil {
		outcome := OutcomeError
		if IsInputError(err) || errors.Is(err, mcpe.ErrCaptureUnsupported) || errors.Is(err, mcpe.ErrMissingSecret) {
			outcome = OutcomeRejected
		}
		s.metrics.observe(action, outcome, elapsed)
		s.logger.Error().
			Err(err).
			Str("action", action).
			Str("order_id", orderID).
			Str("outcome", outcome).
			Msg("transaction failed")
		return nil, err
	}

	outcome := OutcomeApproved
	if !resp.Success {
		outcome = OutcomeDeclined
	}
	s.metrics.observe(action, outcome, elapsed)

	s.logger.Info().
		Str("action", action).
		Str("order_id", orderID).
		Str("outcome", outcome).
		Str("transaction_id", resp.Authorization).
		Bool("test", resp.Test).
		Dur("elapsed", elapsed).
		Msg("transaction completed")

	return toTransactionResponse(resp), nil
}

func (s *Service) reject(action, orderID string, err error) (*models.TransactionResponse, error) {
	s.metrics.observe(action, OutcomeRejected, 0)
	s.logger.Warn().Err(err).Str("action", action).Str("order_id", orderID).Msg("request rejected")
	return nil, err
}

func (s *Service) currency(requested string) string {
	if c := strings.ToUpper(strings.TrimSpace(requested)); c != "" {
		return c
	}
	return s.cfg.DefaultCurrency
}

func parseAmount(raw string) (int64, error) {
	amount, err := utils.ParseAmount(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return amount, nil
}
