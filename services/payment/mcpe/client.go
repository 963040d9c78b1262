package mcpe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the merchant identity and endpoint. It is fixed for the
// lifetime of a Client.
type Config struct {
	InstID    string
	AccountID string
	URL       string
	TestMode  TestMode
}

// Client speaks the MCPE corporate protocol. It holds no mutable state and
// is safe for concurrent use when its Poster is.
type Client struct {
	cfg    Config
	poster Poster
	logger zerolog.Logger
}

func NewClient(cfg Config, poster Poster, logger zerolog.Logger) (*Client, error) {
	if cfg.InstID == "" {
		return nil, ErrMissingInstID
	}
	if cfg.URL == "" {
		cfg.URL = LiveURL
	}
	if poster == nil {
		poster = NewHTTPPoster(DefaultTimeout)
	}
	return &Client{
		cfg:    cfg,
		poster: poster,
		logger: logger.With().Str("component", "mcpe").Logger(),
	}, nil
}

func (c *Client) Config() Config {
	return c.cfg
}

// Authorize reserves funds on the card without capturing them.
func (c *Client) Authorize(ctx context.Context, amount int64, card Card, opts Options) (*Response, error) {
	amt, err := amountFields(amount, opts.Currency)
	if err != nil {
		return nil, err
	}
	cc, err := cardFields(card)
	if err != nil {
		return nil, err
	}
	post, err := mergeFragments(authModeFields(), amt, invoiceFields(opts), cc, addressFields(opts), customerFields(opts))
	if err != nil {
		return nil, err
	}
	return c.commit(ctx, ActionAuthorize, post, opts)
}

// Purchase authorizes and captures in one step. A successful response carries
// the security token needed for Repeat and Credit.
func (c *Client) Purchase(ctx context.Context, amount int64, card Card, opts Options) (*Response, error) {
	amt, err := amountFields(amount, opts.Currency)
	if err != nil {
		return nil, err
	}
	cc, err := cardFields(card)
	if err != nil {
		return nil, err
	}
	post, err := mergeFragments(amt, invoiceFields(opts), cc, addressFields(opts), customerFields(opts))
	if err != nil {
		return nil, err
	}
	return c.commit(ctx, ActionPurchase, post, opts)
}

// Repeat charges the card stored against an earlier purchase.
func (c *Client) Repeat(ctx context.Context, amount int64, transactionID, securityToken string, opts Options) (*Response, error) {
	rec, err := recurringFields(transactionID, securityToken)
	if err != nil {
		return nil, err
	}
	amt, err := amountFields(amount, opts.Currency)
	if err != nil {
		return nil, err
	}
	post, err := mergeFragments(amt, rec)
	if err != nil {
		return nil, err
	}
	return c.commit(ctx, ActionRepeat, post, opts)
}

// Credit refunds an earlier charge.
func (c *Client) Credit(ctx context.Context, amount int64, transactionID, securityToken string, opts Options) (*Response, error) {
	rec, err := recurringFields(transactionID, securityToken)
	if err != nil {
		return nil, err
	}
	amt, err := amountFields(amount, opts.Currency)
	if err != nil {
		return nil, err
	}
	desc := NewParams()
	desc.Set(FieldDesc, opts.Description)
	post, err := mergeFragments(amt, rec, desc)
	if err != nil {
		return nil, err
	}
	return c.commit(ctx, ActionRefund, post, opts)
}

// Payout sends funds to the card. opts.Secret must hold the shared secret.
func (c *Client) Payout(ctx context.Context, amount int64, card Card, opts Options) (*Response, error) {
	amt, err := amountFields(amount, opts.Currency)
	if err != nil {
		return nil, err
	}
	cc, err := cardFields(card)
	if err != nil {
		return nil, err
	}
	dig, err := digestFields(c.cfg.InstID, card.Number(), amount, opts.Currency, opts.Secret)
	if err != nil {
		return nil, err
	}
	email := NewParams()
	email.Set(FieldEmail, opts.Email)
	post, err := mergeFragments(amt, invoiceFields(opts), cc, email, dig)
	if err != nil {
		return nil, err
	}
	return c.commit(ctx, ActionPayout, post, opts)
}

// Capture is not offered: the gateway's capture contract for a prior
// authorization is unconfirmed, so no request is sent.
func (c *Client) Capture(ctx context.Context, amount int64, authorization string, opts Options) (*Response, error) {
	c.logger.Warn().
		Str("authorization", authorization).
		Msg("capture requested but not supported")
	return nil, ErrCaptureUnsupported
}

func (c *Client) commit(ctx context.Context, action Action, post *Params, opts Options) (*Response, error) {
	protocol := NewParams()
	protocol.Set(FieldTestMode, strconv.Itoa(int(c.cfg.TestMode)))
	protocol.Set(FieldInstID, c.cfg.InstID)
	if c.cfg.AccountID != "" {
		protocol.Set(FieldAccountID, c.cfg.AccountID)
	}
	protocol.Set(FieldTransType, string(action))
	protocol.Set(FieldAPIVersion, APIVersion)
	if err := post.Merge(protocol); err != nil {
		return nil, err
	}

	logger := c.logger.With().
		Str("action", string(action)).
		Str("order_id", opts.OrderID).
		Logger()

	start := time.Now()
	logger.Debug().Int("fields", post.Len()).Msg("sending request to gateway")

	data, err := c.poster.Post(ctx, c.cfg.URL, Encode(post))
	if err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("gateway request failed")
		return nil, fmt.Errorf("mcpe %s: %w", action, err)
	}

	resp := parseResponse(data)

	logger.Info().
		Bool("success", resp.Success).
		Str("trans_id", resp.Authorization).
		Str("message", resp.Message).
		Dur("elapsed", time.Since(start)).
		Msg("gateway response received")

	return resp, nil
}

func parseResponse(body string) *Response {
	params := Decode(body)
	return &Response{
		Success:       params[FieldStatus] == "1",
		Message:       params[FieldMessage],
		Authorization: params[FieldTransID],
		Test:          params[FieldTestMode] == "1",
		Params:        params,
	}
}
