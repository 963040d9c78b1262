package payment

import (
	"context"

	"mcpe-gateway-api/services/payment/mcpe"
)

// Gateway is the set of operations the service needs from a gateway
// client. *mcpe.Client satisfies it.
type Gateway interface {
	Authorize(ctx context.Context, amount int64, card mcpe.Card, opts mcpe.Options) (*mcpe.Response, error)
	Purchase(ctx context.Context, amount int64, card mcpe.Card, opts mcpe.Options) (*mcpe.Response, error)
	Repeat(ctx context.Context, amount int64, transactionID, securityToken string, opts mcpe.Options) (*mcpe.Response, error)
	Credit(ctx context.Context, amount int64, transactionID, securityToken string, opts mcpe.Options) (*mcpe.Response, error)
	Payout(ctx context.Context, amount int64, card mcpe.Card, opts mcpe.Options) (*mcpe.Response, error)
	Capture(ctx context.Context, amount int64, authorization string, opts mcpe.Options) (*mcpe.Response, error)
}

var _ Gateway = (*mcpe.Client)(nil)
