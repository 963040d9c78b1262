package payment

import (
	"mcpe-gateway-api/models"
	"mcpe-gateway-api/services/payment/mcpe"
)

// card adapts the API card model to mcpe.Card.
type card struct {
	d *models.CardData
}

func (c card) Name() string              { return c.d.HolderName }
func (c card) Number() string            { return c.d.Number }
func (c card) ExpiryMonth() int          { return c.d.Month }
func (c card) ExpiryYear() int           { return c.d.Year }
func (c card) StartMonth() int           { return c.d.StartMonth }
func (c card) StartYear() int            { return c.d.StartYear }
func (c card) IssueNumber() string       { return c.d.IssueNumber }
func (c card) VerificationValue() string { return c.d.CVV }
func (c card) Brand() string             { return c.d.Brand }

func toCard(d *models.CardData) mcpe.Card {
	if d == nil {
		return nil
	}
	return card{d: d}
}

func toAddress(a *models.Address) *mcpe.Address {
	if a == nil {
		return nil
	}
	return &mcpe.Address{
		Address1: a.Line1,
		Address2: a.Line2,
		City:     a.City,
		State:    a.State,
		Zip:      a.Zip,
		Country:  a.Country,
		Phone:    a.Phone,
	}
}

// hidden response fields are never echoed back to API clients.
var hidden = map[string]bool{
	mcpe.FieldCardNumber:    true,
	mcpe.FieldCV2:           true,
	mcpe.FieldSecurityToken: true,
	mcpe.FieldDigest:        true,
}

func toTransactionResponse(resp *mcpe.Response) *models.TransactionResponse {
	params := make(map[string]string, len(resp.Params))
	for k, v := range resp.Params {
		if !hidden[k] {
			params[k] = v
		}
	}
	return &models.TransactionResponse{
		Success:       resp.Success,
		TransactionID: resp.Authorization,
		Message:       resp.Message,
		Test:          resp.Test,
		SecurityToken: resp.SecurityToken(),
		Params:        params,
	}
}
