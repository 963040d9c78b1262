package mcpe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders minor units as a decimal string with two fractional
// digits, e.g. 1000 -> "10.00".
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// formatMonthYear encodes a month and four-digit year as MMYY.
func formatMonthYear(month, year int) string {
	return fmt.Sprintf("%02d%02d", month, year%100)
}

func amountFields(minor int64, currency string) (*Params, error) {
	if minor < 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(currency) == "" {
		return nil, ErrMissingCurrency
	}
	p := NewParams()
	p.Set(FieldAmount, FormatAmount(minor))
	p.Set(FieldCurrency, currency)
	return p, nil
}

func invoiceFields(opts Options) *Params {
	p := NewParams()
	p.Set(FieldCartID, opts.OrderID)
	p.Set(FieldDesc, opts.Description)
	return p
}

func cardFields(card Card) (*Params, error) {
	if card == nil {
		return nil, ErrMissingCard
	}
	p := NewParams()
	p.Set(FieldCardHolder, card.Name())
	p.Set(FieldCardNumber, card.Number())
	p.Set(FieldExpiryDate, formatMonthYear(card.ExpiryMonth(), card.ExpiryYear()))
	if RequiresStartDateOrIssueNumber(card.Brand()) {
		p.Set(FieldStartDate, formatMonthYear(card.StartMonth(), card.StartYear()))
		p.Set(FieldIssueNo, card.IssueNumber())
	}
	p.Set(FieldCV2, card.VerificationValue())
	p.Set(FieldCardType, strings.ToUpper(card.Brand()))
	return p, nil
}

func addressFields(opts Options) *Params {
	addr := Address{}
	switch {
	case opts.BillingAddress != nil:
		addr = *opts.BillingAddress
	case opts.Address != nil:
		addr = *opts.Address
	}

	lines := make([]string, 0, 2)
	for _, l := range []string{addr.Address1, addr.Address2} {
		if l != "" {
			lines = append(lines, l)
		}
	}

	p := NewParams()
	p.Set(FieldAddress, strings.Join(lines, "\n"))
	p.Set(FieldCity, addr.City)
	p.Set(FieldState, addr.State)
	p.Set(FieldPostcode, addr.Zip)
	p.Set(FieldCountry, addr.Country)
	p.Set(FieldTel, addr.Phone)
	return p
}

func customerFields(opts Options) *Params {
	p := NewParams()
	p.Set(FieldEmail, opts.Email)
	p.Set(FieldUserIP, opts.IP)
	return p
}

func recurringFields(transactionID, securityToken string) (*Params, error) {
	if securityToken == "" {
		return nil, ErrMissingSecurityToken
	}
	p := NewParams()
	p.Set(FieldTransID, transactionID)
	p.Set(FieldSecurityToken, securityToken)
	return p, nil
}

func digestFields(instID, cardNumber string, minor int64, currency, secret string) (*Params, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	p := NewParams()
	p.Set(FieldDigest, Digest(instID, cardNumber, FormatAmount(minor), currency, secret))
	return p, nil
}

func authModeFields() *Params {
	p := NewParams()
	p.Set(FieldAuthMode, strconv.Itoa(2))
	return p
}
