package mcpe

import (
	"errors"
	"strings"
)

const (
	LiveURL    = "https://secure.metacharge.com/mcpe/corporate"
	APIVersion = "1.3"
)

// Action is the vendor transaction type sent as strTransType.
type Action string

const (
	ActionAuthorize Action = "authonly"
	ActionPurchase  Action = "PAYMENT"
	ActionRepeat    Action = "REPEAT"
	ActionRefund    Action = "REFUND"
	ActionPayout    Action = "PAYOUT"
)

// TestMode is the value sent as intTestMode.
type TestMode int

const (
	TestModeLive    TestMode = 0
	TestModeTest    TestMode = 1
	TestModeDecline TestMode = 2 // sandbox, always declines
)

// Wire field vocabulary.
const (
	FieldInstID        = "intInstID"
	FieldAccountID     = "intAccountID"
	FieldTransType     = "strTransType"
	FieldAPIVersion    = "fltAPIVersion"
	FieldAmount        = "fltAmount"
	FieldCurrency      = "strCurrency"
	FieldCartID        = "strCartID"
	FieldDesc          = "strDesc"
	FieldCardHolder    = "strCardHolder"
	FieldCardNumber    = "strCardNumber"
	FieldExpiryDate    = "strExpiryDate"
	FieldStartDate     = "strStartDate"
	FieldIssueNo       = "strIssueNo"
	FieldCV2           = "intCV2"
	FieldCardType      = "strCardType"
	FieldAddress       = "strAddress"
	FieldCity          = "strCity"
	FieldState         = "strState"
	FieldPostcode      = "strPostcode"
	FieldCountry       = "strCountry"
	FieldTel           = "strTel"
	FieldEmail         = "strEmail"
	FieldUserIP        = "strUserIP"
	FieldTransID       = "intTransID"
	FieldSecurityToken = "strSecurityToken"
	FieldDigest        = "strDigest"
	FieldTestMode      = "intTestMode"
	FieldAuthMode      = "intAuthMode"
	FieldStatus        = "intStatus"
	FieldMessage       = "strMessage"
)

var (
	ErrMissingInstID        = errors.New("mcpe: installation id is required")
	ErrMissingSecurityToken = errors.New("mcpe: security token must be specified")
	ErrMissingCurrency      = errors.New("mcpe: currency is required")
	ErrInvalidAmount        = errors.New("mcpe: amount must not be negative")
	ErrMissingSecret        = errors.New("mcpe: shared secret is required for payouts")
	ErrMissingCard          = errors.New("mcpe: card is required")
	ErrDuplicateField       = errors.New("mcpe: duplicate wire field")
	ErrCaptureUnsupported   = errors.New("mcpe: capture is not supported by this gateway")
	ErrUnexpectedStatus     = errors.New("mcpe: unexpected http status")
)

// Card is what the field mapper needs from a payment card. Implementations
// are expected to be validated already.
type Card interface {
	Name() string
	Number() string
	ExpiryMonth() int
	ExpiryYear() int
	StartMonth() int
	StartYear() int
	IssueNumber() string
	VerificationValue() string
	Brand() string
}

// RequiresStartDateOrIssueNumber reports whether cards of the given brand
// carry a start date and issue number (UK debit schemes).
func RequiresStartDateOrIssueNumber(brand string) bool {
	switch strings.ToLower(strings.TrimSpace(brand)) {
	case "switch", "solo":
		return true
	}
	return false
}

type Address struct {
	Address1 string
	Address2 string
	City     string
	State    string
	Zip      string
	Country  string
	Phone    string
}

// Options carries the per-call inputs. Currency must already be resolved.
type Options struct {
	Currency       string
	OrderID        string
	Description    string
	Email          string
	IP             string
	BillingAddress *Address
	Address        *Address
	// Secret is the shared secret used for the payout digest. It is never stored.
	Secret string
}

// Response is the normalized result of a single exchange with the gateway.
type Response struct {
	Success       bool
	Message       string
	Authorization string
	Test          bool
	Params        map[string]string
}

// SecurityToken returns the token a successful purchase hands back for later
// repeat and refund calls.
func (r *Response) SecurityToken() string {
	return r.Params[FieldSecurityToken]
}

// Param returns a raw response field.
func (r *Response) Param(key string) string {
	return r.Params[key]
}
