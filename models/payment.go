package models

// Amounts are decimal strings in major units, e.g. "10.00".

// ChargeRequest is the body of authorize and purchase calls.
type ChargeRequest struct {
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency,omitempty"`
	OrderID        string    `json:"order_id,omitempty"`
	Description    string    `json:"description,omitempty"`
	Email          string    `json:"email,omitempty"`
	IP             string    `json:"ip,omitempty"`
	Card           *CardData `json:"card"`
	BillingAddress *Address  `json:"billing_address,omitempty"`
	Address        *Address  `json:"address,omitempty"`
}

// RepeatRequest charges the card behind an earlier purchase again.
type RepeatRequest struct {
	Amount        string `json:"amount"`
	Currency      string `json:"currency,omitempty"`
	OrderID       string `json:"order_id,omitempty"`
	TransactionID string `json:"transaction_id"`
	SecurityToken string `json:"security_token"`
}

type RefundRequest struct {
	Amount        string `json:"amount"`
	Currency      string `json:"currency,omitempty"`
	OrderID       string `json:"order_id,omitempty"`
	Description   string `json:"description,omitempty"`
	TransactionID string `json:"transaction_id"`
	SecurityToken string `json:"security_token"`
}

type PayoutRequest struct {
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency,omitempty"`
	OrderID     string    `json:"order_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Email       string    `json:"email,omitempty"`
	Card        *CardData `json:"card"`
}

type CaptureRequest struct {
	Amount        string `json:"amount"`
	Authorization string `json:"authorization"`
	OrderID       string `json:"order_id,omitempty"`
}
