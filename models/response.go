package models

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// TransactionResponse is the normalized gateway result returned to API
// clients. SecurityToken is only set by purchases and is needed for later
// repeat and refund calls.
type TransactionResponse struct {
	Success       bool              `json:"success"`
	TransactionID string            `json:"transaction_id"`
	Message       string            `json:"message"`
	Test          bool              `json:"test"`
	SecurityToken string            `json:"security_token,omitempty"`
	Params        map[string]string `json:"params,omitempty"`
}
