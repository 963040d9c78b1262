package models

// CardData is the payment card as received from API clients. It is passed
// to the gateway as is; no number or date checks are made here.
type CardData struct {
	HolderName  string `json:"holder_name"`
	Number      string `json:"number"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	StartMonth  int    `json:"start_month,omitempty"`
	StartYear   int    `json:"start_year,omitempty"`
	IssueNumber string `json:"issue_number,omitempty"`
	CVV         string `json:"cvv"`
	Brand       string `json:"brand"` // visa, master, american_express, discover, switch, solo
}

// Last4 is safe to log.
func (c *CardData) Last4() string {
	if c == nil || len(c.Number) < 4 {
		return ""
	}
	return c.Number[len(c.Number)-4:]
}
