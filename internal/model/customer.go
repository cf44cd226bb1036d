package model

// Transaction is a single customer transaction as returned by the
// credit-data API's transactions query.
type Transaction struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Merchant    string  `json:"merchant,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

// PhoneEvent is one entry in a customer's phone history.
type PhoneEvent struct {
	Number     string `json:"number"`
	Carrier    string `json:"carrier,omitempty"`
	LineType   string `json:"lineType,omitempty"`
	Status     string `json:"status,omitempty"`
	ReportedAt string `json:"reportedAt,omitempty"`
}
