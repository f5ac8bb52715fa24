package domain

import "strings"

// Client is the snapshot of a client record owned by the client service.
// The orchestrator only needs the type to gate credit card eligibility.
type Client struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Name           string `json:"name,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
}

// CanHoldCreditCard reports whether the client type is eligible for credit
// card products. Only personal and business ("empresarial") clients qualify.
func (c Client) CanHoldCreditCard() bool {
	switch strings.ToLower(c.Type) {
	case "personal", "empresarial":
		return true
	}
	return false
}
