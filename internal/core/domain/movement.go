package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType is the closed set of balance-affecting event kinds.
type MovementType string

const (
	MovementDeposit     MovementType = "DEPOSIT"
	MovementWithdrawal  MovementType = "WITHDRAWAL"
	MovementPayment     MovementType = "PAYMENT"
	MovementConsumption MovementType = "CONSUMPTION"
	// Third party payments are recorded as a debit/credit pair; the sent leg
	// carries a negative amount, the received leg a positive one.
	MovementThirdPartySent     MovementType = "THIRD_PARTY_PAYMENT_SENT"
	MovementThirdPartyReceived MovementType = "THIRD_PARTY_PAYMENT_RECEIVED"
)

// IsValid reports whether t is one of the known movement types.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementDeposit, MovementWithdrawal, MovementPayment, MovementConsumption,
		MovementThirdPartySent, MovementThirdPartyReceived:
		return true
	}
	return false
}

// Movement is an immutable ledger entry recording a balance-affecting event
// against a product. The ID is assigned by the store on creation and the
// date is set by the orchestrator, never by the caller.
type Movement struct {
	ID        string          `json:"id,omitempty"`
	ClientID  string          `json:"clientId"`
	ProductID string          `json:"productId"`
	Type      MovementType    `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	// TransferID links the two legs of a transfer and doubles as the
	// idempotency key for event-driven transfers. Empty for single movements.
	TransferID string `json:"transferId,omitempty"`
}
