package domain

import "github.com/shopspring/decimal"

// ProductType is the top level product category owned by the product service.
type ProductType string

const (
	// ProductActive covers creditor-facing products (credits, credit cards).
	ProductActive ProductType = "ACTIVE"
	// ProductPassive covers deposit products (savings, current accounts).
	ProductPassive ProductType = "PASSIVE"
)

// ProductSubtype is the closed set of product subtypes. The rule engine
// switches exhaustively over this set so adding a subtype forces a review of
// every rule branch.
type ProductSubtype string

const (
	SubtypeSavings        ProductSubtype = "SAVINGS"
	SubtypeCurrentAccount ProductSubtype = "CURRENT_ACCOUNT"
	SubtypeFixedTerm      ProductSubtype = "FIXED_TERM"
	SubtypePersonalCredit ProductSubtype = "PERSONAL_CREDIT"
	SubtypeBusinessCredit ProductSubtype = "BUSINESS_CREDIT"
	SubtypeCreditCard     ProductSubtype = "CREDIT_CARD"
)

// IsCreditBearing reports whether the subtype carries a credit line whose
// limit constrains withdrawals.
func (s ProductSubtype) IsCreditBearing() bool {
	switch s {
	case SubtypePersonalCredit, SubtypeBusinessCredit, SubtypeCreditCard:
		return true
	case SubtypeSavings, SubtypeCurrentAccount, SubtypeFixedTerm:
		return false
	}
	return false
}

// Product is the snapshot of a product record owned by the product service.
// The orchestrator mutates a local copy and pushes the whole snapshot back;
// the remote store does not merge partial updates.
type Product struct {
	ID       string         `json:"id"`
	Type     ProductType    `json:"type"`
	Subtype  ProductSubtype `json:"subtype"`
	ClientID string         `json:"clientId"`
	// Balance defaults to zero when the remote snapshot omits it.
	Balance              decimal.Decimal  `json:"balance"`
	MaintenanceFee       *decimal.Decimal `json:"maintenanceFee,omitempty"`
	MonthlyMovementLimit *int             `json:"monthlyMovementLimit,omitempty"`
	FreeTransactionLimit *int             `json:"freeTransactionLimit,omitempty"`
	TransactionFee       *decimal.Decimal `json:"transactionFee,omitempty"`
	AllowedMovementDay   *int             `json:"allowedMovementDay,omitempty"`
	CreditLimit          *decimal.Decimal `json:"creditLimit,omitempty"`
}
