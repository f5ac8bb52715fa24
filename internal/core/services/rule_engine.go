package services

import (
	"fmt"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Decision is the admit outcome of the rule engine. Amount carries the
// possibly fee-adjusted amount that must be used for both the balance delta
// and the persisted movement.
type Decision struct {
	Amount     decimal.Decimal
	FeeApplied bool
}

// RuleEngine evaluates per-subtype business rules for a proposed movement.
// It is pure: no storage or network access, only its inputs plus the
// precomputed monthly movement count.
type RuleEngine struct{}

// NewRuleEngine creates a RuleEngine.
func NewRuleEngine() RuleEngine {
	return RuleEngine{}
}

// Evaluate applies the subtype rules in order and returns either an admit
// decision or an error wrapping apperrors.ErrValidation with the rejection
// reason. today supplies the current instant so the engine stays pure.
//
// Rule order: the subtype-specific rejections run first, then the free
// transaction fee is applied, and the credit limit is checked against the
// fee-adjusted amount (the fee counts toward the limit).
func (RuleEngine) Evaluate(movement domain.Movement, product domain.Product, movementsThisMonth int64, today time.Time) (Decision, error) {
	switch product.Subtype {
	case domain.SubtypeFixedTerm:
		// Fixed term products only allow withdrawals on the configured day of
		// the month.
		if movement.Type == domain.MovementWithdrawal &&
			product.AllowedMovementDay != nil && *product.AllowedMovementDay != today.Day() {
			return Decision{}, fmt.Errorf("%w: fixed term withdrawals are only allowed on day %d of the month",
				apperrors.ErrValidation, *product.AllowedMovementDay)
		}
	case domain.SubtypeSavings:
		if product.MonthlyMovementLimit != nil && movementsThisMonth >= int64(*product.MonthlyMovementLimit) {
			return Decision{}, fmt.Errorf("%w: monthly movement limit of %d reached",
				apperrors.ErrValidation, *product.MonthlyMovementLimit)
		}
	case domain.SubtypeCurrentAccount, domain.SubtypePersonalCredit,
		domain.SubtypeBusinessCredit, domain.SubtypeCreditCard:
		// No subtype-specific pre-fee rule.
	default:
		return Decision{}, fmt.Errorf("%w: unknown product subtype %q", apperrors.ErrValidation, product.Subtype)
	}

	decision := Decision{Amount: movement.Amount}
	if product.FreeTransactionLimit != nil && product.TransactionFee != nil &&
		movementsThisMonth >= int64(*product.FreeTransactionLimit) {
		decision.Amount = decision.Amount.Add(*product.TransactionFee)
		decision.FeeApplied = true
	}

	if movement.Type == domain.MovementWithdrawal && product.Subtype.IsCreditBearing() &&
		product.CreditLimit != nil && decision.Amount.GreaterThan(*product.CreditLimit) {
		return Decision{}, fmt.Errorf("%w: amount %s exceeds the credit limit of %s",
			apperrors.ErrValidation, decision.Amount.String(), product.CreditLimit.String())
	}

	return decision, nil
}

// StartOfMonth returns midnight local time on the first day of the month
// containing t. Movements dated strictly after this instant count toward the
// monthly limits.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
