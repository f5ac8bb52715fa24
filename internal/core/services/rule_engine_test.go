package services_test

import (
	"testing"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int                         { return &v }
func decPtr(v decimal.Decimal) *decimal.Decimal { return &v }

func TestRuleEngine_Evaluate(t *testing.T) {
	engine := services.NewRuleEngine()
	today := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name           string
		movement       domain.Movement
		product        domain.Product
		monthlyCount   int64
		wantErr        bool
		wantAmount     decimal.Decimal
		wantFeeApplied bool
	}{
		{
			name:         "savings deposit under monthly limit",
			movement:     domain.Movement{Type: domain.MovementDeposit, Amount: decimal.NewFromInt(100)},
			product:      domain.Product{Subtype: domain.SubtypeSavings, MonthlyMovementLimit: intPtr(5)},
			monthlyCount: 4,
			wantAmount:   decimal.NewFromInt(100),
		},
		{
			name:         "savings movement at monthly limit is rejected",
			movement:     domain.Movement{Type: domain.MovementDeposit, Amount: decimal.NewFromInt(100)},
			product:      domain.Product{Subtype: domain.SubtypeSavings, MonthlyMovementLimit: intPtr(5)},
			monthlyCount: 5,
			wantErr:      true,
		},
		{
			name:         "savings without a limit admits any count",
			movement:     domain.Movement{Type: domain.MovementWithdrawal, Amount: decimal.NewFromInt(10)},
			product:      domain.Product{Subtype: domain.SubtypeSavings},
			monthlyCount: 500,
			wantAmount:   decimal.NewFromInt(10),
		},
		{
			name:     "fixed term withdrawal on the allowed day",
			movement: domain.Movement{Type: domain.MovementWithdrawal, Amount: decimal.NewFromInt(50)},
			product: domain.Product{
				Subtype:            domain.SubtypeFixedTerm,
				AllowedMovementDay: intPtr(15),
			},
			wantAmount: decimal.NewFromInt(50),
		},
		{
			name:     "fixed term withdrawal on another day is rejected",
			movement: domain.Movement{Type: domain.MovementWithdrawal, Amount: decimal.NewFromInt(50)},
			product: domain.Product{
				Subtype:            domain.SubtypeFixedTerm,
				AllowedMovementDay: intPtr(20),
			},
			wantErr: true,
		},
		{
			name:     "fixed term deposit ignores the allowed day",
			movement: domain.Movement{Type: domain.MovementDeposit, Amount: decimal.NewFromInt(50)},
			product: domain.Product{
				Subtype:            domain.SubtypeFixedTerm,
				AllowedMovementDay: intPtr(20),
			},
			wantAmount: decimal.NewFromInt(50),
		},
		{
			name:     "fee applied once the free transactions run out",
			movement: domain.Movement{Type: domain.MovementWithdrawal, Amount: decimal.NewFromInt(100)},
			product: domain.Product{
				Subtype:              domain.SubtypeCurrentAccount,
				FreeTransactionLimit: intPtr(3),
				TransactionFee:       decPtr(decimal.RequireFromString("2.50")),
			},
			monthlyCount:   3,
			wantAmount:     decimal.RequireFromString("102.50"),
			wantFeeApplied: true,
		},
		{
			name:     "no fee while under the free transaction limit",
			movement: domain.Movement{Type: domain.MovementWithdrawal, Amount: decimal.NewFromInt(100)},
			product: domain.Product{
				Subtype:              domain.SubtypeCurrentAccount,
				FreeTransactionLimit: intPtr(3),
				TransactionFee:       decPtr(decimal.RequireFromString("2.50")),
			},
			monthlyCount: 2,
			wantAmount:   decimal.NewFromInt(100),
		},
		{
			name:     "credit withdrawal within the limit",
			movement: domain.Movement{Type: domain.MovementWithdrawal, Amount: decimal.NewFromInt(900)},
			product: domain.Product{
				Subtype:     domain.SubtypePersonalCredit,
				CreditLimit: decPtr(decimal.NewFromInt(1000)),
			},
			wantAmount: decimal.NewFromInt(900),
		},
		{
			name:     "credit withdrawal over the limit is rejected",
			movement: domain.Movement{Type: domain.MovementWithdrawal, Amount: decimal.NewFromInt(1001)},
			product: domain.Product{
				Subtype:     domain.SubtypeBusinessCredit,
				CreditLimit: decPtr(decimal.NewFromInt(1000)),
			},
			wantErr: true,
		},
		{
			name:     "fee pushes a credit withdrawal over the limit",
			movement: domain.Movement{Type: domain.MovementWithdrawal, Amount: decimal.NewFromInt(999)},
			product: domain.Product{
				Subtype:              domain.SubtypeCreditCard,
				CreditLimit:          decPtr(decimal.NewFromInt(1000)),
				FreeTransactionLimit: intPtr(0),
				TransactionFee:       decPtr(decimal.NewFromInt(5)),
			},
			monthlyCount: 0,
			wantErr:      true,
		},
		{
			name:     "credit deposit is not checked against the limit",
			movement: domain.Movement{Type: domain.MovementDeposit, Amount: decimal.NewFromInt(5000)},
			product: domain.Product{
				Subtype:     domain.SubtypeCreditCard,
				CreditLimit: decPtr(decimal.NewFromInt(1000)),
			},
			wantAmount: decimal.NewFromInt(5000),
		},
		{
			name:     "unknown subtype is rejected",
			movement: domain.Movement{Type: domain.MovementDeposit, Amount: decimal.NewFromInt(10)},
			product:  domain.Product{Subtype: domain.ProductSubtype("MORTGAGE")},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := engine.Evaluate(tt.movement, tt.product, tt.monthlyCount, today)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.True(t, decision.Amount.Equal(tt.wantAmount),
				"amount = %s, want %s", decision.Amount, tt.wantAmount)
			assert.Equal(t, tt.wantFeeApplied, decision.FeeApplied)
		})
	}
}

func TestStartOfMonth(t *testing.T) {
	loc, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	got := services.StartOfMonth(time.Date(2025, time.March, 15, 23, 59, 59, 0, loc))
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, loc), got)

	got = services.StartOfMonth(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), got)
}
