package dto

import (
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMovementRequest is the payload for admitting a single movement.
// The id and date are never taken from the caller.
type CreateMovementRequest struct {
	ClientID  string              `json:"clientId" binding:"required"`
	ProductID string              `json:"productId" binding:"required"`
	Type      domain.MovementType `json:"type" binding:"required"`
	Amount    decimal.Decimal     `json:"amount" binding:"required"`
}

// ToDomain converts the request into a proposed domain movement.
func (r CreateMovementRequest) ToDomain() domain.Movement {
	return domain.Movement{
		ClientID:  r.ClientID,
		ProductID: r.ProductID,
		Type:      r.Type,
		Amount:    r.Amount,
	}
}

// UpdateMovementRequest is the payload for the administrative replace path.
type UpdateMovementRequest struct {
	ClientID  string              `json:"clientId" binding:"required"`
	ProductID string              `json:"productId" binding:"required"`
	Type      domain.MovementType `json:"type" binding:"required"`
	Amount    decimal.Decimal     `json:"amount" binding:"required"`
	Date      time.Time           `json:"date" binding:"required"`
}

// ToDomain converts the request into a domain movement without an id.
func (r UpdateMovementRequest) ToDomain() domain.Movement {
	return domain.Movement{
		ClientID:  r.ClientID,
		ProductID: r.ProductID,
		Type:      r.Type,
		Amount:    r.Amount,
		Date:      r.Date,
	}
}

// ThirdPartyPaymentRequest is the payload for paying another client's product.
type ThirdPartyPaymentRequest struct {
	FromProductID string          `json:"fromProductId" binding:"required"`
	ToProductID   string          `json:"toProductId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// MovementResponse is the outward shape of a ledger movement.
type MovementResponse struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"clientId"`
	ProductID  string          `json:"productId"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	TransferID string          `json:"transferId,omitempty"`
}

// ToMovementResponse converts a domain movement to its response DTO.
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		ID:         m.ID,
		ClientID:   m.ClientID,
		ProductID:  m.ProductID,
		Type:       string(m.Type),
		Amount:     m.Amount,
		Date:       m.Date,
		TransferID: m.TransferID,
	}
}

// ToMovementResponses converts a slice of domain movements.
func ToMovementResponses(movements []domain.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}
