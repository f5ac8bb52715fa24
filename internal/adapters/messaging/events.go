package messaging

import (
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WalletTransferEvent is a direct transfer instruction between two wallet
// cards; the card ids are product ids.
type WalletTransferEvent struct {
	FromCard string          `json:"fromCard" validate:"required"`
	ToCard   string          `json:"toCard" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

// ExchangeTransactionEvent is a transfer instruction between two wallet
// directory entries. The product ids are resolved through the wallet
// directory before the transfer runs, and TransactionID is the idempotency
// key for the resulting ledger pair.
type ExchangeTransactionEvent struct {
	TransactionID  string                `json:"transactionId" validate:"required"`
	BuyerWalletID  string                `json:"buyerWalletId" validate:"required"`
	SellerWalletID string                `json:"sellerWalletId" validate:"required"`
	Amount         decimal.Decimal       `json:"amount"`
	TransferMethod domain.TransferMethod `json:"transferMethod" validate:"required,oneof=WALLET ACCOUNT"`
}
