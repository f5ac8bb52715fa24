package domain

// TransferMethod selects which product a wallet-directory transfer settles
// against.
type TransferMethod string

const (
	TransferViaWallet  TransferMethod = "WALLET"
	TransferViaAccount TransferMethod = "ACCOUNT"
)

// Wallet is the snapshot of a wallet-directory entry. Exchange transfer
// events reference wallets; the event adapter resolves them to product ids
// before calling the orchestrator.
type Wallet struct {
	ID                  string `json:"id"`
	DocumentType        string `json:"documentType,omitempty"`
	DocumentNumber      string `json:"documentNumber,omitempty"`
	PhoneNumber         string `json:"phoneNumber,omitempty"`
	Email               string `json:"email,omitempty"`
	AssociatedWalletID  string `json:"associatedWalletId,omitempty"`
	AssociatedAccountID string `json:"associatedAccountId,omitempty"`
}

// ProductIDFor returns the product id that settles transfers for the given
// method, or an empty string when the wallet has no association.
func (w Wallet) ProductIDFor(method TransferMethod) string {
	if method == TransferViaAccount {
		return w.AssociatedAccountID
	}
	return w.AssociatedWalletID
}
