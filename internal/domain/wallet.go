package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletType represents the kind of account a wallet tracks
type WalletType string

const (
	WalletTypeBank       WalletType = "bank"
	WalletTypeCash       WalletType = "cash"
	WalletTypeEWallet    WalletType = "ewallet"
	WalletTypeCreditCard WalletType = "credit_card"
	WalletTypeInvestment WalletType = "investment"
	WalletTypeOther      WalletType = "other"
)

// Valid reports whether t is a known wallet type
func (t WalletType) Valid() bool {
	switch t {
	case WalletTypeBank, WalletTypeCash, WalletTypeEWallet,
		WalletTypeCreditCard, WalletTypeInvestment, WalletTypeOther:
		return true
	}
	return false
}

// Wallet represents an account holding a balance in a single currency.
// CurrentAmount is the authoritative live balance and must always equal
// InitialAmount plus the net signed amounts of all live transactions
// routed through this wallet. InitialAmount is immutable after creation.
// Wallets are never hard-deleted, only marked via DeletedAt.
type Wallet struct {
	ID            uuid.UUID
	Name          string
	Type          WalletType
	Currency      string
	InitialAmount decimal.Decimal
	CurrentAmount decimal.Decimal
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// Validate ensures the wallet adheres to domain rules
func (w *Wallet) Validate() error {
	if w.Name == "" {
		return &ValidationError{Field: "name", Reason: "wallet name cannot be empty"}
	}
	if !w.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "unknown wallet type: " + string(w.Type)}
	}
	if w.Currency == "" {
		return &ValidationError{Field: "currency", Reason: "wallet currency cannot be empty"}
	}
	if w.InitialAmount.IsNegative() {
		return &ValidationError{Field: "initial_amount", Reason: "initial amount cannot be negative"}
	}
	return nil
}
