package domain

import (
	"context"
	"fmt"
)

const (
	WalletCreated WalletEventType = iota
	WalletUnlocked
	WalletLocked
	WalletPasswordChanged
	WalletKeyDerived
	WalletUnionAccountCreated
)

var (
	ErrWalletNotInitialized = fmt.Errorf("wallet is not initialized")
	ErrWalletAlreadyExists  = fmt.Errorf("wallet already initialized")

	walletTypeString = map[WalletEventType]string{
		WalletCreated:             "WalletCreated",
		WalletUnlocked:            "WalletUnlocked",
		WalletLocked:              "WalletLocked",
		WalletPasswordChanged:     "WalletPasswordChanged",
		WalletKeyDerived:          "WalletKeyDerived",
		WalletUnionAccountCreated: "WalletUnionAccountCreated",
	}
)

type WalletEventType int

func (t WalletEventType) String() string {
	return walletTypeString[t]
}

// WalletEvent holds info about an event occured within the repository.
type WalletEvent struct {
	EventType    WalletEventType
	Key          *Key
	UnionAccount *UnionAccount
}

// WalletRepository is the abstraction for any kind of database intended to
// persist a Wallet.
type WalletRepository interface {
	// CreateWallet stores a new Wallet if not yet existing.
	// Generates a WalletCreated event if successfull.
	CreateWallet(ctx context.Context, wallet *Wallet) error
	// GetWallet returns the stored wallet, if existing.
	GetWallet(ctx context.Context) (*Wallet, error)
	// UnlockWallet decrypts the mnemonic of the stored Wallet with the given
	// password and returns it.
	// Generates a WalletUnlocked event if successfull.
	UnlockWallet(
		ctx context.Context, password string, cypher MnemonicCypher,
	) ([]string, error)
	// LockWallet generates a WalletLocked event if the wallet exists.
	LockWallet(ctx context.Context) error
	// ChangePassword encrypts the mnemonic again with the new password.
	// Generates a WalletPasswordChanged event if successfull.
	ChangePassword(
		ctx context.Context, currentPassword, newPassword string,
		cypher MnemonicCypher,
	) error
	// UpdateWallet allows to make multiple changes to the Wallet in a
	// transactional way.
	UpdateWallet(
		ctx context.Context, updateFn func(v *Wallet) (*Wallet, error),
	) error
	// DeriveNextKey derives and stores a new owned key.
	// Generates a WalletKeyDerived event if successfull.
	DeriveNextKey(
		ctx context.Context, mnemonic []string, label string,
	) (*Key, error)
	// AddUnionAccount stores the given union account. Nothing is persisted if
	// the account can't be added.
	// Generates a WalletUnionAccountCreated event if successfull.
	AddUnionAccount(ctx context.Context, account *UnionAccount) error
	// GetEventChannel returns the channel of WalletEvents.
	GetEventChannel() chan WalletEvent
}
