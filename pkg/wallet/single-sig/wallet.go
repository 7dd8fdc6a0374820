package singlesig

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	path "github.com/vulpemventures/uniond/pkg/wallet/derivation-path"
)

// Wallet is an HD wallet holding the master key derived at the root path of
// its mnemonic. Every owned key of a union wallet is derived from it.
type Wallet struct {
	mnemonic         []string
	rootPath         path.DerivationPath
	signingMasterKey []byte
}

type NewWalletFromMnemonicArgs struct {
	RootPath string
	Mnemonic []string
}

func (a NewWalletFromMnemonicArgs) validate() error {
	if a.RootPath == "" {
		return ErrMissingRootPath
	}
	if _, err := path.ParseRootDerivationPath(a.RootPath); err != nil {
		return err
	}
	if len(a.Mnemonic) == 0 {
		return ErrMissingMnemonic
	}
	if !isMnemonicValid(a.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic creates a new HD wallet with the given mnemonic seed
// and root path.
func NewWalletFromMnemonic(args NewWalletFromMnemonicArgs) (*Wallet, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	seed := generateSeedFromMnemonic(args.Mnemonic)
	rootPath, _ := path.ParseRootDerivationPath(args.RootPath)
	signingMasterKey, err := generateSigningMasterKey(seed, rootPath)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		mnemonic:         args.Mnemonic,
		rootPath:         rootPath,
		signingMasterKey: signingMasterKey,
	}, nil
}

// RootPath returns the absolute root derivation path of the wallet.
func (w *Wallet) RootPath() string {
	return w.rootPath.String()
}

// KeyPath returns the absolute derivation path of the given relative one.
func (w *Wallet) KeyPath(derivationPath string) (string, error) {
	relativePath, err := parseKeyDerivationPath(derivationPath)
	if err != nil {
		return "", err
	}
	return w.rootPath.Extend(relativePath...).String(), nil
}

func (w *Wallet) validate() error {
	if len(w.signingMasterKey) <= 0 {
		return ErrMissingSigningMasterKey
	}
	if len(w.mnemonic) <= 0 {
		return ErrMissingMnemonic
	}
	if !isMnemonicValid(w.mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

func (w *Wallet) masterKey() string {
	return base58.Encode(w.signingMasterKey)
}
