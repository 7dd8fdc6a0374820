package singlesig

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/vulpemventures/uniond/pkg/wallet/message"
)

// KeyDerivationPath returns the relative derivation path of the owned key
// with the given index, ie. account'/0/index.
func KeyDerivationPath(account, index uint32) (string, error) {
	if account >= hdkeychain.HardenedKeyStart {
		return "", ErrOutOfRangeDerivationPathAccount
	}
	if index >= hdkeychain.HardenedKeyStart {
		return "", ErrOutOfRangeKeyIndex
	}
	return fmt.Sprintf("%d'/0/%d", account, index), nil
}

type ExtendedKeyArgs struct {
	Account uint32
}

func (a ExtendedKeyArgs) validate() error {
	if a.Account >= hdkeychain.HardenedKeyStart {
		return ErrOutOfRangeDerivationPathAccount
	}
	return nil
}

// AccountExtendedPublicKey returns the extended public key in base58 format
// for the given account index.
func (w *Wallet) AccountExtendedPublicKey(args ExtendedKeyArgs) (string, error) {
	if err := args.validate(); err != nil {
		return "", err
	}
	if err := w.validate(); err != nil {
		return "", err
	}

	masterKey, err := hdkeychain.NewKeyFromString(w.masterKey())
	if err != nil {
		return "", err
	}
	xprv, err := masterKey.Derive(args.Account + hdkeychain.HardenedKeyStart)
	if err != nil {
		return "", err
	}
	xpub, err := xprv.Neuter()
	if err != nil {
		return "", err
	}
	return xpub.String(), nil
}

type DeriveSigningKeyPairArgs struct {
	DerivationPath string
}

func (a DeriveSigningKeyPairArgs) validate() error {
	_, err := parseKeyDerivationPath(a.DerivationPath)
	return err
}

// DeriveSigningKeyPair derives the key pair from the given derivation path.
func (w *Wallet) DeriveSigningKeyPair(args DeriveSigningKeyPairArgs) (
	*btcec.PrivateKey, *btcec.PublicKey, error,
) {
	if err := args.validate(); err != nil {
		return nil, nil, err
	}
	if err := w.validate(); err != nil {
		return nil, nil, err
	}

	hdNode, err := hdkeychain.NewKeyFromString(w.masterKey())
	if err != nil {
		return nil, nil, err
	}

	derivationPath, _ := parseKeyDerivationPath(args.DerivationPath)
	for _, step := range derivationPath {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, nil, err
		}
	}

	privateKey, err := hdNode.ECPrivKey()
	if err != nil {
		return nil, nil, err
	}
	return privateKey, privateKey.PubKey(), nil
}

type SignMessageArgs struct {
	DerivationPath string
	Magic          string
	Message        string
}

func (a SignMessageArgs) validate() error {
	_, err := parseKeyDerivationPath(a.DerivationPath)
	return err
}

// SignMessage returns the base64 compact signature of the given message made
// with the key at the given derivation path. Owned keys are always
// serialized compressed.
func (w *Wallet) SignMessage(args SignMessageArgs) (string, error) {
	if err := args.validate(); err != nil {
		return "", err
	}

	prvkey, _, err := w.DeriveSigningKeyPair(DeriveSigningKeyPairArgs{
		DerivationPath: args.DerivationPath,
	})
	if err != nil {
		return "", err
	}
	return message.Sign(prvkey, true, args.Magic, args.Message)
}
