package application

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/pkg/wallet/destination"
	"github.com/vulpemventures/uniond/pkg/wallet/message"
	multisig "github.com/vulpemventures/uniond/pkg/wallet/multi-sig"
	singlesig "github.com/vulpemventures/uniond/pkg/wallet/single-sig"
)

// UtilService groups the stateless queries about addresses, threshold
// scripts and signed messages, along with message signing with owned keys.
type UtilService struct {
	repoManager   ports.RepoManager
	mnemonicStore ports.MnemonicStore
	codec         ports.AddressCodec
	store         ports.AccountStore
	describer     *AddressDescriber
	resolver      *KeyResolver
	magic         string
}

func NewUtilService(
	repoManager ports.RepoManager, mnemonicStore ports.MnemonicStore,
	codec ports.AddressCodec, store ports.AccountStore, magic string,
) *UtilService {
	if magic == "" {
		magic = message.DefaultMagic
	}
	return &UtilService{
		repoManager:   repoManager,
		mnemonicStore: mnemonicStore,
		codec:         codec,
		store:         store,
		describer:     NewAddressDescriber(codec, store),
		resolver:      NewKeyResolver(codec, store),
		magic:         magic,
	}
}

// ValidateAddress returns the validity of the given address and, if valid,
// everything the wallet knows about it.
func (us *UtilService) ValidateAddress(
	ctx context.Context, addr string,
) (*AddressValidation, error) {
	dest := us.codec.Decode(addr)
	if dest.IsNone() {
		return &AddressValidation{}, nil
	}

	script, err := dest.OutputScript()
	if err != nil {
		return nil, err
	}
	encodedAddr, err := us.codec.Encode(dest)
	if err != nil {
		return nil, err
	}

	validation := &AddressValidation{
		IsValid:            true,
		Address:            encodedAddr,
		ScriptPubKey:       hex.EncodeToString(script),
		AddressDescription: us.describer.Describe(ctx, dest),
	}

	w, err := us.repoManager.WalletRepository().GetWallet(ctx)
	if err != nil {
		return validation, nil
	}
	switch dest.Kind {
	case destination.KeyHash:
		if key, err := w.GetKeyByHash(dest.Hash); err == nil {
			validation.IsMine = true
			validation.Account = key.Label
			validation.HDKeyPath = w.KeyPath(key)
		}
	case destination.ScriptHash:
		if account, err := w.GetUnionAccountByScriptHash(dest.Hash); err == nil {
			validation.IsMine = true
			validation.Account = account.Name
		}
	}
	return validation, nil
}

// CreateMultisig builds the threshold script of the given keys, each an
// address of an owned key or a hex public key, and returns it along with its
// P2SH address. Nothing is stored.
func (us *UtilService) CreateMultisig(
	ctx context.Context, required int, keys []string,
) (*MultisigInfo, error) {
	if err := multisig.ValidateThreshold(required, len(keys)); err != nil {
		return nil, thresholdFailure(err)
	}

	pubkeys := make([]*multisig.PublicKey, 0, len(keys))
	for _, descriptor := range keys {
		key, err := us.resolver.Resolve(ctx, descriptor)
		if err != nil {
			return nil, err
		}
		pubkeys = append(pubkeys, key)
	}

	script, err := multisig.NewThresholdScript(required, pubkeys)
	if err != nil {
		return nil, thresholdFailure(err)
	}
	addr, err := us.codec.Encode(destination.FromRedeemScript(script.Script))
	if err != nil {
		return nil, err
	}
	return &MultisigInfo{
		Address:      addr,
		RedeemScript: script.Hex(),
	}, nil
}

// VerifyMessage returns whether the signature of the message was made with
// the key of the given address.
func (us *UtilService) VerifyMessage(
	_ context.Context, addr, signature, msg string,
) (bool, error) {
	dest := us.codec.Decode(addr)
	if dest.IsNone() {
		return false, ErrInvalidAddress
	}
	if dest.Kind != destination.KeyHash {
		return false, ErrAddressNotKey
	}

	pubkey, err := message.RecoverPubKey(signature, us.magic, msg)
	if err != nil {
		if errors.Is(err, message.ErrMalformedSignature) {
			return false, err
		}
		return false, nil
	}
	return destination.FromPubKey(pubkey).Equal(dest), nil
}

// SignMessageWithPrivKey signs the message with the given WIF private key.
func (us *UtilService) SignMessageWithPrivKey(
	_ context.Context, privkey, msg string,
) (string, error) {
	wif, err := btcutil.DecodeWIF(privkey)
	if err != nil {
		return "", ErrInvalidPrivateKey
	}
	return message.Sign(wif.PrivKey, wif.CompressPubKey, us.magic, msg)
}

// SignMessage signs the message with the owned key of the given address. The
// wallet must be unlocked.
func (us *UtilService) SignMessage(
	ctx context.Context, addr, msg string,
) (string, error) {
	if !us.mnemonicStore.IsSet() {
		return "", ErrWalletLocked
	}

	dest := us.codec.Decode(addr)
	if dest.IsNone() {
		return "", ErrInvalidAddress
	}
	if dest.Kind != destination.KeyHash {
		return "", ErrAddressNotKey
	}

	w, err := us.repoManager.WalletRepository().GetWallet(ctx)
	if err != nil {
		return "", err
	}
	key, err := w.GetKeyByHash(dest.Hash)
	if err != nil {
		return "", ErrKeyNotOwned
	}

	ww, err := singlesig.NewWalletFromMnemonic(singlesig.NewWalletFromMnemonicArgs{
		RootPath: w.RootPath,
		Mnemonic: us.mnemonicStore.Get(),
	})
	if err != nil {
		return "", err
	}
	return ww.SignMessage(singlesig.SignMessageArgs{
		DerivationPath: key.DerivationPath,
		Magic:          us.magic,
		Message:        msg,
	})
}

// AddressToPubKey returns the full public key of the owned key with the given
// address.
func (us *UtilService) AddressToPubKey(
	ctx context.Context, addr string,
) (string, error) {
	dest := us.codec.Decode(addr)
	if dest.IsNone() {
		return "", ErrInvalidAddress
	}
	if dest.IsScript() {
		return "", ErrAddressIsScript
	}

	key, ok := us.store.LookupOwnedKeyByHash(ctx, dest.Hash)
	if !ok {
		return "", ErrKeyNotOwned
	}
	return key.Hex(), nil
}
