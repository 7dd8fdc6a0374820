package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/pkg/wallet/destination"
	multisig "github.com/vulpemventures/uniond/pkg/wallet/multi-sig"
)

// accountStore is the identity store backed by the wallet repository. A
// single coarse lock serializes lookups and registrations.
type accountStore struct {
	repoManager   ports.RepoManager
	mnemonicStore ports.MnemonicStore
	codec         ports.AddressCodec
	lock          *sync.Mutex

	log  func(format string, a ...interface{})
	warn func(err error, format string, a ...interface{})
}

func NewAccountStore(
	repoManager ports.RepoManager, mnemonicStore ports.MnemonicStore,
	codec ports.AddressCodec,
) ports.AccountStore {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("account store: %s", format)
		log.Debugf(format, a...)
	}
	warnFn := func(err error, format string, a ...interface{}) {
		format = fmt.Sprintf("account store: %s", format)
		log.WithError(err).Warnf(format, a...)
	}
	return &accountStore{
		repoManager, mnemonicStore, codec, &sync.Mutex{}, logFn, warnFn,
	}
}

func (s *accountStore) IsOwnedKey(ctx context.Context, key []byte) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	w, err := s.repoManager.WalletRepository().GetWallet(ctx)
	if err != nil {
		return false
	}
	return w.IsOwnedKey(key)
}

func (s *accountStore) LookupOwnedKeyByHash(
	ctx context.Context, hash []byte,
) (*multisig.PublicKey, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	w, err := s.repoManager.WalletRepository().GetWallet(ctx)
	if err != nil {
		return nil, false
	}
	key, err := w.GetKeyByHash(hash)
	if err != nil {
		return nil, false
	}
	pubkey, err := multisig.ParsePublicKey(key.PubKey)
	if err != nil {
		s.warn(err, "stored key %d is invalid", key.Index)
		return nil, false
	}
	return pubkey, true
}

func (s *accountStore) LookupOwnedScriptByHash(
	ctx context.Context, hash []byte,
) ([]byte, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	w, err := s.repoManager.WalletRepository().GetWallet(ctx)
	if err != nil {
		return nil, false
	}
	account, err := w.GetUnionAccountByScriptHash(hash)
	if err != nil {
		return nil, false
	}
	return account.Script(), true
}

func (s *accountStore) RegisterAccount(
	ctx context.Context, name string, script []byte,
) (*domain.UnionAccount, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.mnemonicStore.IsSet() {
		return nil, newFailure(PasswordError, ErrWalletLocked, "")
	}

	thresholdScript, err := multisig.ParseThresholdScript(script)
	if err != nil {
		return nil, newFailure(NotP2SH, err, "")
	}
	dest := destination.FromRedeemScript(script)
	outputScript, err := dest.OutputScript()
	if err != nil || !destination.FromOutputScript(outputScript).IsScript() {
		return nil, newFailure(NotP2SH, err, "")
	}

	walletRepo := s.repoManager.WalletRepository()
	w, err := walletRepo.GetWallet(ctx)
	if err != nil {
		return nil, newFailure(AddMultiAddressFailed, err, "")
	}

	var ownKey *domain.Key
	numOfOwnKeys := 0
	for _, key := range thresholdScript.Keys {
		if w.IsOwnedKey(key.Bytes()) {
			numOfOwnKeys++
			ownKey, _ = w.GetKeyByHash(key.Hash160())
		}
	}
	if numOfOwnKeys != 1 {
		return nil, newFailure(
			NotYours, nil, "script contains %d owned keys", numOfOwnKeys,
		)
	}

	addr, err := s.codec.Encode(dest)
	if err != nil {
		return nil, newFailure(AddMultiAddressFailed, err, "")
	}
	account, err := domain.NewUnionAccount(name, addr, thresholdScript, ownKey.Hash())
	if err != nil {
		return nil, newFailure(AddMultiAddressFailed, err, "")
	}

	if err := walletRepo.AddUnionAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrUnionAccountDuplicate) {
			return nil, newFailure(DuplicateAddress, err, "")
		}
		return nil, newFailure(AddMultiAddressFailed, err, "")
	}

	s.log("registered union account %s with address %s", name, addr)
	return account, nil
}
