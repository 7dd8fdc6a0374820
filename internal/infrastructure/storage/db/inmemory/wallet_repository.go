package inmemory

import (
	"context"
	"sync"

	"github.com/vulpemventures/uniond/internal/core/domain"
)

type walletInmemoryStore struct {
	wallet *domain.Wallet
	lock   *sync.RWMutex
}

type walletRepository struct {
	store            *walletInmemoryStore
	chEvents         chan domain.WalletEvent
	externalChEvents chan domain.WalletEvent
	chLock           *sync.Mutex
}

func NewWalletRepository() domain.WalletRepository {
	return newWalletRepository()
}

func newWalletRepository() *walletRepository {
	return &walletRepository{
		store: &walletInmemoryStore{
			lock: &sync.RWMutex{},
		},
		chEvents:         make(chan domain.WalletEvent),
		externalChEvents: make(chan domain.WalletEvent),
		chLock:           &sync.Mutex{},
	}
}

func (r *walletRepository) CreateWallet(
	ctx context.Context, wallet *domain.Wallet,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if r.store.wallet != nil {
		return domain.ErrWalletAlreadyExists
	}

	r.store.wallet = wallet

	go r.publishEvent(domain.WalletEvent{
		EventType: domain.WalletCreated,
	})

	return nil
}

func (r *walletRepository) GetWallet(ctx context.Context) (*domain.Wallet, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	if r.store.wallet == nil {
		return nil, domain.ErrWalletNotInitialized
	}
	return r.store.wallet, nil
}

func (r *walletRepository) UnlockWallet(
	ctx context.Context, password string, cypher domain.MnemonicCypher,
) ([]string, error) {
	w, err := r.GetWallet(ctx)
	if err != nil {
		return nil, err
	}

	mnemonic, err := w.Unlock(password, cypher)
	if err != nil {
		return nil, err
	}

	go r.publishEvent(domain.WalletEvent{
		EventType: domain.WalletUnlocked,
	})

	return mnemonic, nil
}

func (r *walletRepository) LockWallet(ctx context.Context) error {
	if _, err := r.GetWallet(ctx); err != nil {
		return err
	}

	go r.publishEvent(domain.WalletEvent{
		EventType: domain.WalletLocked,
	})

	return nil
}

func (r *walletRepository) ChangePassword(
	ctx context.Context, currentPassword, newPassword string,
	cypher domain.MnemonicCypher,
) error {
	if err := r.UpdateWallet(
		ctx, func(w *domain.Wallet) (*domain.Wallet, error) {
			if err := w.ChangePassword(
				currentPassword, newPassword, cypher,
			); err != nil {
				return nil, err
			}
			return w, nil
		},
	); err != nil {
		return err
	}

	go r.publishEvent(domain.WalletEvent{
		EventType: domain.WalletPasswordChanged,
	})

	return nil
}

func (r *walletRepository) UpdateWallet(
	ctx context.Context, updateFn func(*domain.Wallet) (*domain.Wallet, error),
) error {
	wallet, err := r.GetWallet(ctx)
	if err != nil {
		return err
	}

	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	updatedWallet, err := updateFn(wallet)
	if err != nil {
		return err
	}

	r.store.wallet = updatedWallet
	return nil
}

func (r *walletRepository) DeriveNextKey(
	ctx context.Context, mnemonic []string, label string,
) (*domain.Key, error) {
	var key *domain.Key
	if err := r.UpdateWallet(
		ctx, func(w *domain.Wallet) (*domain.Wallet, error) {
			k, err := w.DeriveNextKey(mnemonic, label)
			if err != nil {
				return nil, err
			}
			key = k
			return w, nil
		},
	); err != nil {
		return nil, err
	}

	go r.publishEvent(domain.WalletEvent{
		EventType: domain.WalletKeyDerived,
		Key:       key,
	})

	return key, nil
}

func (r *walletRepository) AddUnionAccount(
	ctx context.Context, account *domain.UnionAccount,
) error {
	if err := r.UpdateWallet(
		ctx, func(w *domain.Wallet) (*domain.Wallet, error) {
			if err := w.AddUnionAccount(account); err != nil {
				return nil, err
			}
			return w, nil
		},
	); err != nil {
		return err
	}

	go r.publishEvent(domain.WalletEvent{
		EventType:    domain.WalletUnionAccountCreated,
		UnionAccount: account,
	})

	return nil
}

func (r *walletRepository) GetEventChannel() chan domain.WalletEvent {
	return r.externalChEvents
}

func (r *walletRepository) publishEvent(event domain.WalletEvent) {
	r.chLock.Lock()
	defer r.chLock.Unlock()

	r.chEvents <- event
	// send over channel without blocking in case nobody is listening.
	select {
	case r.externalChEvents <- event:
	default:
	}
}

func (r *walletRepository) reset() {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	r.store.wallet = nil
}

func (r *walletRepository) close() {
	close(r.chEvents)
	close(r.externalChEvents)
}
