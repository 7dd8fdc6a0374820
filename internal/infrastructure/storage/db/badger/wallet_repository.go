package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/vulpemventures/uniond/internal/core/domain"
)

const (
	//since there can be only 1 wallet in database,
	//key is hardcoded for easier retrival
	walletKey = "wallet"
)

type walletRepository struct {
	store            *badgerhold.Store
	chEvents         chan domain.WalletEvent
	externalChEvents chan domain.WalletEvent
	lock             *sync.Mutex
	// serializes read-modify-write cycles of UpdateWallet.
	updateLock *sync.Mutex

	log func(format string, a ...interface{})
}

func NewWalletRepository(store *badgerhold.Store) domain.WalletRepository {
	return newWalletRepository(store)
}

func newWalletRepository(store *badgerhold.Store) *walletRepository {
	chEvents := make(chan domain.WalletEvent, 10)
	extrernalChEvents := make(chan domain.WalletEvent, 10)
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("wallet repository: %s", format)
		log.Debugf(format, a...)
	}
	return &walletRepository{
		store, chEvents, extrernalChEvents, &sync.Mutex{}, &sync.Mutex{}, logFn,
	}
}

func (r *walletRepository) CreateWallet(
	ctx context.Context, wallet *domain.Wallet,
) error {
	if err := r.insertWallet(ctx, wallet); err != nil {
		return err
	}

	go r.publishEvent(domain.WalletEvent{
		EventType: domain.WalletCreated,
	})

	return nil
}

func (r *walletRepository) GetWallet(
	ctx context.Context,
) (*domain.Wallet, error) {
	return r.getWallet(ctx)
}

func (r *walletRepository) UnlockWallet(
	ctx context.Context, password string, cypher domain.MnemonicCypher,
) ([]string, error) {
	w, err := r.getWallet(ctx)
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
	if _, err := r.getWallet(ctx); err != nil {
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
	ctx context.Context, updateFn func(v *domain.Wallet) (*domain.Wallet, error),
) error {
	r.updateLock.Lock()
	defer r.updateLock.Unlock()

	wallet, err := r.getWallet(ctx)
	if err != nil {
		return err
	}

	updatedWallet, err := updateFn(wallet)
	if err != nil {
		return err
	}

	return r.updateWallet(ctx, updatedWallet)
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

func (r *walletRepository) insertWallet(
	ctx context.Context, wallet *domain.Wallet,
) error {
	var err error

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxInsert(tx, walletKey, *wallet)
	} else {
		err = r.store.Insert(walletKey, *wallet)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrWalletAlreadyExists
		}
		return err
	}

	return nil
}

func (r *walletRepository) getWallet(ctx context.Context) (*domain.Wallet, error) {
	var err error
	var wallet domain.Wallet

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxGet(tx, walletKey, &wallet)
	} else {
		err = r.store.Get(walletKey, &wallet)
	}

	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrWalletNotInitialized
		}
		return nil, err
	}

	return &wallet, nil
}

func (r *walletRepository) updateWallet(
	ctx context.Context, wallet *domain.Wallet,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return r.store.TxUpdate(tx, walletKey, *wallet)
	}
	return r.store.Update(walletKey, *wallet)
}

func (r *walletRepository) publishEvent(event domain.WalletEvent) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.log("publish event %s", event.EventType)
	r.chEvents <- event

	// send over channel without blocking in case nobody is listening.
	select {
	case r.externalChEvents <- event:
	default:
	}
}

func (r *walletRepository) reset() {
	if err := r.store.Delete(walletKey, domain.Wallet{}); err != nil &&
		!errors.Is(err, badgerhold.ErrNotFound) {
		r.log("failed to delete wallet: %s", err)
	}
}

func (r *walletRepository) close() {
	r.store.Close()
	close(r.chEvents)
	close(r.externalChEvents)
}
