package application

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/pkg/wallet/destination"
)

const (
	eventBufferSize = 10
)

// UnionAccountService is responsible for operations related to owned keys and
// union accounts:
//   - Derive a new owned key.
//   - Create a union account from a set of key descriptors.
//   - List or get the registered union accounts.
//
// Every creation attempt runs its own UnionAccountWorkflow to a terminal
// state. Its outcome is published on the service's event channel: a failure
// event, or a success event followed by a refresh one.
type UnionAccountService struct {
	repoManager   ports.RepoManager
	mnemonicStore ports.MnemonicStore
	codec         ports.AddressCodec
	store         ports.AccountStore
	metrics       *Metrics

	chEvents chan UnionAccountEvent
	chLock   *sync.Mutex

	log  func(format string, a ...interface{})
	warn func(err error, format string, a ...interface{})
}

func NewUnionAccountService(
	repoManager ports.RepoManager, mnemonicStore ports.MnemonicStore,
	codec ports.AddressCodec, store ports.AccountStore, metrics *Metrics,
) *UnionAccountService {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("union account service: %s", format)
		log.Debugf(format, a...)
	}
	warnFn := func(err error, format string, a ...interface{}) {
		format = fmt.Sprintf("union account service: %s", format)
		log.WithError(err).Warnf(format, a...)
	}

	svc := &UnionAccountService{
		repoManager:   repoManager,
		mnemonicStore: mnemonicStore,
		codec:         codec,
		store:         store,
		metrics:       metrics,
		chEvents:      make(chan UnionAccountEvent, eventBufferSize),
		chLock:        &sync.Mutex{},
		log:           logFn,
		warn:          warnFn,
	}
	svc.registerHandlerForWalletEvents()
	return svc
}

func (as *UnionAccountService) CreateUnionAccount(
	ctx context.Context, req UnionAccountRequest,
) (*UnionAccountResult, error) {
	workflow := NewUnionAccountWorkflow(as.codec, as.store)
	result, err := workflow.Run(ctx, req)
	as.metrics.observeUnionAccount(err)

	if err != nil {
		failure := toFailure(err)
		as.warn(
			failure, "failed to create union account %s (%s)",
			req.Name, failure.Reason,
		)
		as.publishEvent(UnionAccountEvent{
			EventType: UnionAccountFailed,
			Name:      req.Name,
			Reason:    failure.Reason,
			Message:   failure.Message(),
		})
		return nil, failure
	}

	as.publishEvent(UnionAccountEvent{
		EventType: UnionAccountSucceeded,
		Name:      req.Name,
		Script:    result.Script,
		Address:   result.Address,
	})
	as.publishEvent(UnionAccountEvent{EventType: UnionAccountsRefreshed})
	return result, nil
}

// GenerateKey derives a new owned key and returns its public key and
// address. The wallet must be unlocked.
func (as *UnionAccountService) GenerateKey(
	ctx context.Context, label string,
) (*KeyInfo, error) {
	if !as.mnemonicStore.IsSet() {
		return nil, ErrWalletLocked
	}

	walletRepo := as.repoManager.WalletRepository()
	key, err := walletRepo.DeriveNextKey(ctx, as.mnemonicStore.Get(), label)
	if err != nil {
		return nil, err
	}
	addr, err := as.codec.Encode(destination.FromPubKey(key.PubKey))
	if err != nil {
		return nil, err
	}

	w, err := walletRepo.GetWallet(ctx)
	if err != nil {
		return nil, err
	}
	return &KeyInfo{
		PubKey:         key.PubKeyHex(),
		Address:        addr,
		DerivationPath: w.KeyPath(key),
		Label:          key.Label,
	}, nil
}

func (as *UnionAccountService) ListUnionAccounts(
	ctx context.Context,
) ([]UnionAccountInfo, error) {
	w, err := as.repoManager.WalletRepository().GetWallet(ctx)
	if err != nil {
		return nil, err
	}

	accounts := w.ListUnionAccounts()
	info := make([]UnionAccountInfo, 0, len(accounts))
	for _, account := range accounts {
		info = append(info, newUnionAccountInfo(account))
	}
	return info, nil
}

func (as *UnionAccountService) GetUnionAccount(
	ctx context.Context, name string,
) (*UnionAccountInfo, error) {
	w, err := as.repoManager.WalletRepository().GetWallet(ctx)
	if err != nil {
		return nil, err
	}

	account, err := w.GetUnionAccount(name)
	if err != nil {
		return nil, err
	}
	info := newUnionAccountInfo(*account)
	return &info, nil
}

// GetEventChannel returns the channel of union account events. Events are
// dropped if nobody is listening.
func (as *UnionAccountService) GetEventChannel() chan UnionAccountEvent {
	return as.chEvents
}

func (as *UnionAccountService) registerHandlerForWalletEvents() {
	as.repoManager.RegisterHandlerForWalletEvent(
		domain.WalletUnionAccountCreated, func(event domain.WalletEvent) {
			if event.UnionAccount == nil {
				return
			}
			as.log(
				"union account %s with address %s persisted",
				event.UnionAccount.Name, event.UnionAccount.Address,
			)
		},
	)
	as.repoManager.RegisterHandlerForWalletEvent(
		domain.WalletKeyDerived, func(event domain.WalletEvent) {
			if event.Key == nil {
				return
			}
			as.log("derived key %d at path %s", event.Key.Index, event.Key.DerivationPath)
		},
	)
}

func (as *UnionAccountService) publishEvent(event UnionAccountEvent) {
	as.chLock.Lock()
	defer as.chLock.Unlock()

	// send over channel without blocking in case nobody is listening.
	select {
	case as.chEvents <- event:
	default:
	}
}
