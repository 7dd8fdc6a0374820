package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/pkg/wallet/mnemonic"
	singlesig "github.com/vulpemventures/uniond/pkg/wallet/single-sig"
)

// WalletService is responsible for operations related to the managment of the
// wallet:
//   - Generate a new random 24-words mnemonic.
//   - Create a new wallet from scratch with given mnemonic and locked with the given password.
//   - Unlock the wallet with a password and lock it again.
//   - Change the wallet password. It requires the wallet to be locked.
//   - Get the status of the wallet (initialized, unlocked).
//   - Get non-sensitive (network, number of keys and union accounts) and possibly sensitive info (root path, account xpub) about the wallet. Sensitive info are returned only if the wallet is unlocked.
//
// The wallet is unlocked as long as its mnemonic is held by the mnemonic
// store.
// This service doesn't register any handler for wallet events, rather it
// allows its users to register their handler to manage situations like the
// unlocking of the wallet.
type WalletService struct {
	repoManager   ports.RepoManager
	mnemonicStore ports.MnemonicStore
	cypher        domain.MnemonicCypher
	rootPath      string
	network       string
	buildInfo     BuildInfo

	initialized bool
	lock        *sync.RWMutex

	log func(format string, a ...interface{})
}

func NewWalletService(
	repoManager ports.RepoManager, mnemonicStore ports.MnemonicStore,
	cypher domain.MnemonicCypher, rootPath, network string,
	buildInfo BuildInfo,
) *WalletService {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("wallet service: %s", format)
		log.Debugf(format, a...)
	}
	ws := &WalletService{
		repoManager:   repoManager,
		mnemonicStore: mnemonicStore,
		cypher:        cypher,
		rootPath:      rootPath,
		network:       network,
		buildInfo:     buildInfo,
		lock:          &sync.RWMutex{},
		log:           logFn,
	}
	w, _ := ws.repoManager.WalletRepository().GetWallet(context.Background())
	if w != nil {
		ws.setInitialized()
	}
	return ws
}

func (ws *WalletService) GenSeed(ctx context.Context) ([]string, error) {
	return mnemonic.NewMnemonic(mnemonic.NewMnemonicArgs{})
}

func (ws *WalletService) CreateWallet(
	ctx context.Context, mnemonic []string, password string,
) (err error) {
	defer func() {
		if err == nil {
			ws.setInitialized()
		}
	}()

	if ws.isInitialized() {
		return ErrWalletAlreadyInitialized
	}

	newWallet, err := domain.NewWallet(
		mnemonic, password, ws.rootPath, ws.network, ws.cypher,
	)
	if err != nil {
		return
	}

	if err = ws.repoManager.WalletRepository().CreateWallet(
		ctx, newWallet,
	); err != nil {
		return
	}
	ws.log("created new wallet for network %s", ws.network)
	return
}

func (ws *WalletService) Unlock(ctx context.Context, password string) error {
	if !ws.isInitialized() {
		return ErrWalletNotInitialized
	}
	if ws.mnemonicStore.IsSet() {
		return nil
	}

	mnemonic, err := ws.repoManager.WalletRepository().UnlockWallet(
		ctx, password, ws.cypher,
	)
	if err != nil {
		return err
	}
	ws.mnemonicStore.Set(strings.Join(mnemonic, " "))
	ws.log("wallet unlocked")
	return nil
}

func (ws *WalletService) Lock(ctx context.Context) error {
	if !ws.isInitialized() {
		return ErrWalletNotInitialized
	}
	if !ws.mnemonicStore.IsSet() {
		return nil
	}

	if err := ws.repoManager.WalletRepository().LockWallet(ctx); err != nil {
		return err
	}
	ws.mnemonicStore.Unset()
	ws.log("wallet locked")
	return nil
}

func (ws *WalletService) ChangePassword(
	ctx context.Context, currentPassword, newPassword string,
) error {
	if !ws.isInitialized() {
		return ErrWalletNotInitialized
	}
	if ws.mnemonicStore.IsSet() {
		return ErrWalletUnlocked
	}

	return ws.repoManager.WalletRepository().ChangePassword(
		ctx, currentPassword, newPassword, ws.cypher,
	)
}

func (ws *WalletService) GetStatus(_ context.Context) WalletStatus {
	return WalletStatus{
		IsInitialized: ws.isInitialized(),
		IsUnlocked:    ws.mnemonicStore.IsSet(),
	}
}

func (ws *WalletService) GetInfo(ctx context.Context) (*WalletInfo, error) {
	w, err := ws.repoManager.WalletRepository().GetWallet(ctx)
	if err != nil {
		return nil, err
	}

	info := &WalletInfo{
		Network:            w.NetworkName,
		NumOfKeys:          len(w.Keys),
		NumOfUnionAccounts: len(w.UnionAccounts),
		BuildInfo:          ws.buildInfo,
	}
	if !ws.mnemonicStore.IsSet() {
		return info, nil
	}

	ww, err := singlesig.NewWalletFromMnemonic(singlesig.NewWalletFromMnemonicArgs{
		RootPath: w.RootPath,
		Mnemonic: ws.mnemonicStore.Get(),
	})
	if err != nil {
		return nil, err
	}
	xpub, err := ww.AccountExtendedPublicKey(singlesig.ExtendedKeyArgs{})
	if err != nil {
		return nil, err
	}

	info.RootPath = ww.RootPath()
	info.AccountXpub = xpub
	return info, nil
}

func (ws *WalletService) RegisterHandlerForWalletEvent(
	eventType domain.WalletEventType, handler ports.WalletEventHandler,
) {
	ws.repoManager.RegisterHandlerForWalletEvent(eventType, handler)
}

func (ws *WalletService) setInitialized() {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	ws.initialized = true
}

func (ws *WalletService) isInitialized() bool {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	return ws.initialized
}
