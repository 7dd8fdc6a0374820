package jsonrpc_handler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/uniond/internal/core/application"
	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/pkg/unionjson"
)

type wallet struct {
	appSvc *application.WalletService

	lock      *sync.Mutex
	lockTimer *time.Timer
}

func NewWalletHandler(appSvc *application.WalletService) MethodHandler {
	return &wallet{appSvc: appSvc, lock: &sync.Mutex{}}
}

func (w *wallet) Methods() map[string]Handler {
	return map[string]Handler{
		unionjson.GenSeedMethod:      w.GenSeed,
		unionjson.InitWalletMethod:   w.CreateWallet,
		"walletpassphrase":           w.WalletPassphrase,
		"walletlock":                 w.WalletLock,
		"walletpassphrasechange":     w.WalletPassphraseChange,
		"getwalletinfo":              w.GetWalletInfo,
	}
}

func (w *wallet) GenSeed(ctx context.Context, _ interface{}) (interface{}, error) {
	mnemonic, err := w.appSvc.GenSeed(ctx)
	if err != nil {
		return nil, err
	}
	return strings.Join(mnemonic, " "), nil
}

func (w *wallet) CreateWallet(ctx context.Context, cmd interface{}) (interface{}, error) {
	c := cmd.(*unionjson.InitWalletCmd)

	mnemonic := strings.Fields(c.Mnemonic)
	if err := w.appSvc.CreateWallet(ctx, mnemonic, c.Passphrase); err != nil {
		return nil, err
	}
	return nil, nil
}

// WalletPassphrase unlocks the wallet. A positive timeout, in seconds, locks
// it again once elapsed.
func (w *wallet) WalletPassphrase(
	ctx context.Context, cmd interface{},
) (interface{}, error) {
	c := cmd.(*btcjson.WalletPassphraseCmd)
	if c.Timeout < 0 {
		return nil, btcjson.NewRPCError(
			btcjson.ErrRPCInvalidParameter, "timeout cannot be negative",
		)
	}

	if err := w.appSvc.Unlock(ctx, c.Passphrase); err != nil {
		if errors.Is(err, domain.ErrWalletInvalidPassword) {
			return nil, btcjson.NewRPCError(
				btcjson.ErrRPCWalletPassphraseIncorrect,
				"Error: The wallet passphrase entered was incorrect.",
			)
		}
		return nil, err
	}

	w.scheduleLock(time.Duration(c.Timeout) * time.Second)
	return nil, nil
}

func (w *wallet) WalletLock(ctx context.Context, _ interface{}) (interface{}, error) {
	w.scheduleLock(0)
	if err := w.appSvc.Lock(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

func (w *wallet) WalletPassphraseChange(
	ctx context.Context, cmd interface{},
) (interface{}, error) {
	c := cmd.(*btcjson.WalletPassphraseChangeCmd)
	if err := w.appSvc.ChangePassword(
		ctx, c.OldPassphrase, c.NewPassphrase,
	); err != nil {
		return nil, err
	}
	return nil, nil
}

func (w *wallet) GetWalletInfo(ctx context.Context, _ interface{}) (interface{}, error) {
	status := w.appSvc.GetStatus(ctx)
	res := unionjson.GetWalletInfoResult{
		IsInitialized: status.IsInitialized,
		IsUnlocked:    status.IsUnlocked,
	}
	if !status.IsInitialized {
		return res, nil
	}

	info, err := w.appSvc.GetInfo(ctx)
	if err != nil {
		return nil, err
	}
	res.Network = info.Network
	res.RootPath = info.RootPath
	res.AccountXpub = info.AccountXpub
	res.NumOfKeys = info.NumOfKeys
	res.NumOfUnionAccounts = info.NumOfUnionAccounts
	res.BuildInfo = unionjson.BuildInfo{
		Version: info.BuildInfo.Version,
		Commit:  info.BuildInfo.Commit,
		Date:    info.BuildInfo.Date,
	}
	return res, nil
}

// scheduleLock replaces any pending relock with a new one after the given
// timeout. A zero timeout only cancels the pending one.
func (w *wallet) scheduleLock(timeout time.Duration) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.lockTimer != nil {
		w.lockTimer.Stop()
		w.lockTimer = nil
	}
	if timeout <= 0 {
		return
	}
	w.lockTimer = time.AfterFunc(timeout, func() {
		if err := w.appSvc.Lock(context.Background()); err != nil {
			log.WithError(err).Warn("wallet handler: failed to relock wallet")
			return
		}
		log.Debug("wallet handler: wallet relocked after timeout")
	})
}
