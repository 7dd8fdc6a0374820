package inmemory

import (
	"time"

	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/internal/infrastructure/storage/db/dispatcher"
)

const dispatchDelay = time.Millisecond

// repoManager keeps the wallet in memory. Data is lost on Close.
type repoManager struct {
	wallet     *walletRepository
	dispatcher *dispatcher.Dispatcher
}

func NewRepoManager() ports.RepoManager {
	rm := &repoManager{
		wallet:     newWalletRepository(),
		dispatcher: dispatcher.New(dispatchDelay),
	}
	go rm.dispatcher.Listen(rm.wallet.chEvents)
	return rm
}

func (rm *repoManager) WalletRepository() domain.WalletRepository {
	return rm.wallet
}

func (rm *repoManager) RegisterHandlerForWalletEvent(
	eventType domain.WalletEventType, handler ports.WalletEventHandler,
) {
	rm.dispatcher.Register(eventType, handler)
}

func (rm *repoManager) Reset() {
	rm.wallet.reset()
}

func (rm *repoManager) Close() {
	rm.wallet.close()
}
