package ports

import (
	"github.com/vulpemventures/uniond/internal/core/domain"
)

// WalletEventHandler is called, in its own goroutine, for every wallet event
// of the type it is registered for.
type WalletEventHandler func(event domain.WalletEvent)

// RepoManager owns the wallet repository of a given storage type and
// dispatches its events.
type RepoManager interface {
	WalletRepository() domain.WalletRepository
	RegisterHandlerForWalletEvent(
		eventType domain.WalletEventType, handler WalletEventHandler,
	)
	// Reset deletes any persisted data.
	Reset()
	// Close releases the storage. Events are no longer dispatched afterwards.
	Close()
}
