package application

import (
	"context"

	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
)

// Notification service has the very simple task of making the event channels
// of the used domain.WalletRepository and of the UnionAccountService
// accessible by external clients so that they can get real-time updates on
// the outcome of union account creations and on the status of the wallet.
type NotificationService struct {
	repoManager    ports.RepoManager
	accountService *UnionAccountService
}

func NewNotificationService(
	repoManager ports.RepoManager, accountService *UnionAccountService,
) *NotificationService {
	return &NotificationService{repoManager, accountService}
}

func (ns *NotificationService) GetUnionAccountChannel(
	ctx context.Context,
) (chan UnionAccountEvent, error) {
	return ns.accountService.GetEventChannel(), nil
}

func (ns *NotificationService) GetWalletChannel(
	ctx context.Context,
) (chan domain.WalletEvent, error) {
	return ns.repoManager.WalletRepository().GetEventChannel(), nil
}
