package jsonrpc_handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/uniond/internal/core/application"
	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/pkg/unionjson"
)

const (
	writeTimeout = 10 * time.Second
)

var ErrStreamConnectionClosed = fmt.Errorf("connection closed by server")

type notification struct {
	appSvc   *application.NotificationService
	chClose  chan struct{}
	upgrader *websocket.Upgrader

	warn func(err error, format string, a ...interface{})
}

// NewNotificationHandler returns the websocket endpoint streaming union
// account and wallet lock state notifications. Every connection is closed
// once chClose is closed.
func NewNotificationHandler(
	appSvc *application.NotificationService, chClose chan struct{},
) http.Handler {
	warnFn := func(err error, format string, a ...interface{}) {
		format = fmt.Sprintf("notification handler: %s", format)
		log.WithError(err).Warnf(format, a...)
	}
	return &notification{
		appSvc:  appSvc,
		chClose: chClose,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		warn: warnFn,
	}
}

func (n *notification) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		n.warn(err, "failed to upgrade connection")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := n.stream(ctx, cancel, conn); err != nil {
		n.warn(err, "notification stream interrupted")
	}
}

func (n *notification) stream(
	ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn,
) error {
	chAccountEvents, err := n.appSvc.GetUnionAccountChannel(ctx)
	if err != nil {
		return err
	}
	chWalletEvents, err := n.appSvc.GetWalletChannel(ctx)
	if err != nil {
		return err
	}

	// Clients are not expected to send anything, reading only detects when
	// they go away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case e, ok := <-chAccountEvents:
			if !ok {
				return nil
			}
			if err := writeNotification(conn, parseUnionAccountEvent(e)); err != nil {
				return err
			}
		case e, ok := <-chWalletEvents:
			if !ok {
				return nil
			}
			ntfn := parseWalletEvent(e)
			if ntfn == nil {
				continue
			}
			if err := writeNotification(conn, ntfn); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		case <-n.chClose:
			conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(
					websocket.CloseGoingAway, ErrStreamConnectionClosed.Error(),
				),
				time.Now().Add(writeTimeout),
			)
			return nil
		}
	}
}

func writeNotification(conn *websocket.Conn, ntfn interface{}) error {
	buf, err := btcjson.MarshalCmd(btcjson.RpcVersion1, nil, ntfn)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, buf)
}

func parseUnionAccountEvent(e application.UnionAccountEvent) interface{} {
	switch e.EventType {
	case application.UnionAccountSucceeded:
		return unionjson.NewUnionAccountCreatedNtfn(e.Name, e.Address, e.Script)
	case application.UnionAccountFailed:
		return unionjson.NewUnionAccountFailedNtfn(
			e.Name, e.Reason.String(), e.Message,
		)
	default:
		return unionjson.NewUnionAccountsRefreshedNtfn()
	}
}

func parseWalletEvent(e domain.WalletEvent) interface{} {
	switch e.EventType {
	case domain.WalletUnlocked:
		return btcjson.NewWalletLockStateNtfn(false)
	case domain.WalletLocked:
		return btcjson.NewWalletLockStateNtfn(true)
	default:
		return nil
	}
}
