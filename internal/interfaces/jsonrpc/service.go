package jsonrpc_interface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	appconfig "github.com/vulpemventures/uniond/internal/app-config"
	jsonrpc_handler "github.com/vulpemventures/uniond/internal/interfaces/jsonrpc/handler"
)

const (
	rpcPath          = "/"
	notificationPath = "/ws"

	shutdownTimeout = 5 * time.Second
	maxAttempts     = 3
	retryInterval   = 100 * time.Millisecond
)

type service struct {
	config                   ServiceConfig
	appConfig                *appconfig.AppConfig
	server                   *http.Server
	chCloseStreamConnections chan struct{}
	closeOnce                *sync.Once

	log  func(format string, a ...interface{})
	warn func(err error, format string, a ...interface{})
}

func NewService(config ServiceConfig, appConfig *appconfig.AppConfig) (*service, error) {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("service: %s", format)
		log.Infof(format, a...)
	}
	warnFn := func(err error, format string, a ...interface{}) {
		format = fmt.Sprintf("service: %s", format)
		log.WithError(err).Warnf(format, a...)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %s", err)
	}
	if err := appConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid app config: %s", err)
	}

	return &service{
		config:                   config,
		appConfig:                appConfig,
		chCloseStreamConnections: make(chan struct{}),
		closeOnce:                &sync.Once{},
		log:                      logFn,
		warn:                     warnFn,
	}, nil
}

func (s *service) Start() error {
	handler, err := s.handler()
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", s.config.address())
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: s.config.readTimeout(),
	}
	go func() {
		if err := s.server.Serve(lis); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			s.warn(err, "rpc server stopped unexpectedly")
		}
	}()
	s.log("start listening on %s", s.config.address())

	switch {
	case s.appConfig.WithAutoInit():
		go s.autoInitAndUnlock()
	case s.appConfig.WithAutoUnlock():
		go s.autoUnlock()
	}

	return nil
}

func (s *service) Stop() {
	s.closeOnce.Do(func() {
		close(s.chCloseStreamConnections)
	})
	s.log("closed stream connections")

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.warn(err, "failed to gracefully stop rpc server")
		}
		s.log("stopped rpc server")
	}

	s.appConfig.RepoManager().Close()
	s.log("closed connection with db")
	s.log("shutdown")
}

func (s *service) handler() (http.Handler, error) {
	walletHandler := jsonrpc_handler.NewWalletHandler(s.appConfig.WalletService())
	accountHandler := jsonrpc_handler.NewAccountHandler(
		s.appConfig.UnionAccountService(),
	)
	utilHandler := jsonrpc_handler.NewUtilHandler(s.appConfig.UtilService())

	rpcServer, err := newRPCServer(
		s.appConfig.MetricsRegisterer, s.config.RPCUser, s.config.RPCPass,
		walletHandler, accountHandler, utilHandler,
	)
	if err != nil {
		return nil, err
	}
	s.log("registered wallet, union account and util handlers")

	notifyHandler := jsonrpc_handler.NewNotificationHandler(
		s.appConfig.NotificationService(), s.chCloseStreamConnections,
	)
	s.log("registered notification handler on %s", notificationPath)

	mux := http.NewServeMux()
	mux.Handle(rpcPath, rpcServer)
	mux.Handle(notificationPath, rpcServer.withAuth(notifyHandler))
	return mux, nil
}

func (s *service) autoInitAndUnlock() {
	wallet := s.appConfig.WalletService()
	status := wallet.GetStatus(context.Background())
	if !status.IsInitialized {
		s.autoInit()
	}

	s.autoUnlock()
}

func (s *service) autoUnlock() {
	attempts := 0
	ctx := context.Background()
	wallet := s.appConfig.WalletService()
	for attempts < maxAttempts {
		if err := wallet.Unlock(ctx, s.appConfig.Password); err != nil {
			attempts++
			s.warn(err, "failed to auto unlock, retrying...")
			time.Sleep(retryInterval)
			continue
		}
		s.log("wallet auto unlocked")
		return
	}
	s.warn(nil, "failed to auto unlock, the operation must be done manually")
}

func (s *service) autoInit() {
	attempts := 0
	ctx := context.Background()
	wallet := s.appConfig.WalletService()
	mnemonic := strings.Fields(s.appConfig.Mnemonic)
	for attempts < maxAttempts {
		if err := wallet.CreateWallet(
			ctx, mnemonic, s.appConfig.Password,
		); err != nil {
			attempts++
			s.warn(err, "failed to auto init, retrying...")
			time.Sleep(retryInterval)
			continue
		}
		s.log("wallet auto initialized")
		return
	}
	s.warn(nil, "failed to auto initialize, the operation must be done manually")
}
