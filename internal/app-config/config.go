package appconfig

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/uniond/internal/config"
	"github.com/vulpemventures/uniond/internal/core/application"
	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
	bitcoin_codec "github.com/vulpemventures/uniond/internal/infrastructure/address-codec/bitcoin"
	elements_codec "github.com/vulpemventures/uniond/internal/infrastructure/address-codec/elements"
	"github.com/vulpemventures/uniond/internal/infrastructure/mnemonic-cypher/aes128"
	mnemonic_store "github.com/vulpemventures/uniond/internal/infrastructure/mnemonic-store/in-memory"
	dbbadger "github.com/vulpemventures/uniond/internal/infrastructure/storage/db/badger"
	"github.com/vulpemventures/uniond/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/vulpemventures/uniond/internal/infrastructure/storage/db/postgres"
	path "github.com/vulpemventures/uniond/pkg/wallet/derivation-path"
)

// AppConfig is the struct holding all configuration options for
// every application service (wallet, union account, util and notification).
// This data structure acts also as a factory of the mentioned application
// services and the portable services used by them.
// Public config args:
//   - RootPath - (required) Wallet root HD path.
//   - Network - (required) The network addresses are encoded for, either a Liquid or a bitcoin one.
//   - MessageMagic - (optional) Prefix of signed messages, defaults to the bitcoin one.
//   - RepoManagerType - (required) One of the supported repository manager types.
//   - RepoManagerConfig - (optional) Custom config args for the repository manager based on its type.
//   - MetricsRegisterer - (optional) Registerer of the application counters.
//   - AutoInit, AutoUnlock - (optional) Create/unlock the wallet at startup
//     with Mnemonic and Password.
type AppConfig struct {
	Version string
	Commit  string
	Date    string

	AutoInit   bool
	AutoUnlock bool
	Mnemonic   string
	Password   string

	RootPath     string
	Network      string
	MessageMagic string

	RepoManagerType   string
	RepoManagerConfig interface{}
	MetricsRegisterer prometheus.Registerer

	rm            ports.RepoManager
	codec         ports.AddressCodec
	mnemonicStore ports.MnemonicStore
	accountStore  ports.AccountStore
	metrics       *application.Metrics
	walletSvc     *application.WalletService
	accountSvc    *application.UnionAccountService
	utilSvc       *application.UtilService
	notifySvc     *application.NotificationService
}

func (c *AppConfig) Validate() error {
	if c.Network == "" {
		return fmt.Errorf("missing network")
	}
	if !domain.IsSupportedNetwork(c.Network) {
		return fmt.Errorf("network %s not supported", c.Network)
	}
	if len(c.RepoManagerType) == 0 {
		return fmt.Errorf("missing repo manager type")
	}
	if _, ok := config.SupportedDbs[c.RepoManagerType]; !ok {
		return fmt.Errorf(
			"repo manager type not supported, must be one of: %s",
			config.SupportedDbs,
		)
	}
	if c.RootPath == "" {
		return fmt.Errorf("missing root path")
	}
	if _, err := path.ParseRootDerivationPath(c.RootPath); err != nil {
		return err
	}
	if _, err := c.addressCodec(); err != nil {
		return err
	}
	if _, err := c.appMetrics(); err != nil {
		return err
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if c.AutoInit && (len(c.Mnemonic) <= 0 || len(c.Password) <= 0) {
		return fmt.Errorf("auto init requires mnemonic and password")
	}
	if c.AutoUnlock && len(c.Password) <= 0 {
		return fmt.Errorf("auto unlock requires password")
	}

	return nil
}

func (c *AppConfig) WithAutoInit() bool {
	return c.AutoInit
}

func (c *AppConfig) WithAutoUnlock() bool {
	return c.AutoUnlock
}

func (c *AppConfig) RepoManager() ports.RepoManager {
	return c.rm
}

func (c *AppConfig) AddressCodec() ports.AddressCodec {
	return c.codec
}

func (c *AppConfig) WalletService() *application.WalletService {
	return c.walletService()
}

func (c *AppConfig) UnionAccountService() *application.UnionAccountService {
	return c.unionAccountService()
}

func (c *AppConfig) UtilService() *application.UtilService {
	return c.utilService()
}

func (c *AppConfig) NotificationService() *application.NotificationService {
	return c.notificationService()
}

func (c *AppConfig) repoManager() (ports.RepoManager, error) {
	if c.rm != nil {
		return c.rm, nil
	}

	switch c.RepoManagerType {
	case "inmemory":
		c.rm = inmemory.NewRepoManager()
		return c.rm, nil
	case "badger":
		if c.RepoManagerConfig == nil {
			return nil, fmt.Errorf("missing repo manager config args")
		}
		datadir, ok := c.RepoManagerConfig.(string)
		if !ok {
			return nil, fmt.Errorf("invalid repo manager config type, must be string")
		}
		rm, err := dbbadger.NewRepoManager(datadir, log.New())
		if err != nil {
			return nil, err
		}
		c.rm = rm
		return c.rm, nil
	case "postgres":
		dbConfig, ok := c.RepoManagerConfig.(postgresdb.DbConfig)
		if !ok {
			return nil, fmt.Errorf("invalid repo manager config type, must be postgresdb.DbConfig")
		}

		rm, err := postgresdb.NewRepoManager(dbConfig)
		if err != nil {
			return nil, err
		}

		c.rm = rm
		return c.rm, nil
	default:
		return nil, fmt.Errorf("unknown repo manager type")
	}
}

func (c *AppConfig) addressCodec() (ports.AddressCodec, error) {
	if c.codec != nil {
		return c.codec, nil
	}

	codec, err := elements_codec.NewCodec(c.Network)
	if err != nil {
		codec, err = bitcoin_codec.NewCodec(c.Network)
		if err != nil {
			return nil, fmt.Errorf("no address codec for network %s", c.Network)
		}
	}
	c.codec = codec
	return c.codec, nil
}

func (c *AppConfig) appMetrics() (*application.Metrics, error) {
	if c.metrics != nil {
		return c.metrics, nil
	}

	metrics, err := application.NewMetrics(c.MetricsRegisterer)
	if err != nil {
		return nil, err
	}
	c.metrics = metrics
	return c.metrics, nil
}

func (c *AppConfig) mnemonicStoreService() ports.MnemonicStore {
	if c.mnemonicStore == nil {
		c.mnemonicStore = mnemonic_store.NewInMemoryMnemonicStore()
	}
	return c.mnemonicStore
}

func (c *AppConfig) accountStoreService() ports.AccountStore {
	if c.accountStore != nil {
		return c.accountStore
	}

	rm, _ := c.repoManager()
	codec, _ := c.addressCodec()
	c.accountStore = application.NewAccountStore(
		rm, c.mnemonicStoreService(), codec,
	)
	return c.accountStore
}

func (c *AppConfig) walletService() *application.WalletService {
	if c.walletSvc != nil {
		return c.walletSvc
	}

	rm, _ := c.repoManager()
	c.walletSvc = application.NewWalletService(
		rm, c.mnemonicStoreService(), aes128.NewCypher(), c.RootPath, c.Network,
		c.buildInfo(),
	)
	return c.walletSvc
}

func (c *AppConfig) unionAccountService() *application.UnionAccountService {
	if c.accountSvc != nil {
		return c.accountSvc
	}

	rm, _ := c.repoManager()
	codec, _ := c.addressCodec()
	metrics, _ := c.appMetrics()
	c.accountSvc = application.NewUnionAccountService(
		rm, c.mnemonicStoreService(), codec, c.accountStoreService(), metrics,
	)
	return c.accountSvc
}

func (c *AppConfig) utilService() *application.UtilService {
	if c.utilSvc != nil {
		return c.utilSvc
	}

	rm, _ := c.repoManager()
	codec, _ := c.addressCodec()
	c.utilSvc = application.NewUtilService(
		rm, c.mnemonicStoreService(), codec, c.accountStoreService(),
		c.MessageMagic,
	)
	return c.utilSvc
}

func (c *AppConfig) notificationService() *application.NotificationService {
	if c.notifySvc != nil {
		return c.notifySvc
	}

	rm, _ := c.repoManager()
	c.notifySvc = application.NewNotificationService(rm, c.unionAccountService())
	return c.notifySvc
}

func (c *AppConfig) buildInfo() application.BuildInfo {
	version := "dev"
	if c.Version != "" {
		version = c.Version
	}
	commit := "none"
	if c.Commit != "" {
		commit = c.Commit
	}
	date := "unknown"
	if c.Date != "" {
		date = c.Date
	}
	return application.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}
