package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/viper"
	"github.com/vulpemventures/go-elements/network"
	"github.com/vulpemventures/uniond/pkg/wallet/mnemonic"
)

const (
	// DatadirKey is the key to customize the uniond datadir.
	DatadirKey = "DATADIR"
	// DatabaseTypeKey is the key to customize the type of database to use.
	DatabaseTypeKey = "DATABASE_TYPE"
	// PortKey is the key to customize the port where the JSON-RPC server will
	// be listening to.
	PortKey = "PORT"
	// RPCUserKey is the key to set the username required to authenticate
	// JSON-RPC requests.
	RPCUserKey = "RPC_USER"
	// RPCPassKey is the key to set the password required to authenticate
	// JSON-RPC requests.
	RPCPassKey = "RPC_PASS"
	// ProfilerPortKey is the key to customize the port where the profiler will
	// be listening to.
	ProfilerPortKey = "PROFILER_PORT"
	// NetworkKey is the key to customize the network addresses are encoded
	// for.
	NetworkKey = "NETWORK"
	// LogLevelKey is the key to customize the log level to catch more specific
	// or more high level logs.
	LogLevelKey = "LOG_LEVEL"
	// NoProfilerKey is the key to disable Prometheus profiling.
	NoProfilerKey = "NO_PROFILER"
	// StatsIntervalKey is the key to customize the interval for the profiler
	// to gather profiling stats.
	StatsIntervalKey = "STATS_INTERVAL"
	// RootPathKey is the key to use a custom root path for the wallet,
	// instead of the default m/44'/<coin_type>' (depending on network).
	RootPathKey = "ROOT_PATH"
	// MessageMagicKey is the key to customize the prefix of signed messages.
	MessageMagicKey = "MESSAGE_MAGIC"
	// AutoInitKey is the key to create the wallet at startup with the
	// configured mnemonic and password, if not yet existing.
	AutoInitKey = "AUTO_INIT"
	// AutoUnlockKey is the key to unlock the wallet at startup with the
	// configured password.
	AutoUnlockKey = "AUTO_UNLOCK"
	// MnemonicKey is the mnemonic used with AUTO_INIT.
	MnemonicKey = "MNEMONIC"
	// PasswordKey is the password used with AUTO_INIT and AUTO_UNLOCK.
	PasswordKey = "PASSWORD"

	// DbLocation is the folder inside the datadir containing db files.
	DbLocation = "db"
	// ProfilerLocation is the folder inside the datadir containing profiler
	// stats files.
	ProfilerLocation = "stats"
	// DbUserKey is user used to connect to db
	DbUserKey = "DB_USER"
	// DbPassKey is password used to connect to db
	DbPassKey = "DB_PASS"
	// DbHostKey is host where db is installed
	DbHostKey = "DB_HOST"
	// DbPortKey is port on which db is listening
	DbPortKey = "DB_PORT"
	// DbNameKey is name of database
	DbNameKey = "DB_NAME"
	// DbMigrationPath is the path to migration files
	DbMigrationPath = "DB_MIGRATION_PATH"
)

var (
	vip *viper.Viper

	defaultDatadir       = btcutil.AppDataDir("uniond", false)
	defaultDbType        = "badger"
	defaultPort          = 18300
	defaultLogLevel      = 4
	defaultNetwork       = "bitcoin"
	defaultProfilerPort  = 18301
	defaultStatsInterval = 600 // 10 minutes

	// Bitcoin networks are prefixed to not collide with the Liquid ones.
	coinTypeByNetwork = map[string]uint32{
		network.Liquid.Name:  1776,
		network.Testnet.Name: 1,
		network.Regtest.Name: 1,
		"bitcoin":            chaincfg.MainNetParams.HDCoinType,
		"bitcoin-testnet":    chaincfg.TestNet3Params.HDCoinType,
		"bitcoin-regtest":    chaincfg.RegressionNetParams.HDCoinType,
	}
	elementsNetworks = map[string]struct{}{
		network.Liquid.Name:  {},
		network.Testnet.Name: {},
		network.Regtest.Name: {},
	}
	SupportedDbs = supportedType{
		"badger":   {},
		"inmemory": {},
		"postgres": {},
	}
)

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("UNION")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(DatabaseTypeKey, defaultDbType)
	vip.SetDefault(PortKey, defaultPort)
	vip.SetDefault(NetworkKey, defaultNetwork)
	vip.SetDefault(LogLevelKey, defaultLogLevel)
	vip.SetDefault(NoProfilerKey, false)
	vip.SetDefault(ProfilerPortKey, defaultProfilerPort)
	vip.SetDefault(StatsIntervalKey, defaultStatsInterval)
	vip.SetDefault(AutoInitKey, false)
	vip.SetDefault(AutoUnlockKey, false)
	vip.SetDefault(DbUserKey, "root")
	vip.SetDefault(DbPassKey, "secret")
	vip.SetDefault(DbHostKey, "127.0.0.1")
	vip.SetDefault(DbPortKey, 5432)
	vip.SetDefault(DbNameKey, "uniond-db-pg")
	vip.SetDefault(DbMigrationPath, "file://internal/infrastructure/storage/db/postgres/migration")

	if err := validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}

	if err := initDatadir(); err != nil {
		log.Fatalf("config: error while creating datadir: %s", err)
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}

	net := GetString(NetworkKey)
	if len(net) == 0 {
		return fmt.Errorf("network must not be null")
	}
	if _, ok := coinTypeByNetwork[net]; !ok {
		nets := make([]string, 0, len(coinTypeByNetwork))
		for net := range coinTypeByNetwork {
			nets = append(nets, net)
		}
		return fmt.Errorf("unknown network, must be one of: %v", nets)
	}

	dbType := GetString(DatabaseTypeKey)
	if _, ok := SupportedDbs[dbType]; !ok {
		return fmt.Errorf("unsupported database type, must be one of %s", SupportedDbs)
	}

	port := GetInt(PortKey)
	noProfiler := GetBool(NoProfilerKey)
	if !noProfiler {
		profilerPort := GetInt(ProfilerPortKey)
		if port == profilerPort {
			return fmt.Errorf("port and profiler port must not be equal")
		}
	}

	if GetBool(AutoInitKey) {
		words := GetMnemonic()
		if !mnemonic.IsValid(words) {
			return fmt.Errorf("auto init requires a valid mnemonic")
		}
		if len(GetString(PasswordKey)) <= 0 {
			return fmt.Errorf("auto init requires a password")
		}
	}
	if GetBool(AutoUnlockKey) && len(GetString(PasswordKey)) <= 0 {
		return fmt.Errorf("auto unlock requires a password")
	}

	return nil
}

func GetDatadir() string {
	return filepath.Join(GetString(DatadirKey), GetString(NetworkKey))
}

func GetNetwork() string {
	return GetString(NetworkKey)
}

// IsElementsNetwork returns whether the configured network is a Liquid one.
func IsElementsNetwork() bool {
	_, ok := elementsNetworks[GetNetwork()]
	return ok
}

func GetRootPath() string {
	rootPath := GetString(RootPathKey)
	if rootPath != "" {
		return rootPath
	}

	coinType := coinTypeByNetwork[GetNetwork()]
	return fmt.Sprintf("m/44'/%d'", coinType)
}

func GetMnemonic() []string {
	return strings.Fields(GetString(MnemonicKey))
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func Set(key string, val interface{}) {
	vip.Set(key, val)
}

func Unset(key string) {
	vip.Set(key, nil)
}

func IsSet(key string) bool {
	return vip.IsSet(key)
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	noProfiler := GetBool(NoProfilerKey)
	if noProfiler {
		return nil
	}
	return makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}
