package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	appconfig "github.com/vulpemventures/uniond/internal/app-config"
	"github.com/vulpemventures/uniond/internal/config"
	postgresdb "github.com/vulpemventures/uniond/internal/infrastructure/storage/db/postgres"
	"github.com/vulpemventures/uniond/internal/interfaces"
	jsonrpc_interface "github.com/vulpemventures/uniond/internal/interfaces/jsonrpc"
	"github.com/vulpemventures/uniond/pkg/profiler"
)

var (
	// Build info.
	version string
	commit  string
	date    string

	// Config from env vars.
	dbType        = config.GetString(config.DatabaseTypeKey)
	logLevel      = config.GetInt(config.LogLevelKey)
	datadir       = config.GetDatadir()
	port          = config.GetInt(config.PortKey)
	rpcUser       = config.GetString(config.RPCUserKey)
	rpcPass       = config.GetString(config.RPCPassKey)
	profilerPort  = config.GetInt(config.ProfilerPortKey)
	network       = config.GetNetwork()
	noProfiler    = config.GetBool(config.NoProfilerKey)
	dbDir         = filepath.Join(datadir, config.DbLocation)
	profilerDir   = filepath.Join(datadir, config.ProfilerLocation)
	statsInterval = time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
	rootPath      = config.GetRootPath()
	messageMagic  = config.GetString(config.MessageMagicKey)
	autoInit      = config.GetBool(config.AutoInitKey)
	autoUnlock    = config.GetBool(config.AutoUnlockKey)
	mnemonic      = config.GetString(config.MnemonicKey)
	password      = config.GetString(config.PasswordKey)
)

func main() {
	log.SetLevel(log.Level(logLevel))

	if profilerEnabled := !noProfiler; profilerEnabled {
		profilerSvc, err := profiler.NewService(profiler.ServiceOpts{
			Port:          profilerPort,
			StatsInterval: statsInterval,
			Datadir:       profilerDir,
		})
		if err != nil {
			log.WithError(err).Fatal("profiler: error while starting")
		}

		if err := profilerSvc.Start(); err != nil {
			log.WithError(err).Fatal("profiler: error while starting")
		}
		defer func() {
			profilerSvc.Stop()
		}()
	}

	serviceCfg := jsonrpc_interface.ServiceConfig{
		Port:    port,
		RPCUser: rpcUser,
		RPCPass: rpcPass,
	}
	appCfg := &appconfig.AppConfig{
		Version:           version,
		Commit:            commit,
		Date:              date,
		AutoInit:          autoInit,
		AutoUnlock:        autoUnlock,
		Mnemonic:          mnemonic,
		Password:          password,
		RootPath:          rootPath,
		Network:           network,
		MessageMagic:      messageMagic,
		RepoManagerType:   dbType,
		RepoManagerConfig: repoManagerConfig(),
		MetricsRegisterer: prometheus.DefaultRegisterer,
	}

	serviceManager, err := interfaces.NewJSONRPCServiceManager(serviceCfg, appCfg)
	if err != nil {
		log.WithError(err).Fatal("service: error while initializing")
	}
	defer func() {
		serviceManager.Service.Stop()
	}()

	if err := serviceManager.Service.Start(); err != nil {
		log.WithError(err).Error("service: error while starting")
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
}

func repoManagerConfig() interface{} {
	switch dbType {
	case "postgres":
		return postgresdb.DbConfig{
			DbUser:             config.GetString(config.DbUserKey),
			DbPassword:         config.GetString(config.DbPassKey),
			DbHost:             config.GetString(config.DbHostKey),
			DbPort:             config.GetInt(config.DbPortKey),
			DbName:             config.GetString(config.DbNameKey),
			MigrationSourceURL: config.GetString(config.DbMigrationPath),
		}
	case "badger":
		return dbDir
	default:
		return nil
	}
}
