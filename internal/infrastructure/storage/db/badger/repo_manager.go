package dbbadger

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/internal/infrastructure/storage/db/dispatcher"
)

const (
	walletDbDir = "wallet"

	gcInterval     = 30 * time.Minute
	gcDiscardRatio = 0.5
)

// repoManager stores the wallet, its keys and union accounts in a single
// badgerhold store.
type repoManager struct {
	wallet     *walletRepository
	dispatcher *dispatcher.Dispatcher
	stopGC     chan struct{}
}

// NewRepoManager opens the wallet db under baseDbDir. An empty baseDbDir
// opens an in-memory db, meant for tests only.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	dbDir := ""
	if baseDbDir != "" {
		dbDir = filepath.Join(baseDbDir, walletDbDir)
	}

	stopGC := make(chan struct{})
	store, err := createDb(dbDir, logger, stopGC)
	if err != nil {
		return nil, fmt.Errorf("opening wallet db: %w", err)
	}

	rm := &repoManager{
		wallet:     newWalletRepository(store),
		dispatcher: dispatcher.New(0),
		stopGC:     stopGC,
	}
	go rm.dispatcher.Listen(rm.wallet.chEvents)
	return rm, nil
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
	close(rm.stopGC)
	rm.wallet.close()
}

func createDb(
	dbDir string, logger badger.Logger, stopGC chan struct{},
) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if dbDir == "" {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	store, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	// The value log of an in-memory db is never written to disk.
	if !opts.InMemory {
		go runValueLogGC(store, stopGC)
	}
	return store, nil
}

func runValueLogGC(store *badgerhold.Store, stop chan struct{}) {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			err := store.Badger().RunValueLogGC(gcDiscardRatio)
			if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				log.WithError(err).Warn("badger: value log garbage collection failed")
			}
		}
	}
}
