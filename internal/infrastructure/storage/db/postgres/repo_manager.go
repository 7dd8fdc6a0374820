package postgresdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/internal/infrastructure/storage/db/dispatcher"

	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	postgresDriver             = "pgx"
	insecureDataSourceTemplate = "postgresql://%s:%s@%s:%d/%s?sslmode=disable"

	dispatchDelay = time.Millisecond
)

// DbConfig holds the connection args of the postgres db and the URL of the
// migration files, for example file://path/to/migration.
type DbConfig struct {
	DbUser             string
	DbPassword         string
	DbHost             string
	DbPort             int
	DbName             string
	MigrationSourceURL string
}

// repoManager stores the wallet in postgres. The schema is migrated to the
// latest version when the repo manager is created.
type repoManager struct {
	pgxPool    *pgxpool.Pool
	wallet     *walletRepositoryPg
	dispatcher *dispatcher.Dispatcher
}

func NewRepoManager(dbConfig DbConfig) (ports.RepoManager, error) {
	dataSource := insecureDataSourceStr(dbConfig)

	pgxPool, err := connect(dataSource)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}
	if err := migrateDb(dataSource, dbConfig.MigrationSourceURL); err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("migrating db: %w", err)
	}

	rm := &repoManager{
		pgxPool:    pgxPool,
		wallet:     newWalletRepositoryPgImpl(pgxPool),
		dispatcher: dispatcher.New(dispatchDelay),
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
	rm.wallet.close()
	rm.pgxPool.Close()
}

func connect(dataSource string) (*pgxpool.Pool, error) {
	return pgxpool.Connect(context.Background(), dataSource)
}

func migrateDb(dataSource, migrationSourceUrl string) error {
	pg := postgres.Postgres{}

	d, err := pg.Open(dataSource)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationSourceUrl,
		postgresDriver,
		d,
	)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// insecureDataSourceStr converts database configuration params to connection string
func insecureDataSourceStr(dbConfig DbConfig) string {
	return fmt.Sprintf(
		insecureDataSourceTemplate,
		dbConfig.DbUser,
		dbConfig.DbPassword,
		dbConfig.DbHost,
		dbConfig.DbPort,
		dbConfig.DbName,
	)
}
