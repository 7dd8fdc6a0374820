package postgresdb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/uniond/internal/core/domain"
)

const (
	//since there can be only 1 wallet in database,
	//key is hardcoded for easier retrival
	walletKey = "wallet"
	//uniqueViolation is a postgres error code for unique constraint violation
	uniqueViolation = "23505"
	// name of the unique constraint on union account names.
	unionAccountNameConstraint = "union_account_name_key"
)

const (
	insertWalletQuery = `INSERT INTO wallet (
	id, encrypted_mnemonic, password_hash, root_path, network_name, next_key_index
) VALUES ($1, $2, $3, $4, $5, $6)`
	selectWalletQuery = `SELECT encrypted_mnemonic, password_hash, root_path,
	network_name, next_key_index FROM wallet WHERE id = $1`
	updateWalletQuery = `UPDATE wallet SET encrypted_mnemonic = $2,
	password_hash = $3, root_path = $4, network_name = $5, next_key_index = $6
	WHERE id = $1`
	deleteWalletQuery = `DELETE FROM wallet WHERE id = $1`

	upsertKeyQuery = `INSERT INTO wallet_key (
	hash, key_index, derivation_path, pub_key, label, fk_wallet_id
) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (hash) DO UPDATE SET label = EXCLUDED.label`
	selectKeysQuery = `SELECT key_index, derivation_path, pub_key, label
	FROM wallet_key WHERE fk_wallet_id = $1`

	insertUnionAccountQuery = `INSERT INTO union_account (
	script_hash, name, address, redeem_script, required, pub_keys,
	own_key_hash, created_at, fk_wallet_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (script_hash) DO NOTHING`
	selectUnionAccountsQuery = `SELECT script_hash, name, address,
	redeem_script, required, pub_keys, own_key_hash, created_at
	FROM union_account WHERE fk_wallet_id = $1`
)

// querier is satisfied by both a connection pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type walletRepositoryPg struct {
	pgxPool          *pgxpool.Pool
	chLock           *sync.Mutex
	updateLock       *sync.Mutex
	chEvents         chan domain.WalletEvent
	externalChEvents chan domain.WalletEvent

	log func(format string, a ...interface{})
}

func NewWalletRepositoryPgImpl(pgxPool *pgxpool.Pool) domain.WalletRepository {
	return newWalletRepositoryPgImpl(pgxPool)
}

func newWalletRepositoryPgImpl(pgxPool *pgxpool.Pool) *walletRepositoryPg {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("wallet repository: %s", format)
		log.Debugf(format, a...)
	}
	return &walletRepositoryPg{
		pgxPool:          pgxPool,
		chLock:           &sync.Mutex{},
		updateLock:       &sync.Mutex{},
		chEvents:         make(chan domain.WalletEvent),
		externalChEvents: make(chan domain.WalletEvent),
		log:              logFn,
	}
}

func (w *walletRepositoryPg) CreateWallet(
	ctx context.Context, wallet *domain.Wallet,
) error {
	if _, err := w.pgxPool.Exec(
		ctx, insertWalletQuery, walletKey, wallet.EncryptedMnemonic,
		wallet.PasswordHash, wallet.RootPath, wallet.NetworkName,
		int32(wallet.NextKeyIndex),
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrWalletAlreadyExists
		}
		return err
	}

	go w.publishEvent(domain.WalletEvent{
		EventType: domain.WalletCreated,
	})

	return nil
}

func (w *walletRepositoryPg) GetWallet(
	ctx context.Context,
) (*domain.Wallet, error) {
	return w.getWallet(ctx, w.pgxPool)
}

func (w *walletRepositoryPg) UnlockWallet(
	ctx context.Context, password string, cypher domain.MnemonicCypher,
) ([]string, error) {
	wallet, err := w.getWallet(ctx, w.pgxPool)
	if err != nil {
		return nil, err
	}

	mnemonic, err := wallet.Unlock(password, cypher)
	if err != nil {
		return nil, err
	}

	go w.publishEvent(domain.WalletEvent{
		EventType: domain.WalletUnlocked,
	})

	return mnemonic, nil
}

func (w *walletRepositoryPg) LockWallet(ctx context.Context) error {
	if _, err := w.getWallet(ctx, w.pgxPool); err != nil {
		return err
	}

	go w.publishEvent(domain.WalletEvent{
		EventType: domain.WalletLocked,
	})

	return nil
}

func (w *walletRepositoryPg) ChangePassword(
	ctx context.Context, currentPassword, newPassword string,
	cypher domain.MnemonicCypher,
) error {
	if err := w.UpdateWallet(
		ctx, func(v *domain.Wallet) (*domain.Wallet, error) {
			if err := v.ChangePassword(
				currentPassword, newPassword, cypher,
			); err != nil {
				return nil, err
			}
			return v, nil
		},
	); err != nil {
		return err
	}

	go w.publishEvent(domain.WalletEvent{
		EventType: domain.WalletPasswordChanged,
	})

	return nil
}

// UpdateWallet updates 3 tables in database: wallet, wallet_key,
// union_account, all in one transaction.
func (w *walletRepositoryPg) UpdateWallet(
	ctx context.Context,
	updateFn func(v *domain.Wallet) (*domain.Wallet, error),
) error {
	w.updateLock.Lock()
	defer w.updateLock.Unlock()

	tx, err := w.pgxPool.Begin(ctx)
	if err != nil {
		return err
	}
	// nolint
	defer tx.Rollback(ctx)

	wallet, err := w.getWallet(ctx, tx)
	if err != nil {
		return err
	}

	updatedWallet, err := updateFn(wallet)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx, updateWalletQuery, walletKey, updatedWallet.EncryptedMnemonic,
		updatedWallet.PasswordHash, updatedWallet.RootPath,
		updatedWallet.NetworkName, int32(updatedWallet.NextKeyIndex),
	); err != nil {
		return err
	}

	for _, key := range updatedWallet.Keys {
		if _, err := tx.Exec(
			ctx, upsertKeyQuery, key.Hash(), int32(key.Index),
			key.DerivationPath, key.PubKey, key.Label, walletKey,
		); err != nil {
			return err
		}
	}

	for _, account := range updatedWallet.UnionAccounts {
		if _, err := tx.Exec(
			ctx, insertUnionAccountQuery, account.ScriptHash, account.Name,
			account.Address, account.RedeemScript, int32(account.Required),
			account.PubKeys, account.OwnKeyHash, account.CreatedAt, walletKey,
		); err != nil {
			if isUniqueViolation(err) {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) &&
					pgErr.ConstraintName == unionAccountNameConstraint {
					return domain.ErrUnionAccountNameTaken
				}
				return domain.ErrUnionAccountDuplicate
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

func (w *walletRepositoryPg) DeriveNextKey(
	ctx context.Context, mnemonic []string, label string,
) (*domain.Key, error) {
	var key *domain.Key
	if err := w.UpdateWallet(
		ctx, func(v *domain.Wallet) (*domain.Wallet, error) {
			k, err := v.DeriveNextKey(mnemonic, label)
			if err != nil {
				return nil, err
			}
			key = k
			return v, nil
		},
	); err != nil {
		return nil, err
	}

	go w.publishEvent(domain.WalletEvent{
		EventType: domain.WalletKeyDerived,
		Key:       key,
	})

	return key, nil
}

func (w *walletRepositoryPg) AddUnionAccount(
	ctx context.Context, account *domain.UnionAccount,
) error {
	if err := w.UpdateWallet(
		ctx, func(v *domain.Wallet) (*domain.Wallet, error) {
			if err := v.AddUnionAccount(account); err != nil {
				return nil, err
			}
			return v, nil
		},
	); err != nil {
		return err
	}

	go w.publishEvent(domain.WalletEvent{
		EventType:    domain.WalletUnionAccountCreated,
		UnionAccount: account,
	})

	return nil
}

func (w *walletRepositoryPg) GetEventChannel() chan domain.WalletEvent {
	return w.externalChEvents
}

func (w *walletRepositoryPg) getWallet(
	ctx context.Context, q querier,
) (*domain.Wallet, error) {
	var nextKeyIndex int32
	wallet := &domain.Wallet{
		Keys:                make(map[string]*domain.Key),
		UnionAccounts:       make(map[string]*domain.UnionAccount),
		UnionAccountsByName: make(map[string]string),
	}

	if err := q.QueryRow(ctx, selectWalletQuery, walletKey).Scan(
		&wallet.EncryptedMnemonic, &wallet.PasswordHash, &wallet.RootPath,
		&wallet.NetworkName, &nextKeyIndex,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotInitialized
		}
		return nil, err
	}
	wallet.NextKeyIndex = uint32(nextKeyIndex)

	keyRows, err := q.Query(ctx, selectKeysQuery, walletKey)
	if err != nil {
		return nil, err
	}
	defer keyRows.Close()

	for keyRows.Next() {
		var index int32
		key := &domain.Key{}
		if err := keyRows.Scan(
			&index, &key.DerivationPath, &key.PubKey, &key.Label,
		); err != nil {
			return nil, err
		}
		key.Index = uint32(index)
		wallet.Keys[key.Hash()] = key
	}
	if err := keyRows.Err(); err != nil {
		return nil, err
	}
	keyRows.Close()

	accountRows, err := q.Query(ctx, selectUnionAccountsQuery, walletKey)
	if err != nil {
		return nil, err
	}
	defer accountRows.Close()

	for accountRows.Next() {
		var required int32
		account := &domain.UnionAccount{}
		if err := accountRows.Scan(
			&account.ScriptHash, &account.Name, &account.Address,
			&account.RedeemScript, &required, &account.PubKeys,
			&account.OwnKeyHash, &account.CreatedAt,
		); err != nil {
			return nil, err
		}
		account.Required = int(required)
		wallet.UnionAccounts[account.ScriptHash] = account
		wallet.UnionAccountsByName[account.Name] = account.ScriptHash
	}
	if err := accountRows.Err(); err != nil {
		return nil, err
	}

	return wallet, nil
}

func (w *walletRepositoryPg) publishEvent(event domain.WalletEvent) {
	w.chLock.Lock()
	defer w.chLock.Unlock()

	w.log("publish event %s", event.EventType)
	w.chEvents <- event
	// send over channel without blocking in case nobody is listening.
	select {
	case w.externalChEvents <- event:
	default:
	}
}

func (w *walletRepositoryPg) reset() {
	if _, err := w.pgxPool.Exec(
		context.Background(), deleteWalletQuery, walletKey,
	); err != nil {
		w.log("failed to delete wallet: %s", err)
	}
}

func (w *walletRepositoryPg) close() {
	close(w.chEvents)
	close(w.externalChEvents)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
