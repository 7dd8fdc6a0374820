package application_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/uniond/internal/core/application"
	"github.com/vulpemventures/uniond/internal/core/domain"
	"github.com/vulpemventures/uniond/internal/core/ports"
	mnemonicstore "github.com/vulpemventures/uniond/internal/infrastructure/mnemonic-store/in-memory"
	"github.com/vulpemventures/uniond/internal/infrastructure/storage/db/inmemory"
	"github.com/vulpemventures/uniond/pkg/wallet/destination"
	multisig "github.com/vulpemventures/uniond/pkg/wallet/multi-sig"
)

var (
	mnemonic = []string{
		"leave", "dice", "fine", "decrease", "dune", "ribbon", "ocean", "earn",
		"lunar", "account", "silver", "admit", "cheap", "fringe", "disorder", "trade",
		"because", "trade", "steak", "clock", "grace", "video", "jacket", "equal",
	}
	encryptedMnemonic = "8f29524ee5995c838ca6f28c7ded7da6dc51de804fd2703775989e65ddc1bb3b60122bf0f430bb3b7a267449aaeee103375737d679bfdabf172c3842048925e6f8952e214f6b900435d24cff938be78ad3bb303d305702fbf168534a45a57ac98ca940d4c3319f14d0c97a20b5bcb456d72857d48d0b4f0e0dcf71d1965b6a42aca8d84fcb66aadeabc812a9994cf66e7a75f8718a031418468f023c560312a02f46ec8e65d5dd65c968ddb93e10950e96c8e730ce7a74d33c6ddad9e12f45e534879f1605eb07fe90432f6592f7996091bbb3e3b2"
	password          = "password"
	newPassword       = "newPassword"
	rootPath          = "m/44'/1'"
	network           = "bitcoin-regtest"
)

type testEnv struct {
	repoManager   ports.RepoManager
	mnemonicStore ports.MnemonicStore
	codec         ports.AddressCodec
	cypher        *mockMnemonicCypher
	accountStore  ports.AccountStore
}

// newTestEnv returns an environment with an initialized, unlocked wallet.
func newTestEnv(t *testing.T) *testEnv {
	env := newEmptyTestEnv(t)

	walletSvc := application.NewWalletService(
		env.repoManager, env.mnemonicStore, env.cypher, rootPath, network,
		application.BuildInfo{},
	)
	require.NoError(t, walletSvc.CreateWallet(ctx, mnemonic, password))
	require.NoError(t, walletSvc.Unlock(ctx, password))
	return env
}

func newEmptyTestEnv(t *testing.T) *testEnv {
	repoManager := inmemory.NewRepoManager()
	mnemonicStore := mnemonicstore.NewInMemoryMnemonicStore()
	codec := newTestCodec(t)
	return &testEnv{
		repoManager:   repoManager,
		mnemonicStore: mnemonicStore,
		codec:         codec,
		cypher:        newMockedCypher(),
		accountStore: application.NewAccountStore(
			repoManager, mnemonicStore, codec,
		),
	}
}

// deriveKey derives a new owned key and returns its public key.
func (e *testEnv) deriveKey(t *testing.T, label string) *multisig.PublicKey {
	key, err := e.repoManager.WalletRepository().DeriveNextKey(
		ctx, e.mnemonicStore.Get(), label,
	)
	require.NoError(t, err)
	pubkey, err := multisig.ParsePublicKey(key.PubKey)
	require.NoError(t, err)
	return pubkey
}

func newMockedCypher() *mockMnemonicCypher {
	cypher := &mockMnemonicCypher{}
	cypher.On("Encrypt", mock.Anything, mock.Anything).
		Return(h2b(encryptedMnemonic), nil)
	cypher.On("Decrypt", mock.Anything, []byte(password)).
		Return([]byte(strings.Join(mnemonic, " ")), nil)
	cypher.On("Decrypt", mock.Anything, []byte(newPassword)).
		Return([]byte(strings.Join(mnemonic, " ")), nil)
	cypher.On("Decrypt", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("invalid password"))
	return cypher
}

func TestAccountStoreLookups(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	store := env.accountStore
	owned := env.deriveKey(t, "")
	foreign := newTestKey(t, 30)

	t.Run("owned keys", func(t *testing.T) {
		t.Parallel()

		require.True(t, store.IsOwnedKey(ctx, owned.Bytes()))
		require.False(t, store.IsOwnedKey(ctx, foreign.Bytes()))

		point, err := btcec.ParsePubKey(owned.Bytes())
		require.NoError(t, err)
		require.False(t, store.IsOwnedKey(ctx, point.SerializeUncompressed()))

		key, ok := store.LookupOwnedKeyByHash(ctx, owned.Hash160())
		require.True(t, ok)
		require.True(t, owned.Equal(key))

		key, ok = store.LookupOwnedKeyByHash(ctx, foreign.Hash160())
		require.False(t, ok)
		require.Nil(t, key)
	})

	t.Run("scripts", func(t *testing.T) {
		t.Parallel()

		script, ok := store.LookupOwnedScriptByHash(ctx, make([]byte, 20))
		require.False(t, ok)
		require.Nil(t, script)
	})

	t.Run("without wallet", func(t *testing.T) {
		t.Parallel()

		emptyStore := newEmptyTestEnv(t).accountStore
		require.False(t, emptyStore.IsOwnedKey(ctx, owned.Bytes()))

		_, ok := emptyStore.LookupOwnedKeyByHash(ctx, owned.Hash160())
		require.False(t, ok)
		_, ok = emptyStore.LookupOwnedScriptByHash(ctx, make([]byte, 20))
		require.False(t, ok)
	})
}

func TestAccountStoreRegisterAccount(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		owned := env.deriveKey(t, "")
		foreign := newTestKey(t, 31)
		script := newThresholdScript(t, 2, owned, foreign)

		account, err := env.accountStore.RegisterAccount(ctx, "shared", script.Script)
		require.NoError(t, err)
		require.NotNil(t, account)

		expectedAddr, err := env.codec.Encode(destination.FromRedeemScript(script.Script))
		require.NoError(t, err)
		require.Equal(t, "shared", account.Name)
		require.Equal(t, expectedAddr, account.Address)
		require.Equal(t, script.Hex(), account.RedeemScript)
		require.Equal(t, 2, account.Required)
		require.Equal(t, []string{owned.Hex(), foreign.Hex()}, account.PubKeys)
		require.Equal(t, h2s(owned.Hash160()), account.OwnKeyHash)

		stored, ok := env.accountStore.LookupOwnedScriptByHash(ctx, script.ScriptHash())
		require.True(t, ok)
		require.Equal(t, script.Script, stored)

		w, err := env.repoManager.WalletRepository().GetWallet(ctx)
		require.NoError(t, err)
		got, err := w.GetUnionAccount("shared")
		require.NoError(t, err)
		require.Equal(t, account.Address, got.Address)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		owned := env.deriveKey(t, "")
		anotherOwned := env.deriveKey(t, "")
		foreign := newTestKey(t, 32)
		anotherForeign := newTestKey(t, 33)

		registered := newThresholdScript(t, 1, owned, foreign)
		_, err := env.accountStore.RegisterAccount(ctx, "shared", registered.Script)
		require.NoError(t, err)

		tests := []struct {
			name           string
			accountName    string
			script         []byte
			expectedReason application.FailureReason
			expectedErr    error
		}{
			{
				name:           "not a threshold script",
				accountName:    "other",
				script:         []byte{0x51},
				expectedReason: application.NotP2SH,
			},
			{
				name:           "no owned key",
				accountName:    "other",
				script:         newThresholdScript(t, 1, foreign, anotherForeign).Script,
				expectedReason: application.NotYours,
			},
			{
				name:           "two owned keys",
				accountName:    "other",
				script:         newThresholdScript(t, 1, owned, anotherOwned).Script,
				expectedReason: application.NotYours,
			},
			{
				name:           "already registered",
				accountName:    "other",
				script:         registered.Script,
				expectedReason: application.DuplicateAddress,
				expectedErr:    domain.ErrUnionAccountDuplicate,
			},
			{
				name:           "name taken",
				accountName:    "shared",
				script:         newThresholdScript(t, 2, owned, foreign).Script,
				expectedReason: application.AddMultiAddressFailed,
				expectedErr:    domain.ErrUnionAccountNameTaken,
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				account, err := env.accountStore.RegisterAccount(
					ctx, tt.accountName, tt.script,
				)
				require.Nil(t, account)
				require.Equal(t, tt.expectedReason, application.ReasonOf(err))
				if tt.expectedErr != nil {
					require.ErrorIs(t, err, tt.expectedErr)
				}
			})
		}

		w, err := env.repoManager.WalletRepository().GetWallet(ctx)
		require.NoError(t, err)
		require.Len(t, w.UnionAccounts, 1)
	})

	t.Run("locked", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		owned := env.deriveKey(t, "")
		script := newThresholdScript(t, 1, owned, newTestKey(t, 34))
		env.mnemonicStore.Unset()

		_, err := env.accountStore.RegisterAccount(ctx, "shared", script.Script)
		require.Equal(t, application.PasswordError, application.ReasonOf(err))
		require.ErrorIs(t, err, application.ErrWalletLocked)
		require.Equal(t, "Password error.", application.Message(err))
	})
}

func newThresholdScript(
	t *testing.T, required int, keys ...*multisig.PublicKey,
) *multisig.ThresholdScript {
	script, err := multisig.NewThresholdScript(required, keys)
	require.NoError(t, err)
	return script
}
