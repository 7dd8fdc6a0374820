package application_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/uniond/internal/core/application"
	"github.com/vulpemventures/uniond/internal/core/domain"
)

func TestWalletService(t *testing.T) {
	t.Parallel()

	t.Run("gen seed", func(t *testing.T) {
		t.Parallel()

		svc := newWalletService(newEmptyTestEnv(t))
		seed, err := svc.GenSeed(ctx)
		require.NoError(t, err)
		require.Len(t, seed, 24)

		anotherSeed, err := svc.GenSeed(ctx)
		require.NoError(t, err)
		require.NotEqual(t, seed, anotherSeed)
	})

	t.Run("lifecycle", func(t *testing.T) {
		t.Parallel()

		env := newEmptyTestEnv(t)
		svc := newWalletService(env)

		chUnlocked := make(chan domain.WalletEvent, 1)
		svc.RegisterHandlerForWalletEvent(
			domain.WalletUnlocked, func(event domain.WalletEvent) {
				chUnlocked <- event
			},
		)

		require.Equal(t, application.WalletStatus{}, svc.GetStatus(ctx))
		require.ErrorIs(t, svc.Unlock(ctx, password), application.ErrWalletNotInitialized)
		require.ErrorIs(t, svc.Lock(ctx), application.ErrWalletNotInitialized)
		require.ErrorIs(
			t, svc.ChangePassword(ctx, password, newPassword),
			application.ErrWalletNotInitialized,
		)
		info, err := svc.GetInfo(ctx)
		require.ErrorIs(t, err, domain.ErrWalletNotInitialized)
		require.Nil(t, info)

		require.NoError(t, svc.CreateWallet(ctx, mnemonic, password))
		require.ErrorIs(
			t, svc.CreateWallet(ctx, mnemonic, password),
			application.ErrWalletAlreadyInitialized,
		)
		require.Equal(t, application.WalletStatus{IsInitialized: true}, svc.GetStatus(ctx))

		info, err = svc.GetInfo(ctx)
		require.NoError(t, err)
		require.Equal(t, network, info.Network)
		require.Empty(t, info.RootPath)
		require.Empty(t, info.AccountXpub)
		require.Equal(t, "test", info.BuildInfo.Version)

		require.ErrorIs(t, svc.Unlock(ctx, "wrong"), domain.ErrWalletInvalidPassword)
		require.False(t, env.mnemonicStore.IsSet())

		require.NoError(t, svc.Unlock(ctx, password))
		require.NoError(t, svc.Unlock(ctx, password))
		require.Equal(t, mnemonic, env.mnemonicStore.Get())
		require.Equal(t, application.WalletStatus{
			IsInitialized: true, IsUnlocked: true,
		}, svc.GetStatus(ctx))

		select {
		case event := <-chUnlocked:
			require.Equal(t, domain.WalletUnlocked, event.EventType)
		case <-time.After(5 * time.Second):
			t.Fatal("wallet unlocked event not received")
		}

		info, err = svc.GetInfo(ctx)
		require.NoError(t, err)
		require.Equal(t, rootPath, info.RootPath)
		require.NotEmpty(t, info.AccountXpub)

		require.ErrorIs(
			t, svc.ChangePassword(ctx, password, newPassword),
			application.ErrWalletUnlocked,
		)

		require.NoError(t, svc.Lock(ctx))
		require.NoError(t, svc.Lock(ctx))
		require.False(t, env.mnemonicStore.IsSet())

		require.ErrorIs(
			t, svc.ChangePassword(ctx, "wrong", newPassword),
			domain.ErrWalletInvalidPassword,
		)
		require.NoError(t, svc.ChangePassword(ctx, password, newPassword))
		require.ErrorIs(t, svc.Unlock(ctx, password), domain.ErrWalletInvalidPassword)
		require.NoError(t, svc.Unlock(ctx, newPassword))
	})

	t.Run("info counts", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		owned := env.deriveKey(t, "")
		env.deriveKey(t, "")
		script := newThresholdScript(t, 1, owned, newTestKey(t, 50))
		_, err := env.accountStore.RegisterAccount(ctx, "shared", script.Script)
		require.NoError(t, err)

		// A new service finds the existing wallet.
		svc := newWalletService(env)
		require.True(t, svc.GetStatus(ctx).IsInitialized)

		info, err := svc.GetInfo(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, info.NumOfKeys)
		require.Equal(t, 1, info.NumOfUnionAccounts)
	})

	t.Run("invalid wallet", func(t *testing.T) {
		t.Parallel()

		svc := newWalletService(newEmptyTestEnv(t))
		require.ErrorIs(
			t, svc.CreateWallet(ctx, nil, password), domain.ErrWalletMissingMnemonic,
		)
		require.ErrorIs(
			t, svc.CreateWallet(ctx, mnemonic, ""), domain.ErrWalletMissingPassword,
		)
		require.False(t, svc.GetStatus(ctx).IsInitialized)
	})
}

func newWalletService(env *testEnv) *application.WalletService {
	return application.NewWalletService(
		env.repoManager, env.mnemonicStore, env.cypher, rootPath, network,
		application.BuildInfo{Version: "test"},
	)
}
