package application_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/uniond/internal/core/application"
	"github.com/vulpemventures/uniond/internal/core/domain"
)

func TestUnionAccountService(t *testing.T) {
	t.Parallel()

	t.Run("generate key", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		svc := newUnionAccountService(t, env, nil)

		key, err := svc.GenerateKey(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, key)
		require.Equal(t, "alice", key.Label)
		require.Equal(t, "m/44'/1'/0'/0/0", key.DerivationPath)
		require.Len(t, key.PubKey, 66)

		pubkey, err := application.NewUtilService(
			env.repoManager, env.mnemonicStore, env.codec, env.accountStore, "",
		).AddressToPubKey(ctx, key.Address)
		require.NoError(t, err)
		require.Equal(t, key.PubKey, pubkey)

		anotherKey, err := svc.GenerateKey(ctx, "")
		require.NoError(t, err)
		require.Equal(t, "m/44'/1'/0'/0/1", anotherKey.DerivationPath)
		require.NotEqual(t, key.PubKey, anotherKey.PubKey)

		env.mnemonicStore.Unset()
		key, err = svc.GenerateKey(ctx, "")
		require.ErrorIs(t, err, application.ErrWalletLocked)
		require.Nil(t, key)
	})

	t.Run("create union account", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		reg := prometheus.NewRegistry()
		metrics, err := application.NewMetrics(reg)
		require.NoError(t, err)
		svc := newUnionAccountService(t, env, metrics)
		chEvents := svc.GetEventChannel()

		owned, err := svc.GenerateKey(ctx, "")
		require.NoError(t, err)
		foreign := newTestKey(t, 40)

		req := newRequest("shared", 2, 2, owned.Address, foreign.Hex())
		res, err := svc.CreateUnionAccount(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, res)
		require.NotEmpty(t, res.Script)
		require.NotEmpty(t, res.Address)

		event := <-chEvents
		require.Equal(t, application.UnionAccountSucceeded, event.EventType)
		require.Equal(t, "shared", event.Name)
		require.Equal(t, res.Script, event.Script)
		require.Equal(t, res.Address, event.Address)
		event = <-chEvents
		require.Equal(t, application.UnionAccountsRefreshed, event.EventType)

		accounts, err := svc.ListUnionAccounts(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		require.Equal(t, res.Address, accounts[0].Address)
		require.Equal(t, res.Script, accounts[0].RedeemScript)
		require.Equal(t, []string{owned.PubKey, foreign.Hex()}, accounts[0].PubKeys)

		account, err := svc.GetUnionAccount(ctx, "shared")
		require.NoError(t, err)
		require.Equal(t, res.Address, account.Address)
		require.Equal(t, 2, account.Required)

		_, err = svc.GetUnionAccount(ctx, "unknown")
		require.ErrorIs(t, err, domain.ErrUnionAccountNotFound)

		// Same script under another name.
		res, err = svc.CreateUnionAccount(
			ctx, newRequest("other", 2, 2, owned.Address, foreign.Hex()),
		)
		require.Nil(t, res)
		require.Equal(t, application.DuplicateAddress, application.ReasonOf(err))

		event = <-chEvents
		require.Equal(t, application.UnionAccountFailed, event.EventType)
		require.Equal(t, "other", event.Name)
		require.Equal(t, application.DuplicateAddress, event.Reason)
		require.Equal(t, "Address duplication", event.Message)
		require.Empty(t, event.Script)

		_, err = svc.CreateUnionAccount(
			ctx, newRequest("dup", 2, 2, owned.Address, owned.Address),
		)
		require.Equal(t, application.DuplicateKey, application.ReasonOf(err))
		event = <-chEvents
		require.Equal(t, "Publickey repetition", event.Message)

		require.Equal(t, map[string]float64{
			"success":          1,
			"DuplicateAddress": 1,
			"DuplicateKey":     1,
		}, gatherUnionAccountOutcomes(t, reg))
	})

	t.Run("locked wallet", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		svc := newUnionAccountService(t, env, nil)
		owned, err := svc.GenerateKey(ctx, "")
		require.NoError(t, err)
		env.mnemonicStore.Unset()

		_, err = svc.CreateUnionAccount(
			ctx, newRequest("shared", 2, 1, owned.Address, newTestKey(t, 41).Hex()),
		)
		require.Equal(t, application.PasswordError, application.ReasonOf(err))

		event := <-svc.GetEventChannel()
		require.Equal(t, application.UnionAccountFailed, event.EventType)
		require.Equal(t, "Password error.", event.Message)
	})

	t.Run("without wallet", func(t *testing.T) {
		t.Parallel()

		env := newEmptyTestEnv(t)
		svc := newUnionAccountService(t, env, nil)

		accounts, err := svc.ListUnionAccounts(ctx)
		require.ErrorIs(t, err, domain.ErrWalletNotInitialized)
		require.Nil(t, accounts)
	})
}

func TestNotificationService(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	svc := newUnionAccountService(t, env, nil)
	notificationSvc := application.NewNotificationService(env.repoManager, svc)

	chAccounts, err := notificationSvc.GetUnionAccountChannel(ctx)
	require.NoError(t, err)
	require.Equal(t, svc.GetEventChannel(), chAccounts)

	chWallet, err := notificationSvc.GetWalletChannel(ctx)
	require.NoError(t, err)
	require.Equal(t, env.repoManager.WalletRepository().GetEventChannel(), chWallet)

	_, err = svc.CreateUnionAccount(ctx, newRequest("", 2, 2))
	require.Equal(t, application.InputMissing, application.ReasonOf(err))

	event := <-chAccounts
	require.Equal(t, application.UnionAccountFailed, event.EventType)
	require.Equal(t, application.InputMissing, event.Reason)
	require.Equal(t, "input info", event.Message)
}

func newUnionAccountService(
	t *testing.T, env *testEnv, metrics *application.Metrics,
) *application.UnionAccountService {
	return application.NewUnionAccountService(
		env.repoManager, env.mnemonicStore, env.codec, env.accountStore, metrics,
	)
}

func gatherUnionAccountOutcomes(
	t *testing.T, reg *prometheus.Registry,
) map[string]float64 {
	families, err := reg.Gather()
	require.NoError(t, err)

	outcomes := make(map[string]float64)
	for _, family := range families {
		if family.GetName() != "uniond_union_accounts_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" {
					outcomes[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	return outcomes
}
