package main

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/spf13/cobra"
	"github.com/vulpemventures/uniond/pkg/unionjson"
)

var (
	mnemonic    string
	password    string
	timeout     int64
	oldPassword string
	newPassword string

	walletGenSeedCmd = &cobra.Command{
		Use:   "genseed",
		Short: "generate a random mnemonic",
		Long: "this command lets you generate a new random mnemonic to " +
			"initialize a new wallet from scratch",
		RunE: walletGenSeed,
	}
	walletCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "initialize with a brand new wallet",
		Long: "this command lets you initialize a new uniond wallet from scratch " +
			"with the given mnemonic (or let me create one for you), " +
			"encrypted with your choosen password",
		RunE: walletCreate,
	}
	walletUnlockCmd = &cobra.Command{
		Use:   "unlock",
		Short: "unlock the wallet",
		Long: "this command lets you unlock the uniond wallet with your password, " +
			"optionally for a limited number of seconds",
		RunE: walletUnlock,
	}
	walletLockCmd = &cobra.Command{
		Use:   "lock",
		Short: "lock the wallet",
		Long:  "this command lets you lock the uniond wallet",
		RunE:  walletLock,
	}
	walletChangePwdCmd = &cobra.Command{
		Use:   "changepassword",
		Short: "change the wallet password",
		Long: "this command lets you change the encryption password of the " +
			"wallet, that must be locked",
		RunE: walletChangePwd,
	}
	walletInfoCmd = &cobra.Command{
		Use:   "info",
		Short: "get info about the wallet",
		Long: "this command returns info about the status of the wallet, its " +
			"network and the number of keys and union accounts",
		RunE: walletInfo,
	}
	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "interact with uniond wallet interface",
		Long: "this command lets you initialize, unlock or change the password " +
			"of wallet, as long as retrieving info about its status",
	}
)

func init() {
	walletCreateCmd.Flags().StringVar(
		&mnemonic, "mnemonic", "", "space separated word list as wallet seed",
	)
	walletCreateCmd.Flags().StringVar(&password, "password", "", "encryption password")
	walletCreateCmd.MarkFlagRequired("password")

	walletUnlockCmd.Flags().StringVar(&password, "password", "", "encryption password")
	walletUnlockCmd.Flags().Int64Var(
		&timeout, "timeout", 0, "seconds after which the wallet is locked again, 0 to never lock",
	)
	walletUnlockCmd.MarkFlagRequired("password")

	walletChangePwdCmd.Flags().StringVar(&oldPassword, "old-password", "", "current password")
	walletChangePwdCmd.Flags().StringVar(&newPassword, "new-password", "", "new password")
	walletChangePwdCmd.MarkFlagRequired("old-password")
	walletChangePwdCmd.MarkFlagRequired("new-password")

	walletCmd.AddCommand(
		walletGenSeedCmd, walletCreateCmd, walletUnlockCmd, walletLockCmd,
		walletChangePwdCmd, walletInfoCmd,
	)
}

func walletGenSeed(_ *cobra.Command, _ []string) error {
	return runCmd(unionjson.NewGenSeedCmd(), "")
}

func walletCreate(_ *cobra.Command, _ []string) error {
	mnemonicToGenerate := len(mnemonic) == 0
	if mnemonicToGenerate {
		result, err := sendCmd(unionjson.NewGenSeedCmd())
		if err != nil {
			return handleErr(err)
		}
		if err := json.Unmarshal(result, &mnemonic); err != nil {
			return err
		}
	}

	if _, err := sendCmd(unionjson.NewInitWalletCmd(mnemonic, password)); err != nil {
		return handleErr(err)
	}

	fmt.Println("wallet initialized")
	if mnemonicToGenerate {
		fmt.Println("")
		fmt.Printf("mnemonic: %s\n", mnemonic)
	}
	return nil
}

func walletUnlock(_ *cobra.Command, _ []string) error {
	return runCmd(btcjson.NewWalletPassphraseCmd(password, timeout), "wallet unlocked")
}

func walletLock(_ *cobra.Command, _ []string) error {
	return runCmd(btcjson.NewWalletLockCmd(), "wallet locked")
}

func walletChangePwd(_ *cobra.Command, _ []string) error {
	return runCmd(
		btcjson.NewWalletPassphraseChangeCmd(oldPassword, newPassword),
		"password changed",
	)
}

func walletInfo(_ *cobra.Command, _ []string) error {
	return runCmd(btcjson.NewGetWalletInfoCmd(), "")
}
