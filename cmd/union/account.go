package main

import (
	"github.com/spf13/cobra"
	"github.com/vulpemventures/uniond/pkg/unionjson"
)

var (
	label       string
	accountName string
	nRequired   int
	keys        []string
	numOfKeys   int

	accountGenKeyCmd = &cobra.Command{
		Use:   "genkey",
		Short: "derive a new owned key",
		Long: "this command lets you derive a new key of the wallet and returns " +
			"its public key and address, to share with the other cosigners",
		RunE: accountGenKey,
	}
	accountCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "create a new union account",
		Long: "this command lets you register a new M-of-N union account made of " +
			"exactly one of your keys and the ones of the other cosigners, each " +
			"either an hex public key or an address",
		RunE: accountCreate,
	}
	accountListCmd = &cobra.Command{
		Use:   "list",
		Short: "list all union accounts",
		Long:  "this command returns all the union accounts registered in the wallet",
		RunE:  accountList,
	}
	accountGetCmd = &cobra.Command{
		Use:   "get",
		Short: "get a union account",
		Long:  "this command returns the union account with the given name",
		RunE:  accountGet,
	}
	accountCmd = &cobra.Command{
		Use:   "account",
		Short: "interact with uniond union account interface",
		Long: "this command lets you derive keys and create and list the union " +
			"accounts of the wallet",
	}
)

func init() {
	accountGenKeyCmd.Flags().StringVar(&label, "label", "", "label of the key")

	accountCreateCmd.Flags().StringVar(&accountName, "name", "", "name of the account")
	accountCreateCmd.Flags().IntVar(
		&nRequired, "required", 0, "number of signatures required to spend",
	)
	accountCreateCmd.Flags().StringSliceVar(
		&keys, "keys", nil, "comma separated list of public keys or addresses",
	)
	accountCreateCmd.Flags().IntVar(
		&numOfKeys, "nkeys", 0, "number of keys, defaults to the number of given keys",
	)
	accountCreateCmd.MarkFlagRequired("name")
	accountCreateCmd.MarkFlagRequired("required")
	accountCreateCmd.MarkFlagRequired("keys")

	accountGetCmd.Flags().StringVar(&accountName, "name", "", "name of the account")
	accountGetCmd.MarkFlagRequired("name")

	accountCmd.AddCommand(
		accountGenKeyCmd, accountCreateCmd, accountListCmd, accountGetCmd,
	)
}

func accountGenKey(cmd *cobra.Command, _ []string) error {
	var keyLabel *string
	if cmd.Flags().Changed("label") {
		keyLabel = &label
	}
	return runCmd(unionjson.NewGenKeyCmd(keyLabel), "")
}

func accountCreate(cmd *cobra.Command, _ []string) error {
	var nKeys *int
	if cmd.Flags().Changed("nkeys") {
		nKeys = &numOfKeys
	}
	return runCmd(
		unionjson.NewCreateUnionAccountCmd(accountName, nRequired, keys, nKeys), "",
	)
}

func accountList(_ *cobra.Command, _ []string) error {
	return runCmd(unionjson.NewListUnionAccountsCmd(), "")
}

func accountGet(_ *cobra.Command, _ []string) error {
	return runCmd(unionjson.NewGetUnionAccountCmd(accountName), "")
}
