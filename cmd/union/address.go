package main

import (
	"github.com/btcsuite/btcd/btcjson"
	"github.com/spf13/cobra"
	"github.com/vulpemventures/uniond/pkg/unionjson"
)

var (
	address    string
	signature  string
	message    string
	privateKey string

	utilValidateAddressCmd = &cobra.Command{
		Use:   "validateaddress",
		Short: "get info about an address",
		Long: "this command returns whether the given address is valid and " +
			"everything the wallet knows about it",
		RunE: utilValidateAddress,
	}
	utilCreateMultisigCmd = &cobra.Command{
		Use:   "createmultisig",
		Short: "build a multisig script",
		Long: "this command returns the M-of-N multisig redeem script of the " +
			"given keys and its address, without registering anything",
		RunE: utilCreateMultisig,
	}
	utilAddrToPubKeyCmd = &cobra.Command{
		Use:   "addtopubkey",
		Short: "get the public key of an owned address",
		Long:  "this command returns the full public key of an address of the wallet",
		RunE:  utilAddrToPubKey,
	}
	utilSignMessageCmd = &cobra.Command{
		Use:   "signmessage",
		Short: "sign a message",
		Long: "this command signs the given message with the key of an owned " +
			"address, or with the given WIF private key",
		RunE: utilSignMessage,
	}
	utilVerifyMessageCmd = &cobra.Command{
		Use:   "verifymessage",
		Short: "verify a signed message",
		Long: "this command returns whether the signature of the message was " +
			"made with the key of the given address",
		RunE: utilVerifyMessage,
	}
	utilCmd = &cobra.Command{
		Use:   "util",
		Short: "address, script and message utilities",
		Long: "this command lets you inspect addresses, build multisig scripts " +
			"and sign or verify messages",
	}
)

func init() {
	utilValidateAddressCmd.Flags().StringVar(&address, "address", "", "address to validate")
	utilValidateAddressCmd.MarkFlagRequired("address")

	utilCreateMultisigCmd.Flags().IntVar(
		&nRequired, "required", 0, "number of signatures required to spend",
	)
	utilCreateMultisigCmd.Flags().StringSliceVar(
		&keys, "keys", nil, "comma separated list of public keys or addresses",
	)
	utilCreateMultisigCmd.MarkFlagRequired("required")
	utilCreateMultisigCmd.MarkFlagRequired("keys")

	utilAddrToPubKeyCmd.Flags().StringVar(&address, "address", "", "owned address")
	utilAddrToPubKeyCmd.MarkFlagRequired("address")

	utilSignMessageCmd.Flags().StringVar(&address, "address", "", "owned address")
	utilSignMessageCmd.Flags().StringVar(
		&privateKey, "privkey", "", "WIF private key to use instead of an owned address",
	)
	utilSignMessageCmd.Flags().StringVar(&message, "message", "", "message to sign")
	utilSignMessageCmd.MarkFlagRequired("message")

	utilVerifyMessageCmd.Flags().StringVar(&address, "address", "", "signer address")
	utilVerifyMessageCmd.Flags().StringVar(&signature, "signature", "", "base64 signature")
	utilVerifyMessageCmd.Flags().StringVar(&message, "message", "", "signed message")
	utilVerifyMessageCmd.MarkFlagRequired("address")
	utilVerifyMessageCmd.MarkFlagRequired("signature")
	utilVerifyMessageCmd.MarkFlagRequired("message")

	utilCmd.AddCommand(
		utilValidateAddressCmd, utilCreateMultisigCmd, utilAddrToPubKeyCmd,
		utilSignMessageCmd, utilVerifyMessageCmd,
	)
}

func utilValidateAddress(_ *cobra.Command, _ []string) error {
	return runCmd(btcjson.NewValidateAddressCmd(address), "")
}

func utilCreateMultisig(_ *cobra.Command, _ []string) error {
	return runCmd(btcjson.NewCreateMultisigCmd(nRequired, keys), "")
}

func utilAddrToPubKey(_ *cobra.Command, _ []string) error {
	return runCmd(unionjson.NewAddrToPubKeyCmd(address), "")
}

func utilSignMessage(_ *cobra.Command, _ []string) error {
	if len(privateKey) > 0 {
		return runCmd(&btcjson.SignMessageWithPrivKeyCmd{
			PrivKey: privateKey,
			Message: message,
		}, "")
	}
	return runCmd(btcjson.NewSignMessageCmd(address, message), "")
}

func utilVerifyMessage(_ *cobra.Command, _ []string) error {
	return runCmd(btcjson.NewVerifyMessageCmd(address, signature, message), "")
}
