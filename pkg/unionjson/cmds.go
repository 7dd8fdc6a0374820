// Package unionjson defines the JSON-RPC commands, results and notifications
// served by uniond on top of the bitcoin ones registered by btcjson.
//
// The bitcoin compatible commands (walletpassphrase, walletlock,
// walletpassphrasechange, getwalletinfo, validateaddress, createmultisig,
// verifymessage, signmessage, signmessagewithprivkey) use the btcjson types
// as they are.
package unionjson

import (
	"github.com/btcsuite/btcd/btcjson"
)

const (
	GenSeedMethod            = "genseed"
	InitWalletMethod         = "initwallet"
	GenKeyMethod             = "genkey"
	AddrToPubKeyMethod       = "addtopubkey"
	CreateUnionAccountMethod = "createunionaccount"
	ListUnionAccountsMethod  = "listunionaccounts"
	GetUnionAccountMethod    = "getunionaccount"
)

// GenSeedCmd defines the genseed JSON-RPC command.
type GenSeedCmd struct{}

func NewGenSeedCmd() *GenSeedCmd {
	return &GenSeedCmd{}
}

// InitWalletCmd defines the initwallet JSON-RPC command. The mnemonic is
// a list of space separated words.
type InitWalletCmd struct {
	Mnemonic   string
	Passphrase string
}

func NewInitWalletCmd(mnemonic, passphrase string) *InitWalletCmd {
	return &InitWalletCmd{
		Mnemonic:   mnemonic,
		Passphrase: passphrase,
	}
}

// GenKeyCmd defines the genkey JSON-RPC command.
type GenKeyCmd struct {
	Label *string
}

func NewGenKeyCmd(label *string) *GenKeyCmd {
	return &GenKeyCmd{
		Label: label,
	}
}

// AddrToPubKeyCmd defines the addtopubkey JSON-RPC command.
type AddrToPubKeyCmd struct {
	Address string
}

func NewAddrToPubKeyCmd(address string) *AddrToPubKeyCmd {
	return &AddrToPubKeyCmd{
		Address: address,
	}
}

// CreateUnionAccountCmd defines the createunionaccount JSON-RPC command.
// Keys are the slots of the creation form, each either a hex public key or
// an address. NKeys is the number of active slots and defaults to the number
// of keys.
type CreateUnionAccountCmd struct {
	Name      string
	NRequired int
	Keys      []string
	NKeys     *int
}

func NewCreateUnionAccountCmd(
	name string, nRequired int, keys []string, nKeys *int,
) *CreateUnionAccountCmd {
	return &CreateUnionAccountCmd{
		Name:      name,
		NRequired: nRequired,
		Keys:      keys,
		NKeys:     nKeys,
	}
}

// ListUnionAccountsCmd defines the listunionaccounts JSON-RPC command.
type ListUnionAccountsCmd struct{}

func NewListUnionAccountsCmd() *ListUnionAccountsCmd {
	return &ListUnionAccountsCmd{}
}

// GetUnionAccountCmd defines the getunionaccount JSON-RPC command.
type GetUnionAccountCmd struct {
	Name string
}

func NewGetUnionAccountCmd(name string) *GetUnionAccountCmd {
	return &GetUnionAccountCmd{
		Name: name,
	}
}

func init() {
	flags := btcjson.UFWalletOnly

	btcjson.MustRegisterCmd(GenSeedMethod, (*GenSeedCmd)(nil), flags)
	btcjson.MustRegisterCmd(InitWalletMethod, (*InitWalletCmd)(nil), flags)
	btcjson.MustRegisterCmd(GenKeyMethod, (*GenKeyCmd)(nil), flags)
	btcjson.MustRegisterCmd(AddrToPubKeyMethod, (*AddrToPubKeyCmd)(nil), flags)
	btcjson.MustRegisterCmd(
		CreateUnionAccountMethod, (*CreateUnionAccountCmd)(nil), flags,
	)
	btcjson.MustRegisterCmd(
		ListUnionAccountsMethod, (*ListUnionAccountsCmd)(nil), flags,
	)
	btcjson.MustRegisterCmd(GetUnionAccountMethod, (*GetUnionAccountCmd)(nil), flags)
}
