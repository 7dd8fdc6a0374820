package unionjson

import (
	"github.com/btcsuite/btcd/btcjson"
)

const (
	// UnionAccountCreatedNtfnMethod is the method used to notify that a union
	// account has been registered.
	UnionAccountCreatedNtfnMethod = "unionaccountcreated"

	// UnionAccountFailedNtfnMethod is the method used to notify that a union
	// account creation attempt has failed.
	UnionAccountFailedNtfnMethod = "unionaccountfailed"

	// UnionAccountsRefreshedNtfnMethod is the method used to notify that the
	// list of union accounts has changed.
	UnionAccountsRefreshedNtfnMethod = "unionaccountsrefreshed"
)

// UnionAccountCreatedNtfn defines the unionaccountcreated JSON-RPC
// notification.
type UnionAccountCreatedNtfn struct {
	Name         string
	Address      string
	RedeemScript string
}

func NewUnionAccountCreatedNtfn(
	name, address, redeemScript string,
) *UnionAccountCreatedNtfn {
	return &UnionAccountCreatedNtfn{
		Name:         name,
		Address:      address,
		RedeemScript: redeemScript,
	}
}

// UnionAccountFailedNtfn defines the unionaccountfailed JSON-RPC
// notification. Message is the text shown to the user.
type UnionAccountFailedNtfn struct {
	Name    string
	Reason  string
	Message string
}

func NewUnionAccountFailedNtfn(
	name, reason, message string,
) *UnionAccountFailedNtfn {
	return &UnionAccountFailedNtfn{
		Name:    name,
		Reason:  reason,
		Message: message,
	}
}

// UnionAccountsRefreshedNtfn defines the unionaccountsrefreshed JSON-RPC
// notification.
type UnionAccountsRefreshedNtfn struct{}

func NewUnionAccountsRefreshedNtfn() *UnionAccountsRefreshedNtfn {
	return &UnionAccountsRefreshedNtfn{}
}

func init() {
	flags := btcjson.UFWalletOnly | btcjson.UFWebsocketOnly | btcjson.UFNotification

	btcjson.MustRegisterCmd(
		UnionAccountCreatedNtfnMethod, (*UnionAccountCreatedNtfn)(nil), flags,
	)
	btcjson.MustRegisterCmd(
		UnionAccountFailedNtfnMethod, (*UnionAccountFailedNtfn)(nil), flags,
	)
	btcjson.MustRegisterCmd(
		UnionAccountsRefreshedNtfnMethod, (*UnionAccountsRefreshedNtfn)(nil), flags,
	)
}
