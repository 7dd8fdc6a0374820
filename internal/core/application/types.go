package application

import (
	"github.com/vulpemventures/uniond/internal/core/domain"
)

const (
	UnionAccountSucceeded UnionAccountEventType = iota
	UnionAccountFailed
	UnionAccountsRefreshed
)

var (
	unionAccountEventTypeString = map[UnionAccountEventType]string{
		UnionAccountSucceeded:  "UnionAccountSucceeded",
		UnionAccountFailed:     "UnionAccountFailed",
		UnionAccountsRefreshed: "UnionAccountsRefreshed",
	}
)

type WalletStatus struct {
	IsInitialized bool
	IsUnlocked    bool
}

type WalletInfo struct {
	Network            string
	RootPath           string
	AccountXpub        string
	NumOfKeys          int
	NumOfUnionAccounts int
	BuildInfo          BuildInfo
}

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type KeyInfo struct {
	PubKey         string
	Address        string
	DerivationPath string
	Label          string
}

type UnionAccountInfo struct {
	Name         string
	Address      string
	RedeemScript string
	Required     int
	PubKeys      []string
	CreatedAt    int64
}

func newUnionAccountInfo(account domain.UnionAccount) UnionAccountInfo {
	return UnionAccountInfo{
		Name:         account.Name,
		Address:      account.Address,
		RedeemScript: account.RedeemScript,
		Required:     account.Required,
		PubKeys:      append([]string{}, account.PubKeys...),
		CreatedAt:    account.CreatedAt,
	}
}

type UnionAccountEventType int

func (t UnionAccountEventType) String() string {
	return unionAccountEventTypeString[t]
}

// UnionAccountEvent notifies the outcome of a union account creation
// attempt. Script and Address are set on success, Reason and Message on
// failure. A refresh event carries nothing.
type UnionAccountEvent struct {
	EventType UnionAccountEventType
	Name      string
	Script    string
	Address   string
	Reason    FailureReason
	Message   string
}

type AddressValidation struct {
	IsValid      bool
	Address      string
	ScriptPubKey string
	IsMine       bool
	IsWatchOnly  bool
	Account      string
	HDKeyPath    string
	AddressDescription
}

type MultisigInfo struct {
	Address      string
	RedeemScript string
}
