package unionjson

// GetWalletInfoResult models the data returned by the getwalletinfo command.
// RootPath and AccountXpub are set only while the wallet is unlocked.
type GetWalletInfoResult struct {
	IsInitialized      bool      `json:"isinitialized"`
	IsUnlocked         bool      `json:"isunlocked"`
	Network            string    `json:"network,omitempty"`
	RootPath           string    `json:"rootpath,omitempty"`
	AccountXpub        string    `json:"accountxpub,omitempty"`
	NumOfKeys          int       `json:"keys"`
	NumOfUnionAccounts int       `json:"unionaccounts"`
	BuildInfo          BuildInfo `json:"buildinfo"`
}

type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// GenKeyResult models the data returned by the genkey command.
type GenKeyResult struct {
	PubKey  string `json:"pubkey"`
	Address string `json:"address"`
	HDPath  string `json:"hdkeypath"`
	Label   string `json:"label,omitempty"`
}

// CreateUnionAccountResult models the data returned by the
// createunionaccount command.
type CreateUnionAccountResult struct {
	Address      string `json:"address"`
	RedeemScript string `json:"redeemScript"`
}

// UnionAccountResult models a registered union account as returned by the
// listunionaccounts and getunionaccount commands.
type UnionAccountResult struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	RedeemScript string   `json:"redeemScript"`
	SigsRequired int      `json:"sigsrequired"`
	Keys         []string `json:"keys"`
	CreatedAt    int64    `json:"createdat"`
}

// ValidateAddressResult models the data returned by the validateaddress
// command. Only isvalid is set for an invalid address.
type ValidateAddressResult struct {
	IsValid      bool     `json:"isvalid"`
	Address      string   `json:"address,omitempty"`
	ScriptPubKey string   `json:"scriptPubKey,omitempty"`
	IsMine       *bool    `json:"ismine,omitempty"`
	IsWatchOnly  *bool    `json:"iswatchonly,omitempty"`
	IsScript     *bool    `json:"isscript,omitempty"`
	Script       string   `json:"script,omitempty"`
	Hex          string   `json:"hex,omitempty"`
	Addresses    []string `json:"addresses,omitempty"`
	SigsRequired *int     `json:"sigsrequired,omitempty"`
	PubKey       string   `json:"pubkey,omitempty"`
	IsCompressed *bool    `json:"iscompressed,omitempty"`
	Account      string   `json:"account,omitempty"`
	HDKeyPath    string   `json:"hdkeypath,omitempty"`
}
