package domain

import (
	"encoding/hex"
	"fmt"
	"time"

	multisig "github.com/vulpemventures/uniond/pkg/wallet/multi-sig"
)

var (
	ErrUnionAccountMissingName    = fmt.Errorf("missing union account name")
	ErrUnionAccountMissingAddress = fmt.Errorf("missing union account address")
	ErrUnionAccountMissingScript  = fmt.Errorf("missing union account redeem script")
	ErrUnionAccountMissingOwnKey  = fmt.Errorf("missing union account own key")
)

// UnionAccount is a shared custody account of the wallet, ie. a P2SH M-of-N
// threshold script where exactly one of the keys is owned by the wallet.
type UnionAccount struct {
	Name         string
	Address      string
	RedeemScript string
	ScriptHash   string
	Required     int
	PubKeys      []string
	OwnKeyHash   string
	CreatedAt    int64
}

func NewUnionAccount(
	name, address string, script *multisig.ThresholdScript, ownKeyHash string,
) (*UnionAccount, error) {
	if name == "" {
		return nil, ErrUnionAccountMissingName
	}
	if address == "" {
		return nil, ErrUnionAccountMissingAddress
	}
	if script == nil || len(script.Script) <= 0 {
		return nil, ErrUnionAccountMissingScript
	}
	if ownKeyHash == "" {
		return nil, ErrUnionAccountMissingOwnKey
	}

	pubkeys := make([]string, 0, len(script.Keys))
	for _, key := range script.Keys {
		pubkeys = append(pubkeys, key.Hex())
	}

	return &UnionAccount{
		Name:         name,
		Address:      address,
		RedeemScript: script.Hex(),
		ScriptHash:   hex.EncodeToString(script.ScriptHash()),
		Required:     script.Required,
		PubKeys:      pubkeys,
		OwnKeyHash:   ownKeyHash,
		CreatedAt:    time.Now().Unix(),
	}, nil
}

// Script returns the deserialized redeem script.
func (a UnionAccount) Script() []byte {
	buf, _ := hex.DecodeString(a.RedeemScript)
	return buf
}
