package domain

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
)

// Key is a single public key derived from the wallet's HD seed. Keys are
// always serialized in compressed form.
type Key struct {
	Index          uint32
	DerivationPath string
	PubKey         []byte
	Label          string
}

// Hash returns the hex encoded hash160 of the public key.
func (k Key) Hash() string {
	return hex.EncodeToString(btcutil.Hash160(k.PubKey))
}

func (k Key) PubKeyHex() string {
	return hex.EncodeToString(k.PubKey)
}
