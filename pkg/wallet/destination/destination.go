package destination

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
)

const (
	// None is the kind of an undecodable or unsupported destination.
	None Kind = iota
	// KeyHash is the kind of a single-key destination, ie. pay to the
	// hash160 of a public key.
	KeyHash
	// ScriptHash is the kind of a destination committing to the hash160 of a
	// redeem script.
	ScriptHash

	hashLen = 20
)

var (
	ErrNoDestination  = fmt.Errorf("destination is none")
	ErrInvalidHashLen = fmt.Errorf("destination hash must be exactly %d bytes", hashLen)
	ErrUnknownKind    = fmt.Errorf("unknown destination kind")

	kindString = map[Kind]string{
		None:       "none",
		KeyHash:    "keyhash",
		ScriptHash: "scripthash",
	}
)

type Kind int

func (k Kind) String() string {
	return kindString[k]
}

// Destination is the tagged variant every address or output script decodes
// to. The zero value is the None destination.
type Destination struct {
	Kind Kind
	Hash []byte
}

func NewKeyHash(hash []byte) (Destination, error) {
	return newDestination(KeyHash, hash)
}

func NewScriptHash(hash []byte) (Destination, error) {
	return newDestination(ScriptHash, hash)
}

// FromPubKey returns the KeyHash destination of the given serialized key.
func FromPubKey(key []byte) Destination {
	return Destination{KeyHash, btcutil.Hash160(key)}
}

// FromRedeemScript returns the ScriptHash destination of the given script.
func FromRedeemScript(script []byte) Destination {
	return Destination{ScriptHash, btcutil.Hash160(script)}
}

// FromOutputScript decodes the destination an output script pays to.
// Pay-to-pubkey outputs are reported as the KeyHash of their key, any other
// non key-hash or script-hash output is None.
func FromOutputScript(script []byte) Destination {
	switch txscript.GetScriptClass(script) {
	case txscript.PubKeyHashTy:
		// OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG
		return Destination{KeyHash, copyHash(script[3:23])}
	case txscript.ScriptHashTy:
		// OP_HASH160 <20 bytes> OP_EQUAL
		return Destination{ScriptHash, copyHash(script[2:22])}
	case txscript.PubKeyTy:
		// <33 or 65 bytes> OP_CHECKSIG
		return FromPubKey(script[1 : len(script)-1])
	default:
		return Destination{}
	}
}

func (d Destination) IsNone() bool {
	return d.Kind == None
}

func (d Destination) IsScript() bool {
	return d.Kind == ScriptHash
}

func (d Destination) Hex() string {
	return hex.EncodeToString(d.Hash)
}

func (d Destination) Equal(other Destination) bool {
	return d.Kind == other.Kind && bytes.Equal(d.Hash, other.Hash)
}

// OutputScript returns the standard output script paying to the destination.
func (d Destination) OutputScript() ([]byte, error) {
	switch d.Kind {
	case None:
		return nil, ErrNoDestination
	case KeyHash:
		return txscript.NewScriptBuilder().
			AddOp(txscript.OP_DUP).
			AddOp(txscript.OP_HASH160).
			AddData(d.Hash).
			AddOp(txscript.OP_EQUALVERIFY).
			AddOp(txscript.OP_CHECKSIG).
			Script()
	case ScriptHash:
		return txscript.NewScriptBuilder().
			AddOp(txscript.OP_HASH160).
			AddData(d.Hash).
			AddOp(txscript.OP_EQUAL).
			Script()
	default:
		return nil, ErrUnknownKind
	}
}

func newDestination(kind Kind, hash []byte) (Destination, error) {
	if len(hash) != hashLen {
		return Destination{}, ErrInvalidHashLen
	}
	return Destination{kind, copyHash(hash)}, nil
}

func copyHash(hash []byte) []byte {
	buf := make([]byte, len(hash))
	copy(buf, hash)
	return buf
}
