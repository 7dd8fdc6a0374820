package multisig

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

const (
	// MaxPubKeysPerMultiSig is the max number of keys a threshold script can
	// commit to.
	MaxPubKeysPerMultiSig = 16
	// MaxRedeemScriptSize is the max size of a redeem script, since it must
	// be pushed as a single stack element.
	MaxRedeemScriptSize = txscript.MaxScriptElementSize
)

// ThresholdScript is an M-of-N redeem script in the canonical form
// OP_M <key_1> ... <key_N> OP_N OP_CHECKMULTISIG.
// Keys keep the order they were given, nothing is sorted or deduplicated.
type ThresholdScript struct {
	Required int
	Keys     []*PublicKey
	Script   []byte
}

// ValidateThreshold checks the bounds of a threshold configuration without
// requiring the keys to be resolved.
func ValidateThreshold(required, numOfKeys int) error {
	if required < 1 {
		return ErrMissingRequiredSigs
	}
	if numOfKeys < required {
		return fmt.Errorf(
			"%w (got %d keys, but need at least %d to redeem)",
			ErrNotEnoughKeys, numOfKeys, required,
		)
	}
	if numOfKeys > MaxPubKeysPerMultiSig {
		return ErrTooManyKeys
	}
	return nil
}

// NewThresholdScript builds the redeem script requiring the given number of
// signatures out of the given keys.
func NewThresholdScript(
	required int, keys []*PublicKey,
) (*ThresholdScript, error) {
	if err := ValidateThreshold(required, len(keys)); err != nil {
		return nil, err
	}

	builder := txscript.NewScriptBuilder().AddInt64(int64(required))
	for _, key := range keys {
		if key == nil {
			return nil, ErrMissingPublicKey
		}
		builder.AddData(key.serialized)
	}
	builder.AddInt64(int64(len(keys))).AddOp(txscript.OP_CHECKMULTISIG)

	script, err := builder.Script()
	if err != nil {
		return nil, err
	}
	if len(script) > MaxRedeemScriptSize {
		return nil, fmt.Errorf(
			"%w: %d > %d", ErrScriptTooLarge, len(script), MaxRedeemScriptSize,
		)
	}

	return &ThresholdScript{
		Required: required,
		Keys:     append([]*PublicKey{}, keys...),
		Script:   script,
	}, nil
}

// ParseThresholdScript is the inverse of NewThresholdScript. It fails for
// any script that is not a canonical threshold script of valid keys.
func ParseThresholdScript(script []byte) (*ThresholdScript, error) {
	class, addrs, required, err := txscript.ExtractPkScriptAddrs(
		script, &chaincfg.MainNetParams,
	)
	if err != nil || class != txscript.MultiSigTy {
		return nil, ErrNotThresholdScript
	}

	keys := make([]*PublicKey, 0, len(addrs))
	for _, addr := range addrs {
		a, ok := addr.(*btcutil.AddressPubKey)
		if !ok {
			return nil, ErrNotThresholdScript
		}
		key, err := ParsePublicKey(a.ScriptAddress())
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	// Invalid keys are skipped when extracting addresses.
	thresholdScript, err := NewThresholdScript(required, keys)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(thresholdScript.Script, script) {
		return nil, ErrNotThresholdScript
	}
	return thresholdScript, nil
}

func (s *ThresholdScript) Hex() string {
	return hex.EncodeToString(s.Script)
}

// ScriptHash returns the identifier of the script committed to by a P2SH
// output.
func (s *ThresholdScript) ScriptHash() []byte {
	return btcutil.Hash160(s.Script)
}
