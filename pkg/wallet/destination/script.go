package destination

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// ScriptInfo holds what can be learnt about a script by parsing it.
// Required is set only for threshold (multisig) scripts.
type ScriptInfo struct {
	Class        string
	Destinations []Destination
	Required     int
}

// IsMultiSig returns whether the parsed script is a standard threshold
// script.
func (i ScriptInfo) IsMultiSig() bool {
	return i.Class == txscript.MultiSigTy.String()
}

// ParseScript classifies the given script and extracts the destinations it
// authorizes. Keys committed to by a threshold script are reported as KeyHash
// destinations. Unsupported destinations are left out.
func ParseScript(script []byte) ScriptInfo {
	// Network params are needed only to build addresses, which are never
	// encoded here, so any network works.
	class, addrs, reqSigs, err := txscript.ExtractPkScriptAddrs(
		script, &chaincfg.MainNetParams,
	)
	if err != nil {
		return ScriptInfo{Class: txscript.NonStandardTy.String()}
	}

	destinations := make([]Destination, 0, len(addrs))
	for _, addr := range addrs {
		switch a := addr.(type) {
		case *btcutil.AddressPubKey:
			destinations = append(destinations, FromPubKey(a.ScriptAddress()))
		case *btcutil.AddressPubKeyHash:
			destinations = append(destinations, Destination{KeyHash, copyHash(a.ScriptAddress())})
		case *btcutil.AddressScriptHash:
			destinations = append(destinations, Destination{ScriptHash, copyHash(a.ScriptAddress())})
		}
	}

	info := ScriptInfo{
		Class:        class.String(),
		Destinations: destinations,
	}
	if class == txscript.MultiSigTy {
		info.Required = reqSigs
	}
	return info
}
