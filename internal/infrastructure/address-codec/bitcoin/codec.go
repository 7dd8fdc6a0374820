package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/pkg/wallet/destination"
)

var (
	ErrUnknownNetwork = fmt.Errorf("unknown bitcoin network")

	networks = map[string]*chaincfg.Params{
		"bitcoin":         &chaincfg.MainNetParams,
		"bitcoin-testnet": &chaincfg.TestNet3Params,
		"bitcoin-regtest": &chaincfg.RegressionNetParams,
	}
)

// codec encodes legacy base58 addresses of a bitcoin network.
type codec struct {
	name   string
	params *chaincfg.Params
}

func NewCodec(networkName string) (ports.AddressCodec, error) {
	params, ok := networks[networkName]
	if !ok {
		return nil, ErrUnknownNetwork
	}
	return &codec{networkName, params}, nil
}

func (c *codec) Network() string {
	return c.name
}

// Decode accepts only P2PKH and P2SH addresses. Hex public keys, that
// btcutil would otherwise decode, are not addresses.
func (c *codec) Decode(addr string) destination.Destination {
	decoded, err := btcutil.DecodeAddress(addr, c.params)
	if err != nil || !decoded.IsForNet(c.params) {
		return destination.Destination{}
	}

	var dest destination.Destination
	switch a := decoded.(type) {
	case *btcutil.AddressPubKeyHash:
		dest, err = destination.NewKeyHash(a.ScriptAddress())
	case *btcutil.AddressScriptHash:
		dest, err = destination.NewScriptHash(a.ScriptAddress())
	}
	if err != nil {
		return destination.Destination{}
	}
	return dest
}

func (c *codec) Encode(dest destination.Destination) (string, error) {
	switch dest.Kind {
	case destination.None:
		return "", destination.ErrNoDestination
	case destination.KeyHash:
		addr, err := btcutil.NewAddressPubKeyHash(dest.Hash, c.params)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil
	case destination.ScriptHash:
		addr, err := btcutil.NewAddressScriptHashFromHash(dest.Hash, c.params)
		if err != nil {
			return "", err
		}
		return addr.EncodeAddress(), nil
	default:
		return "", destination.ErrUnknownKind
	}
}
