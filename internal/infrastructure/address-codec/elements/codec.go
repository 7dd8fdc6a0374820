package elements

import (
	"fmt"

	"github.com/vulpemventures/go-elements/address"
	"github.com/vulpemventures/go-elements/network"
	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/pkg/wallet/destination"
)

const hashLen = 20

var (
	ErrUnknownNetwork = fmt.Errorf("unknown elements network")

	networks = map[string]*network.Network{
		"liquid":  &network.Liquid,
		"testnet": &network.Testnet,
		"regtest": &network.Regtest,
	}
)

// codec encodes unconfidential base58 addresses of an Elements network.
type codec struct {
	name    string
	network *network.Network
}

func NewCodec(networkName string) (ports.AddressCodec, error) {
	net, ok := networks[networkName]
	if !ok {
		return nil, ErrUnknownNetwork
	}
	return &codec{networkName, net}, nil
}

func (c *codec) Network() string {
	return c.name
}

func (c *codec) Decode(addr string) destination.Destination {
	decoded, err := address.FromBase58(addr)
	if err != nil {
		return destination.Destination{}
	}

	var dest destination.Destination
	switch decoded.Version {
	case c.network.PubKeyHash:
		dest, err = destination.NewKeyHash(decoded.Data)
	case c.network.ScriptHash:
		dest, err = destination.NewScriptHash(decoded.Data)
	}
	if err != nil {
		return destination.Destination{}
	}
	return dest
}

func (c *codec) Encode(dest destination.Destination) (string, error) {
	var version byte
	switch dest.Kind {
	case destination.None:
		return "", destination.ErrNoDestination
	case destination.KeyHash:
		version = c.network.PubKeyHash
	case destination.ScriptHash:
		version = c.network.ScriptHash
	default:
		return "", destination.ErrUnknownKind
	}
	if len(dest.Hash) != hashLen {
		return "", destination.ErrInvalidHashLen
	}
	return address.ToBase58(&address.Base58{Version: version, Data: dest.Hash}), nil
}
