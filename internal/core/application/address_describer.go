package application

import (
	"context"
	"encoding/hex"

	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/pkg/wallet/destination"
)

// AddressDescription holds what the wallet knows about a destination. Nil or
// empty fields are unknown.
type AddressDescription struct {
	IsScript     *bool
	PubKey       string
	IsCompressed *bool
	Script       string
	Hex          string
	Addresses    []string
	SigsRequired *int
}

// AddressDescriber explains any decoded destination, recursively describing
// the redeem scripts known to the wallet.
type AddressDescriber struct {
	codec ports.AddressCodec
	store ports.AccountStore
}

func NewAddressDescriber(
	codec ports.AddressCodec, store ports.AccountStore,
) *AddressDescriber {
	return &AddressDescriber{codec, store}
}

func (d *AddressDescriber) Describe(
	ctx context.Context, dest destination.Destination,
) AddressDescription {
	var desc AddressDescription
	switch dest.Kind {
	case destination.None:
	case destination.KeyHash:
		desc = d.describeKeyHash(ctx, dest)
	case destination.ScriptHash:
		desc = d.describeScriptHash(ctx, dest)
	}
	return desc
}

func (d *AddressDescriber) describeKeyHash(
	ctx context.Context, dest destination.Destination,
) AddressDescription {
	desc := AddressDescription{IsScript: boolPtr(false)}

	key, ok := d.store.LookupOwnedKeyByHash(ctx, dest.Hash)
	if !ok {
		return desc
	}
	desc.PubKey = key.Hex()
	desc.IsCompressed = boolPtr(key.IsCompressed())
	return desc
}

func (d *AddressDescriber) describeScriptHash(
	ctx context.Context, dest destination.Destination,
) AddressDescription {
	desc := AddressDescription{IsScript: boolPtr(true)}

	script, ok := d.store.LookupOwnedScriptByHash(ctx, dest.Hash)
	if !ok {
		return desc
	}

	info := destination.ParseScript(script)
	desc.Script = info.Class
	desc.Hex = hex.EncodeToString(script)

	addresses := make([]string, 0, len(info.Destinations))
	for _, dest := range info.Destinations {
		addr, err := d.codec.Encode(dest)
		if err != nil {
			continue
		}
		addresses = append(addresses, addr)
	}
	desc.Addresses = addresses

	if info.IsMultiSig() {
		required := info.Required
		desc.SigsRequired = &required
	}
	return desc
}

func boolPtr(b bool) *bool {
	return &b
}
