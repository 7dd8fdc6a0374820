package application

import (
	"context"
	"encoding/hex"

	"github.com/vulpemventures/uniond/internal/core/ports"
	"github.com/vulpemventures/uniond/pkg/wallet/destination"
	multisig "github.com/vulpemventures/uniond/pkg/wallet/multi-sig"
)

// KeyResolver resolves a key descriptor, either an address or a hex public
// key, to a validated public key.
type KeyResolver struct {
	codec ports.AddressCodec
	store ports.AccountStore
}

func NewKeyResolver(
	codec ports.AddressCodec, store ports.AccountStore,
) *KeyResolver {
	return &KeyResolver{codec, store}
}

// Resolve returns the owned key if the descriptor is an address of the
// wallet, otherwise parses it as a hex encoded public key.
func (r *KeyResolver) Resolve(
	ctx context.Context, descriptor string,
) (*multisig.PublicKey, error) {
	dest := r.codec.Decode(descriptor)
	if dest.Kind == destination.KeyHash {
		if key, ok := r.store.LookupOwnedKeyByHash(ctx, dest.Hash); ok {
			return key, nil
		}
	}

	if isHex(descriptor) {
		key, err := multisig.ParsePublicKeyFromHex(descriptor)
		if err != nil {
			return nil, newFailure(
				KeyInvalid, err, "Invalid public key: %s", descriptor,
			)
		}
		return key, nil
	}

	switch dest.Kind {
	case destination.KeyHash:
		return nil, newFailure(
			KeyResolutionFailed, ErrKeyNotOwned,
			"no full public key for address %s", descriptor,
		)
	case destination.ScriptHash:
		return nil, newFailure(
			KeyResolutionFailed, ErrAddressNotKey,
			"%s does not refer to a key", descriptor,
		)
	default:
		return nil, newFailure(
			KeyResolutionFailed, multisig.ErrInvalidPublicKey,
			"Invalid public key: %s", descriptor,
		)
	}
}

// Owns returns whether the descriptor refers to a key of the wallet, either
// by its address or by its hex serialization. Descriptors that do not
// resolve to a key are not owned.
func (r *KeyResolver) Owns(ctx context.Context, descriptor string) bool {
	dest := r.codec.Decode(descriptor)
	if dest.Kind == destination.KeyHash {
		_, ok := r.store.LookupOwnedKeyByHash(ctx, dest.Hash)
		return ok
	}
	if !isHex(descriptor) {
		return false
	}
	key, err := multisig.ParsePublicKeyFromHex(descriptor)
	if err != nil {
		return false
	}
	return r.store.IsOwnedKey(ctx, key.Bytes())
}

func isHex(str string) bool {
	buf, err := hex.DecodeString(str)
	return err == nil && len(buf) > 0
}
