package ports

import (
	"context"

	"github.com/vulpemventures/uniond/internal/core/domain"
	multisig "github.com/vulpemventures/uniond/pkg/wallet/multi-sig"
)

// AccountStore is the identity store of the wallet, ie. what the union
// account workflow and the address describer know about owned keys and
// registered scripts.
type AccountStore interface {
	// IsOwnedKey returns whether the serialized key belongs to the wallet.
	IsOwnedKey(ctx context.Context, key []byte) bool
	// LookupOwnedKeyByHash returns the full owned key with the given hash160.
	LookupOwnedKeyByHash(
		ctx context.Context, hash []byte,
	) (*multisig.PublicKey, bool)
	// LookupOwnedScriptByHash returns the registered redeem script with the
	// given hash160.
	LookupOwnedScriptByHash(ctx context.Context, hash []byte) ([]byte, bool)
	// RegisterAccount validates and persists a new union account with the
	// given name and redeem script.
	RegisterAccount(
		ctx context.Context, name string, script []byte,
	) (*domain.UnionAccount, error)
}
