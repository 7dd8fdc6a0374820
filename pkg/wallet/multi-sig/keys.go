package multisig

import (
	"bytes"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
)

const (
	compressedKeyLen   = 33
	uncompressedKeyLen = 65
)

// PublicKey is a fully validated secp256k1 public key that keeps the exact
// serialization it was parsed from, ie. compressed keys stay compressed.
type PublicKey struct {
	key        *btcec.PublicKey
	serialized []byte
}

// ParsePublicKey returns a PublicKey if the given bytes have the length
// expected by their header byte and encode a point on the curve.
func ParsePublicKey(buf []byte) (*PublicKey, error) {
	if len(buf) <= 0 {
		return nil, ErrMissingPublicKey
	}
	if expectedLen := keyLenFromHeader(buf[0]); expectedLen != len(buf) {
		return nil, ErrInvalidPublicKey
	}

	key, err := btcec.ParsePubKey(buf)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}

	serialized := make([]byte, len(buf))
	copy(serialized, buf)
	return &PublicKey{key, serialized}, nil
}

// ParsePublicKeyFromHex is like ParsePublicKey but takes a hex string.
func ParsePublicKeyFromHex(str string) (*PublicKey, error) {
	if len(str) <= 0 {
		return nil, ErrMissingPublicKey
	}
	buf, err := hex.DecodeString(str)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	return ParsePublicKey(buf)
}

// Bytes returns a copy of the key serialization.
func (k *PublicKey) Bytes() []byte {
	buf := make([]byte, len(k.serialized))
	copy(buf, k.serialized)
	return buf
}

func (k *PublicKey) Hex() string {
	return hex.EncodeToString(k.serialized)
}

func (k *PublicKey) IsCompressed() bool {
	return len(k.serialized) == compressedKeyLen
}

// Hash160 returns the key identifier, ie. RIPEMD160(SHA256(key)).
func (k *PublicKey) Hash160() []byte {
	return btcutil.Hash160(k.serialized)
}

// Key returns the underlying curve point.
func (k *PublicKey) Key() *btcec.PublicKey {
	return k.key
}

// Equal compares serializations, so the compressed and the uncompressed form
// of the same point are two different keys.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(k.serialized, other.serialized)
}

func keyLenFromHeader(header byte) int {
	switch header {
	case 0x02, 0x03:
		return compressedKeyLen
	case 0x04, 0x06, 0x07:
		return uncompressedKeyLen
	default:
		return 0
	}
}
