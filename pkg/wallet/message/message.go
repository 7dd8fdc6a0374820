package message

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	DefaultMagic = "Bitcoin Signed Message:\n"

	compactSigLen = 65
)

var (
	ErrMissingKey          = fmt.Errorf("missing private key")
	ErrMissingSignature    = fmt.Errorf("missing signature")
	ErrMalformedSignature  = fmt.Errorf("malformed base64 encoding")
	ErrInvalidSignatureLen = fmt.Errorf(
		"compact signature must be exactly %d bytes", compactSigLen,
	)
)

// Hash returns the double sha256 of the magic prefix and the message, both
// serialized as var strings.
func Hash(magic, msg string) []byte {
	if magic == "" {
		magic = DefaultMagic
	}
	buf := bytes.NewBuffer(nil)
	// Writing to a bytes.Buffer never fails.
	_ = wire.WriteVarString(buf, 0, magic)
	_ = wire.WriteVarString(buf, 0, msg)
	return chainhash.DoubleHashB(buf.Bytes())
}

// Sign returns the base64 compact signature of the message hash. The
// recovery flag encodes whether the signer key is meant to be serialized in
// compressed form.
func Sign(
	key *btcec.PrivateKey, compressed bool, magic, msg string,
) (string, error) {
	if key == nil {
		return "", ErrMissingKey
	}
	sig := ecdsa.SignCompact(key, Hash(magic, msg), compressed)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// RecoverPubKey returns the serialized public key that produced the given
// base64 compact signature for the message.
func RecoverPubKey(sig, magic, msg string) ([]byte, error) {
	if sig == "" {
		return nil, ErrMissingSignature
	}
	buf, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return nil, ErrMalformedSignature
	}
	if len(buf) != compactSigLen {
		return nil, ErrInvalidSignatureLen
	}

	pubkey, compressed, err := ecdsa.RecoverCompact(buf, Hash(magic, msg))
	if err != nil {
		return nil, err
	}
	if compressed {
		return pubkey.SerializeCompressed(), nil
	}
	return pubkey.SerializeUncompressed(), nil
}
