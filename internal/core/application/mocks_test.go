package application_test

import (
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/uniond/internal/core/domain"
	multisig "github.com/vulpemventures/uniond/pkg/wallet/multi-sig"
)

// ports.AccountStore
type mockAccountStore struct {
	mock.Mock
}

func (m *mockAccountStore) IsOwnedKey(ctx context.Context, key []byte) bool {
	args := m.Called(ctx, key)
	return args.Bool(0)
}

func (m *mockAccountStore) LookupOwnedKeyByHash(
	ctx context.Context, hash []byte,
) (*multisig.PublicKey, bool) {
	args := m.Called(ctx, hash)

	var res *multisig.PublicKey
	if a := args.Get(0); a != nil {
		res = a.(*multisig.PublicKey)
	}
	return res, args.Bool(1)
}

func (m *mockAccountStore) LookupOwnedScriptByHash(
	ctx context.Context, hash []byte,
) ([]byte, bool) {
	args := m.Called(ctx, hash)

	var res []byte
	if a := args.Get(0); a != nil {
		res = a.([]byte)
	}
	return res, args.Bool(1)
}

func (m *mockAccountStore) RegisterAccount(
	ctx context.Context, name string, script []byte,
) (*domain.UnionAccount, error) {
	args := m.Called(ctx, name, script)

	var res *domain.UnionAccount
	if a := args.Get(0); a != nil {
		res = a.(*domain.UnionAccount)
	}
	return res, args.Error(1)
}

// domain.MnemonicCypher
type mockMnemonicCypher struct {
	mock.Mock
}

func (m *mockMnemonicCypher) Encrypt(
	mnemonic, password []byte,
) ([]byte, error) {
	args := m.Called(mnemonic, password)

	var res []byte
	if a := args.Get(0); a != nil {
		res = a.([]byte)
	}
	return res, args.Error(1)
}

func (m *mockMnemonicCypher) Decrypt(
	encryptedMnemonic, password []byte,
) ([]byte, error) {
	args := m.Called(encryptedMnemonic, password)

	var res []byte
	if a := args.Get(0); a != nil {
		res = a.([]byte)
	}
	return res, args.Error(1)
}

// newTestKey returns the compressed public key of the given private scalar.
func newTestKey(t require.TestingT, scalar byte) *multisig.PublicKey {
	return newTestKeyWithCompression(t, scalar, true)
}

func newTestKeyWithCompression(
	t require.TestingT, scalar byte, compressed bool,
) *multisig.PublicKey {
	buf := make([]byte, 32)
	buf[31] = scalar
	_, pubkey := btcec.PrivKeyFromBytes(buf)

	serialized := pubkey.SerializeUncompressed()
	if compressed {
		serialized = pubkey.SerializeCompressed()
	}
	key, err := multisig.ParsePublicKey(serialized)
	require.NoError(t, err)
	return key
}

func h2b(str string) []byte {
	buf, _ := hex.DecodeString(str)
	return buf
}

func h2s(buf []byte) string {
	return hex.EncodeToString(buf)
}
