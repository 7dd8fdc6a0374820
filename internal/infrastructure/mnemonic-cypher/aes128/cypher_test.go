package aes128_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/uniond/internal/infrastructure/mnemonic-cypher/aes128"
)

var (
	mnemonic = []byte("legal winner thank year wave sausage worth useful legal winner thank yellow")
	password = []byte("password")
)

func TestCypher(t *testing.T) {
	cypher := aes128.NewCypher()

	encrypted, err := cypher.Encrypt(mnemonic, password)
	require.NoError(t, err)
	require.NotEqual(t, mnemonic, encrypted)

	otherEncrypted, err := cypher.Encrypt(mnemonic, password)
	require.NoError(t, err)
	require.NotEqual(t, encrypted, otherEncrypted)

	decrypted, err := cypher.Decrypt(encrypted, password)
	require.NoError(t, err)
	require.Equal(t, mnemonic, decrypted)

	decrypted, err = cypher.Decrypt(encrypted, []byte("wrongpassword"))
	require.ErrorIs(t, err, aes128.ErrInvalidPassword)
	require.Nil(t, decrypted)
}

func TestCypherInvalidArgs(t *testing.T) {
	cypher := aes128.NewCypher()

	tests := []struct {
		name        string
		encrypt     bool
		data        []byte
		password    []byte
		expectedErr error
	}{
		{"encrypt missing mnemonic", true, nil, password, aes128.ErrMissingPlaintext},
		{"encrypt missing password", true, mnemonic, nil, aes128.ErrMissingPassword},
		{"decrypt missing data", false, nil, password, aes128.ErrMissingCyphertext},
		{"decrypt missing password", false, mnemonic, nil, aes128.ErrMissingPassword},
		{"decrypt too short", false, make([]byte, 32), password, aes128.ErrInvalidCyphertext},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.encrypt {
				_, err = cypher.Encrypt(tt.data, tt.password)
			} else {
				_, err = cypher.Decrypt(tt.data, tt.password)
			}
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}
