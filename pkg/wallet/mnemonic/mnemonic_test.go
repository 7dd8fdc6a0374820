package mnemonic_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/uniond/pkg/wallet/mnemonic"
)

func TestNewMnemonic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entropySize uint32
		numOfWords  int
	}{
		{0, 24},
		{128, 12},
		{256, 24},
	}

	for _, tt := range tests {
		words, err := mnemonic.NewMnemonic(mnemonic.NewMnemonicArgs{
			EntropySize: tt.entropySize,
		})
		require.NoError(t, err)
		require.Len(t, words, tt.numOfWords)
		require.True(t, mnemonic.IsValid(words))
	}

	_, err := mnemonic.NewMnemonic(mnemonic.NewMnemonicArgs{EntropySize: 64})
	require.ErrorIs(t, err, mnemonic.ErrInvalidEntropySize)

	require.False(t, mnemonic.IsValid(nil))
	require.False(t, mnemonic.IsValid([]string{"legal", "winner"}))
}
