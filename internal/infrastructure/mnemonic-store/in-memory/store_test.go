package mnemonic_store_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	mnemonic_store "github.com/vulpemventures/uniond/internal/infrastructure/mnemonic-store/in-memory"
)

func TestMnemonicStore(t *testing.T) {
	store := mnemonic_store.NewInMemoryMnemonicStore()
	require.False(t, store.IsSet())
	require.Nil(t, store.Get())

	store.Set("legal winner thank year")
	require.True(t, store.IsSet())
	require.Equal(t, []string{"legal", "winner", "thank", "year"}, store.Get())

	store.Unset()
	require.False(t, store.IsSet())
	require.Nil(t, store.Get())
}
