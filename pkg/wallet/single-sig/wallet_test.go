package singlesig_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	wallet "github.com/vulpemventures/uniond/pkg/wallet/single-sig"
)

const (
	testRootPath = "m/44'/0'"
)

var testMnemonic = strings.Split(
	"legal winner thank year wave sausage worth useful legal winner thank yellow", " ",
)

func TestNewWalletFromMnemonic(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicArgs{
			RootPath: testRootPath,
			Mnemonic: testMnemonic,
		})
		require.NoError(t, err)
		require.Equal(t, testRootPath, w.RootPath())

		otherWallet, err := wallet.NewWalletFromMnemonic(
			wallet.NewWalletFromMnemonicArgs{
				RootPath: testRootPath,
				Mnemonic: testMnemonic,
			},
		)
		require.NoError(t, err)
		require.Equal(t, *w, *otherWallet)

		keyPath, err := w.KeyPath("0'/0/3")
		require.NoError(t, err)
		require.Equal(t, "m/44'/0'/0'/0/3", keyPath)
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			args wallet.NewWalletFromMnemonicArgs
			err  error
		}{
			{
				args: wallet.NewWalletFromMnemonicArgs{
					Mnemonic: testMnemonic,
				},
				err: wallet.ErrMissingRootPath,
			},
			{
				args: wallet.NewWalletFromMnemonicArgs{
					RootPath: testRootPath,
				},
				err: wallet.ErrMissingMnemonic,
			},
			{
				args: wallet.NewWalletFromMnemonicArgs{
					RootPath: testRootPath,
					Mnemonic: append(testMnemonic[:len(testMnemonic):len(testMnemonic)], "yellow"),
				},
				err: wallet.ErrInvalidMnemonic,
			},
		}
		for _, tt := range tests {
			_, err := wallet.NewWalletFromMnemonic(tt.args)
			require.EqualError(t, tt.err, err.Error())
		}
	})
}
