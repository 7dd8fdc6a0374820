package path_test

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/stretchr/testify/require"
	path "github.com/vulpemventures/uniond/pkg/wallet/derivation-path"
	"pgregory.net/rapid"
)

const h = hdkeychain.HardenedKeyStart

func TestParseDerivationPath(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		keyPath := path.DerivationPath{h + 44, h + 1, h, 0, 3}
		tests := []struct {
			name           string
			derivationPath string
			expected       path.DerivationPath
		}{
			{"absolute", "m/44'/1'/0'/0/3", keyPath},
			{"decimal hardened", "m/2147483692/2147483649/2147483648/0/3", keyPath},
			{"hex", "m/0x2c'/0x01'/0x00'/0x00/0x03", keyPath},
			{"spaces", " m / 44' /\t1 ' / 0'/0 / 3\n", keyPath},
			{"relative key path", "0'/0/3", path.DerivationPath{h, 0, 3}},
			{"relative", "0/0", path.DerivationPath{0, 0}},
		}
		for _, tt := range tests {
			parsed, err := path.ParseDerivationPath(tt.derivationPath)
			require.NoError(t, err, tt.name)
			require.Equal(t, tt.expected, parsed, tt.name)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			derivationPath string
			expectedErr    error
		}{
			{"", path.ErrMissingDerivationPath},
			{"m", path.ErrMalformedDerivationPath},
			{"m/", path.ErrMalformedDerivationPath},
			{"/44'/1'/0'/0", path.ErrMalformedDerivationPath},
			{"0", path.ErrMalformedDerivationPath},
			{"m/2147483648'", nil},
			{"m/-1'", nil},
			{"m/44'/x", nil},
		}
		for _, tt := range tests {
			_, err := path.ParseDerivationPath(tt.derivationPath)
			require.Error(t, err, tt.derivationPath)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			}
		}
	})
}

func TestParseRootDerivationPath(t *testing.T) {
	t.Parallel()

	rootPath, err := path.ParseRootDerivationPath("m/44'/1'")
	require.NoError(t, err)
	require.Equal(t, path.DerivationPath{h + 44, h + 1}, rootPath)
	require.True(t, rootPath.IsHardened())

	tests := []struct {
		rootPath    string
		expectedErr error
	}{
		{"", path.ErrMissingDerivationPath},
		{"m/44'", path.ErrInvalidRootPathLen},
		{"m/44'/1'/0'", path.ErrInvalidRootPathLen},
		{"m/44'/1", path.ErrInvalidRootPath},
		{"m/44/1'", path.ErrInvalidRootPath},
		{"44'/1'", path.ErrRequiredAbsoluteDerivationPath},
	}
	for _, tt := range tests {
		_, err := path.ParseRootDerivationPath(tt.rootPath)
		require.ErrorIs(t, err, tt.expectedErr, tt.rootPath)
	}
}

func TestExtendDerivationPath(t *testing.T) {
	t.Parallel()

	rootPath, err := path.ParseRootDerivationPath("m/44'/0'")
	require.NoError(t, err)

	keyPath := rootPath.Extend(h, 0, 7)
	require.Equal(t, "m/44'/0'/0'/0/7", keyPath.String())
	require.False(t, keyPath.IsHardened())
	require.Equal(t, "m/44'/0'", rootPath.String())
	require.Empty(t, path.DerivationPath{}.String())
}

func TestDerivationPathStringRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		steps := rapid.SliceOfN(rapid.Uint32(), 1, 8).Draw(t, "steps")
		p := path.DerivationPath(steps)

		parsed, err := path.ParseDerivationPath(p.String())
		require.NoError(t, err)
		require.Equal(t, p, parsed)
	})
}
