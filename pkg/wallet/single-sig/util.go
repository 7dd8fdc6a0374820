package singlesig

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/vulpemventures/go-bip39"
	path "github.com/vulpemventures/uniond/pkg/wallet/derivation-path"
)

func generateSeedFromMnemonic(mnemonic []string) []byte {
	m := strings.Join(mnemonic, " ")
	return bip39.NewSeed(m, "")
}

func isMnemonicValid(mnemonic []string) bool {
	m := strings.Join(mnemonic, " ")
	return bip39.IsMnemonicValid(m)
}

// Extended keys are serialized with mainnet version bytes, they never leave
// the process so the network makes no difference.
func generateSigningMasterKey(
	seed []byte, derivationPath path.DerivationPath,
) ([]byte, error) {
	hdNode, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	for _, step := range derivationPath {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
	}
	return base58.Decode(hdNode.String()), nil
}

func parseKeyDerivationPath(derivationPath string) (path.DerivationPath, error) {
	if derivationPath == "" {
		return nil, ErrMissingDerivationPath
	}
	p, err := path.ParseDerivationPath(derivationPath)
	if err != nil {
		return nil, err
	}
	if err := checkDerivationPath(p); err != nil {
		return nil, err
	}
	return p, nil
}

func checkDerivationPath(path path.DerivationPath) error {
	if len(path) != 3 {
		return ErrInvalidDerivationPathLength
	}
	// first elem must be hardened!
	if path[0] < hdkeychain.HardenedKeyStart {
		return ErrInvalidDerivationPathAccount
	}
	return nil
}
