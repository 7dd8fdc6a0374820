package singlesig

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

var (
	ErrMissingMnemonic         = fmt.Errorf("missing mnemonic")
	ErrMissingRootPath         = fmt.Errorf("missing root path")
	ErrMissingSigningMasterKey = fmt.Errorf("missing signing master key")
	ErrMissingDerivationPath   = fmt.Errorf("missing derivation path")

	ErrInvalidMnemonic             = fmt.Errorf("mnemonic is invalid")
	ErrInvalidDerivationPathLength = fmt.Errorf(
		"derivation path must be a relative path in the form \"account'/branch/index\"",
	)
	ErrInvalidDerivationPathAccount = fmt.Errorf(
		"derivation path's account (first elem) must be hardened (suffix \"'\")",
	)
	ErrOutOfRangeDerivationPathAccount = fmt.Errorf(
		"account index must be in hardened range [0', %d']",
		hdkeychain.HardenedKeyStart-1,
	)
	ErrOutOfRangeKeyIndex = fmt.Errorf(
		"key index must be in range [0, %d]", hdkeychain.HardenedKeyStart-1,
	)
)
