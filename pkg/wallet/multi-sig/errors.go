package multisig

import (
	"fmt"
)

var (
	ErrMissingPublicKey = fmt.Errorf("missing public key")
	ErrInvalidPublicKey = fmt.Errorf("invalid public key")

	ErrMissingRequiredSigs = fmt.Errorf(
		"a multisignature address must require at least one key to redeem",
	)
	ErrNotEnoughKeys = fmt.Errorf("not enough keys supplied")
	ErrTooManyKeys   = fmt.Errorf(
		"number of addresses involved in the multisignature address creation > %d",
		MaxPubKeysPerMultiSig,
	)
	ErrScriptTooLarge     = fmt.Errorf("redeemScript exceeds size limit")
	ErrNotThresholdScript = fmt.Errorf("script is not a standard multisig script")
)
