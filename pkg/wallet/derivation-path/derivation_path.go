package path

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// DerivationPath is the data structure representing an HD path.
type DerivationPath []uint32

// ParseDerivationPath converts a derivation path in string format to a
// DerivationPath type.
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	return parseDerivationPath(strPath, false)
}

// ParseRootDerivationPath parses an absolute path made of exactly 2 hardened
// steps, ie. m/purpose'/coin_type'.
func ParseRootDerivationPath(strPath string) (DerivationPath, error) {
	path, err := parseDerivationPath(strPath, true)
	if err != nil {
		return nil, err
	}
	if len(path) != 2 {
		return nil, ErrInvalidRootPathLen
	}
	if !path.IsHardened() {
		return nil, ErrInvalidRootPath
	}
	return path, nil
}

// Extend returns a new path made of the receiver followed by the given
// steps. The receiver is never modified.
func (path DerivationPath) Extend(steps ...uint32) DerivationPath {
	extended := make(DerivationPath, 0, len(path)+len(steps))
	extended = append(extended, path...)
	return append(extended, steps...)
}

// IsHardened returns whether every step of the path is hardened.
func (path DerivationPath) IsHardened() bool {
	for _, step := range path {
		if step < hdkeychain.HardenedKeyStart {
			return false
		}
	}
	return true
}

func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("m")
	for _, step := range path {
		if step >= hdkeychain.HardenedKeyStart {
			fmt.Fprintf(&b, "/%d'", step-hdkeychain.HardenedKeyStart)
			continue
		}
		fmt.Fprintf(&b, "/%d", step)
	}
	return b.String()
}

func parseDerivationPath(
	strPath string, checkAbsolutePath bool,
) (DerivationPath, error) {
	if strPath == "" {
		return nil, ErrMissingDerivationPath
	}

	elems := strings.Split(strPath, "/")
	for _, elem := range elems {
		if elem == "" {
			return nil, ErrMalformedDerivationPath
		}
	}
	if checkAbsolutePath && elems[0] != "m" {
		return nil, ErrRequiredAbsoluteDerivationPath
	}
	if len(elems) < 2 {
		return nil, ErrMalformedDerivationPath
	}
	if strings.TrimSpace(elems[0]) == "m" {
		elems = elems[1:]
	}

	path := make(DerivationPath, 0, len(elems))
	for _, elem := range elems {
		step, err := parseStep(elem)
		if err != nil {
			return nil, err
		}
		path = append(path, step)
	}
	return path, nil
}

func parseStep(elem string) (uint32, error) {
	elem = strings.TrimSpace(elem)

	var offset uint32
	if strings.HasSuffix(elem, "'") {
		offset = hdkeychain.HardenedKeyStart
		elem = strings.TrimSpace(strings.TrimSuffix(elem, "'"))
	}

	// big int allows both decimal and 0x prefixed values.
	value, ok := new(big.Int).SetString(elem, 0)
	if !ok {
		return 0, fmt.Errorf("invalid elem '%s' in path", elem)
	}

	max := math.MaxUint32 - offset
	if value.Sign() < 0 || value.Cmp(big.NewInt(int64(max))) > 0 {
		if offset == 0 {
			return 0, fmt.Errorf("elem %v must be in range [0, %d]", value, max)
		}
		return 0, fmt.Errorf("elem %v must be in hardened range [0, %d]", value, max)
	}
	return offset + uint32(value.Uint64()), nil
}
