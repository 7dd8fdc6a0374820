package ports

import (
	"github.com/vulpemventures/uniond/pkg/wallet/destination"
)

// AddressCodec converts between address strings of a network and the
// destinations they designate.
type AddressCodec interface {
	// Network returns the name of the network addresses are encoded for.
	Network() string
	// Decode returns the None destination for any invalid address, or one
	// of another network.
	Decode(address string) destination.Destination
	// Encode returns the address of the given destination.
	Encode(dest destination.Destination) (string, error)
}
