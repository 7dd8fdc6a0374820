package ports

// MnemonicStore defines the methods a store storing a mnemonic in plaintext
// must implement to either set, unset or get it. The wallet is unlocked as
// long as the mnemonic is set.
type MnemonicStore interface {
	Set(mnemonic string)
	Unset()
	IsSet() bool
	Get() []string
}
