package domain

// MnemonicCypher defines the methods a cypher must implement to encrypt or
// decrypt a mnemonic with a password.
type MnemonicCypher interface {
	Encrypt(mnemonic, password []byte) ([]byte, error)
	Decrypt(encryptedMnemonic, password []byte) ([]byte, error)
}
