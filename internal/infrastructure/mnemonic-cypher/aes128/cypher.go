package aes128

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/vulpemventures/uniond/internal/core/domain"
	"golang.org/x/crypto/scrypt"
)

const (
	keyLen  = 16
	saltLen = 32

	// scrypt parameters recommended for interactive logins.
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	ErrMissingPlaintext  = fmt.Errorf("missing plaintext mnemonic")
	ErrMissingCyphertext = fmt.Errorf("missing encrypted mnemonic")
	ErrMissingPassword   = fmt.Errorf("missing password")
	ErrInvalidCyphertext = fmt.Errorf("encrypted mnemonic is too short")
	ErrInvalidPassword   = fmt.Errorf("invalid password")
)

type aes128Cypher struct{}

// NewCypher returns a mnemonic cypher encrypting with AES-128 in GCM mode
// with a key derived from the password with scrypt. Encrypted mnemonics are
// serialized as nonce|ciphertext|salt.
func NewCypher() domain.MnemonicCypher {
	return aes128Cypher{}
}

func (c aes128Cypher) Encrypt(mnemonic, password []byte) ([]byte, error) {
	if len(mnemonic) <= 0 {
		return nil, ErrMissingPlaintext
	}
	if len(password) <= 0 {
		return nil, ErrMissingPassword
	}

	key, salt, err := deriveKey(password, nil)
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	cyphertext := gcm.Seal(nonce, nonce, mnemonic, nil)
	return append(cyphertext, salt...), nil
}

func (c aes128Cypher) Decrypt(encryptedMnemonic, password []byte) ([]byte, error) {
	if len(encryptedMnemonic) <= 0 {
		return nil, ErrMissingCyphertext
	}
	if len(password) <= 0 {
		return nil, ErrMissingPassword
	}
	if len(encryptedMnemonic) <= saltLen {
		return nil, ErrInvalidCyphertext
	}

	data := encryptedMnemonic[:len(encryptedMnemonic)-saltLen]
	salt := encryptedMnemonic[len(encryptedMnemonic)-saltLen:]

	key, _, err := deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, ErrInvalidCyphertext
	}

	nonce, text := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	mnemonic, err := gcm.Open(nil, nonce, text, nil)
	if err != nil {
		return nil, ErrInvalidPassword
	}
	return mnemonic, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blockCipher)
}

func deriveKey(password, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, saltLen)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}
