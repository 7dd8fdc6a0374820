package domain

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	path "github.com/vulpemventures/uniond/pkg/wallet/derivation-path"
	singlesig "github.com/vulpemventures/uniond/pkg/wallet/single-sig"
)

const (
	// All owned keys are derived on the same account.
	keyAccount = 0
)

var (
	ErrWalletMissingMnemonic     = fmt.Errorf("missing mnemonic")
	ErrWalletMissingPassword     = fmt.Errorf("missing password")
	ErrWalletMissingNetwork      = fmt.Errorf("missing network name")
	ErrWalletMissingCypher       = fmt.Errorf("missing mnemonic cypher")
	ErrWalletMaxKeyNumberReached = fmt.Errorf("reached max number of keys")
	ErrWalletInvalidPassword     = fmt.Errorf("wrong password")
	ErrWalletInvalidNetwork      = fmt.Errorf("unknown network")
	ErrKeyNotFound               = fmt.Errorf("key not found in wallet")
	ErrUnionAccountDuplicate     = fmt.Errorf("union account already registered")
	ErrUnionAccountNameTaken     = fmt.Errorf("union account name already taken")
	ErrUnionAccountNotFound      = fmt.Errorf("union account not found in wallet")

	networks = map[string]struct{}{
		"liquid":          {},
		"testnet":         {},
		"regtest":         {},
		"bitcoin":         {},
		"bitcoin-testnet": {},
		"bitcoin-regtest": {},
	}
)

// IsSupportedNetwork returns whether a wallet can be created for the given
// network name.
func IsSupportedNetwork(network string) bool {
	_, ok := networks[network]
	return ok
}

// Wallet is the data structure representing a secure HD wallet, ie. protected
// by a password that encrypts/decrypts the mnemonic seed.
// Keys are indexed by the hex hash160 of the public key, union accounts by
// the hex hash160 of their redeem script.
type Wallet struct {
	EncryptedMnemonic   []byte
	PasswordHash        []byte
	RootPath            string
	NetworkName         string
	NextKeyIndex        uint32
	Keys                map[string]*Key
	UnionAccounts       map[string]*UnionAccount
	UnionAccountsByName map[string]string
}

// NewWallet encrypts the provided mnemonic with the passhrase and returns a new
// Wallet initialized with the encrypted mnemonic, the hash of the password,
// the given root path and network.
func NewWallet(
	mnemonic []string, password, rootPath, network string,
	cypher MnemonicCypher,
) (*Wallet, error) {
	if len(mnemonic) <= 0 {
		return nil, ErrWalletMissingMnemonic
	}
	if len(password) <= 0 {
		return nil, ErrWalletMissingPassword
	}
	if network == "" {
		return nil, ErrWalletMissingNetwork
	}
	if !IsSupportedNetwork(network) {
		return nil, ErrWalletInvalidNetwork
	}
	if cypher == nil {
		return nil, ErrWalletMissingCypher
	}

	if _, err := singlesig.NewWalletFromMnemonic(singlesig.NewWalletFromMnemonicArgs{
		RootPath: rootPath,
		Mnemonic: mnemonic,
	}); err != nil {
		return nil, err
	}

	strMnemonic := strings.Join(mnemonic, " ")
	encryptedMnemonic, err := cypher.Encrypt(
		[]byte(strMnemonic), []byte(password),
	)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		EncryptedMnemonic:   encryptedMnemonic,
		PasswordHash:        btcutil.Hash160([]byte(password)),
		RootPath:            rootPath,
		NetworkName:         network,
		Keys:                make(map[string]*Key),
		UnionAccounts:       make(map[string]*UnionAccount),
		UnionAccountsByName: make(map[string]string),
	}, nil
}

// IsInitialized returns wheter the wallet is initialized with an encrypted
// mnemonic.
func (w *Wallet) IsInitialized() bool {
	return len(w.EncryptedMnemonic) > 0
}

func (w *Wallet) IsValidPassword(password string) bool {
	return bytes.Equal(w.PasswordHash, btcutil.Hash160([]byte(password)))
}

// Unlock attempts to decrypt the encrypted mnemonic with the provided
// password and returns the plaintext words.
func (w *Wallet) Unlock(password string, cypher MnemonicCypher) ([]string, error) {
	if !w.IsValidPassword(password) {
		return nil, ErrWalletInvalidPassword
	}

	mnemonic, err := cypher.Decrypt(w.EncryptedMnemonic, []byte(password))
	if err != nil {
		return nil, err
	}
	return strings.Split(string(mnemonic), " "), nil
}

// ChangePassword decrypts the mnemonic with the given currentPassword, then
// encrypts it again with the new password and stores its hash.
func (w *Wallet) ChangePassword(
	currentPassword, newPassword string, cypher MnemonicCypher,
) error {
	if len(newPassword) <= 0 {
		return ErrWalletMissingPassword
	}
	if !w.IsValidPassword(currentPassword) {
		return ErrWalletInvalidPassword
	}

	mnemonic, err := cypher.Decrypt(w.EncryptedMnemonic, []byte(currentPassword))
	if err != nil {
		return err
	}

	encryptedMnemonic, err := cypher.Encrypt(mnemonic, []byte(newPassword))
	if err != nil {
		return err
	}

	w.EncryptedMnemonic = encryptedMnemonic
	w.PasswordHash = btcutil.Hash160([]byte(newPassword))
	return nil
}

// DeriveNextKey derives a new owned key from the given plaintext mnemonic and
// adds it to the wallet.
func (w *Wallet) DeriveNextKey(mnemonic []string, label string) (*Key, error) {
	if w.NextKeyIndex >= hdkeychain.HardenedKeyStart {
		return nil, ErrWalletMaxKeyNumberReached
	}

	ww, err := singlesig.NewWalletFromMnemonic(singlesig.NewWalletFromMnemonicArgs{
		RootPath: w.RootPath,
		Mnemonic: mnemonic,
	})
	if err != nil {
		return nil, err
	}

	derivationPath, err := singlesig.KeyDerivationPath(keyAccount, w.NextKeyIndex)
	if err != nil {
		return nil, err
	}
	_, pubkey, err := ww.DeriveSigningKeyPair(singlesig.DeriveSigningKeyPairArgs{
		DerivationPath: derivationPath,
	})
	if err != nil {
		return nil, err
	}

	key := &Key{
		Index:          w.NextKeyIndex,
		DerivationPath: derivationPath,
		PubKey:         pubkey.SerializeCompressed(),
		Label:          label,
	}
	if w.Keys == nil {
		w.Keys = make(map[string]*Key)
	}
	w.Keys[key.Hash()] = key
	w.NextKeyIndex++
	return key, nil
}

// GetKeyByHash returns the owned key with the given hash160.
func (w *Wallet) GetKeyByHash(hash []byte) (*Key, error) {
	key, ok := w.Keys[hex.EncodeToString(hash)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

// IsOwnedKey returns whether the given serialized public key is owned by the
// wallet. The uncompressed serialization of an owned key is not owned.
func (w *Wallet) IsOwnedKey(pubkey []byte) bool {
	key, err := w.GetKeyByHash(btcutil.Hash160(pubkey))
	if err != nil {
		return false
	}
	return bytes.Equal(key.PubKey, pubkey)
}

// KeyPath returns the absolute derivation path of the given owned key.
func (w *Wallet) KeyPath(key *Key) string {
	rootPath, err := path.ParseRootDerivationPath(w.RootPath)
	if err != nil {
		return ""
	}
	relativePath, err := path.ParseDerivationPath(key.DerivationPath)
	if err != nil {
		return ""
	}
	return rootPath.Extend(relativePath...).String()
}

// AddUnionAccount adds the given account by preventing collisions with
// existing ones, either by script or by name.
func (w *Wallet) AddUnionAccount(account *UnionAccount) error {
	if _, ok := w.UnionAccounts[account.ScriptHash]; ok {
		return ErrUnionAccountDuplicate
	}
	if _, ok := w.UnionAccountsByName[account.Name]; ok {
		return ErrUnionAccountNameTaken
	}

	if w.UnionAccounts == nil {
		w.UnionAccounts = make(map[string]*UnionAccount)
	}
	if w.UnionAccountsByName == nil {
		w.UnionAccountsByName = make(map[string]string)
	}
	w.UnionAccounts[account.ScriptHash] = account
	w.UnionAccountsByName[account.Name] = account.ScriptHash
	return nil
}

// GetUnionAccountByScriptHash returns the union account whose redeem script
// has the given hash160.
func (w *Wallet) GetUnionAccountByScriptHash(hash []byte) (*UnionAccount, error) {
	account, ok := w.UnionAccounts[hex.EncodeToString(hash)]
	if !ok {
		return nil, ErrUnionAccountNotFound
	}
	return account, nil
}

// GetUnionAccount returns the union account with the given name.
func (w *Wallet) GetUnionAccount(name string) (*UnionAccount, error) {
	scriptHash, ok := w.UnionAccountsByName[name]
	if !ok {
		return nil, ErrUnionAccountNotFound
	}
	return w.UnionAccounts[scriptHash], nil
}

// ListUnionAccounts returns all union accounts sorted by creation time.
func (w *Wallet) ListUnionAccounts() []UnionAccount {
	accounts := make([]UnionAccount, 0, len(w.UnionAccounts))
	for _, account := range w.UnionAccounts {
		accounts = append(accounts, *account)
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt == accounts[j].CreatedAt {
			return accounts[i].Name < accounts[j].Name
		}
		return accounts[i].CreatedAt < accounts[j].CreatedAt
	})
	return accounts
}
