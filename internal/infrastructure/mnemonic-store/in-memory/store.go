package mnemonic_store

import (
	"strings"
	"sync"

	"github.com/vulpemventures/uniond/internal/core/ports"
)

// MnemonicInMemoryStore holds the plaintext mnemonic of the wallet for as
// long as it is unlocked.
type MnemonicInMemoryStore struct {
	mnemonic string
	lock     *sync.RWMutex
}

func NewInMemoryMnemonicStore() ports.MnemonicStore {
	return &MnemonicInMemoryStore{lock: &sync.RWMutex{}}
}

func (s *MnemonicInMemoryStore) Set(mnemonic string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.mnemonic = mnemonic
}

func (s *MnemonicInMemoryStore) Unset() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.mnemonic = ""
}

func (s *MnemonicInMemoryStore) IsSet() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.mnemonic) > 0
}

func (s *MnemonicInMemoryStore) Get() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if len(s.mnemonic) <= 0 {
		return nil
	}
	return strings.Split(s.mnemonic, " ")
}
