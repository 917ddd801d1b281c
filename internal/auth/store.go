// Package auth persists the institutional credential between runs. The
// username lives in a plain one-line file; the secret goes to the OS keyring
// and never touches disk in the clear.
package auth

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"

	"auprint/internal/model"
)

const (
	// Service and account identify the keyring entry holding the secret.
	Service = "auprint"
	Account = "auid"
)

// Store is the persistence strategy for the credential. Load returns zero
// values (not an error) for whatever is not stored yet; Save replaces the
// stored credential; Clear removes it.
type Store interface {
	Load() (model.Credential, error)
	Save(model.Credential) error
	Clear() error
}

// KeyringStore keeps the username in File and the secret in the OS keyring.
type KeyringStore struct {
	File string
}

func (s KeyringStore) Load() (model.Credential, error) {
	var cred model.Credential

	raw, err := os.ReadFile(s.File)
	if err == nil {
		cred.Username = strings.TrimSpace(string(raw))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return model.Credential{}, err
	}

	secret, err := keyring.Get(Service, Account)
	if err == nil {
		cred.Password = secret
	} else if !errors.Is(err, keyring.ErrNotFound) {
		return model.Credential{}, err
	}
	return cred, nil
}

func (s KeyringStore) Save(cred model.Credential) error {
	if err := os.MkdirAll(filepath.Dir(s.File), 0700); err != nil {
		return err
	}
	if err := os.WriteFile(s.File, []byte(cred.Username+"\n"), 0600); err != nil {
		return err
	}
	return keyring.Set(Service, Account, cred.Password)
}

func (s KeyringStore) Clear() error {
	if err := os.Remove(s.File); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := keyring.Delete(Service, Account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// MemoryStore holds the credential for the lifetime of the process only.
// Selected by --no-save.
type MemoryStore struct {
	cred model.Credential
}

func (s *MemoryStore) Load() (model.Credential, error) {
	return s.cred, nil
}

func (s *MemoryStore) Save(cred model.Credential) error {
	s.cred = cred
	return nil
}

func (s *MemoryStore) Clear() error {
	s.cred = model.Credential{}
	return nil
}
