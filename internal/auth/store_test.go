package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"

	"auprint/internal/model"
)

func newKeyringStore(t *testing.T) KeyringStore {
	t.Helper()
	keyring.MockInit()
	return KeyringStore{File: filepath.Join(t.TempDir(), "auid.txt")}
}

func TestKeyringStoreRoundTrip(t *testing.T) {
	s := newKeyringStore(t)

	cred, err := s.Load()
	if err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}
	if cred != (model.Credential{}) {
		t.Fatalf("empty store yielded %+v", cred)
	}

	want := model.Credential{Username: "au123", Password: "hunter2"}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cred, err = s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cred != want {
		t.Fatalf("Load=%+v, want %+v", cred, want)
	}

	// The secret must not be in the username file.
	raw, err := os.ReadFile(s.File)
	if err != nil {
		t.Fatalf("read username file: %v", err)
	}
	if string(raw) != "au123\n" {
		t.Fatalf("username file holds %q", raw)
	}
}

func TestKeyringStoreClear(t *testing.T) {
	s := newKeyringStore(t)
	if err := s.Save(model.Credential{Username: "au123", Password: "hunter2"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(s.File); !os.IsNotExist(err) {
		t.Fatalf("username file still present after Clear")
	}
	cred, err := s.Load()
	if err != nil {
		t.Fatalf("Load after Clear: %v", err)
	}
	if cred != (model.Credential{}) {
		t.Fatalf("Load after Clear=%+v, want empty", cred)
	}

	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	var s MemoryStore
	want := model.Credential{Username: "au123", Password: "hunter2"}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cred, err := s.Load()
	if err != nil || cred != want {
		t.Fatalf("Load=%+v,%v", cred, err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if cred, _ := s.Load(); cred != (model.Credential{}) {
		t.Fatalf("Load after Clear=%+v", cred)
	}
}
