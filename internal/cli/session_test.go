package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"auprint/internal/auth"
	"auprint/internal/config"
	"auprint/internal/execx"
)

func TestFilterByBuildingResolvesNamesAndAliases(t *testing.T) {
	printers := map[string]string{
		"5343-2F":  "2nd floor printer",
		"1530-101": "ground floor",
	}
	for _, input := range []string{"babbage", "studiecafeen", "5343"} {
		got := FilterByBuilding(printers, input)
		if len(got) != 1 || got[0] != "5343-2F" {
			t.Fatalf("FilterByBuilding(%q)=%v, want [5343-2F]", input, got)
		}
	}
}

func TestFilterByBuildingLiteralPrefix(t *testing.T) {
	printers := map[string]string{
		"5343-2F": "2nd floor printer",
		"5343-3F": "3rd floor printer",
		"5341-1L": "lab printer",
	}
	got := FilterByBuilding(printers, "5343")
	if len(got) != 2 || got[0] != "5343-2F" || got[1] != "5343-3F" {
		t.Fatalf("FilterByBuilding(5343)=%v, want sorted pair", got)
	}
	if got := FilterByBuilding(printers, "9999"); len(got) != 0 {
		t.Fatalf("FilterByBuilding(9999)=%v, want empty", got)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("A4", true, true)
	want := []Option{
		{Key: "PageSize", Value: "A4"},
		{Key: "Duplex", Value: "DuplexNoTumble"},
		{Key: "StapleLocation", Value: "SinglePortrait"},
	}
	for i := range want {
		if opts[i] != want[i] {
			t.Fatalf("option %d = %+v, want %+v", i, opts[i], want[i])
		}
	}

	opts = DefaultOptions("Letter", false, false)
	if opts[1].Value != "None" || opts[2].Value != "None" {
		t.Fatalf("declined duplex/staple should disable: %+v", opts)
	}
}

type scriptedRunner struct {
	calls     []execx.Cmd
	shareList string
	failFetch int // number of leading smbclient calls that fail
	fetches   int
}

func (r *scriptedRunner) Run(ctx context.Context, cmd execx.Cmd) error {
	r.calls = append(r.calls, cmd)
	return nil
}

func (r *scriptedRunner) Output(ctx context.Context, cmd execx.Cmd) (string, error) {
	r.calls = append(r.calls, cmd)
	switch cmd.Name {
	case "smbclient":
		r.fetches++
		if r.fetches <= r.failFetch {
			return "", errors.New("exit status 1")
		}
		return r.shareList, nil
	case "lpstat":
		return "", nil
	}
	return "", nil
}

const testShares = "\t5343-2F         Printer   2nd floor printer\n" +
	"\t1530-101        Printer   ground floor\n"

func newSession(t *testing.T, runner execx.Runner, input string, secrets ...string) *Session {
	t.Helper()
	cfg := config.Default()
	s := &Session{
		Config:   cfg,
		Store:    &auth.MemoryStore{},
		Runner:   runner,
		In:       bufio.NewReader(strings.NewReader(input)),
		Out:      io.Discard,
		ServerIP: "10.0.0.1",
	}
	s.ReadSecret = func() (string, error) {
		if len(secrets) == 0 {
			t.Fatalf("unexpected extra secret prompt")
		}
		v := secrets[0]
		secrets = secrets[1:]
		return v, nil
	}
	return s
}

func TestLoginRetriesUntilDiscoverySucceeds(t *testing.T) {
	runner := &scriptedRunner{shareList: testShares, failFetch: 1}
	// first pair is rejected, second succeeds; a non-prefixed AUID is
	// re-prompted without counting as an attempt
	s := newSession(t, runner, "xy999\nau111\nau222\n", "wrong", "right")

	mgr, err := s.Login(context.Background())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if mgr.Credential.Username != "au222" || mgr.Credential.Password != "right" {
		t.Fatalf("unexpected credential: %+v", mgr.Credential)
	}
	if len(mgr.Remote) != 2 {
		t.Fatalf("directory snapshot missing: %v", mgr.Remote)
	}
	if runner.fetches != 2 {
		t.Fatalf("fetched %d times, want 2", runner.fetches)
	}

	cred, _ := s.Store.Load()
	if cred.Username != "au222" || cred.Password != "right" {
		t.Fatalf("credential not saved after successful login: %+v", cred)
	}
}

func TestInstallFlowEndToEnd(t *testing.T) {
	runner := &scriptedRunner{shareList: testShares}
	// building, selection, install name (default), driver (default),
	// paper (default), duplex (default yes), staple (default yes),
	// test page (default no)
	s := newSession(t, runner, "au123\nbabbage\n1\n\n\n\n\n\n\n", "hunter2")

	mgr, err := s.Login(context.Background())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.Install(context.Background(), mgr); err != nil {
		t.Fatalf("Install: %v", err)
	}

	var admin []string
	for _, cmd := range runner.calls {
		if cmd.Name == "lpadmin" {
			admin = append(admin, strings.Join(cmd.Args, " "))
		}
	}
	if len(admin) != 4 {
		t.Fatalf("got %d lpadmin calls, want install + three options: %v", len(admin), admin)
	}
	if !strings.Contains(admin[0], "-p babbage-2F") || !strings.Contains(admin[0], "-v smb://") {
		t.Fatalf("unexpected install command: %q", admin[0])
	}
	for i, want := range []string{"PageSize=A4", "Duplex=DuplexNoTumble", "StapleLocation=SinglePortrait"} {
		if !strings.Contains(admin[i+1], want) {
			t.Fatalf("option call %q missing %q", admin[i+1], want)
		}
	}
}

func TestInstallInvalidSelection(t *testing.T) {
	runner := &scriptedRunner{shareList: testShares}
	s := newSession(t, runner, "au123\nbabbage\n7\n", "hunter2")

	mgr, err := s.Login(context.Background())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.Install(context.Background(), mgr); !errors.Is(err, ErrBadSelection) {
		t.Fatalf("got %v, want ErrBadSelection", err)
	}
}

func TestInstallNoMatches(t *testing.T) {
	runner := &scriptedRunner{shareList: testShares}
	s := newSession(t, runner, "au123\nwiener\n", "hunter2")

	mgr, err := s.Login(context.Background())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.Install(context.Background(), mgr); err != nil {
		t.Fatalf("no matches should not be an error, got %v", err)
	}
	for _, cmd := range runner.calls {
		if cmd.Name == "lpadmin" {
			t.Fatalf("nothing should be installed, ran %v", cmd)
		}
	}
}
