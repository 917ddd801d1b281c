// Package cli drives the interactive setup session: login, printer
// selection, installation and default options.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"auprint/internal/auth"
	"auprint/internal/buildings"
	"auprint/internal/config"
	"auprint/internal/execx"
	"auprint/internal/model"
	"auprint/internal/samba"
	"auprint/internal/spool"
)

// ErrBadSelection is returned when the user picks an entry outside the
// printed menu. The process exits non-zero on it.
var ErrBadSelection = errors.New("invalid selection")

const testPageTimeout = 2 * time.Minute

type Session struct {
	Config config.Config
	Store  auth.Store
	Runner execx.Runner

	In  *bufio.Reader
	Out io.Writer

	// ReadSecret reads the password without echoing. Left nil it reads
	// from the controlling terminal.
	ReadSecret func() (string, error)

	// ServerIP is the resolved address of Config.Server.
	ServerIP string
}

func (s *Session) readSecret() (string, error) {
	if s.ReadSecret != nil {
		return s.ReadSecret()
	}
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(s.Out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *Session) prompt(label string) (string, error) {
	fmt.Fprintf(s.Out, "%s", label)
	line, err := s.In.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) promptDefault(label, def string) (string, error) {
	v, err := s.prompt(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

func (s *Session) promptYesNo(label string, defYes bool) (bool, error) {
	hint := "Y/n"
	if !defYes {
		hint = "y/N"
	}
	v, err := s.prompt(fmt.Sprintf("%s [%s]: ", label, hint))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "":
		return defYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Login prompts for the credential until discovery succeeds and returns a
// manager primed with the fetched directory snapshot. A failed attempt
// clears the stored credential and asks again; there is no retry limit.
func (s *Session) Login(ctx context.Context) (*spool.Manager, error) {
	cred, err := s.Store.Load()
	if err != nil {
		return nil, err
	}

	dir := samba.Directory{
		Host:   s.Config.Server,
		IP:     s.ServerIP,
		Domain: s.Config.Domain,
		Runner: s.Runner,
	}

	for {
		for cred.Username == "" {
			v, err := s.prompt("AUID: ")
			if err != nil {
				return nil, err
			}
			if strings.HasPrefix(v, s.Config.UsernamePrefix) {
				cred.Username = v
			}
		}
		for cred.Password == "" {
			fmt.Fprintf(s.Out, "Password: ")
			v, err := s.readSecret()
			if err != nil {
				return nil, err
			}
			cred.Password = v
		}

		printers, err := dir.Fetch(ctx, cred)
		if err == nil {
			if err := s.Store.Save(cred); err != nil {
				return nil, err
			}
			return &spool.Manager{
				Host:       s.Config.Server,
				IP:         s.ServerIP,
				Domain:     s.Config.Domain,
				PPD:        s.Config.PPD,
				Runner:     s.Runner,
				Credential: cred,
				Remote:     printers,
			}, nil
		}
		if !errors.Is(err, samba.ErrAuthentication) {
			return nil, err
		}
		fmt.Fprintln(s.Out, "Invalid AUID/password combination")
		cred = model.Credential{}
		if err := s.Store.Clear(); err != nil {
			return nil, err
		}
	}
}

// UpdatePasswords pushes the current credential into every installed
// queue's device URI.
func (s *Session) UpdatePasswords(ctx context.Context, mgr *spool.Manager) error {
	updated, err := mgr.UpdateCredentials(ctx)
	if err != nil {
		return err
	}
	for _, p := range updated {
		fmt.Fprintf(s.Out, "Updated password for %s at %s\n", p.RemoteName, p.LocalName)
	}
	return nil
}

// Install walks the user through picking a printer, registering it and
// setting its default options.
func (s *Session) Install(ctx context.Context, mgr *spool.Manager) error {
	building, err := s.prompt("Building number/name: ")
	if err != nil {
		return err
	}
	matched := FilterByBuilding(mgr.Remote, building)
	if len(matched) == 0 {
		fmt.Fprintln(s.Out, "No printers found")
		return nil
	}

	fmt.Fprintln(s.Out, "Available printers:")
	for i, p := range matched {
		fmt.Fprintf(s.Out, "(%d)\t%s\t%s\n", i+1, p, mgr.Remote[p])
	}
	choice, err := s.prompt("Printer to install: ")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(matched) {
		return ErrBadSelection
	}
	printer := matched[n-1]

	fmt.Fprintf(s.Out, "\nSelected %s\n", printer)
	name, err := s.promptDefault("Install name", buildings.Pretty(printer))
	if err != nil {
		return err
	}
	ppd, err := s.promptDefault("Driver", mgr.PPD)
	if err != nil {
		return err
	}
	if err := mgr.Install(ctx, printer, name, ppd); err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "Successfully added printer %s as %s\n", printer, name)

	if err := s.configureOptions(ctx, mgr, name); err != nil {
		return err
	}

	testPage, err := s.promptYesNo("Print a test page?", false)
	if err != nil {
		return err
	}
	if testPage {
		return s.printTestPage(ctx, mgr, name)
	}
	return nil
}

func (s *Session) configureOptions(ctx context.Context, mgr *spool.Manager, name string) error {
	paper, err := s.promptDefault("Paper size", "A4")
	if err != nil {
		return err
	}
	duplex, err := s.promptYesNo("Print on both sides?", true)
	if err != nil {
		return err
	}
	staple, err := s.promptYesNo("Staple?", true)
	if err != nil {
		return err
	}

	for _, opt := range DefaultOptions(paper, duplex, staple) {
		if err := mgr.SetOption(ctx, name, opt.Key, opt.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) printTestPage(ctx context.Context, mgr *spool.Manager, name string) error {
	jobID, err := mgr.SubmitJob(ctx, name, s.Config.TestPage)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "Submitted test page as job %s\n", jobID)

	waitCtx, cancel := context.WithTimeout(ctx, testPageTimeout)
	defer cancel()
	if err := mgr.WaitForJob(waitCtx, name, jobID); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("job %s did not finish within %s", jobID, testPageTimeout)
		}
		return err
	}
	fmt.Fprintln(s.Out, "Test page printed")
	return nil
}

// Option is one spooler default, applied via the admin tool's -o flag.
type Option struct {
	Key   string
	Value string
}

// DefaultOptions maps the session answers to spooler option tokens.
func DefaultOptions(paper string, duplex, staple bool) []Option {
	duplexValue := "None"
	if duplex {
		duplexValue = "DuplexNoTumble"
	}
	stapleValue := "None"
	if staple {
		stapleValue = "SinglePortrait"
	}
	return []Option{
		{Key: "PageSize", Value: paper},
		{Key: "Duplex", Value: duplexValue},
		{Key: "StapleLocation", Value: stapleValue},
	}
}

// FilterByBuilding narrows the directory snapshot by a user-typed building
// name or code. Known names (including aliases) resolve to their location
// code; anything else is used as a literal prefix. Results come back sorted
// for a stable menu.
func FilterByBuilding(printers map[string]string, input string) []string {
	prefix := strings.TrimSpace(input)
	if code, ok := buildings.Code(prefix); ok {
		prefix = code
	}
	var matched []string
	for p := range printers {
		if strings.HasPrefix(p, prefix) {
			matched = append(matched, p)
		}
	}
	sort.Strings(matched)
	return matched
}
