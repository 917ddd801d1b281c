package cli

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"os/user"
	"strings"

	"auprint/internal/config"
	"auprint/internal/execx"
)

// PreconditionError describes a broken environment requirement along with
// what to do about it.
type PreconditionError struct {
	Problem string
	Remedy  string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s\n  %s", e.Problem, e.Remedy)
}

// CheckPreconditions verifies the external tools this program depends on
// before any interaction starts, and resolves the print server's address.
func CheckPreconditions(ctx context.Context, cfg config.Config, runner execx.Runner) (serverIP string, err error) {
	if _, err := exec.LookPath("smbclient"); err != nil {
		return "", &PreconditionError{
			Problem: "smbclient not found",
			Remedy:  "install the samba client tools (e.g. apt install smbclient)",
		}
	}
	if _, err := exec.LookPath("lpadmin"); err != nil {
		return "", &PreconditionError{
			Problem: "lpadmin not found",
			Remedy:  "install CUPS and its administration tools (e.g. apt install cups)",
		}
	}

	out, err := runner.Output(ctx, execx.Cmd{Name: "lpstat", Args: []string{"-r"}})
	if err != nil || !strings.Contains(out, "scheduler is running") {
		return "", &PreconditionError{
			Problem: "the CUPS scheduler is not running",
			Remedy:  "start it with: systemctl start cups",
		}
	}

	if err := checkAdminPermission(); err != nil {
		return "", err
	}

	addrs, err := net.LookupHost(cfg.Server)
	if err != nil || len(addrs) == 0 {
		return "", &PreconditionError{
			Problem: fmt.Sprintf("cannot resolve print server %s", cfg.Server),
			Remedy:  "check your network connection and DNS settings; off campus you may need the VPN",
		}
	}
	return addrs[0], nil
}

// adminGroups are the groups CUPS accepts queue administration from, by
// default (SystemGroup in cups-files.conf).
var adminGroups = map[string]bool{"lpadmin": true, "sys": true, "root": true, "wheel": true}

func checkAdminPermission() error {
	u, err := user.Current()
	if err != nil {
		return err
	}
	if u.Uid == "0" {
		return nil
	}
	ids, err := u.GroupIds()
	if err != nil {
		return err
	}
	for _, id := range ids {
		g, err := user.LookupGroupId(id)
		if err != nil {
			continue
		}
		if adminGroups[g.Name] {
			return nil
		}
	}
	return &PreconditionError{
		Problem: fmt.Sprintf("user %s may not administer printers", u.Username),
		Remedy:  "add yourself to the lpadmin group: sudo usermod -aG lpadmin " + u.Username,
	}
}
