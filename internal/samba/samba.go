// Package samba lists the printer shares a user can see on the print
// server. It drives the smbclient binary and scrapes its share listing; the
// SMB protocol itself is never spoken here.
package samba

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"auprint/internal/execx"
	"auprint/internal/model"
)

// ErrAuthentication covers every failure of the discovery command. A bad
// password and an unreachable server exit the same way, so the two are not
// distinguished.
var ErrAuthentication = errors.New("invalid username/password combination")

// shareTag is the share-type column value smbclient prints for printer
// shares.
const shareTag = "Printer"

type Directory struct {
	Host   string
	IP     string
	Domain string
	Runner execx.Runner
}

// Fetch lists the printer shares visible to cred as a map from remote
// printer name to its free-text description. The secret reaches smbclient
// through the PASSWD environment variable, keeping it out of the process
// table.
func (d Directory) Fetch(ctx context.Context, cred model.Credential) (map[string]string, error) {
	out, err := d.Runner.Output(ctx, execx.Cmd{
		Name: "smbclient",
		Args: []string{"-I", d.IP, "-L", d.Host, "-U", d.Domain + `\` + cred.Username},
		Env:  []string{"PASSWD=" + cred.Password},
	})
	if err != nil {
		return nil, ErrAuthentication
	}
	return ParseShares(out), nil
}

// ParseShares extracts printer shares from smbclient's share listing. A line
// is a share record only when it starts with a tab and splits into exactly
// three whitespace-delimited fields, the third keeping its embedded spaces.
// A later duplicate of a name overwrites the earlier entry.
func ParseShares(out string) map[string]string {
	printers := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "\t") {
			continue
		}
		parts := splitFields(strings.TrimSpace(line), 3)
		if len(parts) != 3 {
			continue
		}
		name, typ, description := parts[0], parts[1], parts[2]
		if typ != shareTag {
			continue
		}
		printers[name] = description
	}
	return printers
}

// splitFields splits s on runs of whitespace into at most max fields, the
// last field keeping the unsplit remainder.
func splitFields(s string, max int) []string {
	var fields []string
	rest := s
	for len(fields) < max-1 {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			return fields
		}
		cut := strings.IndexFunc(rest, unicode.IsSpace)
		if cut < 0 {
			return append(fields, rest)
		}
		fields = append(fields, rest[:cut])
		rest = rest[cut:]
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if rest == "" {
		return fields
	}
	return append(fields, rest)
}
