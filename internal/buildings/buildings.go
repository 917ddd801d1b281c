// Package buildings maps the numeric location codes used in remote printer
// names to campus building names.
package buildings

import "strings"

// names is the primary table. Codes are unique keys; reverse lookups only
// ever resolve to these names.
var names = map[string]string{
	"1530": "matematik",

	"5335": "nygaard",
	"5340": "bush",
	"5341": "turing",
	"5342": "ada",
	"5343": "babbage",
	"5344": "benjamin",
	"5345": "dreyer",
	"5346": "hopper",
	"5347": "wiener",
}

// aliases are extra names people use for a building. They resolve to a code
// but never appear when mapping a code back to a name.
var aliases = map[string]string{
	"studiecafeen": "5343",
}

// Name returns the primary building name for a location code, or ok=false
// when the code is unknown.
func Name(code string) (string, bool) {
	n, ok := names[code]
	return n, ok
}

// Code resolves a building name (primary or alias) to its location code.
func Code(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for code, n := range names {
		if n == name {
			return code, true
		}
	}
	if code, ok := aliases[name]; ok {
		return code, true
	}
	return "", false
}

// Pretty rewrites a remote printer name like "5343-2F" as "babbage-2F".
// Names without a dash, and names whose prefix is not a known location code,
// come back unchanged.
func Pretty(printer string) string {
	code, suffix, ok := strings.Cut(printer, "-")
	if !ok {
		return printer
	}
	if name, known := names[code]; known {
		return name + "-" + suffix
	}
	return printer
}
