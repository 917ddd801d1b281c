package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type manager struct {
	debug bool
	out   io.Writer
}

var (
	globalMu sync.RWMutex
	global   = manager{out: os.Stderr}
)

func SetDebug(enabled bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global.debug = enabled
}

func SetOutput(w io.Writer) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if w != nil {
		global.out = w
	}
}

func Debugf(format string, args ...any) {
	globalMu.RLock()
	enabled := global.debug
	out := global.out
	globalMu.RUnlock()
	if !enabled {
		return
	}
	fmt.Fprintf(out, format+"\n", args...)
}

// Command echoes an external invocation before it runs. Only the program
// name and arguments are printed; the child environment may carry the
// secret and is never logged.
func Command(name string, args []string) {
	Debugf("+ %s %s", name, strings.Join(args, " "))
}
