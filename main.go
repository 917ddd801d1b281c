package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"auprint/internal/auth"
	"auprint/internal/cli"
	"auprint/internal/config"
	"auprint/internal/execx"
	"auprint/internal/logging"
	"auprint/internal/samba"
	"auprint/internal/web"
)

var flags struct {
	UpdatePasswords bool   `help:"Push the stored password into every installed printer queue and exit."`
	Debug           bool   `help:"Echo every external command before it runs."`
	NoSave          bool   `help:"Do not read or write the stored credential; prompt every run."`
	Serve           bool   `help:"Run the HTTP API (login and printer listing) instead of the interactive flow."`
	Listen          string `help:"Listen address for --serve; overrides the configured one." placeholder:"ADDR"`
	Config          string `help:"Path to the configuration file." type:"path"`
}

func main() {
	kong.Parse(&flags,
		kong.Name("auprint"),
		kong.Description("Sets up university network printers as local CUPS queues."),
	)
	logging.SetDebug(flags.Debug)

	cfg, err := config.Load(flags.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "auprint:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if !errors.Is(err, cli.ErrBadSelection) {
			fmt.Fprintln(os.Stderr, "auprint:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	runner := execx.System{}

	serverIP, err := cli.CheckPreconditions(ctx, cfg, runner)
	if err != nil {
		return err
	}

	var store auth.Store = auth.KeyringStore{File: cfg.UsernameFile}
	if flags.NoSave {
		store = &auth.MemoryStore{}
	}

	if flags.Serve {
		addr := cfg.Listen
		if flags.Listen != "" {
			addr = flags.Listen
		}
		dir := samba.Directory{Host: cfg.Server, IP: serverIP, Domain: cfg.Domain, Runner: runner}
		return web.NewRouter(dir).Run(addr)
	}

	session := &cli.Session{
		Config:   cfg,
		Store:    store,
		Runner:   runner,
		In:       bufio.NewReader(os.Stdin),
		Out:      os.Stdout,
		ServerIP: serverIP,
	}

	mgr, err := session.Login(ctx)
	if err != nil {
		return err
	}
	if flags.UpdatePasswords {
		return session.UpdatePasswords(ctx, mgr)
	}
	return session.Install(ctx, mgr)
}
