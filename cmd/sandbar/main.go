package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/b/sandbar/pkg/bar"
	"github.com/b/sandbar/pkg/config"
	"github.com/b/sandbar/pkg/control"
	"github.com/b/sandbar/pkg/font"
	"github.com/b/sandbar/pkg/ipc"
	"github.com/b/sandbar/pkg/loop"
	"github.com/b/sandbar/pkg/paths"
	"github.com/b/sandbar/pkg/render"
	"github.com/b/sandbar/pkg/wlbar"
)

var version = "dev"

var (
	logger   = log.New(os.Stderr, "sandbar: ", 0)
	debugLog = log.New(io.Discard, "", 0)
)

func initDebugLog() {
	dir, err := paths.EnsureStateDir()
	if err != nil {
		logger.Printf("debug log: %v", err)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		logger.Printf("debug log: %v", err)
		return
	}
	debugLog = log.New(f, "[sandbar] ", log.LstdFlags|log.Lmicroseconds)
}

func recoverAndLog(where string) {
	if r := recover(); r != nil {
		logger.Printf("=== CRASH in %s ===", where)
		logger.Printf("Panic: %v", r)
		logger.Printf("Stack trace:\n%s", debug.Stack())
		os.Exit(2)
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	defer recoverAndLog("main")

	flags, err := config.ParseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}
	if flags.Version {
		fmt.Println("sandbar " + version)
		return 0
	}
	if flags.Debug {
		initDebugLog()
	}

	path := flags.ConfigPath
	required := path != ""
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadOrDefault(path, required)
	if err != nil {
		logger.Printf("config %s: %v", path, err)
		return 1
	}
	flags.Apply(cfg)

	if flags.WriteConfig {
		if err := config.SaveConfig(path, cfg); err != nil {
			logger.Printf("%v", err)
			return 1
		}
		fmt.Println("wrote " + path)
		return 0
	}

	opts, err := cfg.Options()
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}
	for _, w := range opts.Lint() {
		logger.Printf("warning: %s", w)
	}

	face, err := font.Load(opts.Font, opts.Scale, logger)
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}
	defer face.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	client, err := wlbar.Connect(ctx, "", debugLog)
	if err != nil {
		logger.Printf("%v", err)
		return 1
	}
	defer client.Close()

	store := bar.NewStore(client, render.New(opts, face), logger)
	client.Attach(store)
	defer store.Close()

	l := &loop.Loop{
		Source:  client,
		Store:   store,
		Control: control.New(store, logger),
		Stdin:   control.ReadChunks(os.Stdin),
		Logger:  logger,
	}

	if opts.ControlSocket {
		srv := ipc.NewServer(paths.SocketPath(), paths.PidPath(), debugLog)
		if err := srv.Start(); err != nil {
			logger.Printf("control socket: %v", err)
		} else {
			defer srv.Stop()
			l.Lines = srv.Lines()
			debugLog.Printf("control socket listening on %s", srv.SocketPath())
		}
	}

	build := func(c *config.Config) (*config.Options, error) {
		flags.Apply(c)
		return c.Options()
	}
	if reload, err := config.Watch(ctx, path, build, logger); err != nil {
		debugLog.Printf("%v", err)
	} else {
		l.Reload = reload
	}

	debugLog.Printf("running with %d tags, scale %d", len(opts.Tags), opts.Scale)
	if err := l.Run(ctx); err != nil {
		logger.Printf("%v", err)
		return 1
	}
	return 0
}
