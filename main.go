package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/pagao/pagao/cache"
	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/cmd"
	"github.com/pagao/pagao/config"
	"github.com/pagao/pagao/connectivity"
	"github.com/pagao/pagao/ui"
)

type command func(ctx context.Context, env *cmd.Env, args []string) error

var commands = map[string]command{
	"login":    cmd.RunLogin,
	"register": cmd.RunRegister,
	"groups":   cmd.RunGroups,
	"group":    cmd.RunGroup,
	"join":     cmd.RunJoin,
	"receipts": cmd.RunReceipts,
	"receipt":  cmd.RunReceipt,
	"browse":   cmd.RunBrowse,
	"cache": func(_ context.Context, env *cmd.Env, args []string) error {
		return cmd.RunCacheCommand(env, args)
	},
}

func usage() {
	w := os.Stderr
	fmt.Fprintln(w, "Usage: pagao [OPTIONS] <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  login                          Sign in and print the token to export")
	fmt.Fprintln(w, "  register                       Create an account")
	fmt.Fprintln(w, "  groups                         List your groups")
	fmt.Fprintln(w, "  group <id>                     Show a group and its members")
	fmt.Fprintln(w, "  group create --name <name>     Create a group")
	fmt.Fprintln(w, "  join <group-id>                Claim a member slot of a group")
	fmt.Fprintln(w, "  receipts <group-id>            List the receipts of a group")
	fmt.Fprintln(w, "  receipt <id>                   Show a receipt")
	fmt.Fprintln(w, "  receipt create <group-id>      Split a new expense")
	fmt.Fprintln(w, "  browse                         Interactive group browser")
	fmt.Fprintln(w, "  cache <command>                Manage the offline cache")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --api <url>          API base URL (PAGAO_API_URL)")
	fmt.Fprintln(w, "  --token <token>      Bearer token (PAGAO_TOKEN)")
	fmt.Fprintln(w, "  --no-cache           Disable the offline cache")
	fmt.Fprintln(w, "  --assume-online      Skip the connectivity probe")
	fmt.Fprintln(w, "  -v, --verbose        Show detailed logs")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Example:")
	fmt.Fprintln(w, "  pagao login --email ana@example.com")
	fmt.Fprintln(w, "  pagao receipt create 5 --name Dinner --total 45.50")
}

func main() {
	// Parse command-line flags
	apiURL := flag.String("api", "", "API base URL")
	token := flag.String("token", "", "bearer token")
	noCache := flag.Bool("no-cache", false, "disable the offline cache")
	assumeOnline := flag.Bool("assume-online", false, "skip the connectivity probe")
	verbose := flag.Bool("v", false, "verbose mode - show detailed logs")
	flag.BoolVar(verbose, "verbose", false, "verbose mode - show detailed logs")
	flag.Usage = usage
	flag.Parse()

	// Initialize logger
	logger := ui.InitLogger(os.Stderr, *verbose)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	run, ok := commands[args[0]]
	if !ok {
		logger.Error("Unknown command", "command", args[0])
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.URL = *apiURL
	}
	if *token != "" {
		cfg.API.Token = *token
	}
	cfg.Cache.Disabled = cfg.Cache.Disabled || *noCache
	cfg.AssumeOnline = cfg.AssumeOnline || *assumeOnline
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	env, err := newEnv(cfg, logger)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("Running command", "command", args[0], "api", cfg.API.URL)
	if err := run(ctx, env, args[1:]); err != nil {
		var usageErr *cmd.UsageError
		switch {
		case errors.As(err, &usageErr):
			fmt.Fprintln(os.Stderr, usageErr.Error())
		case cmd.IsSessionExpired(err):
			logger.Error("Session expired", "hint", "run pagao login")
		default:
			logger.Error("Command failed", "command", args[0], "error", err)
		}
		stop()
		os.Exit(1)
	}
}

func newEnv(cfg *config.Config, logger *log.Logger) (*cmd.Env, error) {
	apiClient := client.NewClient(client.Options{
		BaseURL:   cfg.API.URL,
		Token:     cfg.API.Token,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
		Logger:    logger,
		OnTokenRefresh: func(string) {
			logger.Info("The server rotated your token, run pagao login to export the new one")
		},
	})

	var online connectivity.Checker = connectivity.Static(true)
	if !cfg.AssumeOnline {
		dialer, err := connectivity.NewDialer(cfg.API.URL, cfg.API.ConnectTimeout)
		if err != nil {
			return nil, fmt.Errorf("connectivity probe: %w", err)
		}
		logger.Debug("Probing connectivity", "address", dialer.Address())
		online = dialer
	}

	var store *cache.Cache
	if !cfg.Cache.Disabled {
		c, err := cache.NewCache(cfg.Cache.Dir)
		if err != nil {
			logger.Warn("Cache unavailable, continuing without it", "dir", cfg.Cache.Dir, "error", err)
		} else {
			store = c
		}
	}

	return &cmd.Env{
		Config:   cfg,
		Client:   apiClient,
		Cache:    store,
		Online:   online,
		Logger:   logger,
		Prompter: ui.Prompter{},
		Out:      os.Stdout,
		Err:      os.Stderr,
		In:       os.Stdin,
	}, nil
}
