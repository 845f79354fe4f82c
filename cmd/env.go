// Package cmd implements the pagao subcommands. Every command drives one or
// more screen controllers to completion and prints their final state.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pagao/pagao/cache"
	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/config"
	"github.com/pagao/pagao/connectivity"
	"github.com/pagao/pagao/screen"
)

// Prompter asks the user for input the flags did not provide
type Prompter interface {
	SelectMember(title string, members []client.Member) (client.Member, error)
	Credentials(creds client.Credentials) (client.Credentials, error)
	Registration(reg client.Registration) (client.Registration, error)
}

// Env is what every command runs against
type Env struct {
	Config   *config.Config
	Client   *client.Client
	Cache    *cache.Cache // nil when caching is disabled
	Online   connectivity.Checker
	Logger   *log.Logger
	Prompter Prompter
	Out      io.Writer
	Err      io.Writer
	In       io.Reader
}

func (e *Env) deps(ctx context.Context) screen.Deps {
	return screen.Deps{Context: ctx, Online: e.Online, Logger: e.Logger}
}

func (e *Env) cacheTTL() time.Duration {
	if e.Config == nil {
		return 0
	}
	return e.Config.Cache.TTL
}

// RemoteError is the message a screen ended with
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// IsSessionExpired reports whether err means the token is no longer accepted
func IsSessionExpired(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.Message == client.MsgSessionExpired
}

// failed turns the error of a settled screen into a Go error
func failed(st screen.Status) error {
	if st.Error == "" {
		return nil
	}
	return &RemoteError{Message: st.Error}
}

// UsageError is returned for malformed command lines
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

func parseID(s, what string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", what, s)
	}
	return id, nil
}

// parseArgs parses flags placed anywhere between the positional arguments
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func (e *Env) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.Err)
	return fs
}
