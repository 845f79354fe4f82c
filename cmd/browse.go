package cmd

import (
	"context"

	"github.com/pagao/pagao/tui"
)

// RunBrowse opens the interactive group browser
func RunBrowse(ctx context.Context, env *Env, args []string) error {
	fs := env.flagSet("browse")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	return tui.Run(tui.Options{
		API:  env.Client,
		Deps: env.deps(ctx),
	})
}
