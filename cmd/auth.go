package cmd

import (
	"context"
	"fmt"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/screen/auth"
)

// RunLogin signs in and prints the token to export
func RunLogin(ctx context.Context, env *Env, args []string) error {
	fs := env.flagSet("login")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password (prompted when empty)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	creds := client.Credentials{Email: *email, Password: *password}
	if creds.Email == "" || creds.Password == "" {
		var err error
		if creds, err = env.Prompter.Credentials(creds); err != nil {
			return fmt.Errorf("login cancelled: %w", err)
		}
	}

	c := auth.New(env.Client, env.deps(ctx))
	defer c.Close()

	env.Logger.Info("Signing in", "email", creds.Email, "api", env.Client.BaseURL())
	c.Handle(auth.Login{Credentials: creds})
	c.Wait()

	state := c.State()
	if err := failed(state.Status); err != nil {
		return err
	}
	if state.User == nil {
		return fmt.Errorf("login returned no user")
	}

	fmt.Fprintf(env.Out, "Signed in as %s <%s>\n", state.User.Name, state.User.Email)
	printToken(env)
	return nil
}

// RunRegister creates an account
func RunRegister(ctx context.Context, env *Env, args []string) error {
	fs := env.flagSet("register")
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password (prompted when empty)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	reg := client.Registration{Name: *name, Email: *email, Password: *password}
	if reg.Name == "" || reg.Email == "" || reg.Password == "" {
		var err error
		if reg, err = env.Prompter.Registration(reg); err != nil {
			return fmt.Errorf("registration cancelled: %w", err)
		}
	}

	c := auth.New(env.Client, env.deps(ctx))
	defer c.Close()

	env.Logger.Info("Creating account", "email", reg.Email)
	c.Handle(auth.Register{Registration: reg})
	c.Wait()

	state := c.State()
	if err := failed(state.Status); err != nil {
		return err
	}
	if state.User == nil {
		return fmt.Errorf("registration returned no user")
	}

	fmt.Fprintf(env.Out, "Account created for %s <%s>\n", state.User.Name, state.User.Email)
	fmt.Fprintln(env.Out, "Run pagao login to sign in")
	return nil
}

func printToken(env *Env) {
	token := env.Client.Token()
	if token == "" {
		env.Logger.Warn("The server did not send a token")
		return
	}
	fmt.Fprintln(env.Out)
	fmt.Fprintln(env.Out, "To stay signed in, export the token:")
	fmt.Fprintf(env.Out, "  export PAGAO_TOKEN='%s'\n", token)
}
