// Package auth drives the login and sign-up screens.
package auth

import (
	"context"
	"fmt"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/result"
	"github.com/pagao/pagao/screen"
)

// API is the part of the client this screen uses
type API interface {
	Login(ctx context.Context, creds client.Credentials) result.NetworkResult[result.ResponseWithToken[client.AuthResponse]]
	Register(ctx context.Context, reg client.Registration) result.NetworkResult[client.AuthResponse]
	SetToken(token string)
}

// State is the view state of the screen. User is set once signed in.
type State struct {
	User *client.AuthResponse
	screen.Status
}

// Event is one of ErrorCatch, Login or Register
type Event interface {
	isEvent()
}

// ErrorCatch acknowledges the displayed error
type ErrorCatch struct{}

// Login signs in with Credentials. OnDone runs once on success.
type Login struct {
	Credentials client.Credentials
	OnDone      func(user client.AuthResponse)
}

// Register creates an account. OnDone runs once on success.
type Register struct {
	Registration client.Registration
	OnDone       func(user client.AuthResponse)
}

func (ErrorCatch) isEvent() {}
func (Login) isEvent()      {}
func (Register) isEvent()   {}

// Controller owns the auth state
type Controller struct {
	screen.Base[State, *State]
	api API
}

// New creates the controller with a default state
func New(api API, deps screen.Deps) *Controller {
	return &Controller{
		Base: screen.NewBase[State, *State]("auth", State{}, deps),
		api:  api,
	}
}

// Handle dispatches ev
func (c *Controller) Handle(ev Event) {
	c.Logger().Debug("Handling event", "event", fmt.Sprintf("%T", ev))

	switch e := ev.(type) {
	case ErrorCatch:
		c.ClearError()
	case Login:
		c.login(e.Credentials, e.OnDone)
	case Register:
		c.register(e.Registration, e.OnDone)
	}
}

func (c *Controller) login(creds client.Credentials, onDone func(client.AuthResponse)) {
	c.Launch("login", func(ctx context.Context) {
		r := screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[result.ResponseWithToken[client.AuthResponse]] {
				return c.api.Login(ctx, creds)
			},
			func(s State, resp result.ResponseWithToken[client.AuthResponse]) State {
				user := resp.Data
				s.User = &user
				return s
			})

		resp, ok := screen.Data(r)
		if !ok {
			return
		}
		if resp.HasToken() {
			c.api.SetToken(resp.Token)
		} else {
			c.Logger().Warn("Login response carried no token", "email", creds.Email)
		}
		if onDone != nil {
			onDone(resp.Data)
		}
	})
}

func (c *Controller) register(reg client.Registration, onDone func(client.AuthResponse)) {
	c.Launch("register", func(ctx context.Context) {
		r := screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[client.AuthResponse] {
				return c.api.Register(ctx, reg)
			},
			func(s State, user client.AuthResponse) State {
				s.User = &user
				return s
			})

		if user, ok := screen.Data(r); ok && onDone != nil {
			onDone(user)
		}
	})
}
