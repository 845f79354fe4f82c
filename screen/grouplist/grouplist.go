// Package grouplist drives the home screen listing the user's groups.
package grouplist

import (
	"context"
	"fmt"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/result"
	"github.com/pagao/pagao/screen"
)

// API is the part of the client this screen uses
type API interface {
	GetGroups(ctx context.Context) result.NetworkResult[[]client.Group]
}

// State is the view state of the screen
type State struct {
	Groups []client.Group
	screen.Status
}

// Event is one of ErrorCatch or LoadGroups
type Event interface {
	isEvent()
}

// ErrorCatch acknowledges the displayed error
type ErrorCatch struct{}

// LoadGroups fetches the groups of the signed in user
type LoadGroups struct{}

func (ErrorCatch) isEvent() {}
func (LoadGroups) isEvent() {}

// Controller owns the group list state
type Controller struct {
	screen.Base[State, *State]
	api API
}

// New creates the controller with a default state
func New(api API, deps screen.Deps) *Controller {
	return &Controller{
		Base: screen.NewBase[State, *State]("group_list", State{}, deps),
		api:  api,
	}
}

// Handle dispatches ev
func (c *Controller) Handle(ev Event) {
	c.Logger().Debug("Handling event", "event", fmt.Sprintf("%T", ev))

	switch ev.(type) {
	case ErrorCatch:
		c.ClearError()
	case LoadGroups:
		c.loadGroups()
	}
}

func (c *Controller) loadGroups() {
	c.Launch("load groups", func(ctx context.Context) {
		screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[[]client.Group] {
				return c.api.GetGroups(ctx)
			},
			func(s State, groups []client.Group) State {
				if len(groups) > 0 {
					s.Groups = groups
				}
				return s
			})
	})
}
