// Package groupcreate drives the screen that creates a new group.
package groupcreate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/result"
	"github.com/pagao/pagao/screen"
)

// MsgNameRequired is shown when the group has no name
const MsgNameRequired = "Group name is required"

// API is the part of the client this screen uses
type API interface {
	CreateGroup(ctx context.Context, group client.NewGroup) result.NetworkResult[client.Group]
}

// State is the view state of the screen. Created is set once the server
// accepted the group.
type State struct {
	Created *client.Group
	screen.Status
}

// Event is one of ErrorCatch or CreateGroup
type Event interface {
	isEvent()
}

// ErrorCatch acknowledges the displayed error
type ErrorCatch struct{}

// CreateGroup submits a new group. OnDone runs once with the stored group.
type CreateGroup struct {
	Name        string
	Description string
	OnDone      func(group client.Group)
}

func (ErrorCatch) isEvent()  {}
func (CreateGroup) isEvent() {}

// Controller owns the group creation state
type Controller struct {
	screen.Base[State, *State]
	api API
}

// New creates the controller with a default state
func New(api API, deps screen.Deps) *Controller {
	return &Controller{
		Base: screen.NewBase[State, *State]("group_create", State{}, deps),
		api:  api,
	}
}

// Handle dispatches ev
func (c *Controller) Handle(ev Event) {
	c.Logger().Debug("Handling event", "event", fmt.Sprintf("%T", ev))

	switch e := ev.(type) {
	case ErrorCatch:
		c.ClearError()
	case CreateGroup:
		c.createGroup(e)
	}
}

func (c *Controller) createGroup(e CreateGroup) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		c.Fail(MsgNameRequired)
		return
	}

	group := client.NewGroup{Name: name}
	if desc := strings.TrimSpace(e.Description); desc != "" {
		group.Description = &desc
	}

	c.Launch("create group", func(ctx context.Context) {
		r := screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[client.Group] {
				return c.api.CreateGroup(ctx, group)
			},
			func(s State, created client.Group) State {
				s.Created = &created
				return s
			})

		if created, ok := screen.Data(r); ok && e.OnDone != nil {
			e.OnDone(created)
		}
	})
}
