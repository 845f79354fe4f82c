// Package groupdetail drives the screen showing one group and its members.
package groupdetail

import (
	"context"
	"fmt"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/result"
	"github.com/pagao/pagao/screen"
)

// API is the part of the client this screen uses
type API interface {
	GetGroup(ctx context.Context, groupID int) result.NetworkResult[client.Group]
	GetMembersOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]client.Member]
}

// State is the view state of the screen
type State struct {
	Group   client.Group
	Members []client.Member
	screen.Status
}

// Event is one of ErrorCatch or LoadGroup
type Event interface {
	isEvent()
}

// ErrorCatch acknowledges the displayed error
type ErrorCatch struct{}

// LoadGroup fetches the group and then its members
type LoadGroup struct {
	GroupID int
}

func (ErrorCatch) isEvent() {}
func (LoadGroup) isEvent()  {}

// Controller owns the group detail state
type Controller struct {
	screen.Base[State, *State]
	api API
}

// New creates the controller with a default state
func New(api API, deps screen.Deps) *Controller {
	return &Controller{
		Base: screen.NewBase[State, *State]("group_detail", State{}, deps),
		api:  api,
	}
}

// Handle dispatches ev
func (c *Controller) Handle(ev Event) {
	c.Logger().Debug("Handling event", "event", fmt.Sprintf("%T", ev))

	switch e := ev.(type) {
	case ErrorCatch:
		c.ClearError()
	case LoadGroup:
		c.loadGroup(e.GroupID)
	}
}

func (c *Controller) loadGroup(groupID int) {
	c.Launch("load group", func(ctx context.Context) {
		r := screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[client.Group] {
				return c.api.GetGroup(ctx, groupID)
			},
			func(s State, group client.Group) State {
				s.Group = group
				return s
			})

		if group, ok := screen.Data(r); ok {
			c.loadMembers(group.ID)
		}
	})
}

func (c *Controller) loadMembers(groupID int) {
	c.Launch("load members", func(ctx context.Context) {
		screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[[]client.Member] {
				return c.api.GetMembersOfGroup(ctx, groupID)
			},
			func(s State, members []client.Member) State {
				if len(members) > 0 {
					s.Members = members
				}
				return s
			})
	})
}
