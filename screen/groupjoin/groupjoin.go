// Package groupjoin drives the screen where a user claims a member slot of a
// group they were invited to.
package groupjoin

import (
	"context"
	"fmt"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/result"
	"github.com/pagao/pagao/screen"
)

// MsgInvalidMember is shown when joining without a selection
const MsgInvalidMember = "Please select a valid member"

// API is the part of the client this screen uses
type API interface {
	GetGroup(ctx context.Context, groupID int) result.NetworkResult[client.Group]
	GetMembersOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]client.Member]
	GetMembersAvailableOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]client.Member]
	SetUserToMember(ctx context.Context, memberID int) result.NetworkResult[client.Member]
}

// State is the view state of the screen
type State struct {
	Group            client.Group
	Members          []client.Member
	SelectedMember   client.Member
	AvailableMembers []client.Member
	screen.Status
}

// Event is one of ErrorCatch, LoadGroup, SelectMember or JoinGroup
type Event interface {
	isEvent()
}

// ErrorCatch acknowledges the displayed error
type ErrorCatch struct{}

// LoadGroup fetches the group, then its members and free slots
type LoadGroup struct {
	GroupID int
}

// SelectMember picks one of the available members
type SelectMember struct {
	Member client.Member
}

// JoinGroup claims the selected member. OnDone runs once on success.
type JoinGroup struct {
	OnDone func()
}

func (ErrorCatch) isEvent()   {}
func (LoadGroup) isEvent()    {}
func (SelectMember) isEvent() {}
func (JoinGroup) isEvent()    {}

// Controller owns the group join state
type Controller struct {
	screen.Base[State, *State]
	api API
}

// New creates the controller with a default state
func New(api API, deps screen.Deps) *Controller {
	return &Controller{
		Base: screen.NewBase[State, *State]("group_join", State{}, deps),
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
	case SelectMember:
		c.selectMember(e.Member.ID)
	case JoinGroup:
		c.joinGroup(e.OnDone)
	}
}

func (c *Controller) selectMember(memberID int) {
	c.Update(func(s State) State {
		s.SelectedMember = client.Member{}
		for _, m := range s.AvailableMembers {
			if m.ID == memberID {
				s.SelectedMember = m
				break
			}
		}
		return s
	})
}

func (c *Controller) joinGroup(onDone func()) {
	member := c.State().SelectedMember
	if member.ID == 0 {
		c.Fail(MsgInvalidMember)
		return
	}

	c.Launch("join group", func(ctx context.Context) {
		r := screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[client.Member] {
				return c.api.SetUserToMember(ctx, member.ID)
			},
			nil)

		if r != nil && result.IsSuccess(r) && onDone != nil {
			onDone()
		}
	})
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
			c.loadAvailableMembers(group.ID)
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

func (c *Controller) loadAvailableMembers(groupID int) {
	c.Launch("load available members", func(ctx context.Context) {
		screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[[]client.Member] {
				return c.api.GetMembersAvailableOfGroup(ctx, groupID)
			},
			func(s State, members []client.Member) State {
				if len(members) > 0 {
					s.AvailableMembers = members
				}
				return s
			})
	})
}
