// Package receiptlist drives the screen listing the receipts of a group.
package receiptlist

import (
	"context"
	"fmt"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/result"
	"github.com/pagao/pagao/screen"
)

// API is the part of the client this screen uses
type API interface {
	GetReceiptsOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]client.Receipt]
}

// State is the view state of the screen
type State struct {
	GroupID  int
	Receipts []client.Receipt
	screen.Status
}

// Event is one of ErrorCatch or LoadReceipts
type Event interface {
	isEvent()
}

// ErrorCatch acknowledges the displayed error
type ErrorCatch struct{}

// LoadReceipts fetches the receipts of a group
type LoadReceipts struct {
	GroupID int
}

func (ErrorCatch) isEvent()   {}
func (LoadReceipts) isEvent() {}

// Controller owns the receipt list state
type Controller struct {
	screen.Base[State, *State]
	api API
}

// New creates the controller with a default state
func New(api API, deps screen.Deps) *Controller {
	return &Controller{
		Base: screen.NewBase[State, *State]("receipt_list", State{}, deps),
		api:  api,
	}
}

// Handle dispatches ev
func (c *Controller) Handle(ev Event) {
	c.Logger().Debug("Handling event", "event", fmt.Sprintf("%T", ev))

	switch e := ev.(type) {
	case ErrorCatch:
		c.ClearError()
	case LoadReceipts:
		c.loadReceipts(e.GroupID)
	}
}

func (c *Controller) loadReceipts(groupID int) {
	c.Launch("load receipts", func(ctx context.Context) {
		screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[[]client.Receipt] {
				return c.api.GetReceiptsOfGroup(ctx, groupID)
			},
			func(s State, receipts []client.Receipt) State {
				// a different group replaces the list, even with nothing
				if s.GroupID != groupID || len(receipts) > 0 {
					s.Receipts = receipts
				}
				s.GroupID = groupID
				return s
			})
	})
}
