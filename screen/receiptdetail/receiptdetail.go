// Package receiptdetail drives the screen showing one receipt with the names
// of its participants.
package receiptdetail

import (
	"context"
	"fmt"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/result"
	"github.com/pagao/pagao/screen"
)

// API is the part of the client this screen uses
type API interface {
	GetReceipt(ctx context.Context, receiptID int) result.NetworkResult[client.Receipt]
	GetMembersOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]client.Member]
}

// State is the view state of the screen
type State struct {
	Receipt client.Receipt
	Members []client.Member
	screen.Status
}

// MemberName resolves a participant name, falling back to the member ID
func (s State) MemberName(memberID int) string {
	for _, m := range s.Members {
		if m.ID == memberID {
			return m.Name
		}
	}
	return fmt.Sprintf("member #%d", memberID)
}

// Event is one of ErrorCatch or LoadReceipt
type Event interface {
	isEvent()
}

// ErrorCatch acknowledges the displayed error
type ErrorCatch struct{}

// LoadReceipt fetches the receipt and then the members of its group
type LoadReceipt struct {
	ReceiptID int
}

func (ErrorCatch) isEvent()  {}
func (LoadReceipt) isEvent() {}

// Controller owns the receipt detail state
type Controller struct {
	screen.Base[State, *State]
	api API
}

// New creates the controller with a default state
func New(api API, deps screen.Deps) *Controller {
	return &Controller{
		Base: screen.NewBase[State, *State]("receipt_detail", State{}, deps),
		api:  api,
	}
}

// Handle dispatches ev
func (c *Controller) Handle(ev Event) {
	c.Logger().Debug("Handling event", "event", fmt.Sprintf("%T", ev))

	switch e := ev.(type) {
	case ErrorCatch:
		c.ClearError()
	case LoadReceipt:
		c.loadReceipt(e.ReceiptID)
	}
}

func (c *Controller) loadReceipt(receiptID int) {
	c.Launch("load receipt", func(ctx context.Context) {
		r := screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[client.Receipt] {
				return c.api.GetReceipt(ctx, receiptID)
			},
			func(s State, receipt client.Receipt) State {
				s.Receipt = receipt
				return s
			})

		receipt, ok := screen.Data(r)
		if !ok {
			return
		}
		if receipt.GroupID == nil {
			c.Logger().Debug("Receipt has no group, names stay unresolved", "receipt", receipt.ID)
			return
		}
		c.loadMembers(*receipt.GroupID)
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
