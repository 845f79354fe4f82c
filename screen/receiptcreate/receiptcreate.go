// Package receiptcreate drives the screen where a receipt is drafted, split
// between members and submitted.
package receiptcreate

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/result"
	"github.com/pagao/pagao/screen"
)

// Validation messages
const (
	MsgNoGroup          = "Load the group members first"
	MsgNameRequired     = "Receipt name is required"
	MsgNoParticipations = "Add at least one participant"
	MsgUnknownMember    = "Every participant must be a member of the group"
	MsgNegativeAmount   = "Amounts cannot be negative"
	MsgUnbalanced       = "Total paid must equal total owed"
	MsgInvalidTotal     = "Total must be greater than zero"
	MsgUnknownPayer     = "Payer must be a member of the group"
)

// API is the part of the client this screen uses
type API interface {
	GetMembersOfGroup(ctx context.Context, groupID int) result.NetworkResult[[]client.Member]
	CreateReceipt(ctx context.Context, receipt client.NewReceipt) result.NetworkResult[client.Receipt]
}

// State is the draft receipt and the view state around it
type State struct {
	Name           string
	Description    string
	GroupID        int
	Members        []client.Member
	Participations []client.Participation
	Created        *client.Receipt
	screen.Status
}

func (s State) hasMember(id int) bool {
	return slices.ContainsFunc(s.Members, func(m client.Member) bool { return m.ID == id })
}

// Totals returns what the participants paid and owe, in cents
func (s State) Totals() (paid, owed int64) {
	for _, p := range s.Participations {
		paid += ToCents(p.Paid)
		owed += ToCents(p.Owed)
	}
	return paid, owed
}

// Validate returns the first problem of the draft, or "" when it can be
// submitted
func (s State) Validate() string {
	switch {
	case s.GroupID == 0:
		return MsgNoGroup
	case strings.TrimSpace(s.Name) == "":
		return MsgNameRequired
	case len(s.Participations) == 0:
		return MsgNoParticipations
	}
	for _, p := range s.Participations {
		if !s.hasMember(p.MemberID) {
			return MsgUnknownMember
		}
		if p.Paid < 0 || p.Owed < 0 {
			return MsgNegativeAmount
		}
	}
	if paid, owed := s.Totals(); paid != owed {
		return MsgUnbalanced
	}
	return ""
}

// Draft builds the request body from the state
func (s State) Draft() client.NewReceipt {
	receipt := client.NewReceipt{
		Name:           strings.TrimSpace(s.Name),
		GroupID:        s.GroupID,
		Participations: make([]client.Participation, 0, len(s.Participations)),
	}
	if desc := strings.TrimSpace(s.Description); desc != "" {
		receipt.Description = &desc
	}
	for _, p := range s.Participations {
		receipt.Participations = append(receipt.Participations, client.Participation{
			MemberID: p.MemberID,
			Paid:     FromCents(ToCents(p.Paid)),
			Owed:     FromCents(ToCents(p.Owed)),
		})
	}
	return receipt
}

// Event is one of ErrorCatch, LoadMembers, SetDetails, SetParticipation,
// RemoveParticipation, SplitEvenly or Submit
type Event interface {
	isEvent()
}

// ErrorCatch acknowledges the displayed error
type ErrorCatch struct{}

// LoadMembers selects the group of the receipt and fetches its members
type LoadMembers struct {
	GroupID int
}

// SetDetails sets the receipt name and description
type SetDetails struct {
	Name        string
	Description string
}

// SetParticipation adds or replaces the share of one member
type SetParticipation struct {
	MemberID int
	Paid     float64
	Owed     float64
}

// RemoveParticipation drops a member from the receipt
type RemoveParticipation struct {
	MemberID int
}

// SplitEvenly makes PayerID pay Total and every member owe an equal share
type SplitEvenly struct {
	PayerID int
	Total   float64
}

// Submit sends the draft. OnDone runs once with the stored receipt.
type Submit struct {
	OnDone func(receipt client.Receipt)
}

func (ErrorCatch) isEvent()          {}
func (LoadMembers) isEvent()         {}
func (SetDetails) isEvent()          {}
func (SetParticipation) isEvent()    {}
func (RemoveParticipation) isEvent() {}
func (SplitEvenly) isEvent()         {}
func (Submit) isEvent()              {}

// Controller owns the receipt draft
type Controller struct {
	screen.Base[State, *State]
	api API
}

// New creates the controller with an empty draft
func New(api API, deps screen.Deps) *Controller {
	return &Controller{
		Base: screen.NewBase[State, *State]("receipt_create", State{}, deps),
		api:  api,
	}
}

// Handle dispatches ev
func (c *Controller) Handle(ev Event) {
	c.Logger().Debug("Handling event", "event", fmt.Sprintf("%T", ev))

	switch e := ev.(type) {
	case ErrorCatch:
		c.ClearError()
	case LoadMembers:
		c.loadMembers(e.GroupID)
	case SetDetails:
		c.Update(func(s State) State {
			s.Name = e.Name
			s.Description = e.Description
			return s
		})
	case SetParticipation:
		c.setParticipation(e)
	case RemoveParticipation:
		c.Update(func(s State) State {
			s.Participations = slices.DeleteFunc(slices.Clone(s.Participations), func(p client.Participation) bool {
				return p.MemberID == e.MemberID
			})
			return s
		})
	case SplitEvenly:
		c.splitEvenly(e.PayerID, e.Total)
	case Submit:
		c.submit(e.OnDone)
	}
}

func (c *Controller) loadMembers(groupID int) {
	c.Update(func(s State) State {
		if s.GroupID != groupID {
			s.Members = nil
			s.Participations = nil
		}
		s.GroupID = groupID
		return s
	})

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

func (c *Controller) setParticipation(e SetParticipation) {
	c.Update(func(s State) State {
		p := client.Participation{MemberID: e.MemberID, Paid: e.Paid, Owed: e.Owed}
		s.Participations = slices.Clone(s.Participations)
		if i := slices.IndexFunc(s.Participations, func(q client.Participation) bool {
			return q.MemberID == e.MemberID
		}); i >= 0 {
			s.Participations[i] = p
		} else {
			s.Participations = append(s.Participations, p)
		}
		return s
	})
}

func (c *Controller) splitEvenly(payerID int, total float64) {
	cents := ToCents(total)

	// members may be reloaded concurrently, so the checks and the split read
	// the same snapshot
	var failure string
	c.Update(func(s State) State {
		switch {
		case len(s.Members) == 0:
			failure = MsgNoGroup
		case cents <= 0:
			failure = MsgInvalidTotal
		case !s.hasMember(payerID):
			failure = MsgUnknownPayer
		}
		if failure != "" {
			s.Error = failure
			return s
		}

		shares := SplitCents(cents, len(s.Members))
		s.Participations = make([]client.Participation, len(s.Members))
		for i, m := range s.Members {
			s.Participations[i] = client.Participation{MemberID: m.ID, Owed: FromCents(shares[i])}
			if m.ID == payerID {
				s.Participations[i].Paid = FromCents(cents)
			}
		}
		return s
	})

	if failure != "" {
		c.Logger().Debug("Validation failed", "error", failure)
	}
}

func (c *Controller) submit(onDone func(client.Receipt)) {
	s := c.State()
	if msg := s.Validate(); msg != "" {
		c.Fail(msg)
		return
	}
	draft := s.Draft()

	c.Launch("create receipt", func(ctx context.Context) {
		r := screen.Fetch(ctx, &c.Base,
			func(ctx context.Context) result.NetworkResult[client.Receipt] {
				return c.api.CreateReceipt(ctx, draft)
			},
			func(s State, created client.Receipt) State {
				s.Created = &created
				return s
			})

		if created, ok := screen.Data(r); ok && onDone != nil {
			onDone(created)
		}
	})
}
