package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/pagao/pagao/client"
)

// ErrNoMembers is returned when there is nobody to choose from
var ErrNoMembers = errors.New("no members to select from")

// MemberOptions builds the select options for members, keyed by member ID
func MemberOptions(members []client.Member) []huh.Option[int] {
	options := make([]huh.Option[int], len(members))
	for i, m := range members {
		label := m.Name
		if m.Balance != 0 {
			label = fmt.Sprintf("%s (%+.2f)", m.Name, m.Balance)
		}
		options[i] = huh.NewOption(label, m.ID)
	}
	return options
}

// SelectMember presents an interactive selection menu for choosing a member
func SelectMember(title string, members []client.Member) (client.Member, error) {
	if len(members) == 0 {
		return client.Member{}, ErrNoMembers
	}

	selected := members[0].ID
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(MemberOptions(members)...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return client.Member{}, err
	}

	for _, m := range members {
		if m.ID == selected {
			return m, nil
		}
	}
	return client.Member{}, errors.New("selection not found")
}
