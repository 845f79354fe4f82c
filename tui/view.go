package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/screen"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// View renders the UI based on the current view
func (m *Model) View() string {
	switch m.view {
	case viewGroups:
		return m.viewGroups()
	case viewDetail:
		return m.viewDetail()
	case viewJoin:
		return m.viewJoin()
	default:
		return ""
	}
}

func (m *Model) viewGroups() string {
	var b strings.Builder
	if m.groupsState.IsLoading {
		b.WriteString(m.loading("Loading your groups..."))
	}
	b.WriteString(m.groupList.View())
	b.WriteString(statusLine(m.groupsState.Status))
	return b.String()
}

func (m *Model) viewDetail() string {
	s := m.detailState
	var b strings.Builder

	if s.IsLoading {
		b.WriteString(m.loading("Loading group..."))
	}
	if s.Group.ID != 0 {
		b.WriteString("\n" + titleStyle.Render(s.Group.Name) + "\n")
		if desc := s.Group.DescriptionText(); desc != "" {
			b.WriteString("  " + infoStyle.Render(desc) + "\n")
		}
		b.WriteString("\n")
		b.WriteString(memberTable(s.Members))
	}
	b.WriteString(statusLine(s.Status))
	b.WriteString(dimStyle.Render("\n  j join • r reload • esc back • q quit") + "\n")
	return b.String()
}

func (m *Model) viewJoin() string {
	s := m.joinState
	var b strings.Builder

	if s.IsLoading {
		b.WriteString(m.loading(fmt.Sprintf("Working on %s...", groupName(s.Group))))
	}
	if !s.IsLoading && s.Group.ID != 0 && len(s.AvailableMembers) == 0 {
		b.WriteString("\n  " + infoStyle.Render("Every member of this group is already taken") + "\n")
	} else {
		b.WriteString(m.memberSelector.View())
	}
	b.WriteString(statusLine(s.Status))
	return b.String()
}

func (m *Model) loading(label string) string {
	return fmt.Sprintf("%s %s\n", spinnerStyle.Render(m.spinner.View()), label)
}

func memberTable(members []client.Member) string {
	if len(members) == 0 {
		return "  " + dimStyle.Render("no members yet") + "\n"
	}

	var b strings.Builder
	for _, mem := range members {
		claimed := ""
		if mem.UserID != nil {
			claimed = dimStyle.Render(" (claimed)")
		}
		balance := fmt.Sprintf("%10.2f", mem.Balance)
		switch {
		case mem.Balance > 0:
			balance = successStyle.Render(balance)
		case mem.Balance < 0:
			balance = errorStyle.Render(balance)
		}
		fmt.Fprintf(&b, "  %-24s %s%s\n", mem.Name, balance, claimed)
	}
	return b.String()
}

func statusLine(st screen.Status) string {
	if st.Error == "" {
		return ""
	}
	return "\n" + errorStyle.Render("✗ "+st.Error) + dimStyle.Render("  (enter to dismiss)") + "\n"
}

func groupName(g client.Group) string {
	if g.Name == "" {
		return "group"
	}
	return g.Name
}
