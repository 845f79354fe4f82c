package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pagao/pagao/client"
)

type memberItem struct {
	member client.Member
}

func (i memberItem) Title() string       { return i.member.Name }
func (i memberItem) Description() string { return "" }
func (i memberItem) FilterValue() string { return i.member.Name }

type memberSelectorModel struct {
	list   list.Model
	choice *client.Member
	done   bool
}

func newMemberSelector(members []client.Member) memberSelectorModel {
	items := make([]list.Item, len(members))
	for i, m := range members {
		items[i] = memberItem{member: m}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.SetHeight(1)

	// title (2) + items (max 10) + help (2) + padding (2)
	itemCount := min(len(items), 10)
	l := list.New(items, delegate, 60, 2+max(itemCount, 1)+2+2)
	l.Title = fmt.Sprintf("Who are you? (%d free)", len(members))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)
	l.Styles.Title = titleStyle

	return memberSelectorModel{list: l}
}

func (m memberSelectorModel) Update(msg tea.Msg) (memberSelectorModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(memberItem); ok {
				m.choice = &item.member
				m.done = true
			}
			return m, nil
		case "q", "esc":
			m.choice = nil
			m.done = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m memberSelectorModel) View() string {
	return "\n" + m.list.View()
}
