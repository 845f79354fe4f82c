package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/pagao/pagao/client"
)

type groupItem struct {
	group client.Group
}

func (i groupItem) Title() string {
	return fmt.Sprintf("%s  #%d", i.group.Name, i.group.ID)
}

func (i groupItem) Description() string {
	parts := []string{}
	if n := len(i.group.Members); n > 0 {
		parts = append(parts, fmt.Sprintf("%d members", n))
	}
	if n := len(i.group.Receipts); n > 0 {
		parts = append(parts, fmt.Sprintf("%d receipts", n))
	}
	if desc := i.group.DescriptionText(); desc != "" {
		parts = append(parts, wrapText(desc, 60))
	}
	if len(parts) == 0 {
		return "no details"
	}
	return strings.Join(parts, " • ")
}

func (i groupItem) FilterValue() string {
	return i.group.Name + " " + i.group.DescriptionText()
}

func groupItems(groups []client.Group) []list.Item {
	items := make([]list.Item, len(groups))
	for i, g := range groups {
		items[i] = groupItem{group: g}
	}
	return items
}

func newGroupList(groups []client.Group) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(1)

	l := list.New(groupItems(groups), delegate, 80, 20)
	l.Title = "Your groups"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)
	l.Styles.Title = titleStyle
	return l
}

func wrapText(text string, width int) string {
	if len(text) <= width {
		return text
	}

	// first line only, cut at a word boundary
	cut := strings.LastIndex(text[:width], " ")
	if cut <= 0 {
		cut = width
	}
	return text[:cut] + "..."
}
