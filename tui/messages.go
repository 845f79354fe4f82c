package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pagao/pagao/client"
	"github.com/pagao/pagao/screen/groupdetail"
	"github.com/pagao/pagao/screen/groupjoin"
	"github.com/pagao/pagao/screen/grouplist"
)

// Message types for Bubble Tea state transitions

type groupsStateMsg struct {
	state grouplist.State
}

// detail and join snapshots carry their controller so stale ones are dropped
type detailStateMsg struct {
	from  *groupdetail.Controller
	state groupdetail.State
}

type joinStateMsg struct {
	from  *groupjoin.Controller
	state groupjoin.State
}

type joinedMsg struct {
	from   *groupjoin.Controller
	member client.Member
}

// listen waits for the next snapshot on ch. A closed channel ends the chain.
func listen[S any](ch <-chan S, wrap func(S) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(s)
	}
}

// waitJoined resolves when a join attempt succeeds. A failed attempt leaves
// done open, so the wait also ends when the join screen is closed.
func waitJoined(from *groupjoin.Controller, member client.Member, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-done:
			return joinedMsg{from: from, member: member}
		case <-from.Done():
			return nil
		}
	}
}
