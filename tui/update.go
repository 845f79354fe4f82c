package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pagao/pagao/screen/groupdetail"
	"github.com/pagao/pagao/screen/groupjoin"
	"github.com/pagao/pagao/screen/grouplist"
)

// Init subscribes to the group list and loads it
func (m *Model) Init() tea.Cmd {
	m.groupsCh, _ = m.groups.Subscribe()
	m.groups.Handle(grouplist.LoadGroups{})

	return tea.Batch(
		m.spinner.Tick,
		m.listenGroups(),
	)
}

// Update handles messages and state transitions
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.groupList.SetSize(msg.Width, msg.Height-4)
		m.memberSelector.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case groupsStateMsg:
		m.groupsState = msg.state
		m.groupList.SetItems(groupItems(msg.state.Groups))
		return m, m.listenGroups()

	case detailStateMsg:
		if msg.from != m.detail {
			return m, nil
		}
		m.detailState = msg.state
		return m, m.listenDetail()

	case joinStateMsg:
		if msg.from != m.join {
			return m, nil
		}
		if len(msg.state.AvailableMembers) != len(m.joinState.AvailableMembers) {
			m.memberSelector = newMemberSelector(msg.state.AvailableMembers)
		}
		m.joinState = msg.state
		return m, m.listenJoin()

	case joinedMsg:
		if msg.from != m.join || m.detail == nil {
			return m, nil
		}
		m.logger.Info("Joined group", "group", m.joinState.Group.Name, "member", msg.member.Name)
		m.closeJoin()
		m.view = viewDetail
		m.detail.Handle(groupdetail.LoadGroup{GroupID: m.detailState.Group.ID})
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// a shown error is acknowledged before anything else
	if msg.String() == "enter" {
		if handled := m.catchError(); handled {
			return m, nil
		}
	}

	switch m.view {
	case viewGroups:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			m.groups.Handle(grouplist.LoadGroups{})
			return m, nil
		case "enter":
			if item, ok := m.groupList.SelectedItem().(groupItem); ok {
				return m, m.openDetail(item.group.ID)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.groupList, cmd = m.groupList.Update(msg)
		return m, cmd

	case viewDetail:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc", "backspace":
			m.closeDetail()
			m.view = viewGroups
		case "r":
			m.detail.Handle(groupdetail.LoadGroup{GroupID: m.detailState.Group.ID})
		case "j":
			if m.detailState.Group.ID != 0 {
				return m, m.openJoin(m.detailState.Group.ID)
			}
		}
		return m, nil

	case viewJoin:
		var cmd tea.Cmd
		m.memberSelector, cmd = m.memberSelector.Update(msg)
		if !m.memberSelector.done {
			return m, cmd
		}
		if m.memberSelector.choice == nil {
			m.closeJoin()
			m.view = viewDetail
			return m, nil
		}
		member := *m.memberSelector.choice
		m.memberSelector.done = false
		m.join.Handle(groupjoin.SelectMember{Member: member})
		done := make(chan struct{})
		m.join.Handle(groupjoin.JoinGroup{OnDone: func() { close(done) }})
		return m, waitJoined(m.join, member, done)
	}

	return m, nil
}

func (m *Model) catchError() bool {
	switch {
	case m.view == viewGroups && m.groupsState.Error != "":
		m.groups.Handle(grouplist.ErrorCatch{})
	case m.view == viewDetail && m.detailState.Error != "":
		m.detail.Handle(groupdetail.ErrorCatch{})
	case m.view == viewJoin && m.joinState.Error != "":
		m.join.Handle(groupjoin.ErrorCatch{})
	default:
		return false
	}
	return true
}

func (m *Model) openDetail(groupID int) tea.Cmd {
	m.closeDetail()
	m.detail = groupdetail.New(m.api, m.deps)
	m.detailCh, _ = m.detail.Subscribe()
	m.detailState = groupdetail.State{}
	m.view = viewDetail
	m.detail.Handle(groupdetail.LoadGroup{GroupID: groupID})
	return m.listenDetail()
}

func (m *Model) openJoin(groupID int) tea.Cmd {
	m.closeJoin()
	m.join = groupjoin.New(m.api, m.deps)
	m.joinCh, _ = m.join.Subscribe()
	m.joinState = groupjoin.State{}
	m.memberSelector = newMemberSelector(nil)
	m.view = viewJoin
	m.join.Handle(groupjoin.LoadGroup{GroupID: groupID})
	return m.listenJoin()
}

func (m *Model) closeDetail() {
	m.closeJoin()
	if m.detail != nil {
		m.detail.Close()
		m.detail = nil
	}
}

func (m *Model) closeJoin() {
	if m.join != nil {
		m.join.Close()
		m.join = nil
	}
}

func (m *Model) listenGroups() tea.Cmd {
	return listen(m.groupsCh, func(s grouplist.State) tea.Msg {
		return groupsStateMsg{state: s}
	})
}

func (m *Model) listenDetail() tea.Cmd {
	from := m.detail
	return listen(m.detailCh, func(s groupdetail.State) tea.Msg {
		return detailStateMsg{from: from, state: s}
	})
}

func (m *Model) listenJoin() tea.Cmd {
	from := m.join
	return listen(m.joinCh, func(s groupjoin.State) tea.Msg {
		return joinStateMsg{from: from, state: s}
	})
}
