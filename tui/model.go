package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/pagao/pagao/screen"
	"github.com/pagao/pagao/screen/groupdetail"
	"github.com/pagao/pagao/screen/groupjoin"
	"github.com/pagao/pagao/screen/grouplist"
)

type view int

const (
	viewGroups view = iota
	viewDetail
	viewJoin
)

// API is everything the browser asks the server for
type API interface {
	grouplist.API
	groupdetail.API
	groupjoin.API
}

// Options contains configuration for the Model
type Options struct {
	API  API
	Deps screen.Deps
}

// Model is the Bubble Tea model for pagao browse
type Model struct {
	api  API
	deps screen.Deps

	view view
	err  error

	// Controllers, detail and join are rebuilt per group
	groups *grouplist.Controller
	detail *groupdetail.Controller
	join   *groupjoin.Controller

	groupsCh <-chan grouplist.State
	detailCh <-chan groupdetail.State
	joinCh   <-chan groupjoin.State

	// Latest snapshots received from the controllers
	groupsState grouplist.State
	detailState groupdetail.State
	joinState   groupjoin.State

	// UI Components
	spinner        spinner.Model
	groupList      list.Model
	memberSelector memberSelectorModel
	logger         *log.Logger
}

// NewModel creates a new Bubble Tea model
func NewModel(opts Options) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	logger := opts.Deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Model{
		api:       opts.API,
		deps:      opts.Deps,
		view:      viewGroups,
		groups:    grouplist.New(opts.API, opts.Deps),
		spinner:   s,
		groupList: newGroupList(nil),

		memberSelector: newMemberSelector(nil),
		logger:         logger,
	}
}

// Err returns the error that ended the program, if any
func (m *Model) Err() error {
	return m.err
}

// Close releases every controller
func (m *Model) Close() {
	m.groups.Close()
	if m.detail != nil {
		m.detail.Close()
	}
	if m.join != nil {
		m.join.Close()
	}
}

// Run starts the browser and blocks until the user quits
func Run(opts Options) error {
	m := NewModel(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Err()
}

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205")).
	Bold(true).
	MarginLeft(2)
