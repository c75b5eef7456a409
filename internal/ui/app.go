package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/perch/internal/feed"
	"github.com/five82/perch/internal/menu"
	"github.com/five82/perch/internal/prefs"
	"github.com/five82/perch/internal/state"
)

// Service is everything the UI asks of the reader server.
type Service interface {
	FeedService
	menu.UpdateTrigger
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Service   Service
	Feeds     *feed.Set
	Entries   *feed.EntrySet
	Store     *state.Store
	Prefs     *prefs.Prefs
	PrefsPath string
	PollTick  time.Duration
	Logger    logrus.FieldLogger

	// Probe validates subscribe URLs. Nil uses feed.Probe.
	Probe ProbeFunc
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	feeds     *feed.Set
	entrySet  *feed.EntrySet
	store     *state.Store
	prefs     *prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	log       logrus.FieldLogger
	keys      keyMap

	// Menu
	panel      *menu.Panel
	toggle     *readToggle
	modals     *modalStack
	menuCursor int

	// UI state
	theme    Theme
	view     viewKind
	width    int
	height   int
	ready    bool
	showHelp bool
	status   string

	// Data state
	snapshot state.Snapshot
	entries  []feed.Entry
	cursor   int
	list     viewport.Model
}

// New creates a new Bubble Tea model with its menu panel.
func New(opts Options) (Model, error) {
	switch {
	case opts.Service == nil:
		return Model{}, fmt.Errorf("ui requires a reader service")
	case opts.Store == nil:
		return Model{}, fmt.Errorf("ui requires a data store")
	case opts.Prefs == nil:
		return Model{}, fmt.Errorf("ui requires preferences")
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	probe := opts.Probe
	if probe == nil {
		probe = feed.Probe
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	feeds := opts.Feeds
	if feeds == nil {
		feeds = feed.NewSet()
	}
	entries := opts.Entries
	if entries == nil {
		entries = feed.NewEntrySet()
	}

	m := Model{
		ctx:       ctx,
		feeds:     feeds,
		entrySet:  entries,
		store:     opts.Store,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		pollTick:  pollTick,
		log:       log,
		keys:      DefaultKeyMap(),
		modals:    &modalStack{},
		theme:     GetTheme(opts.Prefs.Theme),
		view:      viewAll,
		list:      viewport.New(0, 0),
	}

	deps := dialogDeps{
		ctx:     ctx,
		service: opts.Service,
		probe:   probe,
		host:    m.modals,
		log:     log,
		seq:     new(int),
	}
	panel, err := menu.New(menu.Options{
		Context:     ctx,
		Preferences: opts.Prefs,
		Feeds:       feeds,
		Entries:     entries,
		Toggle:      toggleFactory(opts.PrefsPath, log, &m.toggle),
		Subscribe:   deps.subscribeFactory(),
		ManageFeeds: deps.manageFactory(),
		Updater:     opts.Service,
	})
	if err != nil {
		return Model{}, fmt.Errorf("build menu: %w", err)
	}
	m.panel = panel
	m.reload()
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.pollTick), fetchSnapshotCmd(m.store))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeList()
		return m, nil

	case tickMsg:
		m.reload()
		return m, tickCmd(m.pollTick)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case statusMsg:
		m.status = string(msg)
		m.reload()
		return m, nil

	case subscribeResultMsg:
		return m.routeResult(msg)

	case unsubscribeResultMsg:
		return m.routeResult(msg)

	case feedRemovedMsg:
		dropped := m.entrySet.DropFeed(msg.id)
		m.log.WithFields(logrus.Fields{"feed_id": msg.id, "entries": dropped}).Debug("unsubscribed")
		m.status = "Unsubscribed from " + msg.title
		m.reload()
		return m, nil

	case tea.KeyMsg:
		if top := m.modals.top(); top != nil {
			return m.updateModal(top, msg)
		}
		return m.handleKey(msg)
	}

	if top := m.modals.top(); top != nil {
		return m.updateModal(top, msg)
	}
	return m, nil
}

func (m Model) updateModal(top Modal, msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd, closed := top.Update(msg, m.keys)
	if closed {
		m.modals.pop()
		m.reload()
	} else {
		m.modals.replaceTop(next)
	}
	return m, cmd
}

// routeResult gives a dialog its own async result. A result whose dialog has
// been dismissed or replaced is applied to the collections here instead.
func (m Model) routeResult(msg dialogResult) (tea.Model, tea.Cmd) {
	top := m.modals.top()
	if d, ok := top.(interface{ dialogID() int }); ok && d.dialogID() == msg.owner() {
		return m.updateModal(top, msg)
	}
	return m, m.applyDetached(msg)
}

func (m Model) applyDetached(msg dialogResult) tea.Cmd {
	switch msg := msg.(type) {
	case subscribeResultMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("subscribe failed")
			return nil
		}
		m.feeds.Add(msg.feed)
		return statusCmd(subscribedStatus(msg.feed, msg.items))
	case unsubscribeResultMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).WithField("feed_id", msg.id).Warn("unsubscribe failed")
			return nil
		}
		m.feeds.Remove(msg.id)
		return feedRemovedCmd(msg.id, msg.title)
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if keyMatches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.showHelp = false
		return m, nil
	}

	switch {
	case keyMatches(msg, m.keys.Quit):
		return m, tea.Quit
	case keyMatches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case keyMatches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case keyMatches(msg, m.keys.ToggleRead):
		m.flipShowRead()
		return m, nil
	case keyMatches(msg, m.keys.MenuLeft):
		m.moveMenuCursor(-1)
		return m, nil
	case keyMatches(msg, m.keys.MenuRight):
		m.moveMenuCursor(1)
		return m, nil
	case keyMatches(msg, m.keys.Activate):
		return m.activateMenuItem()
	case keyMatches(msg, m.keys.Up):
		m.moveCursor(m.cursor - 1)
		return m, nil
	case keyMatches(msg, m.keys.Down):
		m.moveCursor(m.cursor + 1)
		return m, nil
	case keyMatches(msg, m.keys.Top):
		m.moveCursor(0)
		return m, nil
	case keyMatches(msg, m.keys.Bottom):
		m.moveCursor(len(m.entries) - 1)
		return m, nil
	}

	for _, cb := range m.keys.commandBindings() {
		if keyMatches(msg, cb.binding) {
			return m.dispatch(cb.cmd)
		}
	}
	return m, nil
}

// dispatch hands cmd to the menu and runs the default navigation for
// commands the menu did not intercept.
func (m Model) dispatch(cmd menu.Command) (tea.Model, tea.Cmd) {
	res := m.panel.Dispatch(cmd)
	if !res.Handled && res.Href != "" {
		m.navigate(res.Href)
	}
	if cmd == menu.CmdUpdateFeeds {
		m.status = "Update requested"
	}
	return m, nil
}

func (m Model) activateMenuItem() (tea.Model, tea.Cmd) {
	children := m.panel.Root().Children()
	if m.menuCursor < 0 || m.menuCursor >= len(children) {
		return m, nil
	}
	el := children[m.menuCursor]
	if el.Class == menu.ToggleClass {
		m.flipShowRead()
		return m, nil
	}
	return m.dispatch(menu.Command(el.Class))
}

func (m *Model) navigate(href string) {
	m.view = route(href)
	m.cursor = 0
	m.reloadEntries()
}

func (m *Model) flipShowRead() {
	if m.toggle == nil {
		return
	}
	m.toggle.Toggle()
	m.panel.Render()
	m.reloadEntries()
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, *m.prefs); err != nil {
		m.log.WithError(err).Warn("save preferences")
	}
}

func (m *Model) moveMenuCursor(delta int) {
	n := len(m.panel.Root().Children())
	if n == 0 {
		return
	}
	m.menuCursor = (m.menuCursor + delta + n) % n
}

func (m *Model) moveCursor(row int) {
	if len(m.entries) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(row, 0), len(m.entries)-1)
	m.syncList()
}

// reload pulls the latest poll status and entry list.
func (m *Model) reload() {
	m.snapshot = m.store.Snapshot()
	m.reloadEntries()
}

func (m *Model) reloadEntries() {
	m.entries = m.entrySet.Select(m.view.filter(m.prefs.ShowRead))
	if m.cursor >= len(m.entries) {
		m.cursor = max(len(m.entries)-1, 0)
	}
	m.syncList()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func keyMatches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
