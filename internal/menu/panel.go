package menu

import (
	"context"
	"errors"

	"github.com/five82/perch/internal/feed"
	"github.com/five82/perch/internal/prefs"
)

// Command names a menu action. The value doubles as the item's class.
type Command string

const (
	CmdSubscribe   Command = "subscribe"
	CmdManageFeeds Command = "manage-feeds"
	CmdUpdateFeeds Command = "update-feeds"
	CmdRefresh     Command = "refresh"
	CmdAllEntries  Command = "all-entries"
	CmdShowStarred Command = "show-starred"
)

// ToggleClass is the class the show-read toggle is expected to carry.
const ToggleClass = "toggle-read"

// Link targets for the two navigation items.
const (
	PathAllEntries = "/"
	PathStarred    = "/?filter=starred"
)

type item struct {
	cmd   Command
	label string
	href  string
}

// items is the fixed order of the static controls after the toggle.
var items = []item{
	{CmdSubscribe, "Subscribe", ""},
	{CmdManageFeeds, "Manage feeds", ""},
	{CmdUpdateFeeds, "Update feeds", ""},
	{CmdRefresh, "Refresh", ""},
	{CmdAllEntries, "All entries", PathAllEntries},
	{CmdShowStarred, "Show starred", PathStarred},
}

// Commands returns the static item commands in render order.
func Commands() []Command {
	out := make([]Command, len(items))
	for i, it := range items {
		out[i] = it.cmd
	}
	return out
}

// Result is what a dispatched command reports back to the input layer.
// Handled means the default action (navigation) must not run. Unhandled
// link commands carry the path to navigate to.
type Result struct {
	Handled bool
	Href    string
}

// Handled is returned by every intercepted command.
var Handled = Result{Handled: true}

// Handler runs one menu command.
type Handler func() Result

// Widget is an embedded control that owns its element.
type Widget interface {
	Render() *Element
}

// Dialog is a transient modal. The menu calls Render then Show and drops it.
type Dialog interface {
	Render() Dialog
	Show()
}

// ToggleFactory builds the show-read toggle bound to the preferences.
type ToggleFactory func(model *prefs.Prefs) Widget

// DialogFactory builds a dialog bound to the feed collection.
type DialogFactory func(collection *feed.Set) Dialog

// UpdateTrigger asks the server to refresh its feeds.
type UpdateTrigger interface {
	TriggerUpdate(ctx context.Context) error
}

// Options are the panel's construction inputs. Everything except Context and
// OnUpdateResult is required.
type Options struct {
	Context     context.Context
	Preferences *prefs.Prefs
	Feeds       *feed.Set
	Entries     *feed.EntrySet

	Toggle      ToggleFactory
	Subscribe   DialogFactory
	ManageFeeds DialogFactory
	Updater     UpdateTrigger

	// OnUpdateResult, when set, receives the outcome of each update request
	// on the request's goroutine. Nil keeps failures silent.
	OnUpdateResult func(error)
}

// Panel is the navigation menu: the show-read toggle followed by six static
// items. The toggle is created once and survives every Render.
type Panel struct {
	ctx     context.Context
	prefs   *prefs.Prefs
	feeds   *feed.Set
	entries *feed.EntrySet

	newSubscribe   DialogFactory
	newManageFeeds DialogFactory
	updater        UpdateTrigger
	onUpdate       func(error)

	toggle   Widget
	toggleEl *Element
	root     *Element
	static   []*Element
	handlers map[Command]Handler
}

// New builds the panel, its toggle, and the initial render.
func New(opts Options) (*Panel, error) {
	switch {
	case opts.Preferences == nil:
		return nil, errors.New("menu requires preferences")
	case opts.Feeds == nil:
		return nil, errors.New("menu requires a feed set")
	case opts.Entries == nil:
		return nil, errors.New("menu requires an entry set")
	case opts.Toggle == nil:
		return nil, errors.New("menu requires a toggle factory")
	case opts.Subscribe == nil || opts.ManageFeeds == nil:
		return nil, errors.New("menu requires dialog factories")
	case opts.Updater == nil:
		return nil, errors.New("menu requires an update trigger")
	}

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	p := &Panel{
		ctx:            ctx,
		prefs:          opts.Preferences,
		feeds:          opts.Feeds,
		entries:        opts.Entries,
		newSubscribe:   opts.Subscribe,
		newManageFeeds: opts.ManageFeeds,
		updater:        opts.Updater,
		onUpdate:       opts.OnUpdateResult,
		root:           NewElement("menu", ""),
	}

	p.toggle = opts.Toggle(p.prefs)
	if p.toggle == nil {
		return nil, errors.New("toggle factory returned nil")
	}
	p.toggleEl = p.toggle.Render()
	if p.toggleEl == nil {
		return nil, errors.New("toggle rendered no element")
	}

	for _, it := range items {
		el := NewElement(string(it.cmd), it.label)
		el.Href = it.href
		p.static = append(p.static, el)
	}

	p.handlers = map[Command]Handler{
		CmdSubscribe:   p.ShowSubscribeDialog,
		CmdManageFeeds: p.ShowManageFeedsDialog,
		CmdUpdateFeeds: p.TriggerUpdate,
		CmdRefresh:     p.Refresh,
	}

	return p.Render(), nil
}

// Render detaches every child of the root and reattaches the toggle element
// followed by the static items. It never rebuilds the toggle.
func (p *Panel) Render() *Panel {
	p.root.DetachChildren()
	p.root.Append(p.toggleEl)
	p.root.Append(p.static...)
	return p
}

// Root returns the panel's root element.
func (p *Panel) Root() *Element {
	return p.root
}

// Toggle returns the embedded toggle widget.
func (p *Panel) Toggle() Widget {
	return p.toggle
}

// Handler returns the bound handler for cmd, or nil for link and unknown
// commands. The returned func stays valid for the panel's lifetime.
func (p *Panel) Handler(cmd Command) Handler {
	return p.handlers[cmd]
}

// Dispatch runs the handler for cmd. Link commands are not intercepted and
// report the path to navigate to.
func (p *Panel) Dispatch(cmd Command) Result {
	if h := p.handlers[cmd]; h != nil {
		return h()
	}
	for _, it := range items {
		if it.cmd == cmd {
			return Result{Href: it.href}
		}
	}
	return Result{}
}

// ShowSubscribeDialog builds a fresh subscribe dialog and shows it.
func (p *Panel) ShowSubscribeDialog() Result {
	p.newSubscribe(p.feeds).Render().Show()
	return Handled
}

// ShowManageFeedsDialog builds a fresh manage-feeds dialog and shows it.
func (p *Panel) ShowManageFeedsDialog() Result {
	p.newManageFeeds(p.feeds).Render().Show()
	return Handled
}

// TriggerUpdate fires the update request and returns without waiting.
func (p *Panel) TriggerUpdate() Result {
	go func() {
		err := p.updater.TriggerUpdate(p.ctx)
		if p.onUpdate != nil {
			p.onUpdate(err)
		}
	}()
	return Handled
}

// Refresh is reserved for reloading the current view and does nothing yet.
func (p *Panel) Refresh() Result {
	return Handled
}
