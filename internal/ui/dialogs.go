package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/five82/perch/internal/feed"
	"github.com/five82/perch/internal/menu"
)

// FeedService is the server side of the subscribe and manage dialogs.
type FeedService interface {
	Subscribe(ctx context.Context, feedURL string) (feed.Feed, error)
	Unsubscribe(ctx context.Context, id int64) error
}

// ProbeFunc validates a feed URL before subscribing.
type ProbeFunc func(ctx context.Context, url string) (feed.Feed, int, error)

// dialogDeps is what every dialog needs besides its feed collection.
type dialogDeps struct {
	ctx     context.Context
	service FeedService
	probe   ProbeFunc
	host    *modalStack
	log     logrus.FieldLogger
	seq     *int
}

// nextID numbers dialog instances so results can find the dialog that asked.
func (d dialogDeps) nextID() int {
	if d.seq == nil {
		return 0
	}
	*d.seq++
	return *d.seq
}

func (d dialogDeps) subscribeFactory() menu.DialogFactory {
	return func(collection *feed.Set) menu.Dialog {
		return newSubscribeDialog(d, collection)
	}
}

func (d dialogDeps) manageFactory() menu.DialogFactory {
	return func(collection *feed.Set) menu.Dialog {
		return newManageDialog(d, collection)
	}
}

// statusMsg is a one-line notice for the footer.
type statusMsg string

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg(text) }
}

// dialogResult is an async outcome addressed to the dialog that started it.
// The model hands it to that dialog if it is still on top and applies it to
// the collections itself otherwise.
type dialogResult interface {
	owner() int
}

// feedRemovedMsg asks the model to drop an unsubscribed feed's entries.
type feedRemovedMsg struct {
	id    int64
	title string
}

func feedRemovedCmd(id int64, title string) tea.Cmd {
	return func() tea.Msg { return feedRemovedMsg{id: id, title: title} }
}

func subscribedStatus(f feed.Feed, items int) string {
	return fmt.Sprintf("Subscribed to %s (%d items)", f.DisplayTitle(), items)
}

// Subscribe dialog

type subscribeResultMsg struct {
	dialog int
	feed   feed.Feed
	items  int
	err    error
}

func (m subscribeResultMsg) owner() int { return m.dialog }

type subscribeDialog struct {
	id    int
	deps  dialogDeps
	feeds *feed.Set
	input textinput.Model
	busy  bool
	err   error
}

func newSubscribeDialog(deps dialogDeps, collection *feed.Set) *subscribeDialog {
	input := textinput.New()
	input.Placeholder = "https://example.com/feed.xml"
	input.Prompt = "URL: "
	input.CharLimit = 2048
	input.Width = 48
	return &subscribeDialog{id: deps.nextID(), deps: deps, feeds: collection, input: input}
}

func (d *subscribeDialog) dialogID() int { return d.id }

// Render prepares the dialog for display.
func (d *subscribeDialog) Render() menu.Dialog {
	d.input.SetValue("")
	d.input.Focus()
	d.busy = false
	d.err = nil
	return d
}

// Show puts the dialog on top of the modal stack.
func (d *subscribeDialog) Show() {
	d.deps.host.push(d)
}

func (d *subscribeDialog) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if keyMatches(msg, keys.Escape) {
			return d, nil, true
		}
		if d.busy {
			return d, nil, false
		}
		if keyMatches(msg, keys.Confirm) {
			target := strings.TrimSpace(d.input.Value())
			if target == "" {
				d.err = fmt.Errorf("enter a feed URL")
				return d, nil, false
			}
			d.busy = true
			d.err = nil
			return d, d.subscribeCmd(target), false
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, cmd, false

	case subscribeResultMsg:
		if msg.dialog != d.id {
			return d, nil, false
		}
		d.busy = false
		if msg.err != nil {
			d.err = msg.err
			if d.deps.log != nil {
				d.deps.log.WithError(msg.err).Warn("subscribe failed")
			}
			return d, nil, false
		}
		d.feeds.Add(msg.feed)
		return d, statusCmd(subscribedStatus(msg.feed, msg.items)), true
	}
	return d, nil, false
}

// subscribeCmd probes the URL and, if it parses as a feed, subscribes to it.
func (d *subscribeDialog) subscribeCmd(target string) tea.Cmd {
	ctx, service, probe, id := d.deps.ctx, d.deps.service, d.deps.probe, d.id
	return func() tea.Msg {
		probed, items, err := probe(ctx, target)
		if err != nil {
			return subscribeResultMsg{dialog: id, err: err}
		}
		added, err := service.Subscribe(ctx, probed.URL)
		if err != nil {
			return subscribeResultMsg{dialog: id, err: fmt.Errorf("subscribe: %w", err)}
		}
		if added.Title == "" {
			added.Title = probed.Title
		}
		if added.URL == "" {
			added.URL = probed.URL
		}
		return subscribeResultMsg{dialog: id, feed: added, items: items}
	}
}

func (d *subscribeDialog) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	lines := []string{
		styles.AccentText.Bold(true).Render("Subscribe"),
		"",
		d.input.View(),
		"",
	}
	switch {
	case d.busy:
		lines = append(lines, styles.WarningText.Render("Checking feed..."))
	case d.err != nil:
		lines = append(lines, styles.DangerText.Render(truncate(d.err.Error(), 60)))
	default:
		lines = append(lines, styles.FaintText.Render("RSS, Atom or JSON Feed"))
	}
	lines = append(lines, "", styles.MutedText.Render("enter subscribe · esc cancel"))

	box := styles.Modal.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// Manage feeds dialog

type unsubscribeResultMsg struct {
	dialog int
	id     int64
	title  string
	err    error
}

func (m unsubscribeResultMsg) owner() int { return m.dialog }

type manageDialog struct {
	id     int
	deps   dialogDeps
	feeds  *feed.Set
	list   []feed.Feed
	cursor int
	armed  int64
	busy   bool
	err    error
}

func newManageDialog(deps dialogDeps, collection *feed.Set) *manageDialog {
	return &manageDialog{id: deps.nextID(), deps: deps, feeds: collection}
}

func (d *manageDialog) dialogID() int { return d.id }

// Render snapshots the collection for display.
func (d *manageDialog) Render() menu.Dialog {
	d.list = d.feeds.All()
	d.cursor = 0
	d.armed = 0
	d.busy = false
	d.err = nil
	return d
}

// Show puts the dialog on top of the modal stack.
func (d *manageDialog) Show() {
	d.deps.host.push(d)
}

func (d *manageDialog) selected() (feed.Feed, bool) {
	if d.cursor < 0 || d.cursor >= len(d.list) {
		return feed.Feed{}, false
	}
	return d.list[d.cursor], true
}

func (d *manageDialog) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if keyMatches(msg, keys.Escape) {
			return d, nil, true
		}
		if d.busy {
			return d, nil, false
		}
		switch {
		case keyMatches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
			d.armed = 0
		case keyMatches(msg, keys.Down):
			if d.cursor < len(d.list)-1 {
				d.cursor++
			}
			d.armed = 0
		case keyMatches(msg, keys.Delete):
			f, ok := d.selected()
			if !ok {
				return d, nil, false
			}
			if d.armed != f.ID {
				d.armed = f.ID
				return d, nil, false
			}
			d.busy = true
			d.err = nil
			return d, d.unsubscribeCmd(f), false
		}
		return d, nil, false

	case unsubscribeResultMsg:
		if msg.dialog != d.id {
			return d, nil, false
		}
		d.busy = false
		d.armed = 0
		if msg.err != nil {
			d.err = msg.err
			if d.deps.log != nil {
				d.deps.log.WithError(msg.err).WithField("feed_id", msg.id).Warn("unsubscribe failed")
			}
			return d, nil, false
		}
		d.feeds.Remove(msg.id)
		d.list = lo.Reject(d.list, func(f feed.Feed, _ int) bool { return f.ID == msg.id })
		if d.cursor >= len(d.list) {
			d.cursor = max(len(d.list)-1, 0)
		}
		return d, feedRemovedCmd(msg.id, msg.title), false
	}
	return d, nil, false
}

func (d *manageDialog) unsubscribeCmd(f feed.Feed) tea.Cmd {
	ctx, service, owner := d.deps.ctx, d.deps.service, d.id
	title := f.DisplayTitle()
	return func() tea.Msg {
		msg := unsubscribeResultMsg{dialog: owner, id: f.ID, title: title}
		if err := service.Unsubscribe(ctx, f.ID); err != nil {
			msg.err = fmt.Errorf("unsubscribe: %w", err)
		}
		return msg
	}
}

func (d *manageDialog) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	innerWidth := min(max(width-12, 20), 72)

	unread := lo.SumBy(d.list, func(f feed.Feed) int { return f.UnreadCount })
	lines := []string{
		styles.AccentText.Bold(true).Render("Manage feeds") + "  " +
			styles.MutedText.Render(fmt.Sprintf("%d feeds · %d unread", len(d.list), unread)),
		"",
	}

	if len(d.list) == 0 {
		lines = append(lines, styles.FaintText.Render("No subscriptions yet"))
	}

	visible := max(height-12, 3)
	start := 0
	if d.cursor >= visible {
		start = d.cursor - visible + 1
	}
	end := min(start+visible, len(d.list))
	for i := start; i < end; i++ {
		f := d.list[i]
		count := fmt.Sprintf("%4d", f.UnreadCount)
		title := truncate(f.DisplayTitle(), innerWidth-len(count)-2)
		row := padRight(title, innerWidth-len(count)) + count
		switch {
		case i == d.cursor && d.armed == f.ID:
			row = styles.DangerText.Render(row)
		case i == d.cursor:
			row = styles.Selected.Render(row)
		default:
			row = styles.Text.Render(row)
		}
		lines = append(lines, row)
	}

	lines = append(lines, "")
	switch {
	case d.busy:
		lines = append(lines, styles.WarningText.Render("Unsubscribing..."))
	case d.err != nil:
		lines = append(lines, styles.DangerText.Render(truncate(d.err.Error(), innerWidth)))
	case d.armed != 0:
		lines = append(lines, styles.DangerText.Render("Press d again to unsubscribe"))
	}
	lines = append(lines, styles.MutedText.Render("j/k move · d d unsubscribe · esc close"))

	box := styles.Modal.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
