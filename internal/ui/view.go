package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/perch/internal/feed"
	"github.com/five82/perch/internal/menu"
)

// chromeRows is the header, menu bar and footer.
const chromeRows = 3

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if top := m.modals.top(); top != nil {
		return top.View(m.theme, m.width, m.height)
	}
	if m.showHelp {
		return m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderMenu(),
		m.renderBody(),
		m.renderFooter(),
	)
}

// renderHeader renders the sync status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	parts := []string{styles.AccentText.Bold(true).Render("perch")}
	if snap.HasSummary {
		parts = append(parts,
			styles.Text.Render(fmt.Sprintf("%d feeds", m.feeds.Len())),
			styles.Text.Render(fmt.Sprintf("%d unread", m.feeds.UnreadTotal())),
		)
	}

	switch {
	case snap.IsOffline():
		parts = append(parts, styles.DangerText.Render("OFFLINE"), styles.WarningText.Render("Retrying..."))
	case snap.LastError != nil:
		parts = append(parts, styles.WarningText.Render(truncate(snap.LastError.Error(), 40)))
	case snap.FromCache:
		parts = append(parts, styles.MutedText.Render("cached"))
	case !snap.HasSummary:
		parts = append(parts, styles.MutedText.Render("Connecting..."))
	}

	if !snap.LastUpdated.IsZero() {
		age := humanizeDuration(time.Since(snap.LastUpdated))
		if age != "now" {
			age += " ago"
		}
		parts = append(parts, styles.FaintText.Render("updated "+age))
	}
	return styles.Header.Width(m.width).Render(truncate(strings.Join(parts, "  "), max(m.width-2, 0)))
}

// renderMenu draws the panel's element tree as a single bar.
func (m Model) renderMenu() string {
	styles := m.theme.Styles()
	children := m.panel.Root().Children()

	parts := make([]string, 0, len(children))
	for i, el := range children {
		label := el.Label
		if hint := m.keys.hintFor(el.Class); hint != "" {
			label = styles.Key.Render(hint) + " " + label
		}
		switch {
		case i == m.menuCursor:
			label = styles.Selected.Render(" " + label + " ")
		case el.Href != "" && el.Href == m.view.path():
			label = styles.AccentText.Underline(true).Render(label)
		case el.Class == menu.ToggleClass:
			label = styles.SuccessText.Render(label)
		default:
			label = styles.Text.Render(label)
		}
		parts = append(parts, label)
	}
	return styles.Menu.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderBody() string {
	if len(m.entries) == 0 {
		styles := m.theme.Styles()
		text := "No entries"
		if !m.prefs.ShowRead {
			text = "No unread entries"
		}
		return lipgloss.Place(m.width, m.listHeight(), lipgloss.Center, lipgloss.Center, styles.FaintText.Render(text))
	}
	return m.list.View()
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	left := m.view.String()
	if len(m.entries) > 0 {
		left += fmt.Sprintf(" %d/%d", m.cursor+1, len(m.entries))
	}
	if m.status != "" {
		left += "  " + m.status
	}
	right := "? help  q quit"
	gap := max(m.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return styles.Footer.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	lines := []string{styles.AccentText.Bold(true).Render("Keys"), ""}
	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			lines = append(lines, styles.Key.Render(padRight(h.Key, 10))+styles.Text.Render(h.Desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines, styles.MutedText.Render("press any key to close"))
	box := styles.Modal.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) listHeight() int {
	return max(m.height-chromeRows, 1)
}

func (m *Model) resizeList() {
	m.list.Width = m.width
	m.list.Height = m.listHeight()
	m.syncList()
}

// syncList redraws the entry rows and scrolls the cursor into view.
func (m *Model) syncList() {
	styles := m.theme.Styles()
	rows := make([]string, len(m.entries))
	for i, e := range m.entries {
		rows[i] = m.entryRow(e, i == m.cursor, styles)
	}
	m.list.SetContent(strings.Join(rows, "\n"))

	if m.list.Height <= 0 {
		return
	}
	switch {
	case m.cursor < m.list.YOffset:
		m.list.SetYOffset(m.cursor)
	case m.cursor >= m.list.YOffset+m.list.Height:
		m.list.SetYOffset(m.cursor - m.list.Height + 1)
	}
}

func (m Model) entryRow(e feed.Entry, selected bool, styles Styles) string {
	marker := " "
	switch {
	case e.Starred:
		marker = "*"
	case !e.Read:
		marker = "•"
	}

	source := ""
	if f, ok := m.feeds.Get(e.FeedID); ok {
		source = f.DisplayTitle()
	}
	date := e.FormatPublished()
	sourceWidth := min(24, max(m.width/5, 8))
	titleWidth := max(m.width-len(date)-sourceWidth-8, 10)

	row := fmt.Sprintf("%s %s  %s  %s",
		marker,
		padRight(truncate(e.Title, titleWidth), titleWidth),
		padRight(truncate(source, sourceWidth), sourceWidth),
		date,
	)
	switch {
	case selected:
		return styles.Selected.Width(m.width).Render(row)
	case e.Read:
		return styles.MutedText.Render(row)
	default:
		return styles.Text.Render(row)
	}
}
