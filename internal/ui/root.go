package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/dori/weektodo/internal/app"
	"github.com/dori/weektodo/internal/store"
	"github.com/dori/weektodo/internal/ui/theme"
	"github.com/dori/weektodo/internal/ui/views"
)

// RootModel is the main application model that manages views
type RootModel struct {
	app     *app.App
	session *views.Session
	log     zerolog.Logger
	keys    KeyMap
	help    help.Model
	width   int
	height  int

	currentView  View
	weekView     views.WeekView
	calendarView views.CalendarView
	listsView    views.ListsView
	chatView     views.ChatView
	helpVisible  bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(ctx context.Context, application *app.App, start View) RootModel {
	h := help.New()
	h.ShowAll = false

	session := views.NewSession(ctx, application.Store, application.API, application.Log)
	session.Stagger = application.Config.Chat.Stagger
	session.Remote = application.Config.Chat.Remote

	return RootModel{
		app:          application,
		session:      session,
		log:          application.Log.With().Str("component", "ui").Logger(),
		keys:         DefaultKeyMap(),
		help:         h,
		currentView:  start,
		weekView:     views.NewWeekView(session),
		calendarView: views.NewCalendarView(session),
		listsView:    views.NewListsView(session),
		chatView:     views.NewChatView(session),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange(), m.chatView.Init())
}

// load fetches the remote state once; the change feed refreshes the views
func (m RootModel) load() tea.Cmd {
	s := m.app.Store
	ctx := m.session.Ctx
	return func() tea.Msg {
		return LoadedMsg{Err: s.Load(ctx)}
	}
}

// waitForChange blocks on the store's change feed
func (m RootModel) waitForChange() tea.Cmd {
	ch := m.app.Store.Changes()
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return ChangeMsg{Change: c}
	}
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewWeek:
		return m.weekView.IsInputMode()
	case ViewCalendar:
		return m.calendarView.IsInputMode()
	case ViewLists:
		return m.listsView.IsInputMode()
	case ViewChat:
		return m.chatView.IsInputMode()
	}
	return false
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (1 line) and footer (3 lines)
		contentHeight := m.height - 4
		m.weekView = m.weekView.SetSize(m.width, contentHeight)
		m.calendarView = m.calendarView.SetSize(m.width, contentHeight)
		m.listsView = m.listsView.SetSize(m.width, contentHeight)
		m.chatView = m.chatView.SetSize(m.width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		// Global keybindings
		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			return m, cycleTheme
		}

		if isInputMode {
			return m.delegate(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil

		case m.helpVisible && key.Matches(msg, m.keys.Cancel):
			m.helpVisible = false
			return m, nil

		case key.Matches(msg, m.keys.WeekView):
			return m.switchView(ViewWeek)
		case key.Matches(msg, m.keys.CalendarView):
			return m.switchView(ViewCalendar)
		case key.Matches(msg, m.keys.ListsView):
			return m.switchView(ViewLists)
		case key.Matches(msg, m.keys.ChatView):
			return m.switchView(ViewChat)
		}

		return m.delegate(msg)

	case LoadedMsg:
		if msg.Err != nil {
			m.log.Error().Err(msg.Err).Msg("failed to load tasks")
			m.errorMsg = "Could not reach the task store: " + msg.Err.Error()
		}
		return m, nil

	case ChangeMsg:
		m.log.Debug().Stringer("kind", msg.Change.Kind).Str("task", msg.Change.TaskID).Msg("store changed")
		m = m.refreshAll()
		return m, m.waitForChange()

	case views.ErrMsg:
		if errors.Is(msg.Err, store.ErrStale) {
			return m, nil
		}
		m.errorMsg = msg.Error()
		return m, nil

	case views.StatusMsg:
		m.statusMsg = msg.Text
		m = m.refreshAll()
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil

	case views.RefreshMsg:
		m = m.refreshAll()
		return m, nil
	}

	// The chat view keeps running timers for its spinner and staggered
	// inserts, so it sees every other message even when hidden.
	m, cmd := m.delegate(msg)
	if m.currentView == ViewChat {
		return m, cmd
	}
	newChat, chatCmd := m.chatView.Update(msg)
	m.chatView = newChat.(views.ChatView)
	return m, tea.Batch(cmd, chatCmd)
}

// delegate hands msg to the current view
func (m RootModel) delegate(msg tea.Msg) (RootModel, tea.Cmd) {
	var cmd tea.Cmd
	var updated tea.Model
	switch m.currentView {
	case ViewWeek:
		updated, cmd = m.weekView.Update(msg)
		m.weekView = updated.(views.WeekView)
	case ViewCalendar:
		updated, cmd = m.calendarView.Update(msg)
		m.calendarView = updated.(views.CalendarView)
	case ViewLists:
		updated, cmd = m.listsView.Update(msg)
		m.listsView = updated.(views.ListsView)
	case ViewChat:
		updated, cmd = m.chatView.Update(msg)
		m.chatView = updated.(views.ChatView)
	}
	return m, cmd
}

// refreshAll re-reads the store into every board view
func (m RootModel) refreshAll() RootModel {
	var updated tea.Model
	updated, _ = m.weekView.Update(views.RefreshMsg{})
	m.weekView = updated.(views.WeekView)
	updated, _ = m.calendarView.Update(views.RefreshMsg{})
	m.calendarView = updated.(views.CalendarView)
	updated, _ = m.listsView.Update(views.RefreshMsg{})
	m.listsView = updated.(views.ListsView)
	return m
}

func (m RootModel) switchView(v View) (tea.Model, tea.Cmd) {
	m.helpVisible = false
	m.currentView = v
	m = m.refreshAll()
	return m, nil
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles
	var sections []string

	sections = append(sections, m.renderHeader())

	// Reserve: 1 line for header + 3 lines for footer (status + 2 hint lines)
	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}
	var content string

	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewWeek:
			content = m.weekView.View()
		case ViewCalendar:
			content = m.calendarView.View()
		case ViewLists:
			content = m.listsView.View()
		case ViewChat:
			content = m.chatView.View()
		default:
			content = styles.Panel.Render("View not implemented")
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("weektodo")

	current := m.currentView
	if m.helpVisible {
		current = ViewHelp
	}
	viewIndicator := styles.Subtitle.Padding(0, 1).Render(fmt.Sprintf("[%s]", current.String()))

	rightSide := styles.Footer.Render(fmt.Sprintf("%s · theme: %s", m.app.API.BaseURL(), t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = styles.StatusBar.Render(styles.StatusError.Render("✗ " + m.errorMsg))
	} else if m.statusMsg != "" {
		statusLine = styles.StatusBar.Render(styles.StatusKey.Render("✓") + " " + styles.StatusValue.Render(m.statusMsg))
	}

	_, holding := m.session.Held()

	var line1, line2 string
	switch {
	case m.isInputMode() && m.currentView == ViewChat:
		line1 = key("enter", "send") + sep +
			key("esc", "leave prompt") + sep +
			key("F1-F3", "quick prompt") + sep +
			key("C-r", "local/remote") + sep +
			key("C-y", "copy")

	case m.isInputMode():
		line1 = key("enter", "confirm") + sep + key("esc", "cancel")

	case holding:
		line1 = key("h/j/k/l", "pick target") + sep +
			key("m/enter", "drop") + sep +
			key("esc", "cancel drag")
		line2 = key("1-3", "views") + sep + key("?", "help")

	default:
		switch m.currentView {
		case ViewWeek:
			line1 = key("a", "add") + sep +
				key("enter", "rename") + sep +
				key("tab", "done") + sep +
				key("d", "del") + sep +
				key("p", "priority") + sep +
				key("c", "color") + sep +
				key("m", "move")
			line2 = key("h/l", "days") + sep +
				key("[/]", "weeks") + sep +
				key("t", "today") + sep +
				key("1-4", "views") + sep +
				key("?", "help")

		case ViewCalendar:
			line1 = key("h/j/k/l", "days") + sep +
				key("J/K", "tasks") + sep +
				key("H/L", "months") + sep +
				key("t", "today")
			line2 = key("a", "add") + sep +
				key("tab", "done") + sep +
				key("m", "move") + sep +
				key("1-4", "views") + sep +
				key("?", "help")

		case ViewLists:
			line1 = key("a", "add") + sep +
				key("enter", "rename") + sep +
				key("tab", "done") + sep +
				key("d", "del") + sep +
				key("m", "move")
			line2 = key("A", "new list") + sep +
				key("D", "delete list") + sep +
				key("h/l", "lists") + sep +
				key("1-4", "views") + sep +
				key("?", "help")

		case ViewChat:
			line1 = key("i/enter", "type") + sep +
				key("C-r", "local/remote") + sep +
				key("C-y", "copy")
			line2 = key("1-4", "views") + sep +
				key("C-t", "theme") + sep +
				key("?", "help")
		}
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, styles.Footer.Render(line1))
	}
	if line2 != "" {
		lines = append(lines, styles.Footer.Render(line2))
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := theme.Current.Styles.PanelTitle.MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder

	b.WriteString(titleStyle.Render("weektodo Help"))
	b.WriteString("\n\n")

	sections := []struct {
		title string
		keys  [][]string
	}{
		{"Navigation", [][]string{
			{"h/l ←/→", "Previous/next day or list"},
			{"j/k ↓/↑", "Move between tasks"},
			{"[ / ]", "Previous/next week"},
			{"H / L", "Previous/next month"},
			{"J / K", "Tasks of the selected day (calendar)"},
			{"t", "Jump to today"},
		}},
		{"Task Actions", [][]string{
			{"a", "Add task (@18:30 !high #purple *weekly due:fri list:Name)"},
			{"enter", "Rename task"},
			{"tab", "Toggle done"},
			{"d", "Delete task"},
			{"p", "Cycle priority"},
			{"c", "Cycle color"},
			{"m", "Pick up, then drop on a day or list"},
			{"esc", "Cancel drag"},
		}},
		{"Lists", [][]string{
			{"A", "New list"},
			{"D", "Delete list and its tasks"},
		}},
		{"Chat", [][]string{
			{"F1-F3", "Quick prompts on a new conversation"},
			{"ctrl+r", "Switch local/remote assistant"},
			{"ctrl+y", "Copy the last suggestions"},
			{"esc / i", "Leave / return to the prompt"},
		}},
		{"Views", [][]string{
			{"1", "Week"},
			{"2", "Calendar"},
			{"3", "Lists"},
			{"4", "Chat"},
			{"?", "Toggle this help"},
		}},
		{"System", [][]string{
			{"ctrl+t", "Cycle theme"},
			{"q / ctrl+c", "Quit"},
		}},
	}

	for _, section := range sections {
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")
		for _, kv := range section.keys {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))

	return b.String()
}

// cycleTheme switches to the next available theme
func cycleTheme() tea.Msg {
	next := theme.Next()
	theme.SetTheme(next)
	return ThemeChangedMsg{ThemeName: next.Name}
}
