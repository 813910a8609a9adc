package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/weektodo/internal/dnd"
	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/ui/theme"
)

// ListsView is the custom lists board: one column per list
type ListsView struct {
	s      *Session
	width  int
	height int

	lists []model.CustomList

	// Navigation state
	column    int
	cursorRow int

	// Input mode
	mode      Mode
	textInput textinput.Model

	editTaskID   string
	deleteTaskID string
	deleteListID string
}

// NewListsView creates a new lists board
func NewListsView(s *Session) ListsView {
	v := ListsView{
		s:         s,
		textInput: newInput(),
	}
	v.refresh()
	return v
}

// Init initializes the lists view
func (v ListsView) Init() tea.Cmd {
	return refresh
}

// SetSize sets the view dimensions
func (v ListsView) SetSize(width, height int) ListsView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is in input mode
func (v ListsView) IsInputMode() bool {
	return v.mode != ModeNormal
}

func (v *ListsView) refresh() {
	v.lists = v.s.Store.Snapshot().Lists
	v.column = clamp(v.column, len(v.lists))
	v.clampCursor()
}

func (v *ListsView) clampCursor() {
	v.cursorRow = clamp(v.cursorRow, len(v.currentTasks()))
}

func (v ListsView) currentList() *model.CustomList {
	if v.column < 0 || v.column >= len(v.lists) {
		return nil
	}
	return &v.lists[v.column]
}

func (v ListsView) currentTasks() []model.Task {
	if l := v.currentList(); l != nil {
		return l.Tasks
	}
	return nil
}

func (v ListsView) currentTask() *model.Task {
	tasks := v.currentTasks()
	if v.cursorRow < 0 || v.cursorRow >= len(tasks) {
		return nil
	}
	t := tasks[v.cursorRow]
	return &t
}

// Update handles messages
func (v ListsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshMsg:
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case ModeAdd, ModeEdit, ModeNewList:
			return v.handleInputMode(msg)
		case ModeConfirmDelete, ModeConfirmDeleteList:
			return v.handleConfirmDelete(msg)
		}
		return v.handleNormalMode(msg)
	}
	// Keep the cursor blinking while typing
	if v.IsInputMode() {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v ListsView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if v.column > 0 {
			v.column--
			v.clampCursor()
		}
	case "l", "right":
		if v.column < len(v.lists)-1 {
			v.column++
			v.clampCursor()
		}
	case "j", "down":
		v.cursorRow = clamp(v.cursorRow+1, len(v.currentTasks()))
	case "k", "up":
		v.cursorRow = clamp(v.cursorRow-1, len(v.currentTasks()))
	case "g":
		v.cursorRow = 0
	case "G":
		v.cursorRow = clamp(len(v.currentTasks())-1, len(v.currentTasks()))

	case "A":
		v.mode = ModeNewList
		v.textInput.Placeholder = "List name"
		v.textInput.SetValue("")
		return v, v.textInput.Focus()
	case "D":
		if l := v.currentList(); l != nil {
			v.mode = ModeConfirmDeleteList
			v.deleteListID = l.ID
		}

	case "a":
		if v.currentList() == nil {
			return v, status("Create a list first (A)")
		}
		v.mode = ModeAdd
		v.textInput.Placeholder = addPlaceholder
		v.textInput.SetValue("")
		return v, v.textInput.Focus()

	case "enter":
		if l := v.currentList(); l != nil {
			if _, ok := v.s.Held(); ok {
				return v, v.s.DropOn(dnd.ListTarget(l.ID))
			}
		}
		if t := v.currentTask(); t != nil {
			v.mode = ModeEdit
			v.editTaskID = t.ID
			v.textInput.Placeholder = "Title"
			v.textInput.SetValue(t.Title)
			v.textInput.CursorEnd()
			return v, v.textInput.Focus()
		}

	case "tab":
		if t := v.currentTask(); t != nil {
			return v, v.s.toggleTask(t.ID)
		}
	case "d":
		if t := v.currentTask(); t != nil {
			v.mode = ModeConfirmDelete
			v.deleteTaskID = t.ID
		}
	case "p":
		if t := v.currentTask(); t != nil {
			return v, v.s.cyclePriority(t.ID)
		}
	case "c":
		if t := v.currentTask(); t != nil {
			return v, v.s.cycleColor(t.ID)
		}

	case "m":
		if _, ok := v.s.Held(); ok {
			if l := v.currentList(); l != nil {
				return v, v.s.DropOn(dnd.ListTarget(l.ID))
			}
			return v, nil
		}
		if t := v.currentTask(); t != nil {
			if _, ok := v.s.Hold(t.ID); ok {
				return v, status("Picked up " + t.Title + ", move to a list or day and press m")
			}
		}
	case "esc":
		if _, ok := v.s.Held(); ok {
			v.s.Release()
			return v, status("Drop cancelled")
		}
	}
	return v, nil
}

func (v ListsView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := v.textInput.Value()
		mode := v.mode
		v.mode = ModeNormal
		v.textInput.Blur()
		v.textInput.SetValue("")

		switch mode {
		case ModeNewList:
			return v, v.s.addList(value)
		case ModeEdit:
			return v, v.s.renameTask(v.editTaskID, value)
		}
		l := v.currentList()
		if l == nil || strings.TrimSpace(value) == "" {
			return v, nil
		}
		return v, v.s.addTask(value, v.s.today(), l.ID)
	case "esc":
		v.mode = ModeNormal
		v.textInput.Blur()
		v.textInput.SetValue("")
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v ListsView) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		mode := v.mode
		v.mode = ModeNormal
		if mode == ModeConfirmDeleteList {
			id := v.deleteListID
			v.deleteListID = ""
			l, ok := v.s.Store.List(id)
			if !ok {
				return v, nil
			}
			return v, v.s.deleteList(id, l.Name)
		}
		id := v.deleteTaskID
		v.deleteTaskID = ""
		t, ok := v.s.Store.Find(id)
		if !ok {
			return v, nil
		}
		return v, v.s.deleteTask(id, t.Title)
	case "n", "N", "esc":
		v.mode = ModeNormal
		v.deleteTaskID = ""
		v.deleteListID = ""
	}
	return v, nil
}

// View renders the board
func (v ListsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}
	styles := theme.Current.Styles

	title := styles.Title.Render("Custom lists")
	if held, ok := v.s.Held(); ok {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, "  ",
			styles.TaskHeld.Render("holding: "+held.Title))
	}

	var body string
	if len(v.lists) == 0 {
		body = styles.Placeholder.Render("No lists yet. Press A to create one.")
	} else {
		body = v.renderColumns(v.height - lipgloss.Height(title) - 5)
	}

	sections := []string{title, body}
	if bottom := v.renderInput(); bottom != "" {
		sections = append(sections, bottom)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v ListsView) renderColumns(height int) string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	// Show as many columns as fit, keeping the focused one visible
	colWidth := 30
	visible := v.width / (colWidth + 4)
	if visible < 1 {
		visible = 1
	}
	start := 0
	if v.column >= visible {
		start = v.column - visible + 1
	}
	end := min(start+visible, len(v.lists))

	held, holding := v.s.Held()

	var cols []string
	for i := start; i < end; i++ {
		l := v.lists[i]
		focused := i == v.column

		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(t.ListColor(l.Color)).
			Render(truncate(l.Name, colWidth-8)) +
			styles.Label.Render(fmt.Sprintf(" %d/%d", l.CompletedCount(), len(l.Tasks)))

		lines := []string{header}
		rowStart := 0
		if focused && v.cursorRow >= height-1 {
			rowStart = v.cursorRow - height + 2
		}
		for j := rowStart; j < len(l.Tasks) && len(lines) < height; j++ {
			task := l.Tasks[j]
			lines = append(lines, taskLine{
				task:     task,
				selected: focused && j == v.cursorRow && !holding,
				held:     holding && task.ID == held.ID,
				pending:  v.s.Store.Pending(task.ID) > 0,
				width:    colWidth,
			}.render())
		}
		if len(l.Tasks) == 0 {
			lines = append(lines, styles.Placeholder.Render("empty"))
		}

		style := styles.Column
		switch {
		case focused && holding:
			style = styles.ColumnTarget
		case focused:
			style = styles.ColumnFocused
		}
		cols = append(cols, style.Width(colWidth).Height(height).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (v ListsView) renderInput() string {
	styles := theme.Current.Styles
	switch v.mode {
	case ModeNewList:
		return styles.InputFocused.Width(v.width - 4).Render(styles.Label.Render("New list: ") + v.textInput.View())
	case ModeAdd:
		name := ""
		if l := v.currentList(); l != nil {
			name = l.Name
		}
		return styles.InputFocused.Width(v.width - 4).Render(styles.Label.Render("New task in "+name+": ") + v.textInput.View())
	case ModeEdit:
		return styles.InputFocused.Width(v.width - 4).Render(styles.Label.Render("Rename: ") + v.textInput.View())
	case ModeConfirmDelete:
		t, _ := v.s.Store.Find(v.deleteTaskID)
		return styles.StatusError.Render(fmt.Sprintf("Delete %q? (y/n)", t.Title))
	case ModeConfirmDeleteList:
		l, _ := v.s.Store.List(v.deleteListID)
		return styles.StatusError.Render(fmt.Sprintf("Delete list %q and its %d tasks? (y/n)", l.Name, len(l.Tasks)))
	}
	return ""
}
