package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/weektodo/internal/calendar"
	"github.com/dori/weektodo/internal/dnd"
	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/ui/theme"
)

const addPlaceholder = "Title  @HH:MM  !priority  #color  *daily|weekly|monthly"

// WeekView is the Friday-first week grid
type WeekView struct {
	s      *Session
	width  int
	height int

	anchor time.Time
	days   []time.Time
	byDate map[string][]model.Task

	// Navigation state
	day    int
	cursor int

	// Input mode
	mode      Mode
	textInput textinput.Model

	editTaskID   string
	deleteTaskID string
}

// NewWeekView creates the week view anchored on today
func NewWeekView(s *Session) WeekView {
	v := WeekView{
		s:         s,
		textInput: newInput(),
	}
	v.goToday()
	return v
}

// Init initializes the week view
func (v WeekView) Init() tea.Cmd {
	return refresh
}

// SetSize sets the view dimensions
func (v WeekView) SetSize(width, height int) WeekView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode reports whether keys go to the text input
func (v WeekView) IsInputMode() bool {
	return v.mode != ModeNormal
}

// Anchor returns the week currently shown
func (v WeekView) Anchor() time.Time {
	return v.anchor
}

// SelectedDate returns the focused day as YYYY-MM-DD
func (v WeekView) SelectedDate() string {
	return calendar.FormatDate(v.days[v.day])
}

func (v *WeekView) goToday() {
	today := calendar.Day(v.s.today())
	v.anchor = today
	v.days = calendar.WeekDates(today)
	for i, d := range v.days {
		if d.Equal(today) {
			v.day = i
		}
	}
	v.cursor = 0
	v.refresh()
}

func (v *WeekView) shiftWeek(weeks int) {
	v.anchor = v.anchor.AddDate(0, 0, 7*weeks)
	v.cursor = 0
	v.refresh()
}

func (v *WeekView) refresh() {
	v.days = calendar.WeekDates(v.anchor)
	v.byDate = calendar.BucketByDate(v.s.Store.Snapshot().Tasks)
	v.cursor = clamp(v.cursor, len(v.dayTasks()))
}

func (v WeekView) dayTasks() []model.Task {
	return v.byDate[v.SelectedDate()]
}

func (v WeekView) currentTask() *model.Task {
	tasks := v.dayTasks()
	if v.cursor < 0 || v.cursor >= len(tasks) {
		return nil
	}
	t := tasks[v.cursor]
	return &t
}

// Update handles messages
func (v WeekView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshMsg:
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case ModeAdd, ModeEdit:
			return v.handleInputMode(msg)
		case ModeConfirmDelete:
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

func (v WeekView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		if v.day == 0 {
			v.day = 6
			v.shiftWeek(-1)
		} else {
			v.day--
			v.cursor = clamp(v.cursor, len(v.dayTasks()))
		}
	case "l", "right":
		if v.day == 6 {
			v.day = 0
			v.shiftWeek(1)
		} else {
			v.day++
			v.cursor = clamp(v.cursor, len(v.dayTasks()))
		}
	case "j", "down":
		v.cursor = clamp(v.cursor+1, len(v.dayTasks()))
	case "k", "up":
		v.cursor = clamp(v.cursor-1, len(v.dayTasks()))
	case "[":
		v.shiftWeek(-1)
	case "]":
		v.shiftWeek(1)
	case "t":
		v.goToday()

	case "a":
		v.mode = ModeAdd
		v.textInput.Placeholder = addPlaceholder
		v.textInput.SetValue("")
		return v, v.textInput.Focus()

	case "enter":
		if _, ok := v.s.Held(); ok {
			return v, v.s.DropOn(dnd.DateTarget(v.SelectedDate()))
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
			return v, v.s.DropOn(dnd.DateTarget(v.SelectedDate()))
		}
		if t := v.currentTask(); t != nil {
			if _, ok := v.s.Hold(t.ID); ok {
				return v, status("Picked up " + t.Title + ", move to a day or list and press m")
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

func (v WeekView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := v.textInput.Value()
		mode := v.mode
		v.mode = ModeNormal
		v.textInput.Blur()
		v.textInput.SetValue("")
		if mode == ModeEdit {
			return v, v.s.renameTask(v.editTaskID, value)
		}
		if strings.TrimSpace(value) == "" {
			return v, nil
		}
		return v, v.s.addTask(value, v.days[v.day], "")
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

func (v WeekView) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ModeNormal
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
	}
	return v, nil
}

// View renders the week
func (v WeekView) View() string {
	if v.width == 0 {
		return ""
	}
	styles := theme.Current.Styles

	first, last := v.days[0], v.days[6]
	title := styles.Title.Render(fmt.Sprintf("Week of %s – %s",
		first.Format("Mon Jan 2"), last.Format("Mon Jan 2, 2006")))
	if held, ok := v.s.Held(); ok {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, "  ",
			styles.TaskHeld.Render("holding: "+held.Title))
	}

	footerHeight := 0
	if v.mode != ModeNormal {
		footerHeight = 3
	}
	colHeight := v.height - lipgloss.Height(title) - footerHeight - 2
	if colHeight < 3 {
		colHeight = 3
	}
	colWidth := v.width/7 - 2
	if colWidth < 8 {
		colWidth = 8
	}

	_, holding := v.s.Held()
	now := v.s.today()
	cols := make([]string, len(v.days))
	for i, d := range v.days {
		cols[i] = v.renderDay(i, d, colWidth, colHeight, holding, calendar.IsToday(d, now))
	}

	sections := []string{title, lipgloss.JoinHorizontal(lipgloss.Top, cols...)}
	if bottom := v.renderInput(); bottom != "" {
		sections = append(sections, bottom)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v WeekView) renderDay(i int, d time.Time, width, height int, holding, today bool) string {
	styles := theme.Current.Styles
	focused := i == v.day

	header := styles.DayHeader.Render(d.Format("Mon 02"))
	if today {
		header = styles.Today.Render(d.Format("Mon 02") + " •")
	}

	lines := []string{header}
	held, _ := v.s.Held()
	tasks := v.byDate[calendar.FormatDate(d)]
	maxLines := height - 1
	start := 0
	if focused && v.cursor >= maxLines {
		start = v.cursor - maxLines + 1
	}
	for j := start; j < len(tasks) && len(lines) <= maxLines; j++ {
		t := tasks[j]
		lines = append(lines, taskLine{
			task:     t,
			selected: focused && j == v.cursor && !holding,
			held:     holding && t.ID == held.ID,
			pending:  v.s.Store.Pending(t.ID) > 0,
			width:    width,
		}.render())
	}
	if len(tasks) == 0 {
		lines = append(lines, styles.Placeholder.Render("—"))
	}

	style := styles.Column
	switch {
	case focused && holding:
		style = styles.ColumnTarget
	case focused:
		style = styles.ColumnFocused
	}
	return style.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (v WeekView) renderInput() string {
	styles := theme.Current.Styles
	switch v.mode {
	case ModeAdd:
		label := styles.Label.Render("New task on " + v.days[v.day].Format("Mon Jan 2") + ": ")
		return styles.InputFocused.Width(v.width - 4).Render(label + v.textInput.View())
	case ModeEdit:
		return styles.InputFocused.Width(v.width - 4).Render(styles.Label.Render("Rename: ") + v.textInput.View())
	case ModeConfirmDelete:
		t, _ := v.s.Store.Find(v.deleteTaskID)
		return styles.StatusError.Render(fmt.Sprintf("Delete %q? (y/n)", t.Title))
	}
	return ""
}
