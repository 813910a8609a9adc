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

// CalendarView represents the month calendar view
type CalendarView struct {
	s      *Session
	width  int
	height int

	// Current month being displayed
	year  int
	month time.Month
	grid  calendar.Month

	// Selected day (1-31) and the task under the cursor on that day
	selectedDay int
	cursor      int

	// Tasks for the displayed month, by ISO date
	tasksByDate map[string][]model.Task

	mode      Mode
	textInput textinput.Model
}

// NewCalendarView creates a new calendar view on the current month
func NewCalendarView(s *Session) CalendarView {
	now := s.today()
	v := CalendarView{
		s:           s,
		year:        now.Year(),
		month:       now.Month(),
		selectedDay: now.Day(),
		textInput:   newInput(),
	}
	v.refresh()
	return v
}

// Init initializes the calendar view
func (v CalendarView) Init() tea.Cmd {
	return refresh
}

// SetSize sets the view dimensions
func (v CalendarView) SetSize(width, height int) CalendarView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is in input mode
func (v CalendarView) IsInputMode() bool {
	return v.mode != ModeNormal
}

func (v *CalendarView) refresh() {
	v.grid = calendar.MonthGrid(v.year, v.month, time.Local)
	v.tasksByDate = calendar.BucketByDate(v.s.Store.Snapshot().Tasks)
	v.clampSelectedDay()
	v.cursor = clamp(v.cursor, len(v.dayTasks()))
}

// selectedDate returns the selected day
func (v CalendarView) selectedDate() time.Time {
	return time.Date(v.year, v.month, v.selectedDay, 0, 0, 0, 0, time.Local)
}

func (v CalendarView) dayTasks() []model.Task {
	return v.tasksByDate[calendar.FormatDate(v.selectedDate())]
}

func (v CalendarView) currentTask() *model.Task {
	tasks := v.dayTasks()
	if v.cursor < 0 || v.cursor >= len(tasks) {
		return nil
	}
	t := tasks[v.cursor]
	return &t
}

// Update handles messages
func (v CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshMsg:
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		if v.mode == ModeAdd {
			return v.handleAddMode(msg)
		}

		daysInMonth := v.daysInMonth()

		switch msg.String() {
		case "h", "left":
			if v.selectedDay > 1 {
				v.selectedDay--
			} else {
				v.prevMonth()
				v.selectedDay = v.daysInMonth()
			}
			v.cursor = 0

		case "l", "right":
			if v.selectedDay < daysInMonth {
				v.selectedDay++
			} else {
				v.nextMonth()
				v.selectedDay = 1
			}
			v.cursor = 0

		case "k", "up":
			if v.selectedDay > 7 {
				v.selectedDay -= 7
			}
			v.cursor = 0

		case "j", "down":
			if v.selectedDay+7 <= daysInMonth {
				v.selectedDay += 7
			}
			v.cursor = 0

		case "K":
			v.cursor = clamp(v.cursor-1, len(v.dayTasks()))
		case "J":
			v.cursor = clamp(v.cursor+1, len(v.dayTasks()))

		case "H":
			v.prevMonth()
		case "L":
			v.nextMonth()

		case "t":
			now := v.s.today()
			v.year = now.Year()
			v.month = now.Month()
			v.selectedDay = now.Day()
			v.cursor = 0
			v.refresh()

		case "g":
			v.selectedDay = 1
			v.cursor = 0
		case "G":
			v.selectedDay = daysInMonth
			v.cursor = 0

		case "a":
			v.mode = ModeAdd
			v.textInput.Placeholder = addPlaceholder
			v.textInput.SetValue("")
			return v, v.textInput.Focus()

		case "tab":
			if t := v.currentTask(); t != nil {
				return v, v.s.toggleTask(t.ID)
			}

		case "m", "enter":
			target := dnd.DateTarget(calendar.FormatDate(v.selectedDate()))
			if _, ok := v.s.Held(); ok {
				return v, v.s.DropOn(target)
			}
			if t := v.currentTask(); t != nil && msg.String() == "m" {
				if _, ok := v.s.Hold(t.ID); ok {
					return v, status("Picked up " + t.Title + ", pick a day and press m")
				}
			}

		case "esc":
			if _, ok := v.s.Held(); ok {
				v.s.Release()
				return v, status("Drop cancelled")
			}
		}
	}

	// Keep the cursor blinking while typing
	if v.IsInputMode() {
		var cmd tea.Cmd
		v.textInput, cmd = v.textInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v CalendarView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := v.textInput.Value()
		v.mode = ModeNormal
		v.textInput.Blur()
		v.textInput.SetValue("")
		if strings.TrimSpace(value) == "" {
			return v, nil
		}
		return v, v.s.addTask(value, v.selectedDate(), "")
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

func (v *CalendarView) prevMonth() {
	v.month--
	if v.month < time.January {
		v.month = time.December
		v.year--
	}
	v.refresh()
}

func (v *CalendarView) nextMonth() {
	v.month++
	if v.month > time.December {
		v.month = time.January
		v.year++
	}
	v.refresh()
}

// daysInMonth returns the number of days in the current month
func (v CalendarView) daysInMonth() int {
	return time.Date(v.year, v.month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// clampSelectedDay ensures selected day is valid for current month
func (v *CalendarView) clampSelectedDay() {
	daysInMonth := v.daysInMonth()
	if v.selectedDay > daysInMonth {
		v.selectedDay = daysInMonth
	}
	if v.selectedDay < 1 {
		v.selectedDay = 1
	}
}

// View renders the calendar
func (v CalendarView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	// Split into two panels: calendar (left) and task list (right)
	calWidth := 30
	listWidth := v.width - calWidth - 6

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		v.renderCalendar(calWidth),
		v.renderTaskList(listWidth),
	)
	if v.mode == ModeAdd {
		styles := theme.Current.Styles
		label := styles.Label.Render("New task on " + v.selectedDate().Format("Mon Jan 2") + ": ")
		input := styles.InputFocused.Width(v.width - 4).Render(label + v.textInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, panels, input)
	}
	return panels
}

// renderCalendar renders the calendar grid
func (v CalendarView) renderCalendar(width int) string {
	t := theme.Current.Theme
	_, holding := v.s.Held()

	// Month header
	monthName := fmt.Sprintf("%s %d", v.month.String(), v.year)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Width(width).
		Align(lipgloss.Center)

	dayLabelStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var lines []string
	lines = append(lines, headerStyle.Render(monthName))
	lines = append(lines, dayLabelStyle.Render(" Su  Mo  Tu  We  Th  Fr  Sa"))

	now := v.s.today()
	for _, week := range v.grid.Weeks() {
		var cells []string
		for _, day := range week {
			if day == nil {
				cells = append(cells, "    ")
				continue
			}
			dayStyle := lipgloss.NewStyle().Width(4).Align(lipgloss.Center)

			hasTasks := len(v.tasksByDate[calendar.FormatDate(*day)]) > 0
			isSelected := day.Day() == v.selectedDay
			isToday := calendar.IsToday(*day, now)

			if isSelected {
				dayStyle = dayStyle.Background(t.Highlight).Bold(true)
				if holding {
					dayStyle = dayStyle.Foreground(t.Warning)
				}
			}
			if isToday {
				dayStyle = dayStyle.Foreground(t.Primary)
			}
			if hasTasks && !isSelected {
				dayStyle = dayStyle.Foreground(t.Info)
			}

			dayStr := fmt.Sprintf("%2d", day.Day())
			if hasTasks {
				dayStr += "•"
			} else {
				dayStr += " "
			}
			cells = append(cells, dayStyle.Render(dayStr))
		}
		lines = append(lines, strings.Join(cells, ""))
	}

	boxStyle := theme.Current.Styles.Column
	if holding {
		boxStyle = theme.Current.Styles.ColumnTarget
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderTaskList renders the task list for the selected day
func (v CalendarView) renderTaskList(width int) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Width(width)

	var lines []string
	lines = append(lines, headerStyle.Render(v.selectedDate().Format("Monday, January 2")))
	if held, ok := v.s.Held(); ok {
		lines = append(lines, styles.TaskHeld.Render("holding: "+held.Title))
	}
	lines = append(lines, "")

	tasks := v.dayTasks()
	if len(tasks) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true).
			Render("No tasks on this day"))
	}
	for i, task := range tasks {
		lines = append(lines, taskLine{
			task:     task,
			selected: i == v.cursor,
			pending:  v.s.Store.Pending(task.ID) > 0,
			width:    width - 2,
		}.render())
	}

	return styles.Column.Width(width).Render(strings.Join(lines, "\n"))
}
