package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/dori/weektodo/internal/calendar"
	"github.com/dori/weektodo/internal/model"
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
	title = color.New(color.Bold, color.Underline)
	today = color.New(color.FgGreen, color.Bold)
)

var taskColors = map[model.Color]*color.Color{
	model.ColorRed:    color.New(color.FgRed),
	model.ColorBlue:   color.New(color.FgBlue),
	model.ColorGreen:  color.New(color.FgGreen),
	model.ColorYellow: color.New(color.FgYellow),
	model.ColorPurple: color.New(color.FgMagenta),
	model.ColorPink:   color.New(color.FgHiMagenta),
	model.ColorOrange: color.New(color.FgHiRed),
	model.ColorTeal:   color.New(color.FgCyan),
}

func swatch(c model.Color) string {
	if p, ok := taskColors[c]; ok {
		return p.Sprint("■")
	}
	return "■"
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func priorityLabel(t model.Task) string {
	switch t.PriorityOrDefault() {
	case model.PriorityHigh:
		return color.New(color.FgRed).Sprint("high")
	case model.PriorityLow:
		return faint.Sprint("low")
	default:
		return "medium"
	}
}

func timeLabel(t model.Task) string {
	if t.Time == nil {
		return ""
	}
	return *t.Time
}

// printTasks writes one row per task
func printTasks(w io.Writer, tasks []model.Task, showDate bool) {
	if len(tasks) == 0 {
		_, _ = faint.Fprintln(w, "  none")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, t := range tasks {
		row := []any{"", checkbox(t.Completed), swatch(t.Color)}
		if showDate {
			row = append(row, t.Date)
		}
		row = append(row, timeLabel(t), t.Title, priorityLabel(t), faint.Sprint(t.ID))
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// printWeek writes the Friday-first week around anchor
func printWeek(w io.Writer, anchor, now time.Time, tasks []model.Task) {
	byDate := calendar.BucketByDate(tasks)
	days := calendar.WeekDates(anchor)

	_, _ = title.Fprintf(w, "Week of %s\n", days[0].Format("Mon Jan 2, 2006"))
	for _, d := range days {
		heading := bold
		if calendar.IsToday(d, now) {
			heading = today
		}
		dayTasks := byDate[calendar.FormatDate(d)]
		_, _ = heading.Fprint(w, d.Format("Mon Jan 2"))
		_, _ = faint.Fprintf(w, " - %d\n", len(dayTasks))
		printTasks(w, dayTasks, false)
	}
}

// printMonth writes a Sunday-first month grid with task counts
func printMonth(w io.Writer, year int, month time.Month, now time.Time, tasks []model.Task) {
	grid := calendar.MonthGrid(year, month, now.Location())
	byDate := calendar.BucketByDate(tasks)

	_, _ = title.Fprintf(w, "%s %d\n", month, year)
	_, _ = faint.Fprintln(w, "  Su    Mo    Tu    We    Th    Fr    Sa")
	for _, week := range grid.Weeks() {
		var cells []string
		for _, day := range week {
			if day == nil {
				cells = append(cells, "     ")
				continue
			}
			cell := fmt.Sprintf("%2d", day.Day())
			if n := len(byDate[calendar.FormatDate(*day)]); n > 0 {
				cell += fmt.Sprintf("(%d)", n)
			} else {
				cell += "   "
			}
			if calendar.IsToday(*day, now) {
				cell = today.Sprint(cell)
			}
			cells = append(cells, cell)
		}
		_, _ = fmt.Fprintln(w, " "+strings.Join(cells, " "))
	}
}

// printLists writes every custom list with its tasks
func printLists(w io.Writer, lists []model.CustomList) {
	if len(lists) == 0 {
		_, _ = faint.Fprintln(w, "No lists yet. Create one from the lists view.")
		return
	}
	for _, l := range lists {
		_, _ = title.Fprint(w, l.Name)
		_, _ = faint.Fprintf(w, " - %d/%d done  %s\n", l.CompletedCount(), len(l.Tasks), l.ID)
		printTasks(w, l.Tasks, false)
		_, _ = fmt.Fprintln(w)
	}
}
