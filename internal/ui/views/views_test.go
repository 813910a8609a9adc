package views

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/weektodo/internal/api"
	"github.com/dori/weektodo/internal/api/apitest"
	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/store"
	"github.com/dori/weektodo/internal/suggest"
)

// Wednesday, so the week runs Fri Mar 8 .. Thu Mar 14
var now = time.Date(2024, time.March, 13, 9, 0, 0, 0, time.Local)

func newSession(t *testing.T) (*Session, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)

	client, err := api.New(api.Options{
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
		Attempts:  1,
		BaseDelay: time.Millisecond,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)

	s := NewSession(context.Background(), store.New(client, store.Options{Logger: zerolog.Nop()}), client, zerolog.Nop())
	s.Now = func() time.Time { return now }
	s.Stagger = 0
	return s, srv
}

func load(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.Store.Load(context.Background()))
}

// run executes cmd and any batched commands, returning their messages
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, run(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press[V tea.Model](t *testing.T, v V, msgs ...tea.Msg) (V, []tea.Msg) {
	t.Helper()
	var out []tea.Msg
	for _, msg := range msgs {
		m, cmd := v.Update(msg)
		v = m.(V)
		out = append(out, run(cmd)...)
	}
	return v, out
}

func statuses(msgs []tea.Msg) []string {
	var out []string
	for _, m := range msgs {
		switch m := m.(type) {
		case StatusMsg:
			out = append(out, m.Text)
		case ErrMsg:
			out = append(out, "error: "+m.Error())
		}
	}
	return out
}

func errorsIn(msgs []tea.Msg) []ErrMsg {
	var out []ErrMsg
	for _, m := range msgs {
		if e, ok := m.(ErrMsg); ok {
			out = append(out, e)
		}
	}
	return out
}

func TestWeekViewAddsOnSelectedDay(t *testing.T) {
	s, _ := newSession(t)
	load(t, s)

	v := NewWeekView(s)
	assert.Equal(t, "2024-03-13", v.SelectedDate())

	v, msgs := press(t, v,
		keys("l"),
		keys("a"),
		keys("Pay rent @09:30 !high #red"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.Equal(t, []string{"Added Pay rent"}, statuses(msgs))
	assert.False(t, v.IsInputMode())

	snap := s.Store.Snapshot()
	require.Len(t, snap.Tasks, 1)
	task := snap.Tasks[0]
	assert.Equal(t, "2024-03-14", task.Date)
	assert.Equal(t, model.ColorRed, task.Color)
	assert.Equal(t, "09:30", *task.Time)
	assert.Equal(t, model.PriorityHigh, *task.Priority)
}

func TestWeekViewWrapsIntoNextWeek(t *testing.T) {
	s, _ := newSession(t)
	v := NewWeekView(s)

	// Thursday is the last column
	v, _ = press(t, v, keys("l"), keys("l"))
	assert.Equal(t, "2024-03-15", v.SelectedDate())
	assert.Equal(t, time.Friday, v.days[0].Weekday())

	v, _ = press(t, v, keys("h"))
	assert.Equal(t, "2024-03-14", v.SelectedDate())

	v, _ = press(t, v, keys("]"), keys("t"))
	assert.Equal(t, "2024-03-13", v.SelectedDate())
}

func TestWeekViewTaskActions(t *testing.T) {
	s, srv := newSession(t)
	seeded := srv.SeedTask(model.Task{Title: "Laundry", Date: "2024-03-13", Color: model.ColorBlue})
	load(t, s)

	v := NewWeekView(s)
	v, msgs := press(t, v, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, []string{"Completed Laundry"}, statuses(msgs))

	v, msgs = press(t, v, keys("p"), keys("c"))
	assert.Equal(t, []string{"Priority: high", "Color: green"}, statuses(msgs))

	v, _ = press(t, v,
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyCtrlU},
		keys("Fold laundry"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	got, ok := s.Store.Find(seeded.ID)
	require.True(t, ok)
	assert.Equal(t, "Fold laundry", got.Title)
	assert.True(t, got.Completed)

	// Declining keeps the task
	v, _ = press(t, v, keys("d"), keys("n"))
	_, ok = s.Store.Find(seeded.ID)
	assert.True(t, ok)

	_, msgs = press(t, v, keys("d"), keys("y"))
	assert.Equal(t, []string{"Deleted Fold laundry"}, statuses(msgs))
	_, ok = s.Store.Find(seeded.ID)
	assert.False(t, ok)
}

func TestDragFromWeekOntoList(t *testing.T) {
	s, srv := newSession(t)
	list := srv.SeedList("Someday", "from-green-500 to-teal-500")
	seeded := srv.SeedTask(model.Task{Title: "Read book", Date: "2024-03-13", Color: model.ColorBlue})
	load(t, s)

	week := NewWeekView(s)
	week, msgs := press(t, week, keys("m"))
	require.Len(t, msgs, 1)
	held, ok := s.Held()
	require.True(t, ok)
	assert.Equal(t, seeded.ID, held.ID)

	// The held task survives switching to another view
	lists := NewListsView(s)
	_, msgs = press(t, lists, keys("m"))
	assert.Equal(t, []string{"Moved Read book"}, statuses(msgs))

	_, ok = s.Held()
	assert.False(t, ok)

	l, ok := s.Store.List(list.ID)
	require.True(t, ok)
	require.Len(t, l.Tasks, 1)
	assert.Equal(t, seeded.ID, l.Tasks[0].ID)
	assert.Empty(t, s.Store.Snapshot().Tasks)

	// And back onto a day
	press(t, NewListsView(s), keys("m"))
	week.refresh()
	_, msgs = press(t, week, keys("l"), keys("m"))
	assert.Equal(t, []string{"Moved Read book"}, statuses(msgs))
	got, ok := s.Store.Find(seeded.ID)
	require.True(t, ok)
	assert.False(t, got.Location().IsList())
	assert.Equal(t, "2024-03-14", got.Date)
}

func TestEscCancelsDrag(t *testing.T) {
	s, srv := newSession(t)
	srv.SeedTask(model.Task{Title: "Call", Date: "2024-03-13", Color: model.ColorBlue})
	load(t, s)

	v := NewWeekView(s)
	_, msgs := press(t, v, keys("m"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, statuses(msgs), "Drop cancelled")
	_, ok := s.Held()
	assert.False(t, ok)
}

func TestCalendarViewDropsOntoDay(t *testing.T) {
	s, srv := newSession(t)
	seeded := srv.SeedTask(model.Task{Title: "Dentist", Date: "2024-03-13", Color: model.ColorPink})
	load(t, s)

	v := NewCalendarView(s)
	v, _ = press(t, v, keys("m"))
	_, ok := s.Held()
	require.True(t, ok)

	// One week later
	_, msgs := press(t, v, keys("j"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"Moved Dentist"}, statuses(msgs))

	got, _ := s.Store.Find(seeded.ID)
	assert.Equal(t, "2024-03-20", got.Date)
}

func TestCalendarViewMonthNavigation(t *testing.T) {
	s, _ := newSession(t)
	v := NewCalendarView(s)

	v, _ = press(t, v, keys("L"))
	assert.Equal(t, time.April, v.month)
	v, _ = press(t, v, keys("G"), keys("l"))
	assert.Equal(t, time.May, v.month)
	assert.Equal(t, 1, v.selectedDay)
	v, _ = press(t, v, keys("h"))
	assert.Equal(t, time.April, v.month)
	assert.Equal(t, 30, v.selectedDay)
	v, _ = press(t, v, keys("t"))
	assert.Equal(t, time.March, v.month)
	assert.Equal(t, 13, v.selectedDay)
}

func TestListsViewManagesLists(t *testing.T) {
	s, _ := newSession(t)
	load(t, s)

	v := NewListsView(s)
	v, msgs := press(t, v, keys("a"))
	assert.Equal(t, []string{"Create a list first (A)"}, statuses(msgs))

	v, msgs = press(t, v, keys("A"), keys("Groceries"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"Created list Groceries"}, statuses(msgs))
	v, _ = press(t, v, RefreshMsg{})
	require.Len(t, v.lists, 1)
	assert.Contains(t, model.ListPalette, v.lists[0].Color)

	v, msgs = press(t, v, keys("a"), keys("Eggs #yellow"), tea.KeyMsg{Type: tea.KeyEnter}, RefreshMsg{})
	assert.Equal(t, []string{"Added Eggs"}, statuses(msgs))
	require.Len(t, v.lists[0].Tasks, 1)
	assert.Equal(t, model.ColorYellow, v.lists[0].Tasks[0].Color)

	_, msgs = press(t, v, keys("D"), keys("y"))
	assert.Equal(t, []string{"Deleted list Groceries"}, statuses(msgs))
	assert.Empty(t, s.Store.Snapshot().Lists)
}

func TestFailedOperationReportsError(t *testing.T) {
	s, srv := newSession(t)
	load(t, s)
	srv.Fail("POST", "/api/tasks", 500, 1)

	v := NewWeekView(s)
	_, msgs := press(t, v, keys("a"), keys("Write report"), tea.KeyMsg{Type: tea.KeyEnter})
	errs := errorsIn(msgs)
	require.Len(t, errs, 1)
	assert.Equal(t, "add", errs[0].Op)
	assert.Empty(t, s.Store.Snapshot().Tasks)
}

// feedChat drives the staggered insertion until it reports completion
func feedChat(t *testing.T, v ChatView, msgs []tea.Msg) (ChatView, []tea.Msg) {
	t.Helper()
	var out []tea.Msg
	for len(msgs) > 0 {
		msg := msgs[0]
		msgs = msgs[1:]
		switch msg.(type) {
		case chatReplyMsg, chatInsertMsg, chatInsertedMsg:
			m, cmd := v.Update(msg)
			v = m.(ChatView)
			msgs = append(msgs, run(cmd)...)
		default:
			out = append(out, msg)
		}
	}
	return v, out
}

func TestChatQuickPromptInsertsSuggestions(t *testing.T) {
	s, srv := newSession(t)
	load(t, s)

	v := NewChatView(s)
	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyF1})
	v = m.(ChatView)
	assert.True(t, v.Waiting())

	v, out := feedChat(t, v, run(cmd))
	assert.False(t, v.Waiting())
	assert.Contains(t, statuses(out), "✨ Tasks Added! Added 7 tasks to today's list.")

	require.Len(t, v.messages, 3)
	assert.Equal(t, suggest.QuickPrompts[0].Text, v.messages[1].text)
	assert.Len(t, v.messages[2].tasks, 7)

	tasks := s.Store.Snapshot().Tasks
	require.Len(t, tasks, 7)
	assert.Equal(t, "Define project scope and objectives", tasks[0].Title)
	for _, task := range tasks {
		assert.Equal(t, "2024-03-13", task.Date)
		assert.Equal(t, model.ColorGreen, task.Color)
		assert.Equal(t, model.PriorityMedium, *task.Priority)
	}
	assert.Equal(t, 7, srv.Count("POST", "/api/tasks"))

	// Quick prompts are only offered on a fresh transcript
	m, cmd = v.Update(tea.KeyMsg{Type: tea.KeyF2})
	assert.Nil(t, cmd)
	assert.Len(t, m.(ChatView).messages, 3)
}

func TestChatSecondReplyDoesNotCancelEarlierInserts(t *testing.T) {
	s, srv := newSession(t)
	load(t, s)

	v := NewChatView(s)
	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyF1})
	v = m.(ChatView)

	// Deliver the first reply and its first insert, then hold the next tick
	var reply tea.Msg
	for _, msg := range run(cmd) {
		if _, ok := msg.(chatReplyMsg); ok {
			reply = msg
		}
	}
	require.NotNil(t, reply)
	m, cmd = v.Update(reply)
	inserted := run(cmd)
	require.Len(t, inserted, 1)
	m, cmd = m.(ChatView).Update(inserted[0])
	v = m.(ChatView)
	held := run(cmd)
	require.Len(t, held, 1)
	require.IsType(t, chatInsertMsg{}, held[0])

	v, _ = press(t, v, keys("new workout routine"))
	m, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v, out := feedChat(t, m.(ChatView), run(cmd))
	assert.Contains(t, statuses(out), "✨ Tasks Added! Added 6 tasks to today's list.")

	v, out = feedChat(t, v, held)
	assert.Contains(t, statuses(out), "✨ Tasks Added! Added 7 tasks to today's list.")
	assert.Empty(t, v.batches)
	assert.Len(t, s.Store.Snapshot().Tasks, 13)
	assert.Equal(t, 13, srv.Count("POST", "/api/tasks"))
}

func TestChatFallbackAddsNothing(t *testing.T) {
	s, _ := newSession(t)
	load(t, s)

	v := NewChatView(s)
	v, _ = press(t, v, keys("hello there"))
	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v, _ = feedChat(t, m.(ChatView), run(cmd))

	require.Len(t, v.messages, 3)
	assert.Empty(t, v.messages[2].tasks)
	assert.Empty(t, s.Store.Snapshot().Tasks)
}

func TestChatRemote(t *testing.T) {
	s, srv := newSession(t)
	load(t, s)

	v := NewChatView(s)
	assert.False(t, v.Remote())
	v, msgs := press(t, v, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.True(t, v.Remote())
	assert.Equal(t, []string{"Chat: remote assistant"}, statuses(msgs))

	// No reply configured: the endpoint answers 500
	v, _ = press(t, v, keys("plan my work"))
	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v, out := feedChat(t, m.(ChatView), run(cmd))
	assert.Equal(t, suggest.ErrorReply, v.messages[len(v.messages)-1].text)
	assert.Len(t, errorsIn(out), 1)
	assert.Empty(t, s.Store.Snapshot().Tasks)

	srv.SetChatReply(&api.ChatReply{Message: "Here you go", Tasks: []string{"Stretch", "Run"}})
	v, _ = press(t, v, keys("workout"))
	m, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v, out = feedChat(t, m.(ChatView), run(cmd))
	assert.Equal(t, "Here you go", v.messages[len(v.messages)-1].text)
	assert.Contains(t, statuses(out), "✨ Tasks Added! Added 2 tasks to today's list.")
	assert.Len(t, s.Store.Snapshot().Tasks, 2)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "…", truncate("hello", 1))
	assert.Equal(t, "", truncate("hello", 0))
}
