package views

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/dori/weektodo/internal/api"
	"github.com/dori/weektodo/internal/dnd"
	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/store"
)

// Chatter is the remote assistant endpoint
type Chatter interface {
	Chat(ctx context.Context, message string) (api.ChatReply, error)
}

// Session is the state every view shares: the store, the drag in progress
// and the chat backend. Views hold a pointer so a held task survives view
// switches.
type Session struct {
	Ctx     context.Context
	Store   *store.Store
	Drag    *dnd.Coordinator
	Chat    Chatter
	Stagger time.Duration
	Remote  bool
	Log     zerolog.Logger
	Now     func() time.Time

	held string
}

// NewSession wires a session over s
func NewSession(ctx context.Context, s *store.Store, chat Chatter, log zerolog.Logger) *Session {
	return &Session{
		Ctx:     ctx,
		Store:   s,
		Drag:    dnd.New(s),
		Chat:    chat,
		Stagger: 300 * time.Millisecond,
		Log:     log,
		Now:     time.Now,
	}
}

// Hold picks up a task for dragging
func (s *Session) Hold(id string) (model.Task, bool) {
	t, ok := s.Drag.PickUp(id)
	if ok {
		s.held = id
	}
	return t, ok
}

// Held returns the task being dragged. A task deleted mid-drag is dropped.
func (s *Session) Held() (model.Task, bool) {
	if s.held == "" {
		return model.Task{}, false
	}
	t, ok := s.Drag.PickUp(s.held)
	if !ok {
		s.held = ""
	}
	return t, ok
}

// Release cancels the drag
func (s *Session) Release() {
	s.held = ""
}

// DropOn moves the held task onto target and ends the drag
func (s *Session) DropOn(target string) tea.Cmd {
	id := s.held
	s.held = ""
	if id == "" {
		return nil
	}
	return s.run("move", func(ctx context.Context) (string, error) {
		t, err := s.Drag.Drop(ctx, id, target)
		if err != nil {
			return "", err
		}
		return "Moved " + t.Title, nil
	})
}

// ErrMsg reports a failed store operation
type ErrMsg struct {
	Op  string
	Err error
}

func (e ErrMsg) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// StatusMsg carries a status line message
type StatusMsg struct {
	Text string
}

// RefreshMsg asks a view to re-read the store
type RefreshMsg struct{}

// run executes fn off the UI goroutine and reports how it went. Stale
// responses were superseded by a newer write and are not errors.
func (s *Session) run(op string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	ctx := s.Ctx
	return func() tea.Msg {
		status, err := fn(ctx)
		if errors.Is(err, store.ErrStale) {
			return nil
		}
		if err != nil {
			s.Log.Warn().Err(err).Str("op", op).Msg("store operation failed")
			return ErrMsg{Op: op, Err: err}
		}
		if status == "" {
			return nil
		}
		return StatusMsg{Text: status}
	}
}

func (s *Session) today() time.Time {
	return s.Now()
}
