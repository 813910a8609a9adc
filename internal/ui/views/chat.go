package views

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/dori/weektodo/internal/suggest"
	"github.com/dori/weektodo/internal/ui/theme"
)

type chatRole int

const (
	roleUser chatRole = iota
	roleAssistant
)

type chatMessage struct {
	id    string
	role  chatRole
	text  string
	tasks []string
}

// chatReplyMsg carries the assistant's answer to message id
type chatReplyMsg struct {
	id    string
	reply suggest.Suggestion
	err   error
}

// chatInsertMsg asks for suggestion index of batch to be added
type chatInsertMsg struct {
	batch string
	index int
}

// chatInsertedMsg reports that suggestion index of batch was added
type chatInsertedMsg struct {
	batch string
	index int
	err   error
}

// ChatView is the suggestion assistant
type ChatView struct {
	s      *Session
	width  int
	height int

	messages  []chatMessage
	textInput textinput.Model
	spinner   spinner.Model
	waiting   bool
	remote    bool

	// Suggestions still being inserted, one batch per reply
	batches []insertBatch
}

// insertBatch is the titles of one reply, keyed by the message id
type insertBatch struct {
	id     string
	titles []string
}

// titles returns the suggestions of batch id
func (v ChatView) titles(id string) ([]string, bool) {
	for _, b := range v.batches {
		if b.id == id {
			return b.titles, true
		}
	}
	return nil, false
}

// finish drops batch id. The slice is rebuilt so earlier copies of the
// view keep their own batches.
func (v ChatView) finish(id string) []insertBatch {
	var rest []insertBatch
	for _, b := range v.batches {
		if b.id != id {
			rest = append(rest, b)
		}
	}
	return rest
}

// NewChatView creates the chat view with the greeting in place
func NewChatView(s *Session) ChatView {
	ti := newInput()
	ti.Placeholder = "Ask me to plan a project, organize your day, break down a goal..."
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Current.Theme.Primary)

	return ChatView{
		s: s,
		messages: []chatMessage{{
			id:   uuid.NewString(),
			role: roleAssistant,
			text: suggest.Greeting,
		}},
		textInput: ti,
		spinner:   sp,
		remote:    s.Remote && s.Chat != nil,
	}
}

// Init initializes the chat view
func (v ChatView) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize sets the view dimensions
func (v ChatView) SetSize(width, height int) ChatView {
	v.width = width
	v.height = height
	v.textInput.Width = width - 8
	return v
}

// IsInputMode returns whether keys go to the prompt
func (v ChatView) IsInputMode() bool {
	return v.textInput.Focused()
}

// Remote reports whether messages go to the remote assistant
func (v ChatView) Remote() bool {
	return v.remote
}

// Waiting reports whether a reply is outstanding
func (v ChatView) Waiting() bool {
	return v.waiting
}

// Update handles messages
func (v ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		v.waiting = false
		v.messages = append(v.messages, chatMessage{
			id:    uuid.NewString(),
			role:  roleAssistant,
			text:  msg.reply.Message,
			tasks: msg.reply.Tasks,
		})
		if msg.err != nil {
			return v, func() tea.Msg { return ErrMsg{Op: "chat", Err: msg.err} }
		}
		if len(msg.reply.Tasks) == 0 {
			return v, nil
		}
		v.batches = append(slices.Clip(v.batches), insertBatch{id: msg.id, titles: msg.reply.Tasks})
		return v, v.insert(msg.id, msg.reply.Tasks[0], 0)

	case chatInsertMsg:
		titles, ok := v.titles(msg.batch)
		if !ok || msg.index >= len(titles) {
			return v, nil
		}
		return v, v.insert(msg.batch, titles[msg.index], msg.index)

	case chatInsertedMsg:
		titles, ok := v.titles(msg.batch)
		if !ok {
			return v, nil
		}
		if msg.err != nil {
			v.batches = v.finish(msg.batch)
			return v, func() tea.Msg { return ErrMsg{Op: "add suggestion", Err: msg.err} }
		}
		next := msg.index + 1
		if next >= len(titles) {
			v.batches = v.finish(msg.batch)
			return v, status(fmt.Sprintf("✨ Tasks Added! Added %d tasks to today's list.", len(titles)))
		}
		batch := msg.batch
		return v, tea.Tick(v.s.Stagger, func(time.Time) tea.Msg {
			return chatInsertMsg{batch: batch, index: next}
		})

	case spinner.TickMsg:
		if !v.waiting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

func (v ChatView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		if v.s.Chat == nil {
			return v, status("Remote assistant is not configured")
		}
		v.remote = !v.remote
		if v.remote {
			return v, status("Chat: remote assistant")
		}
		return v, status("Chat: local assistant")

	case "ctrl+y":
		return v, v.copySuggestions()

	case "f1", "f2", "f3":
		if len(v.messages) > 1 || v.waiting {
			return v, nil
		}
		i := int(msg.String()[1] - '1')
		return v.send(suggest.QuickPrompts[i].Text)
	}

	if !v.textInput.Focused() {
		switch msg.String() {
		case "i", "enter":
			return v, v.textInput.Focus()
		}
		return v, nil
	}

	switch msg.String() {
	case "enter":
		return v.send(v.textInput.Value())
	case "esc":
		v.textInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.textInput, cmd = v.textInput.Update(msg)
	return v, cmd
}

// send appends the user's message and asks the assistant
func (v ChatView) send(content string) (tea.Model, tea.Cmd) {
	content = strings.TrimSpace(content)
	if content == "" || v.waiting {
		return v, nil
	}
	id := uuid.NewString()
	v.messages = append(v.messages, chatMessage{id: id, role: roleUser, text: content})
	v.textInput.SetValue("")
	v.waiting = true
	return v, tea.Batch(v.spinner.Tick, v.ask(id, content))
}

func (v ChatView) ask(id, content string) tea.Cmd {
	s := v.s
	remote := v.remote
	return func() tea.Msg {
		if !remote {
			return chatReplyMsg{id: id, reply: suggest.Reply(content)}
		}
		resp, err := s.Chat.Chat(s.Ctx, content)
		if err != nil {
			s.Log.Warn().Err(err).Msg("remote chat failed")
			return chatReplyMsg{id: id, reply: suggest.Suggestion{Message: suggest.ErrorReply}, err: err}
		}
		return chatReplyMsg{id: id, reply: suggest.Suggestion{Message: resp.Message, Tasks: resp.Tasks}}
	}
}

// insert adds suggestion index of batch as a task due today
func (v ChatView) insert(batch, title string, index int) tea.Cmd {
	s := v.s
	return func() tea.Msg {
		_, err := s.Store.AddTask(s.Ctx, suggest.TaskFor(title, s.today()))
		return chatInsertedMsg{batch: batch, index: index, err: err}
	}
}

func (v ChatView) copySuggestions() tea.Cmd {
	for i := len(v.messages) - 1; i >= 0; i-- {
		m := v.messages[i]
		if len(m.tasks) == 0 {
			continue
		}
		text := "- " + strings.Join(m.tasks, "\n- ")
		return func() tea.Msg {
			if err := clipboard.WriteAll(text); err != nil {
				return ErrMsg{Op: "copy", Err: err}
			}
			return StatusMsg{Text: fmt.Sprintf("Copied %d suggestions", len(m.tasks))}
		}
	}
	return status("Nothing to copy yet")
}

// View renders the transcript and prompt
func (v ChatView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}
	styles := theme.Current.Styles

	mode := "local"
	if v.remote {
		mode = "remote"
	}
	title := styles.Title.Render("Assistant") + styles.Label.Render(" ("+mode+")")

	var blocks []string
	textWidth := v.width - 6
	for _, m := range v.messages {
		blocks = append(blocks, v.renderMessage(m, textWidth))
	}
	if len(v.messages) == 1 {
		blocks = append(blocks, v.renderQuickPrompts())
	}
	if v.waiting {
		blocks = append(blocks, v.spinner.View()+styles.Label.Render(" thinking..."))
	}
	transcript := strings.Join(blocks, "\n\n")

	inputStyle := styles.Input
	if v.textInput.Focused() {
		inputStyle = styles.InputFocused
	}
	input := inputStyle.Width(v.width - 4).Render(v.textInput.View())

	// Keep the tail of the transcript when it overflows
	avail := v.height - lipgloss.Height(title) - lipgloss.Height(input)
	lines := strings.Split(transcript, "\n")
	if avail > 0 && len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"), input)
}

func (v ChatView) renderMessage(m chatMessage, width int) string {
	styles := theme.Current.Styles
	if m.role == roleUser {
		return styles.ChatUser.Width(width).Render("You: " + m.text)
	}
	lines := []string{styles.ChatAssistant.Width(width).Render(m.text)}
	for i, t := range m.tasks {
		lines = append(lines, styles.Label.Render(fmt.Sprintf("  %d. ", i+1))+t)
	}
	return strings.Join(lines, "\n")
}

func (v ChatView) renderQuickPrompts() string {
	styles := theme.Current.Styles
	var parts []string
	for i, p := range suggest.QuickPrompts {
		parts = append(parts, styles.HelpKey.Render(fmt.Sprintf("F%d", i+1))+styles.HelpDesc.Render(" "+p.Label))
	}
	return strings.Join(parts, styles.HelpSeparator.Render(" │ "))
}
