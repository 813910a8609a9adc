package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/quickadd"
)

// addTask parses a quick-add line and adds the task to day, or to the list
// named by a list: token or by listID.
func (s *Session) addTask(text string, day time.Time, listID string) tea.Cmd {
	entry, err := quickadd.Parse(text, day)
	if err != nil {
		return func() tea.Msg { return ErrMsg{Op: "add", Err: err} }
	}
	if entry.List != "" {
		l, ok := s.Store.ListByName(entry.List)
		if !ok {
			return func() tea.Msg {
				return ErrMsg{Op: "add", Err: fmt.Errorf("no list named %q", entry.List)}
			}
		}
		listID = l.ID
	}
	return s.run("add", func(ctx context.Context) (string, error) {
		var (
			t   model.Task
			err error
		)
		if listID != "" {
			t, err = s.Store.AddTaskToList(ctx, listID, entry.Fields)
		} else {
			t, err = s.Store.AddTask(ctx, entry.Fields)
		}
		if err != nil {
			return "", err
		}
		return "Added " + t.Title, nil
	})
}

func (s *Session) toggleTask(id string) tea.Cmd {
	return s.run("toggle", func(ctx context.Context) (string, error) {
		t, err := s.Store.ToggleCompleted(ctx, id)
		if err != nil {
			return "", err
		}
		if t.Completed {
			return "Completed " + t.Title, nil
		}
		return "Reopened " + t.Title, nil
	})
}

func (s *Session) renameTask(id, title string) tea.Cmd {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	return s.run("rename", func(ctx context.Context) (string, error) {
		_, err := s.Store.RenameTask(ctx, id, title)
		return "", err
	})
}

func (s *Session) deleteTask(id, title string) tea.Cmd {
	return s.run("delete", func(ctx context.Context) (string, error) {
		if err := s.Store.DeleteTask(ctx, id); err != nil {
			return "", err
		}
		return "Deleted " + title, nil
	})
}

func (s *Session) cyclePriority(id string) tea.Cmd {
	return s.run("priority", func(ctx context.Context) (string, error) {
		t, err := s.Store.CyclePriority(ctx, id)
		if err != nil {
			return "", err
		}
		return "Priority: " + string(t.PriorityOrDefault()), nil
	})
}

func (s *Session) cycleColor(id string) tea.Cmd {
	return s.run("color", func(ctx context.Context) (string, error) {
		t, err := s.Store.CycleColor(ctx, id)
		if err != nil {
			return "", err
		}
		return "Color: " + string(t.Color), nil
	})
}

func (s *Session) addList(name string) tea.Cmd {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return s.run("new list", func(ctx context.Context) (string, error) {
		l, err := s.Store.AddCustomList(ctx, name, "")
		if err != nil {
			return "", err
		}
		return "Created list " + l.Name, nil
	})
}

func (s *Session) deleteList(id, name string) tea.Cmd {
	return s.run("delete list", func(ctx context.Context) (string, error) {
		if err := s.Store.DeleteCustomList(ctx, id); err != nil {
			return "", err
		}
		return "Deleted list " + name, nil
	})
}
