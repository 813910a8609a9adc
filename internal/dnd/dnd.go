// Package dnd turns drag-and-drop gestures into store moves.
package dnd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/store"
)

const (
	datePrefix = "date-"
	listPrefix = "list-"
)

// ErrUnknownTarget is returned for drop target ids without a known prefix
var ErrUnknownTarget = errors.New("unknown drop target")

// Kind is the family a drop target belongs to
type Kind int

const (
	DateKind Kind = iota
	ListKind
)

// Target is a parsed drop target
type Target struct {
	Kind  Kind
	Value string // ISO date or list id
}

func (t Target) String() string {
	if t.Kind == ListKind {
		return ListTarget(t.Value)
	}
	return DateTarget(t.Value)
}

// DateTarget returns the drop target id for a day
func DateTarget(date string) string {
	return datePrefix + date
}

// ListTarget returns the drop target id for a custom list
func ListTarget(listID string) string {
	return listPrefix + listID
}

// ParseTarget splits a drop target id into its family and value
func ParseTarget(id string) (Target, error) {
	switch {
	case strings.HasPrefix(id, datePrefix) && len(id) > len(datePrefix):
		return Target{Kind: DateKind, Value: strings.TrimPrefix(id, datePrefix)}, nil
	case strings.HasPrefix(id, listPrefix) && len(id) > len(listPrefix):
		return Target{Kind: ListKind, Value: strings.TrimPrefix(id, listPrefix)}, nil
	}
	return Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
}

// Mover is the part of the store a drop needs
type Mover interface {
	Snapshot() store.Snapshot
	MoveTaskToDate(ctx context.Context, id, date string) (model.Task, error)
	MoveTaskToList(ctx context.Context, id, listID string) (model.Task, error)
}

// Coordinator resolves picked up tasks and dispatches drops
type Coordinator struct {
	store Mover
}

// New creates a coordinator over s
func New(s Mover) *Coordinator {
	return &Coordinator{store: s}
}

// PickUp finds the dragged task: the main collection first, then each list
// in order, first match wins.
func (c *Coordinator) PickUp(taskID string) (model.Task, bool) {
	snap := c.store.Snapshot()
	for _, t := range snap.Tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	for _, l := range snap.Lists {
		for _, t := range l.Tasks {
			if t.ID == taskID {
				return t, true
			}
		}
	}
	return model.Task{}, false
}

// Drop moves taskID onto the target named by targetID
func (c *Coordinator) Drop(ctx context.Context, taskID, targetID string) (model.Task, error) {
	target, err := ParseTarget(targetID)
	if err != nil {
		return model.Task{}, err
	}
	switch target.Kind {
	case ListKind:
		return c.store.MoveTaskToList(ctx, taskID, target.Value)
	default:
		return c.store.MoveTaskToDate(ctx, taskID, target.Value)
	}
}
