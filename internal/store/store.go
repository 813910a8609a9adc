// Package store holds the in-memory mirror of the remote task store.
//
// Every task record lives in one ordered collection and carries a single
// model.Location, so a task is either scheduled in the main collection or
// held by exactly one custom list. Mutators block on the remote call and
// reconcile from the server's copy; on failure the mirror is left as it was
// and the error is returned to the caller.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dori/weektodo/internal/model"
)

var (
	// ErrNotFound is returned when a task or list is not in the mirror
	ErrNotFound = errors.New("not found")

	// ErrStale is returned when a response arrives after a newer one for
	// the same task was already applied, or after the task was deleted
	ErrStale = errors.New("stale response discarded")
)

// Remote is the REST surface the store mirrors
type Remote interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	ListLists(ctx context.Context) ([]model.CustomList, error)
	CreateTask(ctx context.Context, fields model.TaskFields) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	CreateList(ctx context.Context, name, color string) (model.CustomList, error)
	DeleteList(ctx context.Context, id string) error
	CreateListTask(ctx context.Context, listID string, fields model.TaskFields) (model.Task, error)
	MoveTask(ctx context.Context, listID, taskID string) (model.Task, error)
}

// Cache persists reconciled snapshots between runs
type Cache interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	LoadSnapshot(ctx context.Context) (Snapshot, error)
}

// Snapshot is a deep copy of the mirror: the main collection in order and
// every custom list with its own tasks.
type Snapshot struct {
	Tasks []model.Task
	Lists []model.CustomList
}

// Options configures a Store
type Options struct {
	Cache     Cache
	Logger    zerolog.Logger
	ChangeBuf int
}

type listMeta struct {
	id    string
	name  string
	color string
}

// Store is the application state shared by the views and commands
type Store struct {
	remote Remote
	cache  Cache
	log    zerolog.Logger

	mu       sync.Mutex
	tasks    []model.Task // one record per task, Location() says where it lives
	lists    []listMeta
	issued   map[string]uint64
	applied  map[string]uint64
	deleted  map[string]bool
	inflight map[string]int

	// saveMu orders cache writes so the last save holds the newest state
	saveMu sync.Mutex

	changes chan Change
}

// New creates an empty store over remote
func New(remote Remote, opts Options) *Store {
	buf := opts.ChangeBuf
	if buf <= 0 {
		buf = 64
	}
	return &Store{
		remote:   remote,
		cache:    opts.Cache,
		log:      opts.Logger.With().Str("component", "store").Logger(),
		issued:   make(map[string]uint64),
		applied:  make(map[string]uint64),
		deleted:  make(map[string]bool),
		inflight: make(map[string]int),
		changes:  make(chan Change, buf),
	}
}

// Load replaces the mirror with the remote store's current state
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.remote.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	lists, err := s.remote.ListLists(ctx)
	if err != nil {
		return fmt.Errorf("load lists: %w", err)
	}

	s.mu.Lock()
	s.replace(Snapshot{Tasks: tasks, Lists: lists})
	s.mu.Unlock()

	s.log.Debug().Int("tasks", len(tasks)).Int("lists", len(lists)).Msg("mirror loaded")
	s.changed(ctx, Change{Kind: Loaded})
	return nil
}

// Warm seeds an empty mirror from the cache so views can render before the
// remote store answers. It reports whether anything was loaded.
func (s *Store) Warm(ctx context.Context) (bool, error) {
	if s.cache == nil {
		return false, nil
	}
	snap, err := s.cache.LoadSnapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("warm from cache: %w", err)
	}

	s.mu.Lock()
	if len(s.tasks) > 0 || len(s.lists) > 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.replace(snap)
	s.mu.Unlock()

	s.emit(Change{Kind: Loaded})
	return len(snap.Tasks) > 0 || len(snap.Lists) > 0, nil
}

// replace rebuilds the mirror from a snapshot. Caller holds s.mu.
func (s *Store) replace(snap Snapshot) {
	s.tasks = s.tasks[:0]
	s.lists = s.lists[:0]
	seen := make(map[string]bool)

	for _, t := range snap.Tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		s.tasks = append(s.tasks, t.Clone().WithLocation(model.Scheduled(t.Date)))
	}
	for _, l := range snap.Lists {
		s.lists = append(s.lists, listMeta{id: l.ID, name: l.Name, color: l.Color})
		for _, t := range l.Tasks {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			s.tasks = append(s.tasks, t.Clone().WithLocation(model.InList(l.ID)))
		}
	}
}

// AddTask creates a task in the main collection
func (s *Store) AddTask(ctx context.Context, fields model.TaskFields) (model.Task, error) {
	if err := fields.Validate(); err != nil {
		return model.Task{}, err
	}
	created, err := s.remote.CreateTask(ctx, fields)
	if err != nil {
		return model.Task{}, fmt.Errorf("add task: %w", err)
	}

	s.mu.Lock()
	created = created.WithLocation(model.Scheduled(created.Date))
	s.put(created)
	s.mu.Unlock()

	s.changed(ctx, Change{Kind: TaskAdded, TaskID: created.ID})
	return created.Clone(), nil
}

// AddTaskToList creates a task held by a custom list
func (s *Store) AddTaskToList(ctx context.Context, listID string, fields model.TaskFields) (model.Task, error) {
	if err := fields.Validate(); err != nil {
		return model.Task{}, err
	}
	created, err := s.remote.CreateListTask(ctx, listID, fields)
	if err != nil {
		return model.Task{}, fmt.Errorf("add task to list %s: %w", listID, err)
	}

	s.ensureList(ctx, listID)

	s.mu.Lock()
	if s.listIndex(listID) < 0 {
		s.mu.Unlock()
		s.log.Warn().Str("list", listID).Str("task", created.ID).Msg("created task for a list the mirror does not hold")
		return created, nil
	}
	created = created.WithLocation(model.InList(listID))
	s.put(created)
	s.mu.Unlock()

	s.changed(ctx, Change{Kind: TaskAdded, TaskID: created.ID, ListID: listID})
	return created.Clone(), nil
}

// UpdateTask sends a partial update and reconciles from the returned task:
// no list reference puts it in the main collection, otherwise it is held
// only by the referenced list.
func (s *Store) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", model.ErrInvalidTask)
	}
	seq := s.issue(id)
	defer s.finish(id)
	updated, err := s.remote.UpdateTask(ctx, id, patch)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	return s.reconcile(ctx, seq, updated, TaskUpdated)
}

// DeleteTask removes a task everywhere. Deleting an absent task is a no-op.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	seq := s.issue(id)
	defer s.finish(id)
	if err := s.remote.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}

	s.mu.Lock()
	if seq > s.applied[id] {
		s.applied[id] = seq
	}
	s.deleted[id] = true
	removed := s.remove(id)
	s.mu.Unlock()

	if removed {
		s.changed(ctx, Change{Kind: TaskDeleted, TaskID: id})
	}
	return nil
}

// AddCustomList creates a list; an empty color picks one from the palette
func (s *Store) AddCustomList(ctx context.Context, name, color string) (model.CustomList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.CustomList{}, fmt.Errorf("%w: list name is required", model.ErrInvalidTask)
	}
	if color == "" {
		color = model.RandomListColor()
	}
	created, err := s.remote.CreateList(ctx, name, color)
	if err != nil {
		return model.CustomList{}, fmt.Errorf("add list: %w", err)
	}

	s.mu.Lock()
	if i := s.listIndex(created.ID); i >= 0 {
		s.lists[i] = listMeta{id: created.ID, name: created.Name, color: created.Color}
	} else {
		s.lists = append(s.lists, listMeta{id: created.ID, name: created.Name, color: created.Color})
	}
	s.mu.Unlock()

	s.changed(ctx, Change{Kind: ListAdded, ListID: created.ID})
	return model.CustomList{ID: created.ID, Name: created.Name, Color: created.Color, Tasks: []model.Task{}}, nil
}

// DeleteCustomList removes a list and the tasks it held
func (s *Store) DeleteCustomList(ctx context.Context, id string) error {
	if err := s.remote.DeleteList(ctx, id); err != nil {
		return fmt.Errorf("delete list %s: %w", id, err)
	}

	s.mu.Lock()
	i := s.listIndex(id)
	if i >= 0 {
		s.lists = append(s.lists[:i], s.lists[i+1:]...)
	}
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if lid, ok := t.Location().List(); ok && lid == id {
			s.deleted[t.ID] = true
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	s.mu.Unlock()

	if i >= 0 {
		s.changed(ctx, Change{Kind: ListDeleted, ListID: id})
	}
	return nil
}

// MoveTaskToDate schedules a task on date and takes it out of any list
func (s *Store) MoveTaskToDate(ctx context.Context, id, date string) (model.Task, error) {
	seq := s.issue(id)
	defer s.finish(id)
	moved, err := s.remote.UpdateTask(ctx, id, model.TaskPatch{Date: &date, ClearList: true})
	if err != nil {
		return model.Task{}, fmt.Errorf("move task %s to %s: %w", id, date, err)
	}
	// The date move wins locally even if the server echoed a list.
	moved = moved.WithLocation(model.Scheduled(date))
	return s.reconcile(ctx, seq, moved, TaskMoved)
}

// MoveTaskToList puts a task in listID and nowhere else
func (s *Store) MoveTaskToList(ctx context.Context, id, listID string) (model.Task, error) {
	seq := s.issue(id)
	defer s.finish(id)
	moved, err := s.remote.MoveTask(ctx, listID, id)
	if err != nil {
		return model.Task{}, fmt.Errorf("move task %s to list %s: %w", id, listID, err)
	}
	moved = moved.WithLocation(model.InList(listID))
	return s.reconcile(ctx, seq, moved, TaskMoved)
}

// ToggleCompleted flips a task's completion flag
func (s *Store) ToggleCompleted(ctx context.Context, id string) (model.Task, error) {
	t, ok := s.Find(id)
	if !ok {
		return model.Task{}, fmt.Errorf("toggle task %s: %w", id, ErrNotFound)
	}
	done := !t.Completed
	return s.UpdateTask(ctx, id, model.TaskPatch{Completed: &done})
}

// RenameTask sets a new title
func (s *Store) RenameTask(ctx context.Context, id, title string) (model.Task, error) {
	title = strings.TrimSpace(title)
	return s.UpdateTask(ctx, id, model.TaskPatch{Title: &title})
}

// CyclePriority advances low -> medium -> high -> low
func (s *Store) CyclePriority(ctx context.Context, id string) (model.Task, error) {
	t, ok := s.Find(id)
	if !ok {
		return model.Task{}, fmt.Errorf("cycle priority %s: %w", id, ErrNotFound)
	}
	next := t.PriorityOrDefault().Next()
	return s.UpdateTask(ctx, id, model.TaskPatch{Priority: &next})
}

// CycleColor advances the task to the next palette color
func (s *Store) CycleColor(ctx context.Context, id string) (model.Task, error) {
	t, ok := s.Find(id)
	if !ok {
		return model.Task{}, fmt.Errorf("cycle color %s: %w", id, ErrNotFound)
	}
	next := t.Color.Next()
	return s.UpdateTask(ctx, id, model.TaskPatch{Color: &next})
}

// Snapshot returns a deep copy of the mirror
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() Snapshot {
	snap := Snapshot{Tasks: []model.Task{}, Lists: make([]model.CustomList, len(s.lists))}
	index := make(map[string]int, len(s.lists))
	for i, l := range s.lists {
		snap.Lists[i] = model.CustomList{ID: l.id, Name: l.name, Color: l.color, Tasks: []model.Task{}}
		index[l.id] = i
	}
	for _, t := range s.tasks {
		if lid, ok := t.Location().List(); ok {
			if i, ok := index[lid]; ok {
				snap.Lists[i].Tasks = append(snap.Lists[i].Tasks, t.Clone())
			}
			continue
		}
		snap.Tasks = append(snap.Tasks, t.Clone())
	}
	return snap
}

// Find looks a task up in the main collection first, then in each list in
// order, returning the first match.
func (s *Store) Find(id string) (model.Task, bool) {
	snap := s.Snapshot()
	for _, t := range snap.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	for _, l := range snap.Lists {
		for _, t := range l.Tasks {
			if t.ID == id {
				return t, true
			}
		}
	}
	return model.Task{}, false
}

// List returns a custom list with its tasks
func (s *Store) List(id string) (model.CustomList, bool) {
	for _, l := range s.Snapshot().Lists {
		if l.ID == id {
			return l, true
		}
	}
	return model.CustomList{}, false
}

// ListByName returns the first list whose name matches, ignoring case
func (s *Store) ListByName(name string) (model.CustomList, bool) {
	for _, l := range s.Snapshot().Lists {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return model.CustomList{}, false
}

// issue stamps a new sequence number for a mutation of id. Callers defer
// finish once the remote call has returned.
func (s *Store) issue(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[id]++
	s.inflight[id]++
	return s.issued[id]
}

func (s *Store) finish(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[id]--; s.inflight[id] <= 0 {
		delete(s.inflight, id)
	}
}

// Pending returns how many requests for id are still in flight
func (s *Store) Pending(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[id]
}

// reconcile applies the server's copy of a task if it is not stale
func (s *Store) reconcile(ctx context.Context, seq uint64, t model.Task, kind ChangeKind) (model.Task, error) {
	if lid, ok := t.Location().List(); ok {
		s.ensureList(ctx, lid)
	}

	s.mu.Lock()
	if s.deleted[t.ID] || seq <= s.applied[t.ID] {
		s.mu.Unlock()
		s.log.Debug().Str("task", t.ID).Uint64("seq", seq).Msg("discarding stale response")
		return t, ErrStale
	}
	s.applied[t.ID] = seq

	if lid, ok := t.Location().List(); ok && s.listIndex(lid) < 0 {
		s.remove(t.ID)
		s.mu.Unlock()
		s.log.Warn().Str("task", t.ID).Str("list", lid).Msg("task references a list the remote store no longer has, dropping it")
		s.changed(ctx, Change{Kind: TaskDeleted, TaskID: t.ID})
		return t, nil
	}
	s.put(t)
	s.mu.Unlock()

	change := Change{Kind: kind, TaskID: t.ID}
	if lid, ok := t.Location().List(); ok {
		change.ListID = lid
	}
	s.changed(ctx, change)
	return t.Clone(), nil
}

// ensureList refreshes the lists from the remote store when listID is not
// mirrored, so a task moved into a list created elsewhere has a home. Lists
// the mirror lacked are added together with their tasks.
func (s *Store) ensureList(ctx context.Context, listID string) {
	s.mu.Lock()
	known := s.listIndex(listID) >= 0
	s.mu.Unlock()
	if known {
		return
	}

	lists, err := s.remote.ListLists(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("list", listID).Msg("failed to refresh lists")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range lists {
		if s.listIndex(l.ID) >= 0 {
			continue
		}
		s.lists = append(s.lists, listMeta{id: l.ID, name: l.Name, color: l.Color})
		for _, t := range l.Tasks {
			if s.deleted[t.ID] || s.applied[t.ID] > 0 || s.has(t.ID) {
				continue
			}
			s.tasks = append(s.tasks, t.Clone().WithLocation(model.InList(l.ID)))
		}
		s.log.Debug().Str("list", l.ID).Msg("picked up list from remote store")
	}
}

// has reports whether a task record exists. Caller holds s.mu.
func (s *Store) has(id string) bool {
	for _, t := range s.tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// put stores t, keeping its position when its location is unchanged and
// moving it to the end otherwise. Caller holds s.mu.
func (s *Store) put(t model.Task) {
	t = t.Clone()
	for i, cur := range s.tasks {
		if cur.ID != t.ID {
			continue
		}
		if sameLocation(cur.Location(), t.Location()) {
			s.tasks[i] = t
			return
		}
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		break
	}
	s.tasks = append(s.tasks, t)
}

// remove drops a task record. Caller holds s.mu.
func (s *Store) remove(id string) bool {
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) listIndex(id string) int {
	for i, l := range s.lists {
		if l.id == id {
			return i
		}
	}
	return -1
}

// sameLocation treats every main-collection date as one place, since the
// main collection is a single ordered collection bucketed by date on read.
func sameLocation(a, b model.Location) bool {
	al, aok := a.List()
	bl, bok := b.List()
	return aok == bok && al == bl
}
