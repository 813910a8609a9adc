package store

import "context"

// ChangeKind describes what happened to the mirror
type ChangeKind int

const (
	Loaded ChangeKind = iota
	TaskAdded
	TaskUpdated
	TaskDeleted
	TaskMoved
	ListAdded
	ListDeleted
)

func (k ChangeKind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case TaskAdded:
		return "task-added"
	case TaskUpdated:
		return "task-updated"
	case TaskDeleted:
		return "task-deleted"
	case TaskMoved:
		return "task-moved"
	case ListAdded:
		return "list-added"
	case ListDeleted:
		return "list-deleted"
	}
	return "unknown"
}

// Change is emitted after a mutation has been applied to the mirror
type Change struct {
	Kind   ChangeKind
	TaskID string
	ListID string
}

// Changes returns the feed of applied mutations. Events are dropped when
// nobody keeps up with the buffer.
func (s *Store) Changes() <-chan Change {
	return s.changes
}

// changed persists the new snapshot and notifies subscribers. Saves are
// serialized and each one snapshots after taking saveMu, so a slow writer
// can never overwrite the cache with an older state.
func (s *Store) changed(ctx context.Context, c Change) {
	if s.cache != nil {
		s.saveMu.Lock()
		err := s.cache.SaveSnapshot(ctx, s.Snapshot())
		s.saveMu.Unlock()
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to save snapshot to cache")
		}
	}
	s.emit(c)
}

func (s *Store) emit(c Change) {
	select {
	case s.changes <- c:
	default:
		s.log.Debug().Stringer("kind", c.Kind).Msg("change feed full, dropping event")
	}
}
