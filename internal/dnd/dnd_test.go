package dnd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/store"
)

type fakeMover struct {
	snap  store.Snapshot
	calls []string
}

func (f *fakeMover) Snapshot() store.Snapshot { return f.snap }

func (f *fakeMover) MoveTaskToDate(ctx context.Context, id, date string) (model.Task, error) {
	f.calls = append(f.calls, "date:"+id+":"+date)
	return model.Task{ID: id, Date: date}, nil
}

func (f *fakeMover) MoveTaskToList(ctx context.Context, id, listID string) (model.Task, error) {
	f.calls = append(f.calls, "list:"+id+":"+listID)
	return model.Task{ID: id, ListID: &listID}, nil
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		id      string
		want    Target
		wantErr bool
	}{
		{id: "date-2024-01-05", want: Target{Kind: DateKind, Value: "2024-01-05"}},
		{id: "list-abc", want: Target{Kind: ListKind, Value: "abc"}},
		{id: "list-date-x", want: Target{Kind: ListKind, Value: "date-x"}},
		{id: "day-2024-01-05", wantErr: true},
		{id: "date-", wantErr: true},
		{id: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := ParseTarget(tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.id, got.String())
		})
	}
}

func TestPickUpScansMainThenLists(t *testing.T) {
	f := &fakeMover{snap: store.Snapshot{
		Tasks: []model.Task{{ID: "1", Title: "main"}},
		Lists: []model.CustomList{
			{ID: "a", Tasks: []model.Task{{ID: "2", Title: "first list"}}},
			{ID: "b", Tasks: []model.Task{{ID: "3", Title: "second list"}}},
		},
	}}
	c := New(f)

	got, ok := c.PickUp("3")
	require.True(t, ok)
	assert.Equal(t, "second list", got.Title)

	_, ok = c.PickUp("nope")
	assert.False(t, ok)
}

func TestDropDispatches(t *testing.T) {
	f := &fakeMover{}
	c := New(f)
	ctx := context.Background()

	_, err := c.Drop(ctx, "1", DateTarget("2024-01-09"))
	require.NoError(t, err)
	_, err = c.Drop(ctx, "1", ListTarget("L"))
	require.NoError(t, err)
	_, err = c.Drop(ctx, "1", "bogus-1")
	assert.ErrorIs(t, err, ErrUnknownTarget)

	assert.Equal(t, []string{"date:1:2024-01-09", "list:1:L"}, f.calls)
}
