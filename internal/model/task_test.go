package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPatchMarshal(t *testing.T) {
	tests := []struct {
		name  string
		patch TaskPatch
		want  string
	}{
		{"empty", TaskPatch{}, `{}`},
		{"completed only", TaskPatch{Completed: Ptr(true)}, `{"completed":true}`},
		{"clear list", TaskPatch{Date: Ptr("2024-01-05"), ClearList: true}, `{"date":"2024-01-05","listId":null}`},
		{"set list", TaskPatch{ListID: Ptr("L1")}, `{"listId":"L1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.patch)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestTaskPatchApply(t *testing.T) {
	task := Task{ID: "1", Title: "a", Date: "2024-01-05", ListID: Ptr("L1")}
	got := TaskPatch{Date: Ptr("2024-01-06"), ClearList: true}.Apply(task)

	assert.Equal(t, "2024-01-06", got.Date)
	assert.Nil(t, got.ListID)
	assert.Equal(t, "L1", *task.ListID, "clone source must be untouched")
}

func TestTaskLocation(t *testing.T) {
	scheduled := Task{Date: "2024-01-05"}
	assert.Equal(t, Scheduled("2024-01-05"), scheduled.Location())

	listed := Task{Date: "2024-01-05", ListID: Ptr("L1")}
	id, ok := listed.Location().List()
	assert.True(t, ok)
	assert.Equal(t, "L1", id)
	assert.Empty(t, listed.Location().Date())

	moved := listed.WithLocation(Scheduled("2024-01-07"))
	assert.Nil(t, moved.ListID)
	assert.Equal(t, "2024-01-07", moved.Date)
}

func TestTaskFieldsValidate(t *testing.T) {
	assert.NoError(t, TaskFields{Title: "x", Color: ColorBlue}.Validate())
	assert.True(t, errors.Is(TaskFields{Title: "  "}.Validate(), ErrInvalidTask))
	assert.True(t, errors.Is(TaskFields{Title: "x", Color: "mauve"}.Validate(), ErrInvalidTask))
	assert.True(t, errors.Is(TaskFields{Title: "x", Priority: Ptr(Priority("urgent"))}.Validate(), ErrInvalidTask))
}

func TestCycles(t *testing.T) {
	assert.Equal(t, PriorityMedium, PriorityLow.Next())
	assert.Equal(t, PriorityLow, PriorityHigh.Next())
	assert.Equal(t, ColorRed, ColorTeal.Next())
	assert.Contains(t, ListPalette, RandomListColor())
}
