package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/weektodo/internal/api"
	"github.com/dori/weektodo/internal/api/apitest"
	"github.com/dori/weektodo/internal/model"
)

func newClient(t *testing.T, srv *apitest.Server) *api.Client {
	t.Helper()
	c, err := api.New(api.Options{
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
		Attempts:  3,
		BaseDelay: time.Millisecond,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := api.New(api.Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}

func TestTaskRoundTrip(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, model.TaskFields{Title: "Write report", Date: "2024-01-05", Color: model.ColorRed})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.ListID)

	updated, err := c.UpdateTask(ctx, created.ID, model.TaskPatch{Completed: model.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Write report", updated.Title)

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	require.NoError(t, c.DeleteTask(ctx, created.ID))
	require.NoError(t, c.DeleteTask(ctx, created.ID), "deleting twice is not an error")

	tasks, err = c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListsAndMove(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)
	ctx := context.Background()

	list, err := c.CreateList(ctx, "Groceries", "from-blue-500 to-cyan-500")
	require.NoError(t, err)
	assert.Empty(t, list.Tasks)

	task, err := c.CreateTask(ctx, model.TaskFields{Title: "Milk", Date: "2024-01-05"})
	require.NoError(t, err)

	moved, err := c.MoveTask(ctx, list.ID, task.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ListID)
	assert.Equal(t, list.ID, *moved.ListID)

	lists, err := c.ListLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Len(t, lists[0].Tasks, 1)
	assert.Equal(t, task.ID, lists[0].Tasks[0].ID)

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks, "listed tasks leave the main collection")

	back, err := c.UpdateTask(ctx, task.ID, model.TaskPatch{Date: model.Ptr("2024-01-06"), ClearList: true})
	require.NoError(t, err)
	assert.Nil(t, back.ListID)
}

func TestUpdateUnknownTaskIsPermanentNotFound(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)

	_, err := c.UpdateTask(context.Background(), "missing", model.TaskPatch{Title: model.Ptr("x")})
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.False(t, api.IsTransient(err))
	assert.Contains(t, err.Error(), "Task not found")
	assert.Equal(t, 1, srv.Count(http.MethodPut, "/api/tasks/missing"))
}

func TestTransientErrorsRetryIdempotentCalls(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)

	srv.Fail(http.MethodGet, "/api/tasks", http.StatusServiceUnavailable, 2)
	_, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, srv.Count(http.MethodGet, "/api/tasks"))
}

func TestTransientErrorsGiveUpAfterAttempts(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)

	srv.Fail(http.MethodDelete, "/api/tasks/", http.StatusBadGateway, 10)
	err := c.DeleteTask(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, api.IsTransient(err))
	assert.Equal(t, 3, srv.Count(http.MethodDelete, "/api/tasks/1"))
}

func TestCreateIsNeverRetried(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)

	srv.Fail(http.MethodPost, "/api/tasks", http.StatusInternalServerError, 1)
	_, err := c.CreateTask(context.Background(), model.TaskFields{Title: "once"})
	require.Error(t, err)
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/api/tasks"))
}

func TestRequestsCarryRequestID(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)

	_, err := c.ListLists(context.Background())
	require.NoError(t, err)
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Len(t, reqs[0].RequestID, 36)
}

func TestChat(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c := newClient(t, srv)
	ctx := context.Background()

	_, err := c.Chat(ctx, "plan my week")
	require.Error(t, err, "no assistant configured")

	srv.SetChatReply(&api.ChatReply{Message: "ok", Tasks: []string{"a", "b"}})
	reply, err := c.Chat(ctx, "plan my week")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, reply.Tasks)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
		{http.StatusRequestTimeout, true},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
	}
	for _, tt := range tests {
		err := &api.Error{Op: "GET /api/tasks", Status: tt.status, Err: assert.AnError}
		assert.Equal(t, tt.transient, api.IsTransient(err), "status %d", tt.status)
	}
	assert.True(t, api.IsTransient(&api.Error{Op: "GET", Err: assert.AnError}), "no response is transient")
	assert.False(t, api.IsTransient(&api.Error{Op: "GET", Err: context.Canceled}))
}
