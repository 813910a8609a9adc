// Package apitest provides an in-memory remote task store for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/dori/weektodo/internal/api"
	"github.com/dori/weektodo/internal/model"
)

// Request is a call the fake store received
type Request struct {
	Method    string
	Path      string
	Body      string
	RequestID string
}

type failure struct {
	method string
	prefix string
	status int
	left   int
}

// Server is a fake remote task store with the reference backend semantics:
// ids are assigned server-side, GET /api/tasks returns only tasks without a
// list, deleting a list deletes its tasks, deleting an unknown id is 204.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	nextID    int
	tasks     map[string]*model.Task
	taskOrder []string
	lists     map[string]*model.CustomList
	listOrder []string
	requests  []Request
	failures  []*failure
	chat      *api.ChatReply
}

// NewServer starts a fake store; callers must Close it
func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		tasks: make(map[string]*model.Task),
		lists: make(map[string]*model.CustomList),
	}

	r := gin.New()
	r.Use(s.record, s.inject)
	r.GET("/api/tasks", s.handleGetTasks)
	r.POST("/api/tasks", s.handleCreateTask)
	r.PUT("/api/tasks/:id", s.handleUpdateTask)
	r.DELETE("/api/tasks/:id", s.handleDeleteTask)
	r.GET("/api/lists", s.handleGetLists)
	r.POST("/api/lists", s.handleCreateList)
	r.DELETE("/api/lists/:id", s.handleDeleteList)
	r.POST("/api/lists/:id/tasks", s.handleCreateListTask)
	r.POST("/api/lists/:id/tasks/:taskId/move", s.handleMoveTask)
	r.POST("/api/ai/chat", s.handleChat)

	s.Server = httptest.NewServer(r)
	return s
}

// Fail makes the next n requests matching method and path prefix answer status
func (s *Server) Fail(method, pathPrefix string, status, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, &failure{method: method, prefix: pathPrefix, status: status, left: n})
}

// SetChatReply configures the assistant endpoint; nil makes it answer 500
func (s *Server) SetChatReply(reply *api.ChatReply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = reply
}

// Requests returns every request received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests matched method and path exactly
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// SeedTask inserts a task directly, bypassing the API
func (s *Server) SeedTask(t model.Task) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = s.newID()
	}
	task := t.Clone()
	s.tasks[t.ID] = &task
	s.taskOrder = append(s.taskOrder, t.ID)
	return task
}

// SeedList inserts a list directly, bypassing the API
func (s *Server) SeedList(name, color string) model.CustomList {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &model.CustomList{ID: s.newID(), Name: name, Color: color}
	s.lists[l.ID] = l
	s.listOrder = append(s.listOrder, l.ID)
	return *l
}

// Task returns the server's copy of a task
func (s *Server) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, false
	}
	return t.Clone(), true
}

func (s *Server) newID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		data, err := c.GetRawData()
		if err == nil {
			body = data
			c.Request.Body = io.NopCloser(bytes.NewReader(data))
		}
	}
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		Body:      string(body),
		RequestID: c.GetHeader(api.RequestIDHeader),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	s.mu.Lock()
	for _, f := range s.failures {
		if f.left > 0 && f.method == c.Request.Method && strings.HasPrefix(c.Request.URL.Path, f.prefix) {
			f.left--
			s.mu.Unlock()
			c.AbortWithStatusJSON(f.status, gin.H{"error": "injected failure"})
			return
		}
	}
	s.mu.Unlock()
	c.Next()
}

func (s *Server) handleGetTasks(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Task{}
	for _, id := range s.taskOrder {
		if t := s.tasks[id]; t.ListID == nil {
			out = append(out, t.Clone())
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	s.createTask(c, nil)
}

func (s *Server) handleCreateListTask(c *gin.Context) {
	listID := c.Param("id")
	s.mu.Lock()
	_, ok := s.lists[listID]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}
	s.createTask(c, &listID)
}

func (s *Server) createTask(c *gin.Context, listID *string) {
	var fields model.TaskFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if fields.Color == "" {
		fields.Color = model.ColorBlue
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t := &model.Task{
		ID:        s.newID(),
		Title:     fields.Title,
		Completed: fields.Completed,
		Date:      fields.Date,
		Time:      fields.Time,
		Color:     fields.Color,
		Recurring: fields.Recurring,
		ListID:    listID,
		Reminder:  fields.Reminder,
		Priority:  fields.Priority,
	}
	s.tasks[t.ID] = t
	s.taskOrder = append(s.taskOrder, t.ID)
	c.JSON(http.StatusCreated, t.Clone())
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	var patch model.TaskPatch
	decode := func(key string, dst any) {
		if v, ok := raw[key]; ok {
			_ = json.Unmarshal(v, dst)
		}
	}
	decode("title", &patch.Title)
	decode("completed", &patch.Completed)
	decode("date", &patch.Date)
	decode("time", &patch.Time)
	decode("color", &patch.Color)
	decode("recurring", &patch.Recurring)
	decode("priority", &patch.Priority)
	if v, ok := raw["listId"]; ok {
		if string(v) == "null" {
			patch.ClearList = true
		} else {
			decode("listId", &patch.ListID)
		}
	}

	updated := patch.Apply(*t)
	*t = updated
	c.JSON(http.StatusOK, updated.Clone())
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeTask(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) removeTask(id string) {
	if _, ok := s.tasks[id]; !ok {
		return
	}
	delete(s.tasks, id)
	for i, tid := range s.taskOrder {
		if tid == id {
			s.taskOrder = append(s.taskOrder[:i], s.taskOrder[i+1:]...)
			break
		}
	}
}

func (s *Server) handleGetLists(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.CustomList{}
	for _, id := range s.listOrder {
		out = append(out, s.listWithTasks(id))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listWithTasks(id string) model.CustomList {
	l := *s.lists[id]
	l.Tasks = []model.Task{}
	for _, tid := range s.taskOrder {
		if t := s.tasks[tid]; t.ListID != nil && *t.ListID == id {
			l.Tasks = append(l.Tasks, t.Clone())
		}
	}
	return l
}

func (s *Server) handleCreateList(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Color == "" {
		req.Color = "bg-gradient-to-r from-blue-500 to-purple-500"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l := &model.CustomList{ID: s.newID(), Name: req.Name, Color: req.Color}
	s.lists[l.ID] = l
	s.listOrder = append(s.listOrder, l.ID)
	c.JSON(http.StatusCreated, s.listWithTasks(l.ID))
}

func (s *Server) handleDeleteList(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[id]; !ok {
		c.Status(http.StatusNoContent)
		return
	}
	for _, tid := range append([]string(nil), s.taskOrder...) {
		if t := s.tasks[tid]; t.ListID != nil && *t.ListID == id {
			s.removeTask(tid)
		}
	}
	delete(s.lists, id)
	for i, lid := range s.listOrder {
		if lid == id {
			s.listOrder = append(s.listOrder[:i], s.listOrder[i+1:]...)
			break
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMoveTask(c *gin.Context) {
	listID, taskID := c.Param("id"), c.Param("taskId")
	s.mu.Lock()
	defer s.mu.Unlock()
	_, listOK := s.lists[listID]
	t, taskOK := s.tasks[taskID]
	if !listOK || !taskOK {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task or List not found"})
		return
	}
	t.ListID = &listID
	c.JSON(http.StatusOK, t.Clone())
}

func (s *Server) handleChat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	s.mu.Lock()
	reply := s.chat
	s.mu.Unlock()
	if reply == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI API key not configured"})
		return
	}
	c.JSON(http.StatusOK, reply)
}
