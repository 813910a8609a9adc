// Package api is the HTTP client for the remote task store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/dori/weektodo/internal/model"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-Id"

// Options configures a Client
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Attempts   int
	BaseDelay  time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to the remote task store REST API
type Client struct {
	base      *url.URL
	http      *http.Client
	timeout   time.Duration
	attempts  int
	baseDelay time.Duration
	log       zerolog.Logger
}

// ChatReply is the remote assistant's answer
type ChatReply struct {
	Message string   `json:"message"`
	Tasks   []string `json:"tasks"`
}

// New creates a client for the store at opts.BaseURL
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}

	c := &Client{
		base:      base,
		http:      opts.HTTPClient,
		timeout:   opts.Timeout,
		attempts:  opts.Attempts,
		baseDelay: opts.BaseDelay,
		log:       opts.Logger.With().Str("component", "api").Logger(),
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = 10 * time.Second
	}
	if c.attempts < 1 {
		c.attempts = 1
	}
	if c.baseDelay <= 0 {
		c.baseDelay = 200 * time.Millisecond
	}
	return c, nil
}

// BaseURL returns the store address the client was built with
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ListTasks returns the main collection (tasks without a list)
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks, true); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListLists returns every custom list with its tasks
func (c *Client) ListLists(ctx context.Context) ([]model.CustomList, error) {
	var lists []model.CustomList
	if err := c.do(ctx, http.MethodGet, "/api/lists", nil, &lists, true); err != nil {
		return nil, err
	}
	for i := range lists {
		if lists[i].Tasks == nil {
			lists[i].Tasks = []model.Task{}
		}
	}
	return lists, nil
}

// CreateTask adds a task to the main collection
func (c *Client) CreateTask(ctx context.Context, fields model.TaskFields) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", fields, &task, false)
	return task, err
}

// UpdateTask applies a partial update and returns the server's copy
func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), patch, &task, true)
	return task, err
}

// DeleteTask removes a task; unknown ids are not an error on the server
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, true)
}

// CreateList adds a custom list
func (c *Client) CreateList(ctx context.Context, name, color string) (model.CustomList, error) {
	body := map[string]string{"name": name, "color": color}
	var list model.CustomList
	if err := c.do(ctx, http.MethodPost, "/api/lists", body, &list, false); err != nil {
		return model.CustomList{}, err
	}
	if list.Tasks == nil {
		list.Tasks = []model.Task{}
	}
	return list, nil
}

// DeleteList removes a custom list
func (c *Client) DeleteList(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/lists/"+url.PathEscape(id), nil, nil, true)
}

// CreateListTask adds a task directly to a custom list
func (c *Client) CreateListTask(ctx context.Context, listID string, fields model.TaskFields) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, http.MethodPost, "/api/lists/"+url.PathEscape(listID)+"/tasks", fields, &task, false)
	return task, err
}

// MoveTask reassigns a task to a custom list. Repeating it is harmless,
// so it is retried like the other idempotent calls.
func (c *Client) MoveTask(ctx context.Context, listID, taskID string) (model.Task, error) {
	path := fmt.Sprintf("/api/lists/%s/tasks/%s/move", url.PathEscape(listID), url.PathEscape(taskID))
	var task model.Task
	err := c.do(ctx, http.MethodPost, path, nil, &task, true)
	return task, err
}

// Chat asks the remote assistant for a task breakdown
func (c *Client) Chat(ctx context.Context, message string) (ChatReply, error) {
	var reply ChatReply
	err := c.do(ctx, http.MethodPost, "/api/ai/chat", map[string]string{"message": message}, &reply, false)
	return reply, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, idempotent bool) error {
	op := method + " " + path

	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
	}

	attempts := 1
	if idempotent {
		attempts = c.attempts
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(c.baseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.roundTrip(ctx, op, method, path, payload, out)
		if err != nil && IsTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, payload []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := &Error{Op: op, Err: err}
		c.logResult(method, path, reqID, 0, start, apiErr)
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{Op: op, Status: resp.StatusCode, Err: errorBody(resp)}
		c.logResult(method, path, reqID, resp.StatusCode, start, apiErr)
		return apiErr
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			apiErr := &Error{Op: op, Status: 0, Err: fmt.Errorf("%w: %v", errDecode, err)}
			c.logResult(method, path, reqID, resp.StatusCode, start, apiErr)
			return apiErr
		}
	}
	c.logResult(method, path, reqID, resp.StatusCode, start, nil)
	return nil
}

// errorBody extracts the server's {"error": msg} message
func errorBody(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return errors.New(body.Error)
	}
	return errors.New(strings.ToLower(http.StatusText(resp.StatusCode)))
}

func (c *Client) logResult(method, path, reqID string, status int, start time.Time, err *Error) {
	ev := c.log.Debug()
	if err != nil {
		ev = c.log.Warn().Err(err).Str("class", err.Class())
	}
	ev.Str("method", method).
		Str("path", path).
		Str("request_id", reqID).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("remote call")
}
