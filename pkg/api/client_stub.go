package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
)

type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// ClientStub is an in-memory Client for service tests. Responses are canned per "METHOD path".
// GET requests without a canned response answer 404; mutations without one succeed with no body.
type ClientStub struct {
	mu        sync.Mutex
	responses map[string]string
	errors    map[string]error
	calls     []Call
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		responses: make(map[string]string),
		errors:    make(map[string]error),
	}
}

func key(method, path string) string {
	return method + " " + path
}

func (c *ClientStub) SetResponse(method, path, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[key(method, path)] = body
}

func (c *ClientStub) SetError(method, path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors[key(method, path)] = err
}

func (c *ClientStub) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

func (c *ClientStub) CallsTo(method, path string) []Call {
	var matching []Call
	for _, call := range c.Calls() {
		if call.Method == method && call.Path == path {
			matching = append(matching, call)
		}
	}
	return matching
}

func (c *ClientStub) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = make(map[string]string)
	c.errors = make(map[string]error)
	c.calls = nil
}

func (c *ClientStub) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.handle(http.MethodGet, path, query, nil, out)
}

func (c *ClientStub) Post(ctx context.Context, path string, body any, out any) error {
	return c.handle(http.MethodPost, path, nil, body, out)
}

func (c *ClientStub) Put(ctx context.Context, path string, body any, out any) error {
	return c.handle(http.MethodPut, path, nil, body, out)
}

func (c *ClientStub) Patch(ctx context.Context, path string, body any, out any) error {
	return c.handle(http.MethodPatch, path, nil, body, out)
}

func (c *ClientStub) Delete(ctx context.Context, path string) error {
	return c.handle(http.MethodDelete, path, nil, nil, nil)
}

func (c *ClientStub) PostPublic(ctx context.Context, path string, body any, out any) error {
	return c.handle(http.MethodPost, path, nil, body, out)
}

func (c *ClientStub) handle(method, path string, query url.Values, body any, out any) error {
	var raw []byte
	if body != nil {
		var err error
		if raw, err = json.Marshal(body); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.calls = append(c.calls, Call{Method: method, Path: path, Query: query, Body: raw})
	err, hasErr := c.errors[key(method, path)]
	response, hasResponse := c.responses[key(method, path)]
	c.mu.Unlock()

	if hasErr {
		return err
	}
	if !hasResponse {
		if method == http.MethodGet {
			return &StatusError{Method: method, Path: path, Status: http.StatusNotFound}
		}
		return nil
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(response), out)
}
