// Package script holds per-request execution state and the debug service
// that exposes action progress from it.
package script

import (
	"sort"
	"sync"
)

// ExecutionContext is a property bag scoped to one request or command.
// Safe for concurrent use.
type ExecutionContext struct {
	mu    sync.RWMutex
	props map[string]any
}

// NewExecutionContext creates an empty context.
func NewExecutionContext() *ExecutionContext {
	return &ExecutionContext{props: make(map[string]any)}
}

// Property returns the value stored under key, or nil.
func (c *ExecutionContext) Property(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.props[key]
}

// HasProperty reports whether key is set.
func (c *ExecutionContext) HasProperty(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.props[key]
	return ok
}

// SetProperty stores value under key.
func (c *ExecutionContext) SetProperty(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props[key] = value
}

// RemoveProperty deletes key.
func (c *ExecutionContext) RemoveProperty(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.props, key)
}

// Keys returns the property names, sorted.
func (c *ExecutionContext) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.props))
	for k := range c.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Execution tracks the current ExecutionContext. Contexts nest: Push makes a
// new one current and Pop restores the previous one.
type Execution struct {
	mu    sync.Mutex
	stack []*ExecutionContext
}

// NewExecution creates an execution with no current context.
func NewExecution() *Execution {
	return &Execution{}
}

// Context returns the current context, or nil.
func (e *Execution) Context() *ExecutionContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1]
}

// Push makes ctx current.
func (e *Execution) Push(ctx *ExecutionContext) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stack = append(e.stack, ctx)
}

// Pop removes the current context and returns it, or nil when none.
func (e *Execution) Pop() *ExecutionContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.stack) == 0 {
		return nil
	}
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return top
}
