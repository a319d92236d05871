// Package session holds per-session mutable state: the current table, its
// column classification, and the current chart. Contexts are keyed by a
// session identifier so concurrent users never share state.
package session

import (
	"sync"
	"time"

	"github.com/Chetan-316/visualcraft/internal/chartbuild"
	"github.com/Chetan-316/visualcraft/internal/dataset"
)

// Context is the single-slot holder for one session's current table and
// chart. Slots are replaced wholesale, never merged. All access is
// serialized behind the context's own lock, so independent UI operations
// (upload, chart build, export) can run concurrently against one session
// without observing torn state.
type Context struct {
	mu        sync.RWMutex
	createdAt time.Time

	table *dataset.Table
	class dataset.Classification
	chart *chartbuild.Chart
}

func newContext() *Context {
	return &Context{createdAt: time.Now()}
}

// CreatedAt returns when the session context was created.
func (c *Context) CreatedAt() time.Time {
	return c.createdAt
}

// SetTable installs a freshly loaded table and its classification, replacing
// any previous dataset. The chart slot is cleared: a chart built from the
// old table must not outlive it.
func (c *Context) SetTable(t *dataset.Table, class dataset.Classification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = t
	c.class = class
	c.chart = nil
}

// ClearTable empties both slots. Called after a failed upload so a stale
// table is never read against a rejected file.
func (c *Context) ClearTable() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = nil
	c.class = dataset.Classification{}
	c.chart = nil
}

// SetChart replaces the chart slot with a successfully built chart. Failed
// builds never reach this method; the last good chart stays exportable.
func (c *Context) SetChart(ch *chartbuild.Chart) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chart = ch
}

// Table returns the current table and classification, if any.
func (c *Context) Table() (*dataset.Table, dataset.Classification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table, c.class, c.table != nil
}

// Chart returns the current chart, if any.
func (c *Context) Chart() (*chartbuild.Chart, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.chart, c.chart != nil
}

// Snapshot returns both slots under a single lock acquisition, so an export
// that needs table and chart together sees a consistent pair.
func (c *Context) Snapshot() (*dataset.Table, *chartbuild.Chart) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table, c.chart
}
