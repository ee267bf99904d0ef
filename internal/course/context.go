// Package course holds the course currently shown on the surface and the
// sequence number that orders course fetches.
package course

import (
	"sync"

	"github.com/teebox/annotator/pkg/core"
)

// Context holds the loaded course. It is read from logging handlers on
// other goroutines, so access goes through the mutex.
type Context struct {
	mu     sync.RWMutex
	Course *core.CourseData
	seq    uint64
}

// NewContext creates a Context with no course loaded
func NewContext() *Context {
	return &Context{
		Course: placeholder(),
	}
}

func placeholder() *core.CourseData {
	return &core.CourseData{Name: "No course loaded"}
}

// GetCourse returns the current course
func (c *Context) GetCourse() *core.CourseData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Course
}

// Loaded reports whether a real course is loaded
func (c *Context) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Course.ID != 0
}

// SetCourse sets the current course
func (c *Context) SetCourse(course *core.CourseData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Course = course
}

// Clear goes back to the placeholder course
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Course = placeholder()
}

// NextLoad starts a course fetch and returns its sequence number. Any
// fetch started earlier becomes stale.
func (c *Context) NextLoad() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// IsCurrent reports whether seq belongs to the most recent fetch
func (c *Context) IsCurrent(seq uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return seq == c.seq
}
