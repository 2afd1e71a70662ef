// Package notelist holds the client's in-memory copy of the note collection
// and the search filter over it.
package notelist

import (
	"slices"
	"strings"
	"sync"

	"github.com/mrshanahan/notes-web/internal/utils"
	"github.com/mrshanahan/notes-web/pkg/notes"
)

// Cache mirrors the notes known to one client session, newest first. It is
// not the source of truth; entries are only ever written from API
// responses.
type Cache struct {
	mu    sync.RWMutex
	notes []notes.Note
}

func NewCache(initial []notes.Note) *Cache {
	c := &Cache{}
	c.Replace(initial)
	return c
}

func (c *Cache) Replace(ns []notes.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = slices.Clone(ns)
}

// Prepend adds n at the front, dropping any older entry with the same id.
func (c *Cache) Prepend(n notes.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = slices.DeleteFunc(c.notes, func(x notes.Note) bool { return x.ID == n.ID })
	c.notes = slices.Insert(c.notes, 0, n)
}

// Upsert replaces the entry with n's id in place, or prepends n.
func (c *Cache) Upsert(n notes.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(n.ID); i >= 0 {
		c.notes[i] = n
		return
	}
	c.notes = slices.Insert(c.notes, 0, n)
}

func (c *Cache) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.notes = slices.Delete(c.notes, i, i+1)
	return true
}

func (c *Cache) Get(id string) (notes.Note, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.notes[i], true
	}
	return notes.Note{}, false
}

// All returns a copy of the cached notes in order.
func (c *Cache) All() []notes.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.notes)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.notes)
}

func (c *Cache) indexOf(id string) int {
	return slices.IndexFunc(c.notes, func(n notes.Note) bool { return n.ID == id })
}

// Filter returns the notes whose title, content or one of whose tags
// contains query, ignoring case. An empty query returns ns as is.
func Filter(ns []notes.Note, query string) []notes.Note {
	if query == "" {
		return ns
	}
	q := strings.ToLower(query)
	return utils.Filter(ns, func(n notes.Note) bool { return matches(n, q) })
}

func Matches(n notes.Note, query string) bool {
	return matches(n, strings.ToLower(query))
}

func matches(n notes.Note, lowerQuery string) bool {
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), lowerQuery) }
	return contains(n.Title) || contains(n.Content) || utils.Any(n.Tags, contains)
}
