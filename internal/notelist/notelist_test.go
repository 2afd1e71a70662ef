package notelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrshanahan/notes-web/pkg/notes"
)

func sample() []notes.Note {
	return []notes.Note{
		{ID: "1", Title: "Groceries", Content: "milk, eggs", Tags: []string{"home"}},
		{ID: "2", Title: "Standup", Content: "Ship the RELEASE", Tags: []string{"work"}},
		{ID: "3", Title: "Ideas", Content: "nothing yet", Tags: []string{"Someday", "home-office"}},
	}
}

func ids(ns []notes.Note) []string {
	out := []string{}
	for _, n := range ns {
		out = append(out, n.ID)
	}
	return out
}

func TestFilterEmptyQueryReturnsInput(t *testing.T) {
	ns := sample()
	assert.Equal(t, ns, Filter(ns, ""))
}

func TestFilter(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"groc", []string{"1"}},
		{"GROC", []string{"1"}},
		{"release", []string{"2"}},
		{"home", []string{"1", "3"}},
		{"someday", []string{"3"}},
		{"e", []string{"1", "2", "3"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ns := sample()
			got := Filter(ns, tt.query)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, sample(), ns, "filter must not mutate its input")
		})
	}
}

func TestFilterMatchesPredicate(t *testing.T) {
	ns := sample()
	for _, q := range []string{"o", "Home", "MILK", "work", "x"} {
		got := Filter(ns, q)
		var want []string
		for _, n := range ns {
			if Matches(n, q) {
				want = append(want, n.ID)
			}
		}
		if want == nil {
			want = []string{}
		}
		assert.Equal(t, want, ids(got), q)
	}
}

func TestCacheOperations(t *testing.T) {
	c := NewCache(sample())
	require.Equal(t, 3, c.Len())

	c.Prepend(notes.Note{ID: "4", Title: "new"})
	assert.Equal(t, []string{"4", "1", "2", "3"}, ids(c.All()))

	c.Upsert(notes.Note{ID: "2", Title: "Standup v2"})
	assert.Equal(t, []string{"4", "1", "2", "3"}, ids(c.All()))
	n, ok := c.Get("2")
	require.True(t, ok)
	assert.Equal(t, "Standup v2", n.Title)

	c.Upsert(notes.Note{ID: "5"})
	assert.Equal(t, "5", c.All()[0].ID)

	assert.True(t, c.Remove("1"))
	assert.False(t, c.Remove("1"))
	_, ok = c.Get("1")
	assert.False(t, ok)

	c.Prepend(notes.Note{ID: "3", Title: "moved"})
	assert.Equal(t, []string{"3", "5", "4", "2"}, ids(c.All()))
}

func TestCacheAllIsACopy(t *testing.T) {
	c := NewCache(sample())
	all := c.All()
	all[0].Title = "changed"
	n, _ := c.Get("1")
	assert.Equal(t, "Groceries", n.Title)

	src := sample()
	c.Replace(src)
	src[0].Title = "changed"
	n, _ = c.Get("1")
	assert.Equal(t, "Groceries", n.Title)
}
