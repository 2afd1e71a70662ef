package notes

import (
	"strings"
	"time"
)

const MaxTitleLength = 60

// Note is the one shape of a note shared by the API, the stores and the
// client.
type Note struct {
	ID         string    `json:"id" yaml:"id"`
	Title      string    `json:"title" yaml:"title"`
	Content    string    `json:"content" yaml:"content"`
	Tags       []string  `json:"tags" yaml:"tags"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`
}

// NoteInput is the body of a create request.
type NoteInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// NotePatch is the body of an update request. Nil fields are left alone.
type NotePatch struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil
}

// Apply returns a copy of n with the patch fields replaced.
func (p NotePatch) Apply(n Note) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = NormalizeTags(*p.Tags)
	}
	return n
}

// Envelope wraps every API response.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Empty is the payload of responses that carry no data; it encodes as {}.
type Empty struct{}

func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, Data: &data}
}

func Fail[T any](msg string) Envelope[T] {
	return Envelope[T]{Success: false, Error: msg}
}

// NormalizeTags trims every tag. Blank and duplicate entries are kept.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, strings.TrimSpace(t))
	}
	return out
}

// ParseTags splits a comma separated tag list the way the tag field of the
// editor does.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(s, ","))
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}
