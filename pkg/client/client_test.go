package client_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrshanahan/notes-web/internal/api"
	"github.com/mrshanahan/notes-web/pkg/client"
	"github.com/mrshanahan/notes-web/pkg/notes"
	notesdb "github.com/mrshanahan/notes-web/pkg/notes-db"
)

func startServer(t *testing.T) *client.Client {
	t.Helper()
	store, err := notesdb.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "notes.sqlite"))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- api.Serve(ctx, api.NewApp(store, api.Config{}), ln) }()
	t.Cleanup(func() {
		cancel()
		<-done
		store.Close()
	})

	return client.NewClient("http://" + ln.Addr().String())
}

func strPtr(s string) *string { return &s }

func TestClientAgainstServer(t *testing.T) {
	ctx := context.Background()
	c := startServer(t)

	list, err := c.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := c.CreateNote(ctx, notes.NoteInput{Title: "Groceries", Content: "milk, eggs", Tags: []string{"home"}})
	require.NoError(t, err)
	require.True(t, created.Success, created.Error)
	id := created.Data.ID

	got, err := c.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)

	updated, err := c.UpdateNote(ctx, id, notes.NotePatch{Content: strPtr("milk, eggs, bread")})
	require.NoError(t, err)
	require.True(t, updated.Success)
	assert.Equal(t, "Groceries", updated.Data.Title)
	assert.Equal(t, "milk, eggs, bread", updated.Data.Content)

	list, err = c.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	deleted, err := c.DeleteNote(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted.Success)

	again, err := c.DeleteNote(ctx, id)
	require.NoError(t, err, "an unsuccessful delete is returned as an envelope")
	assert.False(t, again.Success)
	assert.Equal(t, "Note not found", again.Error)

	_, err = c.GetNote(ctx, id)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Note not found", apiErr.Message)
}

func TestCreateValidationReturnsEnvelope(t *testing.T) {
	c := startServer(t)

	env, err := c.CreateNote(context.Background(), notes.NoteInput{Title: "", Content: "c"})
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, "title is required", env.Error)
}

func cannedServer(t *testing.T, status int, body string) *client.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return client.NewClient(srv.URL)
}

func TestListNotesFailures(t *testing.T) {
	ctx := context.Background()

	_, err := cannedServer(t, http.StatusBadRequest, `{"success":false,"error":"db down"}`).ListNotes(ctx)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "db down", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	_, err = cannedServer(t, http.StatusOK, `{"success":true}`).ListNotes(ctx)
	require.Error(t, err)
	assert.Equal(t, "failed to fetch notes", err.Error())

	_, err = cannedServer(t, http.StatusOK, `{"success":false}`).GetNote(ctx, "x")
	require.Error(t, err)
	assert.Equal(t, "failed to fetch note", err.Error())
}

func TestUndecodableBody(t *testing.T) {
	_, err := cannedServer(t, http.StatusBadGateway, "<html>bad gateway</html>").CreateNote(context.Background(), notes.NoteInput{Title: "t", Content: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestTransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = client.NewClient("http://"+addr).ListNotes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error invoking API")
}
