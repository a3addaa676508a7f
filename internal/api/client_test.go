package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Config{BaseURL: srv.URL, APIKey: "secret", RateLimit: 1000, RateBurst: 100})
	c.backoff = func(int) time.Duration { return 0 }
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRequestHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		assert.Equal(t, "/spaces/cp00909ucQ", r.URL.Path)
		writeJSON(w, http.StatusOK, []any{map[string]any{"id": "s1"}})
	})

	spaces, err := c.ListSpaces(context.Background(), "cp00909ucQ")
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, "s1", spaces[0]["id"])
}

func TestListToleratesNonArrayBodies(t *testing.T) {
	for name, body := range map[string]string{
		"null":   "null",
		"object": `{"message":"nothing here"}`,
		"empty":  "",
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			epics, err := c.ListEpics(context.Background(), "p1")
			require.NoError(t, err)
			assert.NotNil(t, epics)
			assert.Empty(t, epics)
		})
	}
}

func TestEmptyBodyDecodesToEmptyObject(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	task, err := c.UpdateTask(context.Background(), "t1", map[string]any{"status": "done"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, task)
}

func TestPayloadIsSentAsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tasks", r.URL.Path)
		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "doing", got["status"])
		got["id"] = "t9"
		writeJSON(w, http.StatusCreated, got)
	})

	created, err := c.CreateTask(context.Background(), map[string]any{"title": "x", "status": "doing"})
	require.NoError(t, err)
	assert.Equal(t, "t9", created["id"])
}

func TestIdempotentRequestsRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := c.ListUsers(context.Background(), "cp00909ucQ")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPostIsNeverRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.CreateSpace(context.Background(), map[string]any{"name": "Core"})
	require.Error(t, err)
	assert.True(t, IsServerError(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no such task", http.StatusNotFound)
	})

	_, err := c.GetTask(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load())

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.MethodGet, httpErr.Method)
	assert.Equal(t, "/tasks/missing", httpErr.Path)
	assert.Contains(t, httpErr.Error(), "no such task")
}

func TestRetriesGiveUp(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := c.DeleteTask(context.Background(), "t1")
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, int32(1+defaultMaxRetries), calls.Load())
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New(Config{BaseURL: srv.URL, MaxRetries: -1})
	_, err := c.ListSpaces(context.Background(), "cp00909ucQ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/cp00909ucQ/ana@opus.dev%2Fx", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, map[string]any{"id": "u1"})
	})

	_, err := c.GetUser(context.Background(), "cp00909ucQ", "ana@opus.dev/x")
	require.NoError(t, err)
}

func TestListLabelsHydratesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/labels/space/s1":
			writeJSON(w, http.StatusOK, []any{
				map[string]any{"id": "l1", "name": "bug"},
				map[string]any{"id": "l2", "name": "ui", "color": "BLUE"},
			})
		case "/labels/l1":
			writeJSON(w, http.StatusOK, map[string]any{"id": "l1", "color": "RED", "spaceId": "s1"})
		default:
			http.NotFound(w, r)
		}
	})

	labels, err := c.ListLabels(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, map[string]any{"id": "l1", "name": "bug", "color": "RED", "spaceId": "s1"}, labels[0])
	assert.Equal(t, map[string]any{"id": "l2", "name": "ui", "color": "BLUE"}, labels[1])
}

func TestMergeDetailPrefersDetail(t *testing.T) {
	base := map[string]any{"id": "l1", "name": "bug"}
	merged := mergeDetail(base, map[string]any{"color": "RED", "name": "Bug"})
	assert.Equal(t, map[string]any{"id": "l1", "name": "Bug", "color": "RED"}, merged)
	assert.Equal(t, "bug", base["name"])
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListProjects(ctx, "cp00909ucQ")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
