package workspace

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/opus-software/opus/internal/api"
	"github.com/opus-software/opus/internal/store"
)

// fakeRemote serves canned JSON for the REST endpoints and records every
// request it receives.
type fakeRemote struct {
	mu       sync.Mutex
	lists    map[string][]any          // GET path -> array body
	objects  map[string]map[string]any // any method+path -> object body
	failures map[string]int            // method+path -> status
	requests []recorded
}

type recorded struct {
	Method string
	Path   string
	Body   map[string]any
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		lists:    map[string][]any{},
		objects:  map[string]map[string]any{},
		failures: map[string]int{},
	}
}

func (f *fakeRemote) list(path string, items ...map[string]any) {
	body := make([]any, len(items))
	for i, it := range items {
		body[i] = it
	}
	f.lists[path] = body
}

func (f *fakeRemote) respond(method, path string, body map[string]any) {
	f.objects[method+" "+path] = body
}

func (f *fakeRemote) fail(method, path string, status int) {
	f.failures[method+" "+path] = status
}

func (f *fakeRemote) calls(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeRemote) last(method, path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if r := f.requests[i]; r.Method == method && r.Path == path {
			return r.Body
		}
	}
	return nil
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.requests = append(f.requests, recorded{Method: r.Method, Path: r.URL.Path, Body: body})
	key := r.Method + " " + r.URL.Path
	status, failing := f.failures[key]
	obj, hasObj := f.objects[key]
	items, hasList := f.lists[r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case failing:
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"rejected"}`))
	case hasObj:
		_ = json.NewEncoder(w).Encode(obj)
	case r.Method == http.MethodGet && hasList:
		_ = json.NewEncoder(w).Encode(items)
	case r.Method == http.MethodGet:
		// detail lookups such as /labels/{id} fall through to 404
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPost || r.Method == http.MethodPut:
		// echo the payload back like the real service does
		_ = json.NewEncoder(w).Encode(body)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// newTestWorkspace wires a workspace to a fake remote through the real API
// client.
func newTestWorkspace(t *testing.T, opts ...Option) (*Workspace, *fakeRemote) {
	t.Helper()
	fake := newFakeRemote()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := api.New(api.Config{BaseURL: srv.URL, APIKey: "test", MaxRetries: -1, RateLimit: 1000, RateBurst: 100})
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(client, store.New(""), opts...), fake
}

var testNow = time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
