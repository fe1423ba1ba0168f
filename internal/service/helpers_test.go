package service

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// fakeUpstream serves a canned response and remembers what it was asked
type fakeUpstream struct {
	*httptest.Server

	mu       sync.Mutex
	calls    int
	lastURL  *url.URL
	lastPath string
}

func newFakeUpstream(t *testing.T, status int, body string) *fakeUpstream {
	t.Helper()

	f := &fakeUpstream{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls++
		f.lastURL = r.URL
		f.lastPath = r.URL.EscapedPath()
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)

	return f
}

func (f *fakeUpstream) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeUpstream) Query() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastURL == nil {
		return nil
	}
	return f.lastURL.Query()
}

func (f *fakeUpstream) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath
}
