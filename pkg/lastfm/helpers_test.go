package lastfm

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

const xmlHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// lfmOK wraps inner in a successful <lfm> document.
func lfmOK(inner string) string {
	return xmlHeader + `<lfm status="ok">` + inner + `</lfm>`
}

// lfmFailed builds an <lfm status="failed"> document.
func lfmFailed(code int, message string) string {
	return xmlHeader + `<lfm status="failed"><error code="` + strconv.Itoa(code) + `">` + message + `</error></lfm>`
}

// newTestClient starts a server running handler and returns a client
// pointed at it with millisecond retry backoff.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:       "test-api-key",
		APISecret:    "test-secret",
		BaseURL:      server.URL,
		RetryBackoff: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

// methodServer answers each API method with a canned body and counts the
// requests per method.
type methodServer struct {
	t         *testing.T
	responses map[string]string
	calls     map[string]*atomic.Int32
	lastQuery atomic.Value
}

func newMethodServer(t *testing.T, responses map[string]string) *methodServer {
	s := &methodServer{t: t, responses: responses, calls: make(map[string]*atomic.Int32)}
	for method := range responses {
		s.calls[method] = new(atomic.Int32)
	}
	return s
}

func (s *methodServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.t.Errorf("failed to parse form: %v", err)
	}
	s.lastQuery.Store(r.Form)

	method := r.FormValue("method")
	body, ok := s.responses[method]
	if !ok {
		body, ok = s.responses[r.URL.Path]
		method = r.URL.Path
	}
	if !ok {
		s.t.Errorf("unexpected request %s %s", r.Method, r.URL)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.calls[method].Add(1)

	w.Header().Set("Content-Type", "text/xml")
	if _, err := w.Write([]byte(body)); err != nil {
		s.t.Errorf("failed to write response body: %v", err)
	}
}

func (s *methodServer) count(method string) int {
	c, ok := s.calls[method]
	if !ok {
		return 0
	}
	return int(c.Load())
}

// query returns the form values of the last request.
func (s *methodServer) query() url.Values {
	v, _ := s.lastQuery.Load().(url.Values)
	return v
}

func (s *methodServer) client() *Client {
	return newTestClient(s.t, s.ServeHTTP)
}
