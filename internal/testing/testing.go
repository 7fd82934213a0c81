// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/wavecrate/cuedex/internal/models"
)

// MockSearcher is a test double for [services.Searcher]. Results maps query
// text to the candidate URLs it should return; unknown queries return Err or
// an empty list.
type MockSearcher struct {
	mu       sync.Mutex
	Results  map[string][]string
	Err      error
	Delay    time.Duration
	searches []string
}

func (m *MockSearcher) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	m.mu.Lock()
	m.searches = append(m.searches, query)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}

	urls := m.Results[query]
	if len(urls) > maxResults {
		urls = urls[:maxResults]
	}
	return urls, nil
}

// Searches returns every query text issued so far, in order.
func (m *MockSearcher) Searches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searches...)
}

// MockFetcher is a test double for [services.Fetcher]. Pages maps URLs to
// release fields. Hang, when set, blocks forever ignoring the context so
// budget enforcement can be exercised.
type MockFetcher struct {
	mu      sync.Mutex
	Pages   map[string]models.ReleaseFields
	Err     error
	Hang    bool
	fetches []string
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (*models.ReleaseFields, error) {
	m.mu.Lock()
	m.fetches = append(m.fetches, url)
	m.mu.Unlock()

	if m.Hang {
		select {} // deliberately ignores ctx
	}
	if m.Err != nil {
		return nil, m.Err
	}

	fields, ok := m.Pages[url]
	if !ok {
		return nil, errors.New("page not found: " + url)
	}
	return &fields, nil
}

// Fetches returns every URL fetched so far, in order.
func (m *MockFetcher) Fetches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetches...)
}

// MockCache is an in-memory test double for the cache repository interface.
type MockCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string]string)}
}

func (m *MockCache) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *MockCache) Set(key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
