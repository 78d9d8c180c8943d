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

	"github.com/desertthunder/vidshelf/internal/models"
)

// MockSearcher is a test double for [services.Searcher].
//
// It records every query and returns Results or Err.
type MockSearcher struct {
	mu      sync.Mutex
	Results []models.Video
	Err     error
	Queries []string
	Keys    []string
}

func (m *MockSearcher) Search(ctx context.Context, query, apiKey string) ([]models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	m.Keys = append(m.Keys, apiKey)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}

// MockNavigator records redirects issued by the session guard.
type MockNavigator struct {
	Locations []string
}

func (m *MockNavigator) Redirect(location string) {
	m.Locations = append(m.Locations, location)
}

// Last returns the most recent redirect target, or "" when none happened.
func (m *MockNavigator) Last() string {
	if len(m.Locations) == 0 {
		return ""
	}
	return m.Locations[len(m.Locations)-1]
}

// FixedClock returns a clock function that advances by step on every call, starting at start.
func FixedClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := current
		current = current.Add(step)
		return t
	}
}

// SampleVideo builds a catalog video with predictable metadata.
func SampleVideo(id, title string) models.Video {
	return models.Video{
		ID:           id,
		Title:        title,
		ChannelTitle: "Channel " + id,
		Thumbnail:    "https://i.ytimg.com/vi/" + id + "/mqdefault.jpg",
		Duration:     "PT3M20S",
		ViewCount:    "12345",
	}
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

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
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
