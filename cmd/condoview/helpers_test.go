package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/condoview/internal/api"
	"github.com/cristianoliveira/condoview/internal/config"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/logging"
	"github.com/cristianoliveira/condoview/internal/mockserver"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures CLI notifications.
type recordingHandler struct {
	mu       sync.Mutex
	errors   []string
	warnings []string
	infos    []string
	success  []string
}

func (h *recordingHandler) Error(msg string)   { h.add(&h.errors, msg) }
func (h *recordingHandler) Warning(msg string) { h.add(&h.warnings, msg) }
func (h *recordingHandler) Info(msg string)    { h.add(&h.infos, msg) }
func (h *recordingHandler) Success(msg string) { h.add(&h.success, msg) }

func (h *recordingHandler) add(dst *[]string, msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	*dst = append(*dst, msg)
}

// testBackend is a seeded mock backend served over httptest.
type testBackend struct {
	store *mockserver.Store
	url   string
}

func newTestBackend(t *testing.T, seed int) *testBackend {
	t.Helper()
	store, err := mockserver.OpenStore(filepath.Join(t.TempDir(), "mock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, err = mockserver.Seed(context.Background(), store, seed)
	require.NoError(t, err)

	srv := httptest.NewServer(mockserver.NewHandler(store, mockserver.Options{}))
	t.Cleanup(srv.Close)
	return &testBackend{store: store, url: srv.URL + "/api"}
}

// loader returns a session loader talking to the backend with scope.
func (b *testBackend) loader(t *testing.T, scope domain.Scope) sessionLoader {
	t.Helper()
	return loaderFor(t, b.url, scope)
}

func loaderFor(t *testing.T, baseURL string, scope domain.Scope) sessionLoader {
	t.Helper()
	client, err := api.New(api.Config{BaseURL: baseURL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	s := &session{
		client: client,
		settings: config.ClientSettings{
			APIURL:         baseURL,
			Scope:          scope,
			PageSize:       10,
			RequestTimeout: 5 * time.Second,
		},
		logger: logging.Noop(),
	}
	return func() (*session, error) { return s, nil }
}

// execute runs c with args and returns everything written to its output.
func execute(c *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	c.SilenceUsage = true
	c.SilenceErrors = true
	err := c.ExecuteContext(context.Background())
	return out.String(), err
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
