package origin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workdeck/avatarproxy/internal/avatar"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchDirectPNG(t *testing.T) {
	t.Parallel()

	payload := []byte("png-payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12345", r.URL.Query().Get("userIds"))
		assert.Equal(t, "720x720", r.URL.Query().Get("size"))
		assert.Equal(t, "Png", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL}, discardLogger())
	got, err := c.Fetch(context.Background(), 12345, 720)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFetchMetadataIndirection(t *testing.T) {
	t.Parallel()

	payload := []byte("png-via-indirection")
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/v1/users/avatar", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"data":[{"targetId":9,"state":"Completed","imageUrl":"%s/img/9.png"}]}`, server.URL)
	})
	mux.HandleFunc("/img/9.png", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	})

	c := NewClient(Config{BaseURL: server.URL}, discardLogger())
	got, err := c.Fetch(context.Background(), 9, 180)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFetchPendingState(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"targetId":9,"state":"Pending","imageUrl":""}]}`)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL}, discardLogger())
	_, err := c.Fetch(context.Background(), 9, 180)
	require.ErrorIs(t, err, avatar.ErrOriginUnavailable)
}

func TestFetchNoData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL}, discardLogger())
	_, err := c.Fetch(context.Background(), 42, 180)
	require.ErrorIs(t, err, avatar.ErrOriginUnavailable)
}

func TestFetchNonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL}, discardLogger())
	_, err := c.Fetch(context.Background(), 1, 180)
	require.ErrorIs(t, err, avatar.ErrOriginUnavailable)
}

func TestFetchNetworkFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused

	c := NewClient(Config{BaseURL: server.URL}, discardLogger())
	_, err := c.Fetch(context.Background(), 1, 180)
	require.ErrorIs(t, err, avatar.ErrOriginUnavailable)
}

func TestFetchTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, discardLogger())

	start := time.Now()
	_, err := c.Fetch(context.Background(), 1, 180)
	require.ErrorIs(t, err, avatar.ErrOriginUnavailable)
	assert.Less(t, time.Since(start), time.Second, "fetch fails closed at the timeout")
}

func TestFetchRateLimiterHonorsContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("x"))
	}))
	defer server.Close()

	// Burst 1 at a very low rate: the second fetch would wait far longer
	// than the context allows.
	c := NewClient(Config{BaseURL: server.URL, RatePerSec: 0.001, Burst: 1}, discardLogger())

	_, err := c.Fetch(context.Background(), 1, 180)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Fetch(ctx, 2, 180)
	require.ErrorIs(t, err, avatar.ErrOriginUnavailable)
}
