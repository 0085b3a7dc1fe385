package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/comprof"
	comprofhttp "github.com/fwojciec/comprof/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns the page with metadata and content hash", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Acme</body></html>"))
		}))
		defer server.Close()

		fetcher := comprofhttp.NewFetcher()
		defer fetcher.Close()

		page, err := fetcher.Fetch(context.Background(), server.URL, "")
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Acme</body></html>", page.Body)
		assert.Equal(t, http.StatusOK, page.StatusCode)
		assert.Equal(t, server.URL, page.FinalURL)
		assert.NotEmpty(t, page.ContentHash)
		assert.False(t, page.FetchedAt.IsZero())
	})

	t.Run("sends the configured user agent", func(t *testing.T) {
		t.Parallel()

		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		fetcher := comprofhttp.NewFetcher(comprofhttp.WithUserAgent("test-agent/1.0"))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL, "")
		require.NoError(t, err)
		assert.Equal(t, "test-agent/1.0", gotUA)
	})

	t.Run("classifies non-2xx statuses", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status          int
			transient       bool
			proxyAttributed bool
		}{
			{status: http.StatusNotFound, transient: false, proxyAttributed: false},
			{status: http.StatusTooManyRequests, transient: true, proxyAttributed: true},
			{status: http.StatusInternalServerError, transient: true, proxyAttributed: false},
			{status: http.StatusBadGateway, transient: true, proxyAttributed: false},
		}

		for _, tt := range tests {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			fetcher := comprofhttp.NewFetcher()
			_, err := fetcher.Fetch(context.Background(), server.URL, "")
			require.Error(t, err)

			var fetchErr *comprof.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, comprof.FetchHTTPStatus, fetchErr.Kind)
			assert.Equal(t, tt.status, fetchErr.Status)
			assert.Equal(t, tt.transient, fetchErr.Transient(), "status %d", tt.status)
			assert.Equal(t, tt.proxyAttributed, fetchErr.ProxyAttributed(), "status %d", tt.status)

			fetcher.Close()
			server.Close()
		}
	})

	t.Run("classifies timeouts", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		}))
		defer server.Close()

		fetcher := comprofhttp.NewFetcher(comprofhttp.WithTimeout(10 * time.Millisecond))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), server.URL, "")
		require.Error(t, err)

		var fetchErr *comprof.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, comprof.FetchTimeout, fetchErr.Kind)
		assert.True(t, fetchErr.Transient())
		assert.True(t, fetchErr.ProxyAttributed())
	})

	t.Run("classifies connection failures as network errors", func(t *testing.T) {
		t.Parallel()

		fetcher := comprofhttp.NewFetcher(comprofhttp.WithTimeout(500 * time.Millisecond))
		defer fetcher.Close()

		// Reserved TEST-NET-1 address; nothing listens there.
		_, err := fetcher.Fetch(context.Background(), "http://192.0.2.1:81/", "")
		require.Error(t, err)

		var fetchErr *comprof.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.True(t, fetchErr.Transient())
	})

	t.Run("routes requests through the proxy", func(t *testing.T) {
		t.Parallel()

		var proxied bool
		proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			proxied = true
			_, _ = w.Write([]byte("via proxy"))
		}))
		defer proxy.Close()

		fetcher := comprofhttp.NewFetcher()
		defer fetcher.Close()

		page, err := fetcher.Fetch(context.Background(), "http://upstream.invalid/profile", proxy.URL)
		require.NoError(t, err)
		assert.True(t, proxied)
		assert.Equal(t, "via proxy", page.Body)
	})

	t.Run("rejects an invalid proxy URL", func(t *testing.T) {
		t.Parallel()

		fetcher := comprofhttp.NewFetcher()
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), "http://example.com", "::not-a-proxy::")
		require.Error(t, err)
		assert.Equal(t, comprof.EINVALID, comprof.ErrorCode(err))
	})
}
