package postgrest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("missing URL", func(t *testing.T) {
		_, err := NewClient("", logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "URL is required")
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		client, err := NewClient("http://localhost:3000/", logger)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000", client.baseURL)
	})
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with schema", func(t *testing.T) {
		client, err := NewClient("http://localhost:3000", logger, WithSchema("tenant1"))
		require.NoError(t, err)
		assert.Equal(t, "tenant1", client.schema)
	})

	t.Run("with headers", func(t *testing.T) {
		client, err := NewClient("http://localhost:3000", logger,
			WithHeader("X-Custom", "1"),
			WithHeaders(map[string]string{"X-Other": "2"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "1", client.headers["X-Custom"])
		assert.Equal(t, "2", client.headers["X-Other"])
	})

	t.Run("with token auth", func(t *testing.T) {
		client, err := NewClient("http://localhost:3000", logger, WithTokenAuth("secret"))
		require.NoError(t, err)
		assert.Equal(t, "Bearer secret", client.headers["Authorization"])
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("http://localhost:3000", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("http://localhost:3000", logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.httpClient)
	})
}

func TestFrom(t *testing.T) {
	client := newTestClient(t, "http://localhost:3000", WithHeader("X-Custom", "1"))

	qb := client.From("movies")
	assert.Equal(t, "http://localhost:3000/movies", qb.req.url)
	assert.Equal(t, "1", qb.req.headers["X-Custom"])

	// Chains must not write back into client headers.
	qb.req.headers["X-Custom"] = "mutated"
	assert.Equal(t, "1", client.headers["X-Custom"])
}

func TestPing(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/", r.URL.Path)
			w.Write([]byte(`{"swagger":"2.0"}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		assert.Error(t, client.Ping(context.Background()))
	})
}

func TestClientEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movies", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		values := r.URL.Query()
		assert.Equal(t, "*", values.Get("select"))
		assert.Equal(t, "eq.1995", values.Get("year"))

		w.Header().Set("Content-Range", "0-0/1")
		w.Write([]byte(`[{"id":1,"title":"Heat","year":1995}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithTokenAuth("secret"))

	resp, err := client.From("movies").
		Select().
		Eq("year", "1995").
		Execute(context.Background(), WithCount(CountExact))
	require.NoError(t, err)

	var movies []struct {
		ID    int    `json:"id"`
		Title string `json:"title"`
		Year  int    `json:"year"`
	}
	require.NoError(t, resp.DecodeInto(&movies))
	require.Len(t, movies, 1)
	assert.Equal(t, "Heat", movies[0].Title)
	assert.Equal(t, int64(1), resp.Count)
}

func TestExecuteAll(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	builders := []ExecuteBuilder{
		client.From("movies").Select().ExecuteBuilder,
		client.From("directors").Select().ExecuteBuilder,
		client.From("genres").Select().ExecuteBuilder,
	}

	responses, err := ExecuteAll(context.Background(), 2, builders...)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	for _, resp := range responses {
		assert.Equal(t, http.StatusOK, resp.Status)
	}
	assert.Equal(t, int64(3), calls.Load())
}

func TestExecuteAllPropagatesFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := ExecuteAll(context.Background(), 0,
		client.From("movies").Select().ExecuteBuilder,
		client.From("broken").Select().ExecuteBuilder,
	)
	require.Error(t, err)

	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "boom", serverErr.Message)
}
