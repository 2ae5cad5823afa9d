package datasource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbadash/internal/config"
)

func TestNewSource(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		wantType interface{}
		wantErr  bool
	}{
		{name: "https url", baseURL: "https://cdn.example.com/nba", wantType: &HTTPSource{}},
		{name: "http url", baseURL: "http://localhost:3000", wantType: &HTTPSource{}},
		{name: "file url", baseURL: "file:///srv/data", wantType: &DirSource{}},
		{name: "plain directory", baseURL: "public/data", wantType: &DirSource{}},
		{name: "unsupported scheme", baseURL: "s3://bucket/data", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(config.DataConfig{BaseURL: tt.baseURL})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, src)
		})
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/static/nba_players_info.csv":
			w.Header().Set("Content-Type", "text/csv")
			_, _ = io.WriteString(w, "PLAYER_NAME\nA\n")
		case "/static/slow.csv":
			<-r.Context().Done()
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/static")
	require.NoError(t, err)
	src := NewHTTPSource(base, srv.Client())

	t.Run("fetches relative to base", func(t *testing.T) {
		rc, err := src.Open(context.Background(), "nba_players_info.csv")
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "PLAYER_NAME\nA\n", string(body))
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		_, err := src.Open(context.Background(), "missing.csv")
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	})

	t.Run("context cancellation ends the fetch", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := src.Open(ctx, "slow.csv")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	assert.Equal(t, srv.URL+"/static/", src.Location())
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("X\n1\n"), 0o644))
	src := NewDirSource(dir)

	rc, err := src.Open(context.Background(), "a.csv")
	require.NoError(t, err)
	rc.Close()

	_, err = src.Open(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = src.Open(context.Background(), "../etc/passwd")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Open(ctx, "a.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("X\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"), nil, 0o644))
	src := NewDirSource(dir)

	assert.NoError(t, Probe(context.Background(), src, "a.csv", time.Second))
	assert.NoError(t, Probe(context.Background(), src, "empty.csv", 0))
	assert.Error(t, Probe(context.Background(), src, "nope.csv", time.Second))
}
