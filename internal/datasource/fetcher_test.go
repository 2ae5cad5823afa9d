package datasource

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "nbadash/internal/errors"
	"nbadash/internal/infrastructure"
	"nbadash/internal/shared/testutil"
)

func TestFetcherFetch(t *testing.T) {
	dir := testutil.WriteDataDir(t, map[string]string{
		"players.csv": "PLAYER_NAME,PTS\nA,10\nB,\n",
	})
	logger, logs := testutil.NewTestLogger(t)
	f := NewFetcher(NewDirSource(dir), logger, WithMetrics(infrastructure.NoopBusinessMetrics()))

	doc, err := f.Fetch(context.Background(), "players.csv")
	require.NoError(t, err)
	assert.Len(t, doc.Records, 2)
	assert.True(t, logs.ContainsAttr("resource", "players.csv"))
	testutil.AssertNoErrors(t, logs)
}

func TestFetcherWrapsFailuresAsDataUnavailable(t *testing.T) {
	dir := testutil.WriteDataDir(t, map[string]string{"empty.csv": ""})
	logger, logs := testutil.NewTestLogger(t)
	f := NewFetcher(NewDirSource(dir), logger)

	tests := []struct {
		name     string
		resource string
	}{
		{name: "missing resource", resource: "missing.csv"},
		{name: "unparseable resource", resource: "empty.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := f.Fetch(context.Background(), tt.resource)
			assert.Nil(t, doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apierrors.ErrDataUnavailable))

			var appErr *apierrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.resource, appErr.Context["resource"])
		})
	}

	testutil.AssertLogContains(t, logs, slog.LevelError, "resource load failed")
}

func TestFetcherDoesNotCache(t *testing.T) {
	dir := testutil.WriteDataDir(t, map[string]string{"a.csv": "X\n1\n"})
	src := &countingSource{Source: NewDirSource(dir)}
	logger, _ := testutil.NewTestLogger(t)
	f := NewFetcher(src, logger)

	first, err := f.Fetch(context.Background(), "a.csv")
	require.NoError(t, err)
	second, err := f.Fetch(context.Background(), "a.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, src.opens)
	assert.Equal(t, first.Records, second.Records)
	assert.NotSame(t, first, second)
}

type countingSource struct {
	Source
	opens int
}

func (c *countingSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	c.opens++
	return c.Source.Open(ctx, name)
}
