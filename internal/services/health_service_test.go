package services

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nbadash/internal/shared/testutil"
)

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestHealthService_HealthCheck(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "https://example.com/repo", nil, logger)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		sourceErr  error
		archiveErr error
		wantStatus string
	}{
		{"all ready", nil, nil, "ready"},
		{"source down", errors.New("connection refused"), nil, "not_ready"},
		{"archive down", nil, errors.New("database is locked"), "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(MockPinger)
			source.On("Ping", mock.Anything).Return(tt.sourceErr)
			archive := new(MockPinger)
			archive.On("Ping", mock.Anything).Return(tt.archiveErr)

			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService("1.0.0", "", map[string]Pinger{
				"data_source": source,
				"archive":     archive,
			}, logger)

			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, status.Status)
			require.Len(t, status.Services, 2)

			sh := status.Services["data_source"].(ServiceHealth)
			if tt.sourceErr != nil {
				assert.Equal(t, "not_ready", sh.Status)
				assert.Contains(t, sh.Message, tt.sourceErr.Error())
			} else {
				assert.Equal(t, "ready", sh.Status)
			}

			source.AssertExpectations(t)
			archive.AssertExpectations(t)
		})
	}
}

func TestHealthService_ReadinessWithoutDependencies(t *testing.T) {
	hs := NewHealthService("1.0.0", "", nil, nil)
	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status)
	assert.Empty(t, status.Services)
}

func TestHealthService_PingFunc(t *testing.T) {
	called := false
	hs := NewHealthService("1.0.0", "", map[string]Pinger{
		"fn": PingFunc(func(ctx context.Context) error {
			called = true
			_, ok := ctx.Deadline()
			assert.True(t, ok, "checks run under a timeout")
			return nil
		}),
	}, nil)

	assert.Equal(t, "ready", hs.ReadinessCheck(context.Background()).Status)
	assert.True(t, called)
}

func TestHealthService_LivenessCheck(t *testing.T) {
	hs := NewHealthService("1.0.0", "", nil, nil)

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Equal(t, runtime.Version(), status.Runtime["go_version"])
	assert.Contains(t, status.Runtime, "uptime")
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthServiceWithBuildInfo("2.0.0", "https://example.com/repo", "2026-01-01T00:00:00Z", "abc123", nil, nil)

	v := hs.Version()
	assert.Equal(t, "2.0.0", v["version"])
	assert.Equal(t, "https://example.com/repo", v["repo_url"])
	assert.Equal(t, "2026-01-01T00:00:00Z", v["build_time"])
	assert.Equal(t, "abc123", v["build_id"])

	plain := NewHealthService("2.0.0", "", nil, nil).Version()
	assert.NotContains(t, plain, "build_time")
}
