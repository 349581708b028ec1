package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		expectError bool
	}{
		{
			name:        "invalid URL",
			url:         "invalid://url",
			expectError: true,
		},
		{
			name:        "empty URL",
			url:         "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, "test", zap.NewNop())
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, client)
			}
		})
	}
}

func TestClient_GetSet(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "test:key1", "value1", time.Minute))

	got, err := client.Get(ctx, "test:key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", got)

	_, err = client.Get(ctx, "test:missing")
	assert.ErrorIs(t, err, Nil)

	// TTL is applied
	mr.FastForward(2 * time.Minute)
	_, err = client.Get(ctx, "test:key1")
	assert.ErrorIs(t, err, Nil)
}

func TestClient_Delete(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "test:key1", "value1", 0))
	require.NoError(t, client.Delete(ctx, "test:key1"))

	n, err := client.Exists(ctx, "test:key1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestKeyBuilder(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantPrefix  string
	}{
		{name: "production uses prod prefix", environment: "production", wantPrefix: "prod"},
		{name: "development uses staging prefix", environment: "development", wantPrefix: "staging"},
		{name: "test uses staging prefix", environment: "test", wantPrefix: "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.wantPrefix, kb.GetPrefix())
			assert.Equal(t, tt.wantPrefix+":session:abc", kb.KeySession("abc"))
			assert.Equal(t, tt.wantPrefix+":session:abc:suggested", kb.KeySuggestedStash("abc"))
		})
	}
}
