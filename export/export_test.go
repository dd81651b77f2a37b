package export

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/value-iteration/models"
	"github.com/zeu5/value-iteration/solver"
)

func healthRecord(t *testing.T) *Record {
	config := solver.DefaultConfig()
	config.Gamma = 0.8
	config.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	result, err := solver.Solve(models.Health(), config)
	require.NoError(t, err)
	return NewRecord(result)
}

func TestNewRecord(t *testing.T) {
	r := healthRecord(t)
	assert.Equal(t, map[string]string{"healthy": "party", "sick": "relax"}, r.Policy)
	assert.InDelta(t, 35.71, r.Values["healthy"], 1e-2)
	assert.True(t, r.Converged)
	assert.Positive(t, r.Iterations)
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	r := healthRecord(t)

	sink := NewFileSink(dir)
	require.NoError(t, sink.Write(context.Background(), "health", r))

	bs, err := os.ReadFile(filepath.Join(dir, "health.json"))
	require.NoError(t, err)
	decoded := &Record{}
	require.NoError(t, json.Unmarshal(bs, decoded))
	assert.Equal(t, r, decoded)
}

func TestFileSinkRejectsPaths(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "results")
	sink := NewFileSink(dir)
	r := healthRecord(t)

	for _, name := range []string{"", ".", "..", "../escaped", "a/b", `a\b`} {
		require.ErrorIs(t, sink.Write(context.Background(), name, r), ErrInvalidName, name)
	}
	_, err := os.Stat(filepath.Join(root, "escaped.json"))
	require.True(t, os.IsNotExist(err))
}

func TestRedisSinkRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	sink := NewRedisSink(client, "vi")
	r := healthRecord(t)
	require.NoError(t, sink.Write(ctx, "health", r))
	assert.Equal(t, "relax", mr.HGet("vi:health:policy", "sick"))
	assert.Equal(t, "true", mr.HGet("vi:health:meta", "converged"))

	read, err := sink.Read(ctx, "health")
	require.NoError(t, err)
	assert.Equal(t, r, read)

	// a second write replaces the whole record
	r.Policy = map[string]string{"healthy": "relax"}
	r.Values = map[string]float64{"healthy": 1.5}
	r.Converged = false
	require.NoError(t, sink.Write(ctx, "health", r))
	read, err = sink.Read(ctx, "health")
	require.NoError(t, err)
	assert.Equal(t, r, read)

	_, err = sink.Read(ctx, "missing")
	require.ErrorIs(t, err, redis.Nil)
}

func TestRedisSinkUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	sink := NewRedisSink(client, "vi")
	assert.Equal(t, "vi:health:values", sink.key("health", "values"))
	require.Error(t, sink.Write(context.Background(), "health", healthRecord(t)))
	_, err := sink.Read(context.Background(), "health")
	require.Error(t, err)
}
