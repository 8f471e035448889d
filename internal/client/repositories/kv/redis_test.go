package kv

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data map[string][]byte
	err  error
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: map[string][]byte{}} }

func toBytes(v interface{}) []byte {
	switch t := v.(type) {
	case []byte:
		return append([]byte(nil), t...)
	case string:
		return []byte(t)
	}
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = toBytes(value)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) MSet(ctx context.Context, values ...interface{}) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.data[values[i].(string)] = toBytes(values[i+1])
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Keys(ctx context.Context, pattern string) *redis.StringSliceCmd {
	if f.err != nil {
		return redis.NewStringSliceResult(nil, f.err)
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var out []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return redis.NewStringSliceResult(out, nil)
}

func TestRedis_SetGetUsesPrefix(t *testing.T) {
	fake := newFakeRedis()
	r := NewRedisRepository(fake, "ck:")
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "auth-storage", []byte(`{"user":null}`)))
	assert.Contains(t, fake.data, "ck:auth-storage")

	v, err := r.Get(ctx, "auth-storage")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"user":null}`), v)
}

func TestRedis_GetMissing_ReturnsNilNil(t *testing.T) {
	r := NewRedisRepository(newFakeRedis(), "ck:")

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRedis_ListAndClear_OnlyTouchPrefix(t *testing.T) {
	fake := newFakeRedis()
	fake.data["other:x"] = []byte("keep")
	r := NewRedisRepository(fake, "ck:")
	ctx := context.Background()

	require.NoError(t, r.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, m)

	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
	assert.Equal(t, []byte("keep"), fake.data["other:x"])
}

func TestRedis_Delete(t *testing.T) {
	fake := newFakeRedis()
	r := NewRedisRepository(fake, "")
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("v")))
	require.NoError(t, r.Delete(ctx, "k"))
	assert.NotContains(t, fake.data, "k")
}

func TestRedis_ErrorsAreWrapped(t *testing.T) {
	fake := newFakeRedis()
	fake.err = errors.New("conn refused")
	r := NewRedisRepository(fake, "ck:")
	ctx := context.Background()

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[k]: conn refused")
	require.ErrorContains(t, r.Set(ctx, "k", nil), "failed to set kv[k]")
	require.ErrorContains(t, r.SetMany(ctx, map[string][]byte{"k": nil}), "failed to set kv batch")
	require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete kv[k]")
	require.ErrorContains(t, r.Clear(ctx), "failed to clear kv")
	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list kv")
}
